package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	App       AppConfig       `yaml:"app"`
	Worker    WorkerConfig    `yaml:"worker"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Files     FilesConfig     `yaml:"files"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	EnableCaller bool   `yaml:"enable_caller"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// WorkerConfig holds evaluation worker pool configuration
type WorkerConfig struct {
	Concurrency     int           `yaml:"concurrency"`
	QueueSize       int           `yaml:"queue_size"`
	Retention       time.Duration `yaml:"retention"`
	JanitorInterval time.Duration `yaml:"janitor_interval"`
}

// LLMConfig holds provider selection and call settings. API keys come from
// the environment, never from this file.
type LLMConfig struct {
	// Provider selects the primary provider: openai, gemini or mock.
	Provider       string        `yaml:"provider"`
	FallbackToMock bool          `yaml:"fallback_to_mock"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	OpenAI         OpenAIConfig  `yaml:"openai"`
	Gemini         GeminiConfig  `yaml:"gemini"`
	Retry          RetryConfig   `yaml:"retry"`
}

// OpenAIConfig holds OpenAI-specific settings
type OpenAIConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// GeminiConfig holds Gemini-specific settings
type GeminiConfig struct {
	Model string `yaml:"model"`
}

// RetryConfig holds backoff settings for retried operations
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
	Jitter      float64       `yaml:"jitter"`
}

// RetrievalConfig holds context store configuration
type RetrievalConfig struct {
	// Backend selects the context store: weaviate, memory or none.
	Backend  string         `yaml:"backend"`
	TopK     int            `yaml:"top_k"`
	Weaviate WeaviateConfig `yaml:"weaviate"`
	Retry    RetryConfig    `yaml:"retry"`
}

// WeaviateConfig holds Weaviate connection settings
type WeaviateConfig struct {
	Host      string `yaml:"host"`
	Scheme    string `yaml:"scheme"`
	ClassName string `yaml:"class_name"`
}

// FilesConfig holds uploaded-document settings
type FilesConfig struct {
	UploadDir string `yaml:"upload_dir"`
}

// Load reads and parses the configuration file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if c.Worker.Concurrency <= 0 {
		return fmt.Errorf("worker concurrency must be greater than 0")
	}

	if c.Worker.QueueSize <= 0 {
		return fmt.Errorf("worker queue_size must be greater than 0")
	}

	switch c.LLM.Provider {
	case "openai", "gemini", "mock":
	default:
		return fmt.Errorf("unknown llm provider: %q (must be openai, gemini or mock)", c.LLM.Provider)
	}

	if c.LLM.RequestTimeout <= 0 {
		return fmt.Errorf("llm request_timeout must be greater than 0")
	}

	switch c.Retrieval.Backend {
	case "weaviate":
		if c.Retrieval.Weaviate.Host == "" {
			return fmt.Errorf("weaviate host is required when backend is weaviate")
		}
		if c.Retrieval.Weaviate.ClassName == "" {
			return fmt.Errorf("weaviate class_name is required when backend is weaviate")
		}
	case "memory", "none":
	default:
		return fmt.Errorf("unknown retrieval backend: %q (must be weaviate, memory or none)", c.Retrieval.Backend)
	}

	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval top_k must be greater than 0")
	}

	if c.Files.UploadDir == "" {
		return fmt.Errorf("files upload_dir is required")
	}

	return nil
}
