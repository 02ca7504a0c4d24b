package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "cv-eval-service", cfg.App.Name)
				assert.Equal(t, 4, cfg.Worker.Concurrency)
				assert.Equal(t, 64, cfg.Worker.QueueSize)
				assert.Equal(t, "openai", cfg.LLM.Provider)
				assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
				assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
				assert.Equal(t, 2*time.Second, cfg.LLM.Retry.BaseDelay)
				assert.Equal(t, "memory", cfg.Retrieval.Backend)
				assert.Equal(t, 3, cfg.Retrieval.TopK)
				assert.Equal(t, "./uploads", cfg.Files.UploadDir)
			}
		})
	}
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load("testdata/valid_config.yaml")
	require.NoError(t, err)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errString string
	}{
		{
			name:   "valid config passes",
			mutate: func(*Config) {},
		},
		{
			name:      "port out of range",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			errString: "invalid server port",
		},
		{
			name:      "zero concurrency",
			mutate:    func(c *Config) { c.Worker.Concurrency = 0 },
			errString: "worker concurrency",
		},
		{
			name:      "zero queue size",
			mutate:    func(c *Config) { c.Worker.QueueSize = 0 },
			errString: "worker queue_size",
		},
		{
			name:      "unknown provider",
			mutate:    func(c *Config) { c.LLM.Provider = "claude" },
			errString: "unknown llm provider",
		},
		{
			name:      "zero request timeout",
			mutate:    func(c *Config) { c.LLM.RequestTimeout = 0 },
			errString: "request_timeout",
		},
		{
			name:      "unknown retrieval backend",
			mutate:    func(c *Config) { c.Retrieval.Backend = "redis" },
			errString: "unknown retrieval backend",
		},
		{
			name: "weaviate backend without host",
			mutate: func(c *Config) {
				c.Retrieval.Backend = "weaviate"
				c.Retrieval.Weaviate.ClassName = "EvaluationContext"
			},
			errString: "weaviate host is required",
		},
		{
			name:      "zero top_k",
			mutate:    func(c *Config) { c.Retrieval.TopK = 0 },
			errString: "top_k",
		},
		{
			name:      "missing upload dir",
			mutate:    func(c *Config) { c.Files.UploadDir = "" },
			errString: "upload_dir",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errString == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			}
		})
	}
}
