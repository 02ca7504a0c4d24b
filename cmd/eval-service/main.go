package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/hireflow/cv-eval-service/internal/api/handler"
	"github.com/hireflow/cv-eval-service/internal/api/router"
	"github.com/hireflow/cv-eval-service/internal/config"
	"github.com/hireflow/cv-eval-service/internal/extract"
	"github.com/hireflow/cv-eval-service/internal/orchestrator"
	"github.com/hireflow/cv-eval-service/internal/provider"
	"github.com/hireflow/cv-eval-service/internal/registry"
	"github.com/hireflow/cv-eval-service/internal/retrieval"
	"github.com/hireflow/cv-eval-service/internal/retry"
	"github.com/hireflow/cv-eval-service/shared/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	// Parse command-line flags
	defaultConfigPath := os.Getenv("EVAL_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	appLogger := logger.New(&logger.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		Output:       cfg.Logging.Output,
		EnableSource: cfg.Logging.EnableCaller,
	})

	appLogger.Info("Starting evaluation service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	// Build the provider fallback chain
	providers, err := buildProviders(ctx, &cfg.LLM, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize providers: %w", err)
	}

	// Build the context store
	store, err := buildContextStore(&cfg.Retrieval, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize context store: %w", err)
	}

	// Initialize orchestrator
	orch, err := orchestrator.New(orchestrator.Config{
		Concurrency:     cfg.Worker.Concurrency,
		QueueSize:       cfg.Worker.QueueSize,
		ContextTopK:     cfg.Retrieval.TopK,
		ProviderTimeout: cfg.LLM.RequestTimeout,
		ProviderRetry:   toRetryPolicy(cfg.LLM.Retry),
		RetrievalRetry:  toRetryPolicy(cfg.Retrieval.Retry),
		Retention:       cfg.Worker.Retention,
		JanitorInterval: cfg.Worker.JanitorInterval,
	}, orchestrator.Deps{
		Logger:       appLogger,
		Registry:     registry.New(appLogger),
		Providers:    providers,
		ContextStore: store,
		Extractor:    extract.NewFileExtractor(cfg.Files.UploadDir),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize orchestrator: %w", err)
	}

	orch.Start(ctx)

	// Initialize router
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := router.SetupRouter(&handler.Dependencies{
		Logger:       appLogger,
		Orchestrator: orch,
	})

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	appLogger.Info("Evaluation service is running", slog.String("address", addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", slog.Any("error", err))
		return err
	}

	// Let in-flight evaluations finish before exiting
	orch.Stop()

	appLogger.Info("Server shutdown complete")
	return nil
}

// buildProviders constructs the provider fallback chain from configuration.
// API keys are read from the environment only.
func buildProviders(ctx context.Context, cfg *config.LLMConfig, logger *slog.Logger) ([]provider.Provider, error) {
	var providers []provider.Provider

	switch cfg.Provider {
	case "openai":
		p, err := provider.NewOpenAI(provider.OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
			Timeout: cfg.RequestTimeout,
		})
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	case "gemini":
		p, err := provider.NewGemini(ctx, provider.GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  cfg.Gemini.Model,
		})
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	case "mock":
		providers = append(providers, provider.NewMock())
	}

	if cfg.FallbackToMock && cfg.Provider != "mock" {
		logger.Info("Mock provider registered as fallback")
		providers = append(providers, provider.NewMock())
	}

	return providers, nil
}

// buildContextStore constructs the retrieval backend. A nil store disables
// retrieval; the memory backend ships with seeded reference documents.
func buildContextStore(cfg *config.RetrievalConfig, logger *slog.Logger) (retrieval.ContextStore, error) {
	switch cfg.Backend {
	case "weaviate":
		return retrieval.NewWeaviateStore(retrieval.WeaviateConfig{
			Host:      cfg.Weaviate.Host,
			Scheme:    cfg.Weaviate.Scheme,
			APIKey:    os.Getenv("WEAVIATE_API_KEY"),
			ClassName: cfg.Weaviate.ClassName,
		}, logger)
	case "memory":
		logger.Info("Using in-memory context store with seeded documents")
		return retrieval.NewMemoryStore(retrieval.DefaultDocuments()), nil
	default:
		return nil, nil
	}
}

func toRetryPolicy(cfg config.RetryConfig) retry.Policy {
	return retry.Policy{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   cfg.BaseDelay,
		MaxDelay:    cfg.MaxDelay,
		Jitter:      cfg.Jitter,
	}
}
