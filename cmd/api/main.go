package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arkhealth/referral-intake/backend/internal/adapters/email"
	"github.com/arkhealth/referral-intake/backend/internal/adapters/emr"
	"github.com/arkhealth/referral-intake/backend/internal/adapters/ocr"
	"github.com/arkhealth/referral-intake/backend/internal/adapters/queue"
	"github.com/arkhealth/referral-intake/backend/internal/adapters/status"
	"github.com/arkhealth/referral-intake/backend/internal/api/handlers"
	"github.com/arkhealth/referral-intake/backend/internal/api/routes"
	"github.com/arkhealth/referral-intake/backend/internal/application/services"
	"github.com/arkhealth/referral-intake/backend/internal/infrastructure/clients/openai"
	"github.com/arkhealth/referral-intake/backend/internal/infrastructure/clients/redis"
	"github.com/arkhealth/referral-intake/backend/internal/infrastructure/observability"
	"github.com/arkhealth/referral-intake/backend/pkg/config"
	"github.com/arkhealth/referral-intake/backend/pkg/secrets"
)

func main() {
	// Vault secrets populate the environment before configuration reads it
	vaultResult, err := secrets.ApplyVaultSecrets(context.Background(), secrets.LoadVaultConfigFromEnv(""))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load Vault secrets")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize structured logging
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	log.Info().
		Str("service", cfg.OTEL.ServiceName).
		Str("version", cfg.OTEL.ServiceVersion).
		Str("env", cfg.Env).
		Msg("Starting referral intake API")

	if vaultResult.Enabled {
		log.Info().
			Str("path", vaultResult.Path).
			Int("loaded", vaultResult.Loaded).
			Int("skipped", vaultResult.Skipped).
			Msg("Vault secrets applied")
	}

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	// Initialize Redis client. The queue and the status store both live on
	// it, so unlike a cache there is no degraded mode without it.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Redis client")
	}
	defer redisClient.Close()
	log.Info().Msg("Redis client initialized successfully")

	// Initialize OpenAI client
	openaiClient, err := openai.NewClient(&cfg.OpenAI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize OpenAI client")
	}
	log.Info().Str("model", cfg.OpenAI.Model).Msg("OpenAI client initialized successfully")

	// Initialize adapters
	jobQueue := queue.NewRedisJobQueue(redisClient, cfg.Queue.Key, cfg.Queue.PopTimeoutSeconds)
	statusStore := status.NewRedisStatusStore(redisClient, cfg.Status.TTLSeconds)
	recognizer := ocr.NewMockRecognizer()
	emrConnector := emr.NewMockConnector()
	emailSender := email.NewMockSender()

	// Initialize services
	extractionService := services.NewExtractionService(openaiClient)
	validationService := services.NewValidationService()
	dispatchService := services.NewDispatchService(openaiClient, emrConnector, emailSender)
	intakeService := services.NewIntakeService(recognizer, jobQueue, statusStore)
	pipelineService := services.NewPipelineService(
		extractionService,
		validationService,
		dispatchService,
		statusStore,
		metrics,
	)

	// Start the in-process agent supervisor
	supervisor := services.NewAgentSupervisor(
		jobQueue,
		pipelineService,
		metrics,
		cfg.Agents.Count,
		time.Duration(cfg.Agents.RestartDelaySeconds)*time.Second,
	)
	supervisor.Start(ctx)

	// Initialize handlers
	documentHandler := handlers.NewDocumentHandler(intakeService, jobQueue, statusStore, cfg.Upload.MaxBytes)
	healthHandler := handlers.NewHealthHandler(redisClient)

	// Set up router
	router := routes.NewRouter(documentHandler, healthHandler, metrics)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("address", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Stop accepting requests first, then stop the workers. Jobs already
	// queued survive in Redis and are picked up on the next start.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	supervisor.Stop()

	log.Info().Msg("Server stopped")
}
