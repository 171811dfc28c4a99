package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arkhealth/referral-intake/backend/internal/adapters/email"
	"github.com/arkhealth/referral-intake/backend/internal/adapters/emr"
	"github.com/arkhealth/referral-intake/backend/internal/adapters/queue"
	"github.com/arkhealth/referral-intake/backend/internal/adapters/status"
	"github.com/arkhealth/referral-intake/backend/internal/application/services"
	"github.com/arkhealth/referral-intake/backend/internal/infrastructure/clients/openai"
	"github.com/arkhealth/referral-intake/backend/internal/infrastructure/clients/redis"
	"github.com/arkhealth/referral-intake/backend/internal/infrastructure/observability"
	"github.com/arkhealth/referral-intake/backend/pkg/config"
	"github.com/arkhealth/referral-intake/backend/pkg/secrets"
)

// Standalone worker pool. Runs the same pipeline as the agents embedded in
// the API server, against the same Redis queue, so worker capacity can be
// scaled separately from the HTTP tier.
func main() {
	var agents int
	var queueTimeout int
	flag.IntVar(&agents, "agents", 0, "number of worker slots (overrides AGENT_COUNT)")
	flag.IntVar(&queueTimeout, "queue-timeout", 0, "blocking pop timeout in seconds (overrides QUEUE_POP_TIMEOUT_SECONDS)")
	flag.Parse()

	// Vault secrets populate the environment before configuration reads it
	vaultResult, err := secrets.ApplyVaultSecrets(context.Background(), secrets.LoadVaultConfigFromEnv(""))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load Vault secrets")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if agents > 0 {
		cfg.Agents.Count = agents
	}
	if queueTimeout > 0 {
		cfg.Queue.PopTimeoutSeconds = queueTimeout
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-agent", cfg.Env)

	log.Info().
		Str("service", cfg.OTEL.ServiceName+"-agent").
		Str("version", cfg.OTEL.ServiceVersion).
		Int("agents", cfg.Agents.Count).
		Msg("Starting referral intake agent pool")

	if vaultResult.Enabled {
		log.Info().
			Str("path", vaultResult.Path).
			Int("loaded", vaultResult.Loaded).
			Int("skipped", vaultResult.Skipped).
			Msg("Vault secrets applied")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName+"-agent",
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

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Redis client")
	}
	defer redisClient.Close()
	log.Info().Msg("Redis client initialized successfully")

	openaiClient, err := openai.NewClient(&cfg.OpenAI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize OpenAI client")
	}
	log.Info().Str("model", cfg.OpenAI.Model).Msg("OpenAI client initialized successfully")

	jobQueue := queue.NewRedisJobQueue(redisClient, cfg.Queue.Key, cfg.Queue.PopTimeoutSeconds)
	statusStore := status.NewRedisStatusStore(redisClient, cfg.Status.TTLSeconds)
	emrConnector := emr.NewMockConnector()
	emailSender := email.NewMockSender()

	pipelineService := services.NewPipelineService(
		services.NewExtractionService(openaiClient),
		services.NewValidationService(),
		services.NewDispatchService(openaiClient, emrConnector, emailSender),
		statusStore,
		metrics,
	)

	supervisor := services.NewAgentSupervisor(
		jobQueue,
		pipelineService,
		metrics,
		cfg.Agents.Count,
		time.Duration(cfg.Agents.RestartDelaySeconds)*time.Second,
	)
	supervisor.Start(ctx)

	<-ctx.Done()

	log.Info().Msg("Agent pool shutting down...")
	supervisor.Stop()
	log.Info().Msg("Agent pool stopped")
}
