package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/setup"
	applog "github.com/povarna/generative-ai-agents/guardrail-agent/internal/setup/logger"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/stream"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/stream/redis"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load env
	envErr := godotenv.Load()

	// Setup logging
	logger := applog.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT") != "json")
	log.Logger = logger
	if envErr != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.Close()

	consumerName, _ := os.Hostname()
	redisCfg := redis.NewRedisStreamConfig(
		cfg.RedisAddr,
		cfg.RedisPassword,
		envOr("GUARDRAIL_REQUEST_STREAM", redis.DefaultRequestStream),
		envOr("GUARDRAIL_GROUP", redis.DefaultGroup),
		envOr("HOSTNAME", consumerName),
	)
	redisCfg.ResultStream = envOr("GUARDRAIL_RESULT_STREAM", redis.DefaultResultStream)
	redisCfg.MaxLen = 10000

	streamCfg := stream.NewStreamConfig(os.Getenv("STREAM_PROVIDER"), redisCfg)

	consumer, err := stream.NewStreamConsumer(ctx, streamCfg, deps.Service, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stream consumer")
	}

	// Setup consumer
	if err := consumer.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	// Start consumer
	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	// Wait for context to be done
	<-ctx.Done()
	logger.Info().Msg("Shutting down...")

	if err := consumer.Stop(); err != nil {
		logger.Warn().Err(err).Msg("Failed to stop consumer")
	}
	log.Info().Msg("Guardrail stream worker stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
