package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/stream"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/stream/redis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	data := flag.String("d", "", "Inline JSON ValidationInput")
	streamName := flag.String("stream", redis.DefaultRequestStream, "Stream name")
	flag.Parse()

	if *data == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -d '{\"content\":\"...\",\"query\":\"...\"}'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*data, *streamName); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(data, streamName string) error {
	_ = godotenv.Load()

	var input models.ValidationInput
	if err := json.Unmarshal([]byte(data), &input); err != nil {
		return fmt.Errorf("invalid ValidationInput: %w", err)
	}
	if input.Content == "" {
		return fmt.Errorf("content is required")
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	cfg := stream.NewStreamConfig(stream.ProviderRedis,
		redis.NewRedisStreamConfig(addr, os.Getenv("REDIS_PASSWORD"), streamName, redis.DefaultGroup, ""))

	ctx := context.Background()
	publisher, err := stream.NewStreamPublisher(ctx, cfg, streamName, &log.Logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	id, err := publisher.Publish(ctx, input)
	if err != nil {
		return err
	}

	log.Info().Str("stream", streamName).Str("id", id).Str("input_id", input.ID).Msg("Published successfully!")
	return nil
}
