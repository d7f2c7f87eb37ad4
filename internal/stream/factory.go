package stream

import (
	"context"
	"fmt"

	redisconn "github.com/povarna/generative-ai-agents/guardrail-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/stream/redis"
	"github.com/rs/zerolog"
)

func provider(cfg *StreamConfig) (string, error) {
	p := cfg.Provider
	if p == "" {
		p = ProviderRedis
	}
	if p != ProviderRedis {
		return "", fmt.Errorf("unsupported stream provider: %s", cfg.Provider)
	}
	if cfg.RedisConfig == nil {
		return "", fmt.Errorf("redis config required")
	}
	return p, nil
}

// NewStreamConsumer connects to the configured provider and returns a
// consumer that validates every request entry.
func NewStreamConsumer(
	ctx context.Context,
	cfg *StreamConfig,
	validator redis.ContentValidator,
	logger *zerolog.Logger,
) (StreamConsumer, error) {
	if _, err := provider(cfg); err != nil {
		return nil, err
	}

	client, err := redisconn.ConnectRedis(ctx, cfg.RedisConfig.RedisAddr, cfg.RedisConfig.RedisPassword, 5, logger)
	if err != nil {
		return nil, err
	}

	return redis.NewConsumer(client, cfg.RedisConfig, validator, logger), nil
}

func NewStreamPublisher(ctx context.Context, cfg *StreamConfig, stream string, logger *zerolog.Logger) (StreamPublisher, error) {
	if _, err := provider(cfg); err != nil {
		return nil, err
	}

	client, err := redisconn.ConnectRedis(ctx, cfg.RedisConfig.RedisAddr, cfg.RedisConfig.RedisPassword, 5, logger)
	if err != nil {
		return nil, err
	}

	return redis.NewPublisher(client, stream, cfg.RedisConfig.MaxLen, logger), nil
}
