package stream

import "github.com/povarna/generative-ai-agents/guardrail-agent/internal/stream/redis"

const ProviderRedis = "redis"

type StreamConfig struct {
	Provider    string // redis is the only provider today
	RedisConfig *redis.RedisStreamConfig
}

func NewStreamConfig(provider string, redisConfig *redis.RedisStreamConfig) *StreamConfig {
	return &StreamConfig{
		Provider:    provider,
		RedisConfig: redisConfig,
	}
}
