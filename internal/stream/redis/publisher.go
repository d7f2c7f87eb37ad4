package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Publisher struct {
	client streamClient
	stream string
	maxLen int64
	logger *zerolog.Logger
}

func NewPublisher(client *redis.Client, stream string, maxLen int64, logger *zerolog.Logger) *Publisher {
	return &Publisher{client: client, stream: stream, maxLen: maxLen, logger: logger}
}

// Publish appends payload as JSON under the payload field and returns the entry ID.
func (p *Publisher) Publish(ctx context.Context, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: p.maxLen > 0,
		Values: map[string]any{"payload": string(body)},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to publish to %s: %w", p.stream, err)
	}

	p.logger.Info().Str("stream", p.stream).Str("id", id).Msg("Message published")
	return id, nil
}

func (p *Publisher) Close() error {
	return p.client.Close()
}
