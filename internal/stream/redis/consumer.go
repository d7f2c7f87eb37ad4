package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ContentValidator is the unified guardrail entry point.
type ContentValidator interface {
	ValidateContent(ctx context.Context, content, query string, resultContext models.ResultContext) models.UnifiedOutcome
}

type Consumer struct {
	client       streamClient
	stream       string
	resultStream string
	groupID      string
	consumerName string
	maxLen       int64
	validator    ContentValidator
	logger       *zerolog.Logger
}

func NewConsumer(client *redis.Client, cfg *RedisStreamConfig, validator ContentValidator, logger *zerolog.Logger) *Consumer {
	return newConsumer(client, cfg, validator, logger)
}

func newConsumer(client streamClient, cfg *RedisStreamConfig, validator ContentValidator, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       cfg.Stream,
		resultStream: cfg.ResultStream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		maxLen:       cfg.MaxLen,
		validator:    validator,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("result_stream", c.resultStream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err()
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, s := range msgs {
			for _, msg := range s.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

func (c *Consumer) Stop() error {
	return c.client.Close()
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var input models.ValidationInput
	if err := json.Unmarshal([]byte(payload), &input); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // bad message, ACK to skip it
		return
	}

	outcome := c.validator.ValidateContent(ctx, input.Content, input.Query, input.Context)

	c.logger.Info().
		Str("id", msg.ID).
		Str("request_id", outcome.RequestID).
		Str("status", string(outcome.OverallStatus)).
		Str("risk", string(outcome.RiskAssessment.Overall)).
		Msg("Validation complete")

	// Unacked entries are redelivered, so a failed publish keeps the message pending.
	if err := c.publish(ctx, msg.ID, input.ID, outcome); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to publish outcome")
		return
	}

	c.ack(ctx, msg.ID)
}

func (c *Consumer) publish(ctx context.Context, sourceID, inputID string, outcome models.UnifiedOutcome) error {
	if c.resultStream == "" {
		return nil
	}

	body, err := json.Marshal(outcome)
	if err != nil {
		return err
	}

	return c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.resultStream,
		MaxLen: c.maxLen,
		Approx: c.maxLen > 0,
		Values: map[string]any{
			"source_id":  sourceID,
			"input_id":   inputID,
			"request_id": outcome.RequestID,
			"status":     string(outcome.OverallStatus),
			"payload":    string(body),
		},
	}).Err()
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
