package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

const createAuditTable = `
CREATE TABLE IF NOT EXISTS guardrail_outcomes (
	request_id      TEXT PRIMARY KEY,
	overall_status  TEXT NOT NULL,
	overall_risk    TEXT NOT NULL,
	strategy        TEXT NOT NULL,
	duration_ms     BIGINT NOT NULL,
	validated_at    TIMESTAMPTZ NOT NULL,
	outcome         JSONB NOT NULL
)`

const insertOutcome = `
INSERT INTO guardrail_outcomes
	(request_id, overall_status, overall_risk, strategy, duration_ms, validated_at, outcome)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (request_id) DO NOTHING`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AuditRecorder appends every unified outcome to guardrail_outcomes.
type AuditRecorder struct {
	db     execer
	logger *zerolog.Logger
}

func NewAuditRecorder(db *DB, logger *zerolog.Logger) *AuditRecorder {
	return &AuditRecorder{db: db.Pool, logger: logger}
}

func (r *AuditRecorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createAuditTable); err != nil {
		return fmt.Errorf("failed to create audit table: %w", err)
	}
	return nil
}

func (r *AuditRecorder) Record(ctx context.Context, outcome models.UnifiedOutcome) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome: %w", err)
	}

	validatedAt, err := time.Parse(time.RFC3339, outcome.Timestamp)
	if err != nil {
		validatedAt = time.Now().UTC()
	}

	_, err = r.db.Exec(ctx, insertOutcome,
		outcome.RequestID,
		string(outcome.OverallStatus),
		string(outcome.RiskAssessment.Overall),
		string(outcome.Strategy),
		outcome.DurationMs,
		validatedAt,
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert outcome %s: %w", outcome.RequestID, err)
	}

	r.logger.Debug().Str("request_id", outcome.RequestID).Msg("outcome recorded")
	return nil
}
