package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
)

// CachedVerdict is a stored validation round. It is served only while
// now - Timestamp < ttl.
type CachedVerdict struct {
	Key        string                                            `json:"key"`
	IsValid    bool                                              `json:"is_valid"`
	Confidence float64                                           `json:"confidence"`
	Verdicts   map[models.ValidationType]models.ValidatorVerdict `json:"verdicts"`
	Failed     []models.ValidationType                           `json:"failed,omitempty"`
	Skipped    []models.ValidationType                           `json:"skipped,omitempty"`
	Timestamp  time.Time                                         `json:"timestamp"`
}

// VerdictCache stores validation rounds keyed by Key(query, response).
type VerdictCache interface {
	Get(ctx context.Context, key string) (CachedVerdict, bool, error)
	Put(ctx context.Context, entry CachedVerdict) error
}

// Key is a stable hash of the (query, response) pair.
func Key(query, response string) string {
	h := sha256.New()
	h.Write([]byte(query))
	h.Write([]byte{0})
	h.Write([]byte(response))
	return hex.EncodeToString(h.Sum(nil))
}

func expired(entry CachedVerdict, now time.Time, ttl time.Duration) bool {
	return now.Sub(entry.Timestamp) >= ttl
}
