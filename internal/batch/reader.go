package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

const maxLineBytes = 1024 * 1024

// Request is one JSONL line. ExpectedStatus is optional and only used by
// the expectation check.
type Request struct {
	models.ValidationInput
	ExpectedStatus *string `json:"expected_status,omitempty"`
}

type InputRecord struct {
	LineNumber int
	Request    Request
	Error      error
}

type Reader struct {
	source io.Reader
	logger *zerolog.Logger
}

func NewReader(source io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{source: source, logger: logger}
}

// ReadAll streams records until EOF or ctx is cancelled. Blank lines are skipped.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r.source)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

		line := 0
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}

			record := InputRecord{LineNumber: line}
			if err := json.Unmarshal([]byte(text), &record.Request); err != nil {
				record.Error = fmt.Errorf("line %d: %w", line, err)
			} else if record.Request.Content == "" {
				record.Error = fmt.Errorf("line %d: content is required", line)
			}

			select {
			case out <- record:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Int("line", line).Msg("Failed to read input")
			select {
			case out <- InputRecord{LineNumber: line + 1, Error: err}:
			case <-ctx.Done():
			}
		}
	}()

	return out
}
