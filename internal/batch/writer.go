package batch

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

type Summary struct {
	Total    int                          `json:"total"`
	Errors   int                          `json:"errors"`
	ByStatus map[models.OverallStatus]int `json:"by_status"`
	ByRisk   map[models.RiskLevel]int     `json:"by_risk"`
}

func newSummary() *Summary {
	return &Summary{
		ByStatus: map[models.OverallStatus]int{},
		ByRisk:   map[models.RiskLevel]int{},
	}
}

func (s *Summary) Add(r Result) {
	s.Total++
	if r.Outcome == nil {
		s.Errors++
		return
	}
	s.ByStatus[r.Outcome.OverallStatus]++
	s.ByRisk[r.Outcome.RiskAssessment.Overall]++
}

// Writer emits one JSON line per result, or a single summary object on Close.
type Writer struct {
	out     io.Writer
	format  string
	encoder *json.Encoder
	summary *Summary
	logger  *zerolog.Logger
}

func NewWriter(out io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	if format != FormatJSONL && format != FormatSummary {
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	return &Writer{
		out:     out,
		format:  format,
		encoder: json.NewEncoder(out),
		summary: newSummary(),
		logger:  logger,
	}, nil
}

func (w *Writer) Write(r Result) error {
	w.summary.Add(r)
	if w.format != FormatJSONL {
		return nil
	}
	if err := w.encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to write result %s: %w", r.ID, err)
	}
	return nil
}

func (w *Writer) Summary() Summary {
	return *w.summary
}

func (w *Writer) Close() error {
	if w.format != FormatSummary {
		return nil
	}
	return WriteSummary(w.out, w.Summary())
}

func WriteSummary(out io.Writer, s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
