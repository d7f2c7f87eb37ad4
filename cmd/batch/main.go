package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/batch"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	startTime := time.Now()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	input := flag.String("input", "", "Input JSONL file path, '-' for stdin")
	output := flag.String("output", "", "Output file path (default stdout)")
	format := flag.String("format", batch.FormatJSONL, "Output format. Supported formats: 'jsonl', 'summary'")
	summary := flag.String("summary", "", "Optional separate summary file")
	workers := flag.Int("workers", 5, "Concurrent validation workers")
	continueOnError := flag.Bool("continue-on-error", true, "Continue on write failures")
	dryRun := flag.Bool("dry-run", false, "Validate input without running guardrails")
	validate := flag.Bool("validate", false, "Compare outcomes with each record's expected_status")
	agreementThreshold := flag.Float64("agreement-threshold", 0.8, "Minimum agreement rate in -validate mode")

	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("required flag -input not provided")
	}
	if *format != batch.FormatJSONL && *format != batch.FormatSummary {
		log.Fatal().Str("format", *format).Msg("Invalid format. Supported: jsonl, summary")
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var inputFile io.Reader
	if *input == "-" {
		inputFile = os.Stdin
		log.Info().Msg("Reading from stdin")
	} else {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatal().Err(err).Str("file", *input).Msg("Failed to open input file")
		}
		defer f.Close()
		inputFile = f
		log.Info().Str("file", *input).Msg("Reading input file")
	}

	reader := batch.NewReader(inputFile, &log.Logger)
	var records []batch.InputRecord
	for record := range reader.ReadAll(ctx) {
		records = append(records, record)
	}
	log.Info().Int("total", len(records)).Msg("Input file parsed")

	if *dryRun {
		dryRunAndExit(records)
	}

	deps, err := setup.Wire(ctx, setup.LoadConfig(), &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.Close()

	processor := batch.NewProcessor(deps.Service, *workers, deps.Logger)

	if *validate {
		if !runValidationMode(ctx, processor, records, *agreementThreshold) {
			deps.Close()
			os.Exit(1)
		}
		return
	}

	var outputFile io.Writer
	if *output == "" {
		outputFile = os.Stdout
		log.Info().Msg("Writing to stdout")
	} else {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer f.Close()
		outputFile = f
		log.Info().Str("file", *output).Msg("Writing to output file")
	}

	writer, err := batch.NewWriter(outputFile, *format, deps.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create writer")
	}

	successCount := 0
	errorCount := 0
	for result := range processor.Process(ctx, records) {
		if err := writer.Write(result); err != nil {
			log.Error().Err(err).Str("id", result.ID).Msg("Failed to write result")
			errorCount++
			if !*continueOnError {
				log.Fatal().Msg("Stopping due to write error")
			}
			continue
		}
		successCount++
	}

	if err := writer.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to flush writer")
	}

	log.Info().
		Int("success", successCount).
		Int("errors", errorCount).
		Dur("duration", time.Since(startTime)).
		Msg("Processing complete")

	if *summary != "" {
		writeSummary(*summary, writer.Summary())
	}
}

func writeSummary(path string, s batch.Summary) {
	f, err := os.Create(path)
	if err != nil {
		log.Error().Err(err).Str("file", path).Msg("Failed to create summary file")
		return
	}
	defer f.Close()

	if err := batch.WriteSummary(f, s); err != nil {
		log.Error().Err(err).Str("file", path).Msg("Failed to write summary")
		return
	}
	log.Info().Str("file", path).Msg("Summary written")
}

func dryRunAndExit(records []batch.InputRecord) {
	errorCount := 0
	for _, record := range records {
		if record.Error != nil {
			log.Error().
				Int("line", record.LineNumber).
				Err(record.Error).
				Msg("Validation error")
			errorCount++
		}
	}

	if errorCount > 0 {
		log.Fatal().Int("errors", errorCount).Msg("Validation failed")
	}

	log.Info().Msg("Validation successful")
	os.Exit(0)
}

// runValidationMode reports whether the pipeline agrees with the labelled
// statuses often enough.
func runValidationMode(ctx context.Context, processor *batch.Processor, records []batch.InputRecord, threshold float64) bool {
	log.Info().Msg("Validation mode enabled")

	var results []batch.Result
	for result := range processor.Process(ctx, records) {
		results = append(results, result)
	}

	expectation, err := batch.CheckExpectations(batch.PairsFromResults(results), threshold)
	if err != nil {
		log.Error().Err(err).Msg("Validation mode requires records with 'expected_status'")
		return false
	}

	data, err := json.MarshalIndent(expectation, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal validation result")
		return false
	}
	fmt.Println(string(data))

	status := "PASSED"
	if !expectation.Passed {
		status = "FAILED"
	}
	log.Info().
		Int("records", expectation.TotalRecords).
		Int("agreement", expectation.AgreementCount).
		Float64("agreement_rate", expectation.AgreementRate).
		Float64("threshold", expectation.Threshold).
		Str("status", status).
		Msg("Validation complete")

	if !expectation.Passed {
		log.Error().Msg("Review configs/guardrails.yaml thresholds and re-run validation")
	}
	return expectation.Passed
}
