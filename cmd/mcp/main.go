package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/mcpadapter"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging. stdout belongs to the MCP transport.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	// Load env
	_ = godotenv.Load()

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wire dependencies
	deps, err := setup.Wire(ctx, setup.LoadConfig(), &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}
	defer deps.Close()

	mode, err := models.ParseComplianceMode(deps.Policy.Unified.ComplianceMode)
	if err != nil {
		logger.Error().Err(err).Msg("Invalid compliance mode")
		os.Exit(1)
	}

	server := mcpadapter.NewServer(mcpadapter.Tools{
		Guardrails:  deps.Service,
		Generation:  deps.Engine,
		Compliance:  deps.Checker,
		Validators:  deps.ValidatorExecutor,
		DefaultMode: mode,
	})

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		logger.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}
