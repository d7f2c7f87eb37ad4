package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/api"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/setup"
	applog "github.com/povarna/generative-ai-agents/guardrail-agent/internal/setup/logger"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load env
	envErr := godotenv.Load()

	// Setup logging
	logger := applog.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT") != "json")
	log.Logger = logger
	if envErr != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.Wire(ctx, setup.LoadConfig(), &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.Close()

	mode, err := models.ParseComplianceMode(deps.Policy.Unified.ComplianceMode)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid compliance mode")
	}

	// API
	handler := api.NewHandler(deps.Service, deps.Engine, deps.Checker, deps.ValidatorExecutor, mode, &logger)
	container := restful.NewContainer()
	container.Filter(middleware.Logger(&logger))
	container.Filter(middleware.RecoverPanic(&logger))
	api.RegisterRoutes(container, handler)
	api.RegisterOpenAPI(container)

	// CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	// Server
	port := os.Getenv("GUARDRAIL_API_PORT")
	if port == "" {
		port = "18082"
	}

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("address", addr).Str("openapi", api.OpenAPIPath).Msg("Starting Guardrail Agent API")

	server := &http.Server{
		Addr:         addr,
		Handler:      corsHandler.Handler(container),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Guardrail Agent API stopped")
}
