package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/cache"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/compliance"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/config"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/database"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/executor"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/guardrails"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/judge"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/quality"
	redisconn "github.com/povarna/generative-ai-agents/guardrail-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/validators"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
)

// Config holds process settings read from the environment. Guardrail
// policy lives in the YAML file named by GUARDRAILS_CONFIG_PATH.
type Config struct {
	AWSRegion        string
	ClaudeModelID    string
	OpenAIKey        string
	OpenAIModelID    string
	OpenAIMaxRetries int
	DefaultProvider  string
	RedisAddr        string
	RedisPassword    string
	RedisMaxRetries  int
	DatabaseURL      string
	// JudgeTimeoutSeconds overrides judge.timeout from the policy when positive.
	JudgeTimeoutSeconds float64
}

type Dependencies struct {
	Policy            *config.Config
	Engine            *quality.Engine
	Checker           *compliance.Checker
	Service           *guardrails.Service
	ValidatorExecutor *executor.ValidatorExecutor
	Logger            *zerolog.Logger

	redis *redis.Client
	db    *database.DB
}

func LoadConfig() *Config {
	return &Config{
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:       getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:           getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:       getEnv("OPEN_AI_MODEL_ID", ""),
		OpenAIMaxRetries:    getEnvInt("OPEN_AI_MAX_RETRIES", 3),
		DefaultProvider:     getEnv("DEFAULT_LLM_PROVIDER", llm.ProviderBedrock),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisMaxRetries:     getEnvInt("REDIS_MAX_RETRIES", 5),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		JudgeTimeoutSeconds: getEnvFloat("JUDGE_TIMEOUT_SECONDS", 0),
	}
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	policy, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load guardrail config: %w", err)
	}
	return WirePolicy(ctx, cfg, policy, logger)
}

// WirePolicy builds the pipeline for an already loaded policy.
func WirePolicy(ctx context.Context, cfg *Config, policy *config.Config, logger *zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Policy: policy, Logger: logger}

	if cfg.JudgeTimeoutSeconds > 0 {
		policy.Judge.Timeout = time.Duration(cfg.JudgeTimeoutSeconds * float64(time.Second))
	}

	judgeClient, err := createJudge(ctx, cfg, policy.Judge, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create judge client: %w", err)
	}

	prompts, err := judge.NewPrompts(policy.Judge.Prompts)
	if err != nil {
		return nil, fmt.Errorf("failed to load judge prompts: %w", err)
	}

	registry, err := validators.BuildFromConfig(policy.Quality, judgeClient, prompts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build validators: %w", err)
	}

	verdictCache, err := deps.createCache(ctx, cfg, policy, logger)
	if err != nil {
		return nil, err
	}

	// The unified section decides the level the service enforces.
	qualityCfg := policy.Quality
	qualityCfg.Level = policy.Unified.QualityLevel

	engine, err := quality.NewEngine(qualityCfg, registry, verdictCache, judgeClient, prompts, logger)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to create quality engine: %w", err)
	}

	checker, err := compliance.NewChecker(policy.Compliance, compliance.Options{
		EnablePII:     policy.Unified.EnablePIIDetection,
		EnableMedical: policy.Unified.EnableMedicalCompliance,
	}, logger)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to create compliance checker: %w", err)
	}

	opts := []guardrails.Option{guardrails.WithTracer(otel.Tracer("guardrail-agent"))}
	if cfg.DatabaseURL != "" {
		recorder, err := deps.createRecorder(ctx, cfg, logger)
		if err != nil {
			deps.Close()
			return nil, err
		}
		opts = append(opts, guardrails.WithRecorder(recorder))
	}

	service, err := guardrails.NewService(policy.Unified, engine, checker, logger, opts...)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to create guardrail service: %w", err)
	}

	deps.Engine = engine
	deps.Checker = checker
	deps.Service = service
	deps.ValidatorExecutor = executor.NewValidatorExecutor(engine, logger)

	logger.Info().
		Str("provider", cfg.DefaultProvider).
		Str("quality_level", policy.Unified.QualityLevel).
		Str("compliance_mode", policy.Unified.ComplianceMode).
		Str("strategy", policy.Unified.PriorityMode).
		Str("cache", policy.Cache.Backend).
		Strs("validators", policy.Quality.EnabledValidators).
		Msg("guardrail pipeline wired")

	return deps, nil
}

// Close releases external connections opened by Wire.
func (d *Dependencies) Close() {
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}
	if d.db != nil {
		d.db.Close()
	}
}

func (d *Dependencies) createCache(ctx context.Context, cfg *Config, policy *config.Config, logger *zerolog.Logger) (cache.VerdictCache, error) {
	ttl := time.Duration(policy.Quality.CacheTTLMinutes) * time.Minute

	if policy.Cache.Backend != config.CacheBackendRedis || !policy.Quality.EnableCaching {
		return cache.NewMemoryCache(ttl, policy.Quality.CacheMaxEntries, logger), nil
	}

	client, err := redisconn.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisMaxRetries, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect verdict cache: %w", err)
	}
	d.redis = client

	return cache.NewRedisCache(client, ttl, policy.Cache.KeyPrefix, logger), nil
}

func (d *Dependencies) createRecorder(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*database.AuditRecorder, error) {
	db, err := database.New(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, err
	}
	d.db = db

	recorder := database.NewAuditRecorder(db, logger)
	if err := recorder.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return recorder, nil
}

// createJudge returns a nil judge.Client for the none provider; validators
// then run on heuristics only.
func createJudge(ctx context.Context, cfg *Config, judgeCfg config.JudgeConfig, logger *zerolog.Logger) (judge.Client, error) {
	if cfg.DefaultProvider == llm.ProviderNone {
		logger.Warn().Msg("no judge provider configured, validators will use heuristics only")
		return nil, nil
	}

	llmClient, err := createLLMClient(ctx, cfg.DefaultProvider, cfg)
	if err != nil {
		return nil, err
	}
	return judge.NewLLMJudge(llmClient, judgeCfg, logger), nil
}

func createLLMClient(ctx context.Context, provider string, cfg *Config) (llm.LLMClient, error) {
	switch provider {
	case llm.ProviderBedrock:
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	case llm.ProviderOpenAI:
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID, cfg.OpenAIMaxRetries)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
