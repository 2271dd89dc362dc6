package config

import (
	"os"
	"strconv"
	"time"

	"gocause/internal/causal"
	"gocause/internal/errors"
	"gocause/internal/ledger"
	"gocause/internal/orchestrator"
)

// Config represents the complete application configuration
type Config struct {
	Engine   EngineConfig
	Server   ServerConfig
	Ops      OpsConfig
	Database DatabaseConfig
	Paths    PathConfig
}

// EngineConfig holds the reasoning engine thresholds and bounds
type EngineConfig struct {
	SupportThreshold         float64
	RefuteThreshold          float64
	StrongEvidenceThreshold  float64
	WeakEvidenceThreshold    float64
	MinPrior                 float64
	MaxPrior                 float64
	DefaultPrior             float64
	MinProbability           float64
	MaxCausesToConsider      int
	MaxExperiments           int
	EnableBackwardsReasoning bool
	OverlapThreshold         float64
}

// ServerConfig holds the API server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// OpsConfig holds the operational sidecar server settings
type OpsConfig struct {
	Port          string
	PprofEnabled  bool
	StatusEnabled bool
}

// DatabaseConfig holds database connection settings. An empty URL means
// sessions persist to the local filesystem instead of postgres.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// PathConfig holds file system paths
type PathConfig struct {
	SessionsDir string
	ReportsDir  string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Engine:   loadEngineConfig(),
		Server:   loadServerConfig(),
		Ops:      loadOpsConfig(),
		Database: loadDatabaseConfig(),
		Paths:    loadPathConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// SessionConfig maps the engine configuration onto one reasoning session.
func (c *Config) SessionConfig() orchestrator.Config {
	return orchestrator.Config{
		Generator: ledger.GeneratorConfig{
			MinPrior:                    c.Engine.MinPrior,
			MaxPrior:                    c.Engine.MaxPrior,
			DefaultPrior:                c.Engine.DefaultPrior,
			MaxExperimentsPerHypothesis: c.Engine.MaxExperiments,
		},
		Evaluator: ledger.EvaluatorConfig{
			SupportThreshold:        c.Engine.SupportThreshold,
			RefuteThreshold:         c.Engine.RefuteThreshold,
			StrongEvidenceThreshold: c.Engine.StrongEvidenceThreshold,
			WeakEvidenceThreshold:   c.Engine.WeakEvidenceThreshold,
		},
		Reasoner: causal.Config{
			MinProbability:      c.Engine.MinProbability,
			MaxCausesToConsider: c.Engine.MaxCausesToConsider,
		},
		EnableBackwardsReasoning: c.Engine.EnableBackwardsReasoning,
		MinSuggestionProbability: c.Engine.MinPrior,
		DefaultAlternatives:      3,
	}
}

func loadEngineConfig() EngineConfig {
	return EngineConfig{
		SupportThreshold:         getEnvFloatOrDefault("SUPPORT_THRESHOLD", 0.7),
		RefuteThreshold:          getEnvFloatOrDefault("REFUTE_THRESHOLD", 0.3),
		StrongEvidenceThreshold:  getEnvFloatOrDefault("STRONG_EVIDENCE_THRESHOLD", 0.8),
		WeakEvidenceThreshold:    getEnvFloatOrDefault("WEAK_EVIDENCE_THRESHOLD", 0.3),
		MinPrior:                 getEnvFloatOrDefault("MIN_PRIOR", 0.1),
		MaxPrior:                 getEnvFloatOrDefault("MAX_PRIOR", 0.9),
		DefaultPrior:             getEnvFloatOrDefault("DEFAULT_PRIOR", 0.5),
		MinProbability:           getEnvFloatOrDefault("MIN_PROBABILITY", 0.001),
		MaxCausesToConsider:      getEnvIntOrDefault("MAX_CAUSES_TO_CONSIDER", 10),
		MaxExperiments:           getEnvIntOrDefault("MAX_EXPERIMENTS_PER_HYPOTHESIS", 5),
		EnableBackwardsReasoning: getEnvBoolOrDefault("ENABLE_BACKWARDS_REASONING", true),
		OverlapThreshold:         getEnvFloatOrDefault("OVERLAP_THRESHOLD", 0.5),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "debug"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadOpsConfig() OpsConfig {
	return OpsConfig{
		Port:          getEnvOrDefault("OPS_PORT", "6060"),
		PprofEnabled:  getEnvBoolOrDefault("PPROF_ENABLED", true),
		StatusEnabled: getEnvBoolOrDefault("OPS_STATUS_ENABLED", true),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:     getEnvOrDefault("DATABASE_URL", ""),
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}
}

func loadPathConfig() PathConfig {
	return PathConfig{
		SessionsDir: getEnvOrDefault("SESSIONS_DIR", "sessions"),
		ReportsDir:  getEnvOrDefault("REPORTS_DIR", "reports"),
	}
}

func validateConfig(config *Config) error {
	e := config.Engine
	if e.RefuteThreshold >= e.SupportThreshold {
		return errors.ConfigInvalid("REFUTE_THRESHOLD must be below SUPPORT_THRESHOLD")
	}
	if e.MinPrior >= e.MaxPrior {
		return errors.ConfigInvalid("MIN_PRIOR must be below MAX_PRIOR")
	}
	if e.MinProbability <= 0 {
		return errors.ConfigInvalid("MIN_PROBABILITY must be positive")
	}
	if config.Paths.SessionsDir == "" {
		return errors.ConfigInvalid("sessions directory is required")
	}
	if config.Server.ShutdownTimeout <= 0 {
		return errors.ConfigInvalid("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
