package config

import (
	"os"
	"strconv"
	"strings"

	"gotreat/internal/errors"
)

// Literature source kinds
const (
	LiteratureEmbedded = "embedded"
	LiteratureDir      = "dir"
	LiteraturePostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	Simulation SimulationConfig
	Literature LiteratureConfig
	Database   DatabaseConfig
	Server     ServerConfig
	Export     ExportConfig
	CaseStudy  CaseStudyConfig
}

// SimulationConfig holds Monte-Carlo defaults
type SimulationConfig struct {
	Runs       int
	Resolution int
	PriorPower float64
	Seed       uint64
	Workers    int
	// MaxRuns and MaxResolution bound what a single API request may ask
	// for. Zero leaves the value unbounded.
	MaxRuns       int
	MaxResolution int
}

// LiteratureConfig selects where reference tables are read from
type LiteratureConfig struct {
	Source string
	Dir    string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// CaseStudyConfig locates case study YAML files. An empty Dir disables
// case studies.
type CaseStudyConfig struct {
	Dir string
}

// ExportConfig holds output locations
type ExportConfig struct {
	Dir string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Simulation: loadSimulationConfig(),
		Literature: LiteratureConfig{
			Source: strings.ToLower(getEnvOrDefault("LITERATURE_SOURCE", LiteratureEmbedded)),
			Dir:    getEnvOrDefault("LITERATURE_DIR", "./data"),
		},
		Database:  DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Server:    ServerConfig{Port: getEnvOrDefault("PORT", "8080")},
		Export:    ExportConfig{Dir: getEnvOrDefault("EXPORT_DIR", ".")},
		CaseStudy: CaseStudyConfig{Dir: os.Getenv("CASE_STUDY_DIR")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{Runs: 10000, Resolution: 1000, PriorPower: 100, Seed: 42, Workers: 4, MaxRuns: 100000, MaxResolution: 10000},
		Literature: LiteratureConfig{Source: LiteratureEmbedded},
		Server:     ServerConfig{Port: "8080"},
		Export:     ExportConfig{Dir: "."},
	}
}

func loadSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Runs:       getEnvIntOrDefault("GOTREAT_RUNS", 10000),
		Resolution: getEnvIntOrDefault("GOTREAT_RESOLUTION", 1000),
		PriorPower: getEnvFloatOrDefault("GOTREAT_PRIOR_POWER", 100),
		Seed:       getEnvUintOrDefault("GOTREAT_SEED", 42),
		Workers:    getEnvIntOrDefault("GOTREAT_WORKERS", 4),

		MaxRuns:       getEnvIntOrDefault("GOTREAT_MAX_RUNS", 100000),
		MaxResolution: getEnvIntOrDefault("GOTREAT_MAX_RESOLUTION", 10000),
	}
}

func validateConfig(config *Config) error {
	if config.Simulation.Runs <= 0 {
		return errors.ConfigInvalid("GOTREAT_RUNS must be positive")
	}
	if config.Simulation.Resolution < 3 {
		return errors.ConfigInvalid("GOTREAT_RESOLUTION must be at least 3")
	}
	if config.Simulation.PriorPower <= 2 {
		return errors.ConfigInvalid("GOTREAT_PRIOR_POWER must be greater than 2")
	}
	if config.Simulation.MaxRuns > 0 && config.Simulation.MaxRuns < config.Simulation.Runs {
		return errors.ConfigInvalid("GOTREAT_MAX_RUNS must not be below GOTREAT_RUNS")
	}
	if config.Simulation.MaxResolution > 0 && config.Simulation.MaxResolution < config.Simulation.Resolution {
		return errors.ConfigInvalid("GOTREAT_MAX_RESOLUTION must not be below GOTREAT_RESOLUTION")
	}
	if config.Simulation.Workers <= 0 {
		return errors.ConfigInvalid("GOTREAT_WORKERS must be positive")
	}
	switch config.Literature.Source {
	case LiteratureEmbedded, LiteratureDir:
	case LiteraturePostgres:
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres literature source")
		}
	default:
		return errors.ConfigInvalid("unknown LITERATURE_SOURCE " + config.Literature.Source)
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

func getEnvUintOrDefault(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
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
