package config

import (
	"os"
	"strconv"

	"cvleak/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Experiment ExperimentConfig
	Server     ServerConfig
	Database   DatabaseConfig
	Export     ExportConfig
}

// ExperimentConfig holds the default knobs for the leakage demonstration
type ExperimentConfig struct {
	SampleCount          int
	VariableCount        int
	ClassCount           int
	FoldCount            int
	SelectedFeatureCount int
	Seed                 int64
	ParallelFolds        bool
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds the optional run-ledger connection settings.
// An empty URL disables persistence entirely.
type DatabaseConfig struct {
	URL string
}

// ExportConfig holds workbook export settings
type ExportConfig struct {
	OutputFile string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Experiment: loadExperimentConfig(),
		Server:     loadServerConfig(),
		Database:   loadDatabaseConfig(),
		Export:     loadExportConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadExperimentConfig() ExperimentConfig {
	return ExperimentConfig{
		SampleCount:          getEnvIntOrDefault("SAMPLE_COUNT", 50),
		VariableCount:        getEnvIntOrDefault("VARIABLE_COUNT", 500),
		ClassCount:           getEnvIntOrDefault("CLASS_COUNT", 2),
		FoldCount:            getEnvIntOrDefault("FOLD_COUNT", 5),
		SelectedFeatureCount: getEnvIntOrDefault("SELECTED_FEATURE_COUNT", 10),
		Seed:                 getEnvInt64OrDefault("RANDOM_SEED", 42),
		ParallelFolds:        getEnvBoolOrDefault("PARALLEL_FOLDS", false),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port: getEnvOrDefault("PORT", "8080"),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL: getEnvOrDefault("DATABASE_URL", ""),
	}
}

func loadExportConfig() ExportConfig {
	return ExportConfig{
		OutputFile: getEnvOrDefault("XLSX_FILE", "cvleak_report.xlsx"),
	}
}

func validateConfig(config *Config) error {
	exp := config.Experiment
	if exp.SampleCount <= 0 || exp.VariableCount <= 0 || exp.ClassCount <= 0 {
		return errors.ConfigInvalid("experiment sizes must be positive")
	}
	if exp.FoldCount < 2 {
		return errors.ConfigInvalid("FOLD_COUNT must be at least 2")
	}
	if exp.FoldCount > exp.SampleCount {
		return errors.ConfigInvalid("FOLD_COUNT cannot exceed SAMPLE_COUNT")
	}
	if exp.SelectedFeatureCount <= 0 || exp.SelectedFeatureCount > exp.VariableCount {
		return errors.ConfigInvalid("SELECTED_FEATURE_COUNT must be in [1, VARIABLE_COUNT]")
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

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
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
