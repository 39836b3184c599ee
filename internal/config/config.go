package config

import (
	"os"
	"path/filepath"
	"strconv"

	"patternstudy/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Inputs  InputConfig
	Paths   PathConfig
	Storage StorageConfig
}

// InputConfig names the raw survey inputs
type InputConfig struct {
	SurveyFile     string // wide-format TSV export
	ExclusionsFile string // optional CSV of participant IDs to drop
}

// PathConfig holds output locations
type PathConfig struct {
	ResultsDir   string
	ArtifactFile string // long-format CSV, derived from ResultsDir
	ExcelFile    string
	ReportFile   string
}

// StorageConfig holds the embedded database settings
type StorageConfig struct {
	Path string // sqlite file, ":memory:" for ephemeral runs
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Inputs: InputConfig{
			SurveyFile:     getEnvOrDefault("SURVEY_FILE", "data/survey_export.tsv"),
			ExclusionsFile: getEnvOrDefault("EXCLUSIONS_FILE", ""),
		},
		Paths: loadPathConfig(),
		Storage: StorageConfig{
			Path: getEnvOrDefault("STORE_PATH", "results/observations.db"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadPathConfig() PathConfig {
	resultsDir := getEnvOrDefault("RESULTS_DIR", "results")
	return PathConfig{
		ResultsDir:   resultsDir,
		ArtifactFile: getEnvOrDefault("ARTIFACT_FILE", filepath.Join(resultsDir, "observations_long.csv")),
		ExcelFile:    getEnvOrDefault("EXCEL_FILE", filepath.Join(resultsDir, "summary.xlsx")),
		ReportFile:   getEnvOrDefault("REPORT_FILE", filepath.Join(resultsDir, "report.md")),
	}
}

func validateConfig(config *Config) error {
	if config.Inputs.SurveyFile == "" {
		return errors.ConfigInvalid("SURVEY_FILE cannot be empty")
	}
	if config.Paths.ResultsDir == "" {
		return errors.ConfigInvalid("RESULTS_DIR cannot be empty")
	}
	if config.Storage.Path == "" {
		return errors.ConfigInvalid("STORE_PATH cannot be empty")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
