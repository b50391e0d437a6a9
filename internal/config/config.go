package config

import (
	"os"
	"strconv"
	"strings"

	"bikestats/internal/errors"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the optional YAML file whose values act as defaults
// for the environment.
const ConfigFileEnv = "BIKESTATS_CONFIG"

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Export   ExportConfig   `yaml:"export"`
	Charts   ChartConfig    `yaml:"charts"`
	LogLevel string         `yaml:"log_level"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

// DataConfig holds the source file and session settings
type DataConfig struct {
	File         string `yaml:"file"`
	SortByTime   bool   `yaml:"sort_by_time"`
	EventLogFile string `yaml:"event_log_file"`
}

// AnalysisConfig holds hypothesis test settings
type AnalysisConfig struct {
	Alpha float64 `yaml:"alpha"`
}

// ExportConfig holds export settings
type ExportConfig struct {
	ParquetCompression string `yaml:"parquet_compression"`
}

// ChartConfig holds chart image sizes in pixels
type ChartConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080", GinMode: "debug"},
		Data:     DataConfig{EventLogFile: "logs/events.jsonl"},
		Analysis: AnalysisConfig{Alpha: 0.05},
		Export:   ExportConfig{ParquetCompression: "SNAPPY"},
		Charts:   ChartConfig{Width: 800, Height: 500},
		LogLevel: "INFO",
	}
}

// Load reads the optional YAML file named by BIKESTATS_CONFIG, applies
// environment overrides and validates the result.
func Load() (*Config, error) {
	config := Defaults()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, err
		}
	}

	applyEnv(config)

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadFile(path string, config *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(raw, config); err != nil {
		return errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to parse config file %s", path)
	}
	return nil
}

func applyEnv(config *Config) {
	config.Server.Port = getEnvOrDefault("PORT", config.Server.Port)
	config.Server.GinMode = getEnvOrDefault("GIN_MODE", config.Server.GinMode)
	config.Data.File = getEnvOrDefault("DATA_FILE", config.Data.File)
	config.Data.SortByTime = getEnvBoolOrDefault("SORT_BY_TIME", config.Data.SortByTime)
	config.Data.EventLogFile = getEnvOrDefault("EVENT_LOG_FILE", config.Data.EventLogFile)
	config.Analysis.Alpha = getEnvFloatOrDefault("ALPHA", config.Analysis.Alpha)
	config.Export.ParquetCompression = getEnvOrDefault("PARQUET_COMPRESSION", config.Export.ParquetCompression)
	config.Charts.Width = getEnvIntOrDefault("CHART_WIDTH", config.Charts.Width)
	config.Charts.Height = getEnvIntOrDefault("CHART_HEIGHT", config.Charts.Height)
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", config.LogLevel)
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if !(config.Analysis.Alpha > 0 && config.Analysis.Alpha < 1) {
		return errors.ConfigInvalid("ALPHA must be in (0, 1)")
	}
	if config.Charts.Width <= 0 || config.Charts.Height <= 0 {
		return errors.ConfigInvalid("CHART_WIDTH and CHART_HEIGHT must be positive")
	}
	switch strings.ToUpper(config.Export.ParquetCompression) {
	case "SNAPPY", "GZIP", "NONE", "":
	default:
		return errors.ConfigInvalid("PARQUET_COMPRESSION must be SNAPPY, GZIP or NONE")
	}
	return nil
}

// RequireDataFile reports a configuration error when no data file is set.
func (c *Config) RequireDataFile() error {
	if c.Data.File == "" {
		return errors.ConfigInvalid("DATA_FILE is required")
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
