package config

import (
	"os"

	"tickettools/internal/logger"
)

type Config struct {
	// Model endpoint configuration (OpenAI-compatible; OpenRouter by default)
	ModelAPIKey     string
	ModelBaseURL    string
	ExtractionModel string

	// Google Cloud configuration (shared by Document AI and Vision backends)
	GoogleProjectID     string
	GoogleLocation      string
	GoogleProcessorID   string
	GoogleServiceKey    string
	TextBackend         string

	// Logging configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads configuration from the environment. Every value has a default
// or may stay empty: the heuristic parsing path needs no credentials at all,
// and each service validates its own requirements on construction.
func Load() (*Config, error) {
	config := &Config{
		ModelAPIKey:       getEnv("OPENROUTER_API_KEY", os.Getenv("OPENAI_API_KEY")),
		ModelBaseURL:      getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		ExtractionModel:   getEnv("EXTRACTION_MODEL", "mistralai/mistral-7b-instruct:free"),
		GoogleProjectID:   getEnv("GOOGLE_PROJECT_ID", os.Getenv("GOOGLE_CLOUD_PROJECT")),
		GoogleLocation:    getEnv("GOOGLE_LOCATION", "us"),
		GoogleProcessorID: getEnv("GOOGLE_PROCESSOR_ID", os.Getenv("DOCUMENT_AI_PROCESSOR_ID")),
		GoogleServiceKey:  getEnv("GOOGLE_SERVICE_ACCOUNT_KEY", ""),
		TextBackend:       getEnv("TEXT_BACKEND", "docai"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:     getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:         getEnv("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
