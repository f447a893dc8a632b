// Package config loads toolkit configuration from the environment. All
// settings are collected into an explicit struct up front and injected into
// components; nothing reads the environment after startup.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting for the batch jobs.
type Config struct {
	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// Table is the locations table name.
	Table string

	// PageSize is the FetchAll page size.
	PageSize int

	// SimilarityThreshold is the fuzzy-match cutoff for search mode.
	SimilarityThreshold float64

	// ReportDir is where JSON reports and rollback scripts are written.
	ReportDir string

	// ListenAddr is the review server bind address.
	ListenAddr string
}

// Load reads configuration from a .env file (when present) and the process
// environment. Credentials are validated by the jobs that need them, so the
// review server can run without storage access.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		Table:               getEnv("LOCATIONS_TABLE", "locations"),
		PageSize:            getEnvInt("FETCH_PAGE_SIZE", 1000),
		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", 0.80),
		ReportDir:           getEnv("REPORT_DIR", "reports"),
		ListenAddr:          getEnv("LISTEN_ADDR", ":8085"),
	}, nil
}

// RequireDatabase is the fatal configuration check every storage-touching
// job runs before any analysis.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config: DATABASE_URL is not set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
