package config

import (
	"os"
)

type Config struct {
	// DatabasePath is the SQLite file backing all collections.
	// ":memory:" gives a throwaway store.
	DatabasePath string
	LogLevel     string
	// SeedDemoData controls whether a fresh store receives the demo events.
	SeedDemoData bool
}

func LoadConfig() *Config {
	cfg := &Config{
		DatabasePath: getEnv("EVENTDESK_DB", "eventdesk.db"),
		LogLevel:     getEnv("EVENTDESK_LOG_LEVEL", "info"),
		SeedDemoData: getEnv("EVENTDESK_SEED_DEMO", "true") != "false",
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
