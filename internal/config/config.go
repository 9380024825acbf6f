package config

import (
	"log"
	"os"
	"strconv"
)

const (
	defaultDBPath    = "./dev.db"
	defaultPort      = "8080"
	defaultLogLevel  = "info"
	defaultLogFormat = "json"
	defaultOverhead  = 500.0
	envDevelopment   = "development"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv          string
	DBPath          string
	Port            string
	LogLevel        string
	LogFormat       string
	MaterialsFile   string
	MonthlyOverhead float64
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Local development only; production injects real env vars.
	_ = loadDotEnv(".env")

	cfg := Config{
		AppEnv:          os.Getenv("APP_ENV"),
		DBPath:          os.Getenv("DB_PATH"),
		Port:            os.Getenv("PORT"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		LogFormat:       os.Getenv("LOG_FORMAT"),
		MaterialsFile:   os.Getenv("MATERIALS_FILE"),
		MonthlyOverhead: defaultOverhead,
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = defaultLogFormat
	}

	if raw := os.Getenv("MONTHLY_OVERHEAD"); raw != "" {
		overhead, err := strconv.ParseFloat(raw, 64)
		if err != nil || overhead < 0 {
			log.Printf("warning: MONTHLY_OVERHEAD=%q is not a non-negative number, using %v", raw, defaultOverhead)
		} else {
			cfg.MonthlyOverhead = overhead
		}
	}

	return cfg
}

// IsDev reports whether the app runs in local development mode.
func (c Config) IsDev() bool {
	return c.AppEnv == envDevelopment
}
