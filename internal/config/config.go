package config

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/scheduler"
)

// Config is the environment-driven configuration for the serve process.
// One-shot commands take everything from flags instead.
type Config struct {
	DBPath    string
	LogMode   string
	Schedules scheduler.Schedules
}

// Load reads .env (when present) and the environment. Every value has a
// default; the default cron specs order daily before weekly before monthly,
// with retention after all three.
func Load(log *zap.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using system env")
	}

	return &Config{
		DBPath:  os.Getenv("NUTRILOG_DB"),
		LogMode: getEnv("NUTRILOG_LOG_MODE", "dev"),
		Schedules: scheduler.Schedules{
			Daily:     getEnv("NUTRILOG_CRON_DAILY", "30 0 * * *"),
			Weekly:    getEnv("NUTRILOG_CRON_WEEKLY", "0 1 * * 0"),
			Monthly:   getEnv("NUTRILOG_CRON_MONTHLY", "0 2 1 * *"),
			Retention: getEnv("NUTRILOG_CRON_RETENTION", "0 3 * * *"),
		},
	}
}

func getEnv(key, fallback string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return fallback
}
