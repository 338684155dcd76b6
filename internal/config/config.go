package config

import (
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	BotToken        string
	DatabaseURL     string
	CalendarFile    string
	DefaultCalendar string
	LogLevel        string
}

// Load reads the process environment. Callers load .env first with godotenv.
func Load() Config {
	cfg := Config{
		BotToken:        os.Getenv("BOT_TOKEN"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		CalendarFile:    os.Getenv("CALENDAR_FILE"),
		DefaultCalendar: os.Getenv("DEFAULT_CALENDAR"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "./data/data.db"
	}
	if cfg.DefaultCalendar == "" {
		cfg.DefaultCalendar = "default"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg
}

// EnsureDataDir creates the directory holding the database file.
func (c Config) EnsureDataDir() error {
	dir := filepath.Dir(c.DatabaseURL)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}
