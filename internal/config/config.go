package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ContentDir    string
	DataDir       string
	ListenAddr    string
	AdminEmail    string
	AdminPass     string
	AdminPassFile string
	SessionTTL    time.Duration
	WatchContent  bool
	LogPretty     bool
	LogLevel      string
}

// Load reads configuration from the environment, after loading a .env file
// if one is present. Environment variables already set win over .env.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		ContentDir: envOr("NOTES_CONTENT_DIR", "content/notes"),
		DataDir:    envOr("NOTES_DATA_DIR", ".notes"),
		ListenAddr: envOr("NOTES_LISTEN_ADDR", "127.0.0.1:8080"),
		AdminEmail: os.Getenv("NOTES_ADMIN_EMAIL"),
		AdminPass:  os.Getenv("NOTES_ADMIN_PASS"),
		LogLevel:   os.Getenv("NOTES_LOG_LEVEL"),
	}
	cfg.AdminPassFile = envOr("NOTES_ADMIN_PASS_FILE", "")
	cfg.SessionTTL = parseDurationOr("NOTES_SESSION_TTL", 24*time.Hour)
	cfg.WatchContent = parseBoolOr("NOTES_WATCH_CONTENT", true)
	cfg.LogPretty = parseBoolOr("NOTES_LOG_PRETTY", false)
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func parseBoolOr(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
