package config

import (
	"os"
	"strconv"
)

// Config is built once in main and passed down; nothing mutates it
// afterwards.
type Config struct {
	Port        string
	DatabaseURL string // empty means the local JSON store
	DataDir     string // local store directory
	UploadsDir  string
	PublicURL   string // base URL for uploaded files and exports
	AuthSecret  string // empty disables auth
	FrontendURL string
	LogLevel    string
	LogFormat   string
	RateLimit   int // requests per IP per minute
}

func Load() Config {
	cfg := Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DataDir:     getenv("DATA_DIR", "data"),
		UploadsDir:  getenv("UPLOADS_DIR", "uploads"),
		AuthSecret:  os.Getenv("AUTH_SECRET"),
		FrontendURL: getenv("FRONTEND_URL", "http://localhost:3000"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   getenv("LOG_FORMAT", "console"),
		RateLimit:   getint("RATE_LIMIT", 200),
	}
	cfg.PublicURL = getenv("PUBLIC_URL", "http://localhost:"+cfg.Port)
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
