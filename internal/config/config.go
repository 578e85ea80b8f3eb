package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	StorageDriver        string // "postgres" or "memory"
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	LogLevel             string

	JWTSecret             string
	AllowDevImpersonation bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:              getenv("HTTP_ADDR", ":8080"),
		StorageDriver:         strings.ToLower(getenv("STORAGE_DRIVER", "postgres")),
		LogLevel:              getenv("LOG_LEVEL", "info"),
		CORSAllowCredentials:  getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		AllowDevImpersonation: getenv("ALLOW_DEV_IMPERSONATION", "false") == "true",
	}

	if cfg.StorageDriver == "postgres" {
		cfg.DatabaseURL = mustGetenv("DATABASE_URL")
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.JWTSecret = mustGetenv("JWT_SECRET")
	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}
