package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	AppEnv      string // development | production

	// Email transport. Empty SMTPHost means "not configured": the server
	// still starts, dispatches are logged instead of sent.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	// MonitorToken, when set, is required as a Bearer token on the
	// /monitor-products and /check-product endpoints. Empty keeps them
	// open, matching the original deployment behind a private network.
	MonitorToken string
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:  getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=same port=5432 sslmode=disable"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		AppEnv:       getEnv("APP_ENV", "development"),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		EmailFrom:    getEnv("EMAIL_FROM", "noreply@same-app.com"),
		MonitorToken: getEnv("MONITOR_TOKEN", ""),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if cfg.SMTPHost == "" {
		log.Println("[WARN] SMTP_HOST not set, supplier emails will be logged instead of sent")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[WARN] %s is not a number, using default %d", key, def)
	}
	return def
}
