package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr     string
	GinMode     string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBName      string
	JWTSecret   string
	CORSOrigins []string
}

func LoadEnv() Env {
	// missing .env is fine; real deployments set vars directly
	_ = godotenv.Load()

	return Env{
		AppAddr:     getEnv("APP_ADDR", ":8080"),
		GinMode:     strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBUser:      getEnv("DB_USER", "root"),
		DBPassword:  strings.TrimSpace(os.Getenv("DB_PASSWORD")),
		DBHost:      getEnv("DB_HOST", "127.0.0.1:3306"),
		DBName:      getEnv("DB_NAME", "fleet_manager"),
		JWTSecret:   getEnv("JWT_SECRET", "super-secret-key-change-me"),
		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}
}

func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
