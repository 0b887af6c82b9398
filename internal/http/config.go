package http

import (
	"os"
	"strconv"
)

// Config holds the gateway's HTTP settings
type Config struct {
	Port            string
	AllowedOrigins  []string
	RateLimitRPM    int
	PermissionsFile string
}

// LoadConfig reads gateway HTTP config from env with defaults
func LoadConfig() Config {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		AllowedOrigins:  parseOrigins(os.Getenv("ALLOWED_ORIGINS")),
		RateLimitRPM:    120,
		PermissionsFile: getEnv("PERMISSIONS_FILE", "permissions.yml"),
	}

	if v := os.Getenv("RATE_LIMIT_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitRPM = n
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
