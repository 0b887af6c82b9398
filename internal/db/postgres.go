package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// Config holds the PostgreSQL connection settings
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxOpenConns int
	MaxIdleConns int
}

// LoadConfig reads database settings from the environment
func LoadConfig() (Config, error) {
	cfg := Config{
		Host:         os.Getenv("DB_HOST"),
		Port:         getEnv("DB_PORT", "5432"),
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		SSLMode:      getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns: 25,
		MaxIdleConns: 5,
	}

	if cfg.Host == "" || cfg.User == "" || cfg.Password == "" || cfg.Name == "" {
		return Config{}, fmt.Errorf("missing required database environment variables")
	}
	return cfg, nil
}

// DSN renders the lib/pq connection string
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Connect creates a connection to PostgreSQL with OpenTelemetry instrumentation
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*sql.DB, error) {
	attrs := otelsql.WithAttributes(
		semconv.DBSystemPostgreSQL,
		semconv.DBName(cfg.Name),
	)

	db, err := otelsql.Open("postgres", cfg.DSN(), attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err = otelsql.RegisterDBStatsMetrics(db, attrs); err != nil {
		log.Warn().Err(err).Msg("failed to register database stats metrics")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Name).
		Msg("connected to PostgreSQL")
	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
