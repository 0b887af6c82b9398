package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds the process logger. ENVIRONMENT=development switches to the
// console writer; LOG_LEVEL sets the minimum level (default info).
func New(service string) zerolog.Logger {
	return NewWithWriter(os.Stdout, service, os.Getenv("ENVIRONMENT"), os.Getenv("LOG_LEVEL"))
}

func NewWithWriter(w io.Writer, service, environment, level string) zerolog.Logger {
	if environment == "development" {
		w = zerolog.ConsoleWriter{Out: w}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

type requestIDKey struct{}

// WithRequestID stores the correlation id carried across the gateway and the records service
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id stored in ctx, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
