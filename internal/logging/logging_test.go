package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "records-service", "production", "")

	log.Info().Str("reference_number", "RX-1").Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "records-service", entry["service"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "RX-1", entry["reference_number"])
	assert.Contains(t, entry, "time")
}

func TestNewWithWriter_Level(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{name: "default is info", level: "", wantDebug: false, wantInfo: true},
		{name: "debug", level: "DEBUG", wantDebug: true, wantInfo: true},
		{name: "warn", level: "warn", wantDebug: false, wantInfo: false},
		{name: "garbage falls back to info", level: "loud", wantDebug: false, wantInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&buf, "svc", "", tt.level)

			log.Debug().Msg("debug")
			assert.Equal(t, tt.wantDebug, buf.Len() > 0)

			buf.Reset()
			log.Info().Msg("info")
			assert.Equal(t, tt.wantInfo, buf.Len() > 0)
		})
	}
}

func TestNewWithWriter_DevelopmentIsHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "gateway", "development", "info")

	log.Info().Msg("started")

	assert.Contains(t, buf.String(), "started")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))

	ctx = WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", RequestID(ctx))
}
