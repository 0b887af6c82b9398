package http

import (
	"context"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/logging"
)

const requestIDHeader = "X-Request-ID"

// maxBodyBytes caps GraphQL request bodies
const maxBodyBytes = 1 << 20

// RequestRecorder receives one observation per HTTP request
type RequestRecorder interface {
	RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64)
}

// RequestIDMiddleware reuses the caller's X-Request-ID or generates one, and
// echoes it on the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

// LoggingMiddleware writes one log line and one metric per request. metrics may be nil.
func LoggingMiddleware(log zerolog.Logger, metrics RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)

			route := r.URL.Path
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}

			evt := log.Info()
			if m.Code >= http.StatusInternalServerError {
				evt = log.Error()
			} else if m.Code >= http.StatusBadRequest {
				evt = log.Warn()
			}
			evt.Str("request_id", logging.RequestID(r.Context())).
				Str("method", r.Method).
				Str("route", route).
				Int("status", m.Code).
				Dur("latency", m.Duration).
				Int64("bytes", m.Written).
				Msg("http request")

			if metrics != nil {
				metrics.RecordHTTPRequest(r.Context(), r.Method, route, m.Code, float64(m.Duration)/float64(time.Millisecond))
			}
		})
	}
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		next.ServeHTTP(w, r)
	})
}
