package http

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// RouterDeps holds what the gateway routes are built from
type RouterDeps struct {
	Config  Config
	GraphQL http.Handler
	// Auth authenticates /graphql. Either auth.Middleware or auth.DevMiddleware.
	Auth    func(http.Handler) http.Handler
	Metrics RequestRecorder
	Log     zerolog.Logger
}

// SetupRouter initializes all routes for the gateway
func SetupRouter(d RouterDeps) http.Handler {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("prescription-gateway"))
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(d.Log, d.Metrics))

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"prescription-gateway"}`))
	}).Methods("GET")

	// GraphQL endpoint, every field checks its own permission
	r.Handle("/graphql",
		httprate.LimitByIP(d.Config.RateLimitRPM, time.Minute)(
			d.Auth(
				limitBody(d.GraphQL),
			),
		),
	).Methods("POST")

	return CORSMiddleware(d.Config.AllowedOrigins)(r)
}
