package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

const defaultAllowedOrigins = "http://localhost:3000,https://wailsalutem-web-ui.netlify.app"

// parseOrigins splits the comma separated ALLOWED_ORIGINS value
func parseOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		raw = defaultAllowedOrigins
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// CORSMiddleware adds CORS headers to allow frontend access and answers preflight requests
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           3600,
	})
}
