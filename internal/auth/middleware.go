package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const principalKey ctxKey = "auth_principal"

var tracer = otel.Tracer("github.com/WailSalutem-Health-Care/prescription-service/auth")

// MetricsRecorder interface for recording auth metrics
type MetricsRecorder interface {
	RecordAuthFailure(ctx context.Context, reason string)
}

// Middleware validates the bearer token and injects the Principal into the
// request context. metrics may be nil.
func Middleware(ver TokenVerifier, metrics MetricsRecorder, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(r.Context(), "auth.Middleware",
				trace.WithSpanKind(trace.SpanKindInternal),
			)
			defer span.End()

			fail := func(reason, msg string) {
				span.SetStatus(codes.Error, msg)
				span.SetAttributes(attribute.String("error.type", reason))
				if metrics != nil {
					metrics.RecordAuthFailure(ctx, reason)
				}
				writeUnauthenticated(w, msg)
			}

			authz := r.Header.Get("Authorization")
			if authz == "" {
				fail("missing_authorization", "missing authorization")
				return
			}

			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				fail("invalid_header_format", "invalid authorization header")
				return
			}

			pr, err := ver.ParseAndVerifyToken(parts[1])
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("token validation failed")
				fail("invalid_token", "invalid token")
				return
			}

			span.SetAttributes(
				attribute.String("user.id", pr.UserID),
				attribute.StringSlice("user.roles", pr.Roles),
			)
			span.SetStatus(codes.Ok, "authentication successful")

			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(ctx, pr)))
		})
	}
}

// DevMiddleware authenticates every request as a local developer holding roles.
// Only installed when AUTH_MODE=development.
func DevMiddleware(roles []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pr := &Principal{UserID: "dev-user", Username: "developer", Roles: roles}
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), pr)))
		})
	}
}

// writeUnauthenticated answers in the GraphQL error shape so clients need one parser
func writeUnauthenticated(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"errors": []map[string]interface{}{{
			"message":    msg,
			"extensions": map[string]string{"code": "UNAUTHENTICATED"},
		}},
	})
}

// Authorize checks that the caller in ctx holds permission. It returns
// ErrUnauthenticated or ErrPermissionDenied otherwise.
func Authorize(ctx context.Context, permission string, perms Permissions) error {
	_, span := tracer.Start(ctx, "auth.Authorize",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("permission.required", permission)),
	)
	defer span.End()

	pr, ok := FromContext(ctx)
	if !ok {
		span.SetStatus(codes.Error, "unauthenticated")
		return ErrUnauthenticated
	}

	allowed := HasPermission(pr, permission, perms)
	span.SetAttributes(
		attribute.Bool("permission.allowed", allowed),
		attribute.String("user.id", pr.UserID),
	)
	if !allowed {
		span.SetStatus(codes.Error, "forbidden")
		return ErrPermissionDenied
	}
	return nil
}

// FromContext extracts Principal from context.
func FromContext(ctx context.Context) (*Principal, bool) {
	pr, ok := ctx.Value(principalKey).(*Principal)
	return pr, ok && pr != nil
}

// ContextWithPrincipal adds a principal to the context
func ContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// HasPermission checks roles -> permissions mapping.
// Role lookup is case-insensitive so Keycloak realm roles (e.g. "doctor") match permissions.yml (e.g. "DOCTOR").
func HasPermission(pr *Principal, permission string, perms Permissions) bool {
	for _, role := range pr.Roles {
		pList, ok := perms[role]
		if !ok {
			pList, ok = perms[strings.ToUpper(role)]
		}
		if !ok {
			continue
		}
		for _, p := range pList {
			if p == permission {
				return true
			}
		}
	}
	return false
}
