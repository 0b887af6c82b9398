package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/auth"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/gateway"
	httpapi "github.com/WailSalutem-Health-Care/prescription-service/internal/http"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/logging"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/rpc"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/telemetry"
)

const jwksRefreshInterval = 15 * time.Minute

func main() {
	_ = godotenv.Load()

	log := logging.New("prescription-gateway")
	ctx := context.Background()

	provider, err := telemetry.InitProvider(ctx, telemetry.LoadConfig("prescription-gateway"), log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		provider.Shutdown(shutdownCtx)
	}()

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	client, conn, err := rpc.Dial(rpc.LoadClientConfig(), metrics)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create records client")
	}
	defer conn.Close()

	httpCfg := httpapi.LoadConfig()
	perms, err := auth.LoadPermissions(httpCfg.PermissionsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", httpCfg.PermissionsFile).Msg("failed to load permissions")
	}

	authCfg := auth.LoadConfig()
	var authMiddleware func(http.Handler) http.Handler
	if authCfg.Mode == auth.ModeDevelopment {
		log.Warn().Strs("roles", authCfg.DevRoles).Msg("AUTH_MODE=development, requests are not authenticated")
		authMiddleware = auth.DevMiddleware(authCfg.DevRoles)
	} else {
		jwks, err := auth.NewJWKS(authCfg.JWKSURL, jwksRefreshInterval, log)
		if err != nil {
			log.Fatal().Err(err).Str("jwks_url", authCfg.JWKSURL).Msg("failed to load JWKS")
		}
		defer jwks.Close()
		authMiddleware = auth.Middleware(auth.NewVerifier(authCfg, jwks), metrics, log)
	}

	schema, err := gateway.NewSchema(gateway.NewResolver(client, perms, metrics, log))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build GraphQL schema")
	}

	srv := &http.Server{
		Addr: ":" + httpCfg.Port,
		Handler: httpapi.SetupRouter(httpapi.RouterDeps{
			Config:  httpCfg,
			GraphQL: gateway.Handler(schema),
			Auth:    authMiddleware,
			Metrics: metrics,
			Log:     log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("prescription-gateway listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
