package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/db"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/logging"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/records"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/rpc"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/telemetry"
)

func main() {
	_ = godotenv.Load()

	log := logging.New("records-service")
	ctx := context.Background()

	provider, err := telemetry.InitProvider(ctx, telemetry.LoadConfig("records-service"), log)
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

	dbCfg, err := db.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid database configuration")
	}
	database, err := db.Connect(ctx, dbCfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	var publisher messaging.PublisherInterface = messaging.NoopPublisher{}
	if msgCfg := messaging.LoadConfig(); msgCfg.Enabled {
		p, err := messaging.NewPublisher(msgCfg, log)
		if err != nil {
			log.Warn().Err(err).Msg("continuing without event publishing")
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	svc := records.NewService(records.NewRepository(database), publisher, metrics, log)

	srvCfg := rpc.LoadServerConfig()
	lis, err := net.Listen("tcp", srvCfg.Address)
	if err != nil {
		log.Fatal().Err(err).Str("addr", srvCfg.Address).Msg("failed to listen")
	}

	s := grpc.NewServer(rpc.ServerInterceptors(log, metrics))
	rpc.RegisterRecordsServer(s, rpc.NewServer(svc))

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthSrv)

	go func() {
		log.Info().Str("addr", srvCfg.Address).Msg("records-service listening")
		if err := s.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("grpc server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	healthSrv.Shutdown()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("server stopped gracefully")
	case <-stopCtx.Done():
		log.Warn().Msg("server forced to shutdown")
		s.Stop()
	}
}
