//go:build integration

package e2e

import (
	"context"
	"crypto/rsa"
	"database/sql"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/auth"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/gateway"
	httpserver "github.com/WailSalutem-Health-Care/prescription-service/internal/http"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/records"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/rpc"
	"github.com/WailSalutem-Health-Care/prescription-service/internal/testutil"
)

// TestServer represents a complete E2E test environment
type TestServer struct {
	Server        *httptest.Server
	DB            *sql.DB
	MockPublisher *testutil.MockPublisher
	PrivateKey    *rsa.PrivateKey
}

// SetupE2ETest wires the whole stack in process:
// - real PostgreSQL database
// - records service behind a gRPC server on an in-memory listener
// - gateway HTTP server with JWT auth and the GraphQL schema
// - in-memory RabbitMQ publisher
func SetupE2ETest(t *testing.T) *TestServer {
	t.Helper()

	db := testutil.SetupTestDB(t)
	testutil.CleanupTestDB(t, db)

	mockPublisher := testutil.NewMockPublisher()
	log := zerolog.Nop()

	svc := records.NewService(records.NewRepository(db), mockPublisher, nil, log)

	lis := bufconn.Listen(1024 * 1024)
	grpcServer := grpc.NewServer(rpc.ServerInterceptors(log, nil))
	rpc.RegisterRecordsServer(grpcServer, rpc.NewServer(svc))
	go func() {
		_ = grpcServer.Serve(lis)
	}()

	client, conn, err := rpc.Dial(
		rpc.ClientConfig{Address: "bufnet", CallTimeout: 5 * time.Second},
		nil,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	if err != nil {
		t.Fatalf("Failed to dial records service: %v", err)
	}

	perms, err := auth.LoadPermissions("../../permissions.yml")
	if err != nil {
		t.Fatalf("Failed to load permissions: %v", err)
	}

	verifier, privateKey := testutil.CreateTestVerifier(t)

	schema, err := gateway.NewSchema(gateway.NewResolver(client, perms, nil, log))
	if err != nil {
		t.Fatalf("Failed to build schema: %v", err)
	}

	router := httpserver.SetupRouter(httpserver.RouterDeps{
		Config: httpserver.Config{
			AllowedOrigins: []string{"http://localhost:3000"},
			RateLimitRPM:   1000,
		},
		GraphQL: gateway.Handler(schema),
		Auth:    auth.Middleware(verifier, nil, log),
		Log:     log,
	})
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		conn.Close()
		grpcServer.Stop()
		testutil.CleanupTestDB(t, db)
	})

	return &TestServer{
		Server:        server,
		DB:            db,
		MockPublisher: mockPublisher,
		PrivateKey:    privateKey,
	}
}

// NewClient creates a new HTTP test client for this server with the given token
func (ts *TestServer) NewClient(token string) *testutil.HTTPTestClient {
	return testutil.NewHTTPTestClient(ts.Server.URL, token)
}

// DoctorClient returns a client authenticated as a DOCTOR
func (ts *TestServer) DoctorClient(t *testing.T) *testutil.HTTPTestClient {
	t.Helper()
	return ts.NewClient(testutil.GenerateDoctorToken(t, ts.PrivateKey))
}
