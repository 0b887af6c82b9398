package rpc

import (
	"fmt"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ClientConfig holds the records service address and per-call timeout
type ClientConfig struct {
	Address     string
	CallTimeout time.Duration
}

// LoadClientConfig reads RECORDS_SERVICE_ADDR and RECORDS_CALL_TIMEOUT
func LoadClientConfig() ClientConfig {
	cfg := ClientConfig{
		Address:     os.Getenv("RECORDS_SERVICE_ADDR"),
		CallTimeout: 5 * time.Second,
	}
	if cfg.Address == "" {
		cfg.Address = "localhost:9090"
	}
	if v := os.Getenv("RECORDS_CALL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.CallTimeout = d
		}
	}
	return cfg
}

// ServerConfig holds the records service listen address
type ServerConfig struct {
	Address string
}

// LoadServerConfig reads RECORDS_GRPC_ADDR
func LoadServerConfig() ServerConfig {
	addr := os.Getenv("RECORDS_GRPC_ADDR")
	if addr == "" {
		addr = ":9090"
	}
	return ServerConfig{Address: addr}
}

// Dial creates a lazily connected client for the records service.
// Extra dial options are appended after the defaults.
func Dial(cfg ClientConfig, recorder CallRecorder, opts ...grpc.DialOption) (RecordsClient, *grpc.ClientConn, error) {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(ClientInterceptor(cfg.CallTimeout, recorder)),
	}, opts...)

	conn, err := grpc.Dial(cfg.Address, dialOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial records service at %s: %w", cfg.Address, err)
	}
	return NewRecordsClient(conn), conn, nil
}
