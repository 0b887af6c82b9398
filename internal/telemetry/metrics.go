package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the gateway and the records service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// GraphQL metrics
	GraphQLOperationsTotal metric.Int64Counter

	// RPC metrics
	RPCCallsTotal metric.Int64Counter
	RPCDurationMs metric.Float64Histogram

	// Business metrics
	RecordsOperationsTotal metric.Int64Counter

	// Auth metrics
	AuthFailuresTotal metric.Int64Counter
}

// InitMetrics initializes all custom metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/WailSalutem-Health-Care/prescription-service")

	httpRequestsTotal, err := meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	httpDurationMs, err := meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	graphQLOperationsTotal, err := meter.Int64Counter(
		"graphql_operations_total",
		metric.WithDescription("Total number of GraphQL field resolutions"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	rpcCallsTotal, err := meter.Int64Counter(
		"rpc_calls_total",
		metric.WithDescription("Total number of records RPC calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	rpcDurationMs, err := meter.Float64Histogram(
		"rpc_duration_milliseconds",
		metric.WithDescription("Records RPC duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	recordsOperationsTotal, err := meter.Int64Counter(
		"records_operations_total",
		metric.WithDescription("Total number of records operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	authFailuresTotal, err := meter.Int64Counter(
		"auth_failures_total",
		metric.WithDescription("Total number of authentication failures"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		HTTPRequestsTotal:      httpRequestsTotal,
		HTTPDurationMs:         httpDurationMs,
		GraphQLOperationsTotal: graphQLOperationsTotal,
		RPCCallsTotal:          rpcCallsTotal,
		RPCDurationMs:          rpcDurationMs,
		RecordsOperationsTotal: recordsOperationsTotal,
		AuthFailuresTotal:      authFailuresTotal,
	}, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPDurationMs.Record(ctx, durationMs, metric.WithAttributes(attrs...))
}

// RecordGraphQLOperation records one resolved query or mutation field
func (m *Metrics) RecordGraphQLOperation(ctx context.Context, field, code string) {
	m.GraphQLOperationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("field", field),
		attribute.String("code", code),
	))
}

// RecordRPCCall records a records RPC call with its status code
func (m *Metrics) RecordRPCCall(ctx context.Context, method, code string, durationMs float64) {
	attrs := []attribute.KeyValue{
		attribute.String("rpc_method", method),
		attribute.String("rpc_code", code),
	}

	m.RPCCallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.RPCDurationMs.Record(ctx, durationMs, metric.WithAttributes(attrs...))
}

// RecordRecordsOperation records a records service operation metric
func (m *Metrics) RecordRecordsOperation(ctx context.Context, operation, outcome string) {
	m.RecordsOperationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

// RecordAuthFailure records an authentication failure metric
func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	m.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}
