package rpc

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/logging"
)

const (
	requestIDHeader = "x-request-id"
	tracerName      = "github.com/WailSalutem-Health-Care/prescription-service/internal/rpc"
)

// CallRecorder receives one observation per finished RPC
type CallRecorder interface {
	RecordRPCCall(ctx context.Context, method, code string, durationMs float64)
}

// metadataCarrier adapts gRPC metadata to the OpenTelemetry propagator
type metadataCarrier metadata.MD

func (c metadataCarrier) Get(key string) string {
	if v := metadata.MD(c).Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c metadataCarrier) Set(key, value string) {
	metadata.MD(c).Set(key, value)
}

func (c metadataCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// ServerInterceptors returns the unary chain installed on the records server
func ServerInterceptors(log zerolog.Logger, recorder CallRecorder) grpc.ServerOption {
	return grpc.ChainUnaryInterceptor(
		serverTracing(),
		serverLogging(log, recorder),
	)
}

func serverTracing() grpc.UnaryServerInterceptor {
	tracer := otel.Tracer(tracerName)

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		ctx = otel.GetTextMapPropagator().Extract(ctx, metadataCarrier(md.Copy()))

		if ids := md.Get(requestIDHeader); len(ids) > 0 {
			ctx = logging.WithRequestID(ctx, ids[0])
		}

		ctx, span := tracer.Start(ctx, info.FullMethod,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("rpc.system", "grpc"),
				attribute.String("rpc.method", info.FullMethod),
			),
		)
		defer span.End()

		resp, err := handler(ctx, req)
		code := status.Code(err)
		span.SetAttributes(attribute.String("rpc.grpc.status_code", code.String()))
		if err != nil {
			span.SetStatus(otelcodes.Error, code.String())
		}
		return resp, err
	}
}

func serverLogging(log zerolog.Logger, recorder CallRecorder) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)
		code := status.Code(err)

		evt := log.Info()
		if err != nil {
			evt = log.Warn().Err(err)
		}
		evt.
			Str("request_id", logging.RequestID(ctx)).
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("latency", elapsed).
			Msg("rpc")

		if recorder != nil {
			recorder.RecordRPCCall(ctx, info.FullMethod, code.String(), float64(elapsed.Microseconds())/1000)
		}
		return resp, err
	}
}

// ClientInterceptor starts a client span, propagates trace context and the
// request id, and bounds every call by timeout.
func ClientInterceptor(timeout time.Duration, recorder CallRecorder) grpc.UnaryClientInterceptor {
	tracer := otel.Tracer(tracerName)

	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		ctx, span := tracer.Start(ctx, method,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("rpc.system", "grpc"),
				attribute.String("rpc.method", method),
			),
		)
		defer span.End()

		md, ok := metadata.FromOutgoingContext(ctx)
		if ok {
			md = md.Copy()
		} else {
			md = metadata.MD{}
		}
		otel.GetTextMapPropagator().Inject(ctx, metadataCarrier(md))
		if id := logging.RequestID(ctx); id != "" {
			md.Set(requestIDHeader, id)
		}
		ctx = metadata.NewOutgoingContext(ctx, md)

		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		code := status.Code(err)

		span.SetAttributes(attribute.String("rpc.grpc.status_code", code.String()))
		if err != nil {
			span.SetStatus(otelcodes.Error, code.String())
		}
		if recorder != nil {
			recorder.RecordRPCCall(ctx, method, code.String(), float64(time.Since(start).Microseconds())/1000)
		}
		return err
	}
}
