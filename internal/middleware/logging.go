package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/exsplitter/internal/metrics"
)

// loggingInterceptor logs every handled RPC and records its latency.
type loggingInterceptor struct {
	metrics *metrics.Metrics
}

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, trip ID, duration, and any error codes/messages,
// and observes the duration in m (which may be nil).
func LoggingInterceptor(m *metrics.Metrics) connect.Interceptor {
	return &loggingInterceptor{metrics: m}
}

// ServerInterceptors is the interceptor chain for a service handler. The
// token interceptor runs first so the logged RPC carries the caller's trip.
func ServerInterceptors(token connect.Interceptor, m *metrics.Metrics) connect.HandlerOption {
	return connect.WithInterceptors(token, LoggingInterceptor(m))
}

func (i *loggingInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}
		start := time.Now()
		resp, err := next(ctx, req)
		i.log(ctx, req.Spec().Procedure, start, err)
		return resp, err
	}
}

func (i *loggingInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i *loggingInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		start := time.Now()
		err := next(ctx, conn)
		i.log(ctx, conn.Spec().Procedure, start, err)
		return err
	}
}

func (i *loggingInterceptor) log(ctx context.Context, procedure string, start time.Time, err error) {
	elapsed := time.Since(start)
	duration := elapsed.Milliseconds()
	tripID := GetTripID(ctx) // empty for open RPCs called without a token

	code := "ok"
	if err != nil {
		code = connect.CodeOf(err).String()
	}
	i.metrics.ObserveRPC(procedure, code, elapsed)

	if err == nil {
		slog.Info("RPC ok",
			"procedure", procedure,
			"trip_id", tripID,
			"duration_ms", duration,
		)
		return
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		slog.Warn("RPC error",
			"procedure", procedure,
			"code", connectErr.Code(),
			"error", connectErr.Message(),
			"trip_id", tripID,
			"duration_ms", duration,
		)
		return
	}
	slog.Error("RPC error",
		"procedure", procedure,
		"error", err,
		"trip_id", tripID,
		"duration_ms", duration,
	)
}
