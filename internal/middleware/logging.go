package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/metrics"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// and records its latency in m, which may be nil.
// Connect errors are logged at WARN, other errors at ERROR.
func LoggingInterceptor(m *metrics.Metrics) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			elapsed := time.Since(start)

			procedure := req.Spec().Procedure
			level, code, msg := rpcOutcome(err)
			attrs := []slog.Attr{
				slog.String("procedure", procedure),
				slog.String("user_id", GetUserID(ctx)),
				slog.Int64("duration_ms", elapsed.Milliseconds()),
			}
			if err != nil {
				attrs = append(attrs, slog.String("code", code), slog.String("error", msg))
			}
			slog.LogAttrs(ctx, level, "RPC "+code, attrs...)

			m.ObserveRPC(procedure, code, elapsed)
			return resp, err
		}
	}
}

func rpcOutcome(err error) (slog.Level, string, string) {
	if err == nil {
		return slog.LevelInfo, "ok", ""
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return slog.LevelWarn, connectErr.Code().String(), connectErr.Message()
	}
	return slog.LevelError, connect.CodeUnknown.String(), err.Error()
}
