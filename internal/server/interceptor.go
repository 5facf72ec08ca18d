package server

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// NewLoggingInterceptor logs every call with its duration. Failed calls are
// logged at Warn with their code.
func NewLoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			res, err := next(ctx, req)
			attrs := []any{"procedure", req.Spec().Procedure, "duration", time.Since(start)}
			if err != nil {
				slog.Warn("request failed", append(attrs, "code", connect.CodeOf(err).String(), "error", err)...)
				return res, err
			}
			slog.Debug("request served", attrs...)
			return res, nil
		}
	}
}
