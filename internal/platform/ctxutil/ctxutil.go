// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil reads and writes the request-scoped values that travel in a
[context.Context]: the correlation id and the structured logger.

Workflows enrich the context logger with their identifiers once, so every
later line in the request, rollback failures included, carries them.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/usergroups/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID attaches the X-Request-ID value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the request id, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger attaches a request logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request logger, or [slog.Default] when none is attached.
func GetLogger(ctx context.Context) *slog.Logger {
	return LoggerOr(ctx, slog.Default())
}

// LoggerOr returns the request logger, or fallback when none is attached.
func LoggerOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return fallback
}

// WithLogAttrs derives a context whose logger, the request one or else
// fallback, carries attrs on every record.
//
//	ctx = ctxutil.WithLogAttrs(ctx, service.logger, slog.Int64("group_id", groupID))
func WithLogAttrs(ctx context.Context, fallback *slog.Logger, attrs ...any) context.Context {
	return WithLogger(ctx, LoggerOr(ctx, fallback).With(attrs...))
}
