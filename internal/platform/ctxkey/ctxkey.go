// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines typed context keys used by middleware, handlers and
// the transaction manager.
//
// # Safety
//
// An unexported key type prevents collisions with third-party packages that
// also store values in a [context.Context].
package ctxkey

type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"

	// KeyTransaction is the context key for the in-flight database transaction.
	KeyTransaction key = "transaction"
)
