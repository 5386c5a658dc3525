// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/usergroups/internal/platform/ctxkey"
	"github.com/taibuivan/usergroups/internal/platform/ctxutil"
	"github.com/taibuivan/usergroups/internal/platform/dberr"
)

// # Query Surfaces

// DBTX is the statement surface shared by [*pgxpool.Pool] and [pgx.Tx].
// Repositories depend on it so they run unchanged inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner opens a transaction on a dedicated pooled connection.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// txState is stored in the context for the lifetime of one transaction.
type txState struct {
	tx          pgx.Tx
	afterCommit []func()
}

// # Unit of Work

// Transactor runs a unit of work inside a single database transaction.
//
// # Connection Ownership
//
// Begin on a pgxpool acquires a connection that belongs to this unit of work
// only. Commit and Rollback both hand it back to the pool, whether or not the
// statement itself succeeded, so every exit path releases it exactly once.
type Transactor struct {
	db     TxBeginner
	logger *slog.Logger
}

// NewTransactor constructs a [Transactor] over a pool (or any [TxBeginner]).
func NewTransactor(db TxBeginner, logger *slog.Logger) *Transactor {
	return &Transactor{db: db, logger: logger}
}

/*
WithinTransaction executes work inside a transaction.

Description: Begins, calls work with a context carrying the transaction, and
commits. If work fails the transaction is rolled back and work's error is
returned as-is, so callers can still match it with errors.Is / errors.As.
A panic inside work rolls back before re-panicking.

When ctx already carries a transaction, work joins it: no BEGIN or COMMIT is
issued and the outermost call decides the outcome.

Parameters:
  - ctx: context.Context
  - work: func(ctx context.Context) error

Returns:
  - error: work's error unchanged, or a STORE-FAILURE for begin/commit
*/
func (transactor *Transactor) WithinTransaction(ctx context.Context, work func(ctx context.Context) error) error {
	if _, nested := stateFrom(ctx); nested {
		return work(ctx)
	}

	tx, err := transactor.db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "begin_tx")
	}

	state := &txState{tx: tx}
	txCtx := context.WithValue(ctx, ctxkey.KeyTransaction, state)

	defer func() {
		if recovered := recover(); recovered != nil {
			transactor.rollback(ctx, tx)
			panic(recovered)
		}
	}()

	if err := work(txCtx); err != nil {
		transactor.rollback(ctx, tx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "commit_tx")
	}

	for _, hook := range state.afterCommit {
		hook()
	}

	return nil
}

// rollback aborts tx. It ignores ctx cancellation so an aborted request still
// returns its connection, and only logs failures: the caller's error wins.
func (transactor *Transactor) rollback(ctx context.Context, tx pgx.Tx) {
	err := tx.Rollback(context.WithoutCancel(ctx))
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		ctxutil.LoggerOr(ctx, transactor.logger).ErrorContext(ctx, "transaction_rollback_failed", slog.Any("error", err))
	}
}

// # Context Helpers

// Executor returns the transaction carried by ctx, or fallback when there is none.
func Executor(ctx context.Context, fallback DBTX) DBTX {
	if state, ok := stateFrom(ctx); ok {
		return state.tx
	}
	return fallback
}

// AfterCommit schedules fn to run once the enclosing transaction has committed.
// Hooks are dropped on rollback. Outside a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func()) {
	if state, ok := stateFrom(ctx); ok {
		state.afterCommit = append(state.afterCommit, fn)
		return
	}
	fn()
}

func stateFrom(ctx context.Context) (*txState, bool) {
	state, ok := ctx.Value(ctxkey.KeyTransaction).(*txState)
	return state, ok && state != nil
}
