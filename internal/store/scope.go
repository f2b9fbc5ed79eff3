package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iklobato/LightAPI/internal/logger"
)

// Scope is a per-request persistence handle. The dispatcher opens exactly
// one scope per request and guarantees release on every exit path: the
// operation handler works inside the scope's transaction, a successful
// handler commits, and deferred Release rolls back anything left open
// (handler failure, panic, cancelled connection).
type Scope struct {
	tx        *sql.Tx
	completed bool
}

// NewScope begins a transaction and wraps it in a Scope.
func (db *DB) NewScope(ctx context.Context) (*Scope, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	return &Scope{tx: tx}, nil
}

// Querier returns the transaction for repository calls inside the scope.
func (s *Scope) Querier() Querier {
	return s.tx
}

// Commit commits the scope's transaction. After Commit, Release is a no-op.
func (s *Scope) Commit() error {
	if s.completed {
		return nil
	}
	s.completed = true

	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

// Release rolls back the transaction unless it was committed. Safe to call
// more than once; intended for use in defer.
func (s *Scope) Release(ctx context.Context) {
	if s.completed {
		return
	}
	s.completed = true

	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logger.FromContext(ctx).Err(err).Msg("error releasing persistence scope")
	}
}
