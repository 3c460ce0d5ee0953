package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/refinance_review_app/internal/apperrors"
	portsrepo "github.com/SscSPs/refinance_review_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

var _ portsrepo.TransactionManager = (*BaseRepository)(nil)

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, persistenceError("failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return persistenceError("failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return persistenceError("failed to rollback transaction", err)
	}
	return nil
}

// txStarter opens transactions with explicit options. *pgxpool.Pool satisfies it.
type txStarter interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var snapshotReadOptions = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// readSnapshot runs fn in a read-only repeatable-read transaction, so every
// query fn issues sees the same committed state.
func readSnapshot(ctx context.Context, db txStarter, fn func(q querier) error) error {
	tx, err := db.BeginTx(ctx, snapshotReadOptions)
	if err != nil {
		return persistenceError("failed to begin read transaction", err)
	}
	defer tx.Rollback(ctx) // no-op once committed

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return persistenceError("failed to commit read transaction", err)
	}
	return nil
}

// persistenceError marks a driver failure as retryable store unavailability.
func persistenceError(msg string, err error) error {
	return apperrors.NewAppError(http.StatusServiceUnavailable, msg, fmt.Errorf("%w: %w", apperrors.ErrPersistence, err))
}
