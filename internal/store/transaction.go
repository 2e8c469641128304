package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/escolalib/biblio-api/internal/platform/logger"
)

// TxFn is a function that executes within a database transaction.
// It receives the context and a transaction, and returns an error if the operation fails.
// The transaction is committed if the function returns nil, or rolled back if it returns an error.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// Transactor begins and finishes transactions on behalf of services, so the
// composite operations can be exercised against fakes that run the TxFn
// without a database.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn TxFn) error
}

// SQLTransactor is the production Transactor backed by a *sql.DB.
type SQLTransactor struct {
	db *sql.DB
}

// NewTransactor wraps the database connection in a Transactor.
func NewTransactor(db *sql.DB) *SQLTransactor {
	return &SQLTransactor{db: db}
}

// RunInTransaction implements Transactor.
func (t *SQLTransactor) RunInTransaction(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, t.db, fn)
}

// RunInTransaction executes the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// Otherwise, the transaction is committed.
//
// The loan service runs its composite checkout/return operations through this
// helper so that ledger writes and inventory updates land together or not at
// all. Panics roll the transaction back before being re-raised.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			txErr := tx.Rollback()
			if txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back transaction after panic",
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	err = fn(ctx, tx)
	if err != nil {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf(
				"error rolling back transaction: %v (original error: %w)",
				rollbackErr,
				err,
			)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
