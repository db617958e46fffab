package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/bolao/internal/domain/storage"
)

// UnitOfWork runs each callback in its own transaction. A transaction-scoped
// advisory lock serializes units of work so recomputes see a stable snapshot.
type UnitOfWork struct {
	db *sqlx.DB
}

func NewUnitOfWork(db *sqlx.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos storage.Repositories) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", advisoryLockUnitWork); err != nil {
		return fmt.Errorf("acquire unit of work lock: %w", err)
	}

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit unit of work: %w", err)
	}
	return nil
}

// NewRepositories binds the repositories to db, which is either the pool or a transaction.
func NewRepositories(db sqlx.ExtContext) storage.Repositories {
	return storage.Repositories{
		Users:       NewUserRepository(db),
		Matches:     NewMatchRepository(db),
		Predictions: NewPredictionRepository(db),
	}
}
