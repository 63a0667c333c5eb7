// Package postgres implements the lending storage ports on PostgreSQL. Capacity changes are
// single conditional UPDATEs; the row itself is the lock.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"

	"library-lending/internal/infra"
	"library-lending/internal/pkg/errs"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // goqu dialect
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Backend labels retry metrics for this package.
const Backend = "postgres"

//go:embed schema.sql
var schemaSQL string

type Store struct {
	pool    *pgxpool.Pool
	retrier *infra.Retrier
	dialect goqu.DialectWrapper
}

func NewStore(pool *pgxpool.Pool, retrier *infra.Retrier) *Store {
	return &Store{
		pool:    pool,
		retrier: retrier,
		dialect: goqu.Dialect("postgres"),
	}
}

// ApplySchema creates missing tables and indexes.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return errs.Wrap(err, "failed to apply schema")
	}
	return nil
}

// withTx runs fn in one transaction. Retries belong to the caller's Retrier, which
// re-runs the whole transaction on serialization failures.
func (s *Store) withTx(ctx context.Context, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return errs.Wrap(err, "failed to begin transaction")
	}

	if err = fn(tx); err == nil {
		if err = tx.Commit(ctx); err == nil {
			return nil
		}
		err = errs.Wrap(err, "failed to commit transaction")
	}

	if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
		slog.Warn("rollback failed", "error", rollbackErr.Error())
	}
	return err
}
