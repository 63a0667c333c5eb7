package db

import (
	"context"
	"log/slog"
	"time"

	"library-lending/internal/pkg/config"
	"library-lending/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

const pingTimeout = 5 * time.Second

// ConnectPool opens the pgx pool used by every write path.
func ConnectPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, func(), error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.BuildDSN())
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to parse database config")
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to open database pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, errs.Wrap(err, "failed to ping database")
	}

	return pool, pool.Close, nil
}

// ConnectReader opens a database/sql handle on the read DSN for aggregate queries.
func ConnectReader(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, func(), error) {
	db, err := sqlx.Open("postgres", cfg.BuildReadDSN())
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to open read database")
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, errs.Wrap(err, "failed to ping read database")
	}

	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(int(max(cfg.MaxConns/2, 2)))
	db.SetConnMaxLifetime(time.Hour)

	cleanup := func() {
		if err := db.Close(); err != nil {
			slog.Warn("failed to close read database", "error", err.Error())
		}
	}
	return db, cleanup, nil
}
