package postgres

import (
	"database/sql/driver"
	"strings"

	"library-lending/internal/infra"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	pgErrCodeUniqueViolation      = "23505"
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
	pgErrCodeTooManyConnections   = "53300"
	pgErrCodeAdminShutdown        = "57P01"
	pgErrClassConnection          = "08"
)

// IsTransient reports driver failures worth retrying: lost connections, serialization
// conflicts and deadlocks. It understands both pgx and lib/pq errors.
func IsTransient(err error) bool {
	if pgconn.SafeToRetry(err) || errs.Is(err, driver.ErrBadConn) {
		return true
	}
	code, ok := sqlState(err)
	if !ok {
		return false
	}
	switch code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected,
		pgErrCodeTooManyConnections, pgErrCodeAdminShutdown:
		return true
	}
	return strings.HasPrefix(code, pgErrClassConnection)
}

func sqlState(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errs.As(err, &pgErr) {
		return pgErr.Code, true
	}
	var pqErr *pq.Error
	if errs.As(err, &pqErr) {
		return string(pqErr.Code), true
	}
	return "", false
}

func isUniqueViolation(err error) bool {
	code, ok := sqlState(err)
	return ok && code == pgErrCodeUniqueViolation
}

// wrapErr classifies a driver error into a repository error kind.
func wrapErr(msg string, err error) error {
	switch {
	case pgconv.IsNoRows(err):
		return infra.WrapRepoErr(msg, err, infra.KindNotFound)
	case isUniqueViolation(err):
		return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
	case IsTransient(err):
		return infra.WrapRepoErr(msg, err, infra.KindTransient)
	default:
		return infra.WrapRepoErr(msg, err)
	}
}
