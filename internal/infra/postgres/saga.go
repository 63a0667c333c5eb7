package postgres

import (
	"context"
	"time"

	"library-lending/internal/infra"
	"library-lending/internal/pkg/pgconv"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	sagaColumns = `idempotency_key, user_id, item_id, request_hash, status, borrowing_id,
		lease_token, lease_until, created_at, updated_at`

	insertSagaSQL = `INSERT INTO borrow_sagas (` + sagaColumns + `)
		VALUES ($1, $2, $3, $4, 'pending', $5, $6, $7, $8, $8)
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING ` + sagaColumns

	lockSagaSQL = `SELECT ` + sagaColumns + ` FROM borrow_sagas
		WHERE idempotency_key = $1 FOR UPDATE`

	reclaimSagaSQL = `UPDATE borrow_sagas
		SET status = CASE WHEN status = 'compensated' THEN 'pending' ELSE status END,
			lease_token = $2, lease_until = $3, updated_at = $4
		WHERE idempotency_key = $1
		RETURNING ` + sagaColumns

	transitionSagaSQL = `UPDATE borrow_sagas SET status = $4, updated_at = $5
		WHERE idempotency_key = $1 AND lease_token = $2 AND status = $3`

	compensateSagaSQL = `UPDATE borrow_sagas SET status = 'compensated', updated_at = $3
		WHERE idempotency_key = $1 AND lease_token = $2 AND status <> 'completed'`

	sagaStatusSQL = `SELECT status, lease_token FROM borrow_sagas WHERE idempotency_key = $1`
)

type SagaLog struct {
	*Store
}

func NewSagaLog(s *Store) *SagaLog {
	return &SagaLog{Store: s}
}

// Begin claims the key inside one transaction; the row lock serializes competing claims.
func (l *SagaLog) Begin(ctx context.Context, p shared.BeginSagaParams) (*shared.BorrowSaga, bool, error) {
	var (
		saga    *shared.BorrowSaga
		claimed bool
	)
	err := l.retrier.Do(ctx, "saga.begin", false, func(ctx context.Context) error {
		return l.withTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
			inserted, err := scanSaga(tx.QueryRow(ctx, insertSagaSQL,
				p.Key, p.UserID, p.ItemID, p.RequestHash, p.BorrowingID, p.LeaseToken, p.LeaseUntil, p.Now))
			if err == nil {
				saga, claimed = inserted, true
				return nil
			}
			if !pgconv.IsNoRows(err) {
				return wrapErr("failed to insert saga", err)
			}

			existing, err := scanSaga(tx.QueryRow(ctx, lockSagaSQL, p.Key))
			if err != nil {
				return wrapErr("failed to lock saga", err)
			}
			if !existing.Reclaimable(p.RequestHash, p.Now) {
				saga, claimed = existing, false
				return nil
			}

			reclaimed, err := scanSaga(tx.QueryRow(ctx, reclaimSagaSQL, p.Key, p.LeaseToken, p.LeaseUntil, p.Now))
			if err != nil {
				return wrapErr("failed to reclaim saga", err)
			}
			saga, claimed = reclaimed, true
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	return saga, claimed, nil
}

func (l *SagaLog) MarkAcquired(ctx context.Context, key, token uuid.UUID, now time.Time) error {
	return l.transition(ctx, key, token, shared.SagaPending, shared.SagaAcquired, now)
}

func (l *SagaLog) Complete(ctx context.Context, key, token uuid.UUID, now time.Time) error {
	return l.transition(ctx, key, token, shared.SagaAcquired, shared.SagaCompleted, now)
}

func (l *SagaLog) MarkCompensated(ctx context.Context, key, token uuid.UUID, now time.Time) error {
	return l.retrier.Do(ctx, "saga.compensate", true, func(ctx context.Context) error {
		tag, err := l.pool.Exec(ctx, compensateSagaSQL, key, token, now)
		if err != nil {
			return wrapErr("failed to compensate saga", err)
		}
		if tag.RowsAffected() == 1 {
			return nil
		}
		return l.explainMiss(ctx, key, token)
	})
}

func (l *SagaLog) transition(ctx context.Context, key, token uuid.UUID, from, to shared.SagaStatus, now time.Time) error {
	return l.retrier.Do(ctx, "saga."+to.String(), false, func(ctx context.Context) error {
		tag, err := l.pool.Exec(ctx, transitionSagaSQL, key, token, from.String(), to.String(), now)
		if err != nil {
			return wrapErr("failed to update saga", err)
		}
		if tag.RowsAffected() == 1 {
			return nil
		}
		return l.explainMiss(ctx, key, token)
	})
}

func (l *SagaLog) explainMiss(ctx context.Context, key, token uuid.UUID) error {
	var (
		status  string
		current uuid.UUID
	)
	if err := l.pool.QueryRow(ctx, sagaStatusSQL, key).Scan(&status, &current); err != nil {
		return wrapErr("saga not found", err)
	}
	if current != token {
		return infra.NewRepoErr(infra.KindConflict, "saga claimed by another request")
	}
	return infra.NewRepoErr(infra.KindConflict, "saga is "+status)
}

func scanSaga(row pgx.Row) (*shared.BorrowSaga, error) {
	var (
		s      shared.BorrowSaga
		status string
	)
	err := row.Scan(&s.Key, &s.UserID, &s.ItemID, &s.RequestHash, &status, &s.BorrowingID,
		&s.LeaseToken, &s.LeaseUntil, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Status = shared.SagaStatus(status)
	s.LeaseUntil = s.LeaseUntil.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}

var _ shared.SagaLog = (*SagaLog)(nil)
