package memory

import (
	"context"
	"time"

	"library-lending/internal/infra"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

type SagaLog struct {
	store *Store
}

func NewSagaLog(store *Store) *SagaLog {
	return &SagaLog{store: store}
}

func (l *SagaLog) Begin(ctx context.Context, p shared.BeginSagaParams) (*shared.BorrowSaga, bool, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, false, err
	}
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	existing, ok := l.store.sagas[p.Key]
	if !ok {
		saga := &shared.BorrowSaga{
			Key:         p.Key,
			UserID:      p.UserID,
			ItemID:      p.ItemID,
			RequestHash: p.RequestHash,
			Status:      shared.SagaPending,
			BorrowingID: p.BorrowingID,
			LeaseToken:  p.LeaseToken,
			LeaseUntil:  p.LeaseUntil,
			CreatedAt:   p.Now,
			UpdatedAt:   p.Now,
		}
		l.store.sagas[p.Key] = saga
		cp := *saga
		return &cp, true, nil
	}

	if !existing.Reclaimable(p.RequestHash, p.Now) {
		cp := *existing
		return &cp, false, nil
	}

	if existing.Status == shared.SagaCompensated {
		existing.Status = shared.SagaPending
	}
	existing.LeaseToken = p.LeaseToken
	existing.LeaseUntil = p.LeaseUntil
	existing.UpdatedAt = p.Now
	cp := *existing
	return &cp, true, nil
}

func (l *SagaLog) MarkAcquired(ctx context.Context, key, token uuid.UUID, now time.Time) error {
	return l.transition(ctx, key, token, shared.SagaAcquired, now, func(s shared.SagaStatus) bool {
		return s == shared.SagaPending
	})
}

func (l *SagaLog) Complete(ctx context.Context, key, token uuid.UUID, now time.Time) error {
	return l.transition(ctx, key, token, shared.SagaCompleted, now, func(s shared.SagaStatus) bool {
		return s == shared.SagaAcquired
	})
}

// MarkCompensated ends a saga that holds no capacity, whether it never acquired or is
// about to release.
func (l *SagaLog) MarkCompensated(ctx context.Context, key, token uuid.UUID, now time.Time) error {
	return l.transition(ctx, key, token, shared.SagaCompensated, now, func(s shared.SagaStatus) bool {
		return s != shared.SagaCompleted
	})
}

func (l *SagaLog) transition(ctx context.Context, key, token uuid.UUID, to shared.SagaStatus, now time.Time, allowed func(shared.SagaStatus) bool) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	saga, ok := l.store.sagas[key]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "saga not found")
	}
	if saga.LeaseToken != token {
		return infra.NewRepoErr(infra.KindConflict, "saga claimed by another request")
	}
	if !allowed(saga.Status) {
		return infra.NewRepoErr(infra.KindConflict, "saga is "+saga.Status.String())
	}
	saga.Status = to
	saga.UpdatedAt = now
	return nil
}

var _ shared.SagaLog = (*SagaLog)(nil)
