package shared

import (
	"context"
	"time"

	"library-lending/internal/domain/borrowing"
	"library-lending/internal/domain/item"
	"library-lending/internal/domain/user"

	"github.com/google/uuid"
)

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/shared/ports_mock.go -package=sharedmock

// Storage ports report failures as infra.RepositoryError kinds: NOT_FOUND for unknown ids,
// CONFLICT for a refused conditional update, STALE_WRITE for a lost compare, TRANSIENT once
// bounded retries are exhausted. MapStorageErr converts them for callers.

// CapacityPool owns availableCopies. Each call is one atomic conditional update on one item.
type CapacityPool interface {
	TryAcquire(ctx context.Context, itemID uuid.UUID) error
	Release(ctx context.Context, itemID uuid.UUID) error
}

type BorrowingLedger interface {
	Append(ctx context.Context, rec *borrowing.Record) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*borrowing.Record, error)
	MarkReturned(ctx context.Context, id uuid.UUID, returnDate time.Time, lateFee borrowing.Money, notes *string) error
	ExtendDueDate(ctx context.Context, id uuid.UUID, newDueDate, expectedDueDate time.Time) error
	Query(ctx context.Context, filter BorrowingFilter, sort BorrowingSort, page PageRequest) (*BorrowingPage, error)
}

type ItemCatalog interface {
	Create(ctx context.Context, it *item.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*item.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]*item.Item, error)
}

type UserDirectory interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool, now time.Time) error
}

type SagaLog interface {
	// Begin inserts a pending saga, or takes over an existing one when Reclaimable allows it.
	// claimed is false when the stored saga belongs to someone else or is already completed.
	// A claim stores params.LeaseToken. The transitions below fail with CONFLICT when the
	// saga has since been claimed under another token.
	Begin(ctx context.Context, params BeginSagaParams) (saga *BorrowSaga, claimed bool, err error)
	MarkAcquired(ctx context.Context, key, token uuid.UUID, now time.Time) error
	Complete(ctx context.Context, key, token uuid.UUID, now time.Time) error
	MarkCompensated(ctx context.Context, key, token uuid.UUID, now time.Time) error
}

type StatisticsReadStore interface {
	Snapshot(ctx context.Context, q StatisticsQuery) (*StatisticsSnapshot, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, evt LendingEvent) error
}

type MetricsCollector interface {
	RecordDuration(ctx context.Context, name string, d time.Duration, labels map[string]string)
	IncrementCounter(ctx context.Context, name string, labels map[string]string)
}
