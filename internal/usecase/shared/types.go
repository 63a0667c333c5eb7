package shared

import (
	"time"

	"library-lending/internal/domain/borrowing"

	"github.com/google/uuid"
)

type SortField string

const (
	SortByBorrowDate SortField = "borrow_date"
	SortByDueDate    SortField = "due_date"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// BorrowingFilter narrows a ledger query. State is derived, so Now fixes the instant used
// to split Active from Overdue.
type BorrowingFilter struct {
	UserID       *uuid.UUID
	ItemID       *uuid.UUID
	State        *borrowing.State
	BorrowedFrom *time.Time
	BorrowedTo   *time.Time
	DueFrom      *time.Time
	DueTo        *time.Time
	Now          time.Time
}

type BorrowingSort struct {
	Field SortField
	Order SortOrder
}

// SortValue returns the key the ledger pages on for the given record.
func (s BorrowingSort) SortValue(rec *borrowing.Record) time.Time {
	if s.Field == SortByDueDate {
		return rec.DueDate()
	}
	return rec.BorrowDate()
}

type KeysetCursor struct {
	SortValue time.Time
	ID        uuid.UUID
}

type PageRequest struct {
	Limit int
	After *KeysetCursor
}

type BorrowingPage struct {
	Records []*borrowing.Record
	Next    *KeysetCursor
}

type ItemFilter struct {
	Genre  string
	Author string
	Status string
	Limit  int
	After  *KeysetCursor
}

type SagaStatus string

const (
	SagaPending     SagaStatus = "pending"
	SagaAcquired    SagaStatus = "acquired"
	SagaCompleted   SagaStatus = "completed"
	SagaCompensated SagaStatus = "compensated"
)

var sagaStatusDescriptions = map[SagaStatus]string{
	SagaPending:     "Claimed; no capacity held yet",
	SagaAcquired:    "One copy acquired; ledger append outstanding",
	SagaCompleted:   "Borrowing recorded",
	SagaCompensated: "Ended without holding capacity",
}

func (s SagaStatus) String() string { return string(s) }

func (s SagaStatus) IsValid() bool {
	_, ok := sagaStatusDescriptions[s]
	return ok
}

func (s SagaStatus) Description() string { return sagaStatusDescriptions[s] }

// HoldsCapacity reports whether a saga in this status owns one acquired copy.
func (s SagaStatus) HoldsCapacity() bool {
	return s == SagaAcquired
}

// BorrowSaga tracks one idempotent borrow. BorrowingID is fixed when the saga is first
// claimed so a resumed saga appends the same record. LeaseToken changes on every claim;
// status transitions only apply for the current token.
type BorrowSaga struct {
	Key         uuid.UUID
	UserID      uuid.UUID
	ItemID      uuid.UUID
	RequestHash string
	Status      SagaStatus
	BorrowingID uuid.UUID
	LeaseToken  uuid.UUID
	LeaseUntil  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type BeginSagaParams struct {
	Key         uuid.UUID
	UserID      uuid.UUID
	ItemID      uuid.UUID
	RequestHash string
	BorrowingID uuid.UUID
	LeaseToken  uuid.UUID
	LeaseUntil  time.Time
	Now         time.Time
}

// Reclaimable reports whether a caller presenting hash may take over the saga at now.
func (s *BorrowSaga) Reclaimable(hash string, now time.Time) bool {
	if s.RequestHash != hash {
		return false
	}
	switch s.Status {
	case SagaCompensated:
		return true
	case SagaPending, SagaAcquired:
		return !now.Before(s.LeaseUntil)
	default:
		return false
	}
}

type EventType string

const (
	EventItemBorrowed      EventType = "item.borrowed"
	EventItemReturned      EventType = "item.returned"
	EventBorrowingExtended EventType = "borrowing.extended"
	EventBorrowCompensated EventType = "borrow.compensated"
)

type LendingEvent struct {
	ID             uuid.UUID  `json:"id"`
	Type           EventType  `json:"type"`
	BorrowingID    uuid.UUID  `json:"borrowing_id"`
	UserID         uuid.UUID  `json:"user_id"`
	ItemID         uuid.UUID  `json:"item_id"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	ReturnDate     *time.Time `json:"return_date,omitempty"`
	LateFeeCents   *int64     `json:"late_fee_cents,omitempty"`
	AdditionalDays int        `json:"additional_days,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`
}

type StatisticsQuery struct {
	Now         time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	TopN        int
}

type ItemBorrowCount struct {
	ItemID uuid.UUID
	Title  string
	Author string
	Count  int64
}

type UserBorrowCount struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Count  int64
}

type StatisticsSnapshot struct {
	TotalTitles        int64
	TotalCopies        int64
	AvailableCopies    int64
	BorrowedCopies     int64
	ActiveBorrowings   int64
	OverdueBorrowings  int64
	ReturnedBorrowings int64
	UniqueAuthors      int64
	UniqueGenres       int64
	ItemsAddedInPeriod int64
	MostBorrowedItems  []ItemBorrowCount
	MostActiveUsers    []UserBorrowCount
	TotalLateFeesCents int64
}
