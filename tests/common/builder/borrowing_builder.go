//go:build unit || e2e

package builder

import (
	"time"

	"library-lending/internal/domain/borrowing"

	"github.com/google/uuid"
)

type BorrowingBuilder struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	ItemID     uuid.UUID
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	LateFee    borrowing.Money
	Notes      string
}

func NewBorrowingBuilder() *BorrowingBuilder {
	borrowed := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	return &BorrowingBuilder{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		ItemID:     uuid.New(),
		BorrowDate: borrowed,
		DueDate:    borrowed.AddDate(0, 0, 14),
	}
}

func (b *BorrowingBuilder) With(mutate func(*BorrowingBuilder)) *BorrowingBuilder {
	mutate(b)
	return b
}

func (b *BorrowingBuilder) BuildDomain() *borrowing.Record {
	return borrowing.ReconstructRecord(b.ID, b.UserID, b.ItemID, b.BorrowDate, b.DueDate,
		b.ReturnDate, b.ReturnDate != nil, b.LateFee, b.Notes)
}

func (b *BorrowingBuilder) Returned(at time.Time, fee borrowing.Money) *BorrowingBuilder {
	b.ReturnDate = &at
	b.LateFee = fee
	return b
}
