//go:build unit || e2e

package builder

import (
	"time"

	"library-lending/internal/domain/item"
	"library-lending/internal/handler/dto/request"

	"github.com/google/uuid"
)

type ItemBuilder struct {
	ID              uuid.UUID
	Title           string
	Author          string
	Genre           string
	TotalCopies     int
	AvailableCopies *int
	CreatedAt       time.Time
}

func NewItemBuilder() *ItemBuilder {
	return &ItemBuilder{
		ID:          uuid.New(),
		Title:       "The Go Programming Language",
		Author:      "Alan Donovan",
		Genre:       "Programming",
		TotalCopies: 3,
		CreatedAt:   time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *ItemBuilder) With(mutate func(*ItemBuilder)) *ItemBuilder {
	mutate(b)
	return b
}

// BuildDomain returns a freshly registered item unless AvailableCopies is set.
func (b *ItemBuilder) BuildDomain() (*item.Item, error) {
	it, err := item.NewItem(b.ID, b.Title, b.Author, b.Genre, b.TotalCopies, b.CreatedAt)
	if err != nil {
		return nil, err
	}
	if b.AvailableCopies == nil {
		return it, nil
	}
	return item.ReconstructItem(it.ID(), it.Title(), it.Author(), it.Genre(),
		b.TotalCopies, *b.AvailableCopies, b.CreatedAt), nil
}

func (b *ItemBuilder) BuildRegisterRequestDTO() request.RegisterItemRequest {
	return request.RegisterItemRequest{
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		TotalCopies: b.TotalCopies,
	}
}

func (b *ItemBuilder) WithCopies(total int) *ItemBuilder {
	b.TotalCopies = total
	return b
}

func (b *ItemBuilder) WithAvailable(available int) *ItemBuilder {
	b.AvailableCopies = &available
	return b
}
