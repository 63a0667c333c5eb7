package queries

import (
	"context"
	"time"

	"library-lending/internal/domain/item"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/shared"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ItemView struct {
	ID                uuid.UUID
	Title             string
	Author            string
	Genre             string
	TotalCopies       int
	AvailableCopies   int
	BorrowedCopies    int
	Status            item.AvailabilityStatus
	StatusDescription string
	CreatedAt         time.Time
}

type ListItemsParams struct {
	Genre  string `validate:"max=100"`
	Author string `validate:"max=255"`
	Status string `validate:"omitempty,oneof=available partially_available fully_borrowed not_available"`
	Limit  int    `validate:"gte=0"`
	After  string
}

type ItemList struct {
	Items []*ItemView
	Next  string
}

//go:generate mockgen -source=item.go -destination=../../../tests/mock/queries/item_mock.go -package=queriesmock
type ItemQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ItemView, error)
	List(ctx context.Context, params ListItemsParams) (*ItemList, error)
}

type itemQueriesImpl struct {
	catalog  shared.ItemCatalog
	validate *validator.Validate
}

func NewItemQueries(catalog shared.ItemCatalog) ItemQueries {
	return &itemQueriesImpl{catalog: catalog, validate: validator.New()}
}

func (q *itemQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ItemView, error) {
	it, err := q.catalog.FindByID(ctx, id)
	if err != nil {
		return nil, shared.MapStorageErr(err, shared.ErrItemNotFound)
	}
	return NewItemView(it), nil
}

func (q *itemQueriesImpl) List(ctx context.Context, params ListItemsParams) (*ItemList, error) {
	if err := q.validate.Struct(params); err != nil {
		return nil, errs.Mark(err, shared.ErrInvalidQuery)
	}

	limit := ValidateLimit(params.Limit)
	filter := shared.ItemFilter{
		Genre:  params.Genre,
		Author: params.Author,
		Status: params.Status,
		Limit:  limit + 1,
	}
	if params.After != "" {
		after, err := DecodeAfterCursor(params.After)
		if err != nil {
			return nil, errs.Mark(err, shared.ErrInvalidQuery)
		}
		filter.After = after
	}

	items, err := q.catalog.List(ctx, filter)
	if err != nil {
		return nil, shared.MapStorageErr(err, nil)
	}

	list := &ItemList{}
	if len(items) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		list.Next = EncodeAfterCursor(shared.KeysetCursor{SortValue: last.CreatedAt(), ID: last.ID()})
	}
	list.Items = make([]*ItemView, 0, len(items))
	for _, it := range items {
		list.Items = append(list.Items, NewItemView(it))
	}
	return list, nil
}

func NewItemView(it *item.Item) *ItemView {
	status := it.Status()
	return &ItemView{
		ID:                it.ID(),
		Title:             it.Title().String(),
		Author:            it.Author().String(),
		Genre:             it.Genre().String(),
		TotalCopies:       it.TotalCopies(),
		AvailableCopies:   it.AvailableCopies(),
		BorrowedCopies:    it.BorrowedCopies(),
		Status:            status,
		StatusDescription: status.Description(),
		CreatedAt:         it.CreatedAt(),
	}
}
