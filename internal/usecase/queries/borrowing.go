package queries

import (
	"context"
	"time"

	"library-lending/internal/domain/borrowing"
	"library-lending/internal/domain/user"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/config"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/shared"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// BorrowingView carries the stored record plus everything derived from it at AsOf.
type BorrowingView struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	ItemID          uuid.UUID
	BorrowDate      time.Time
	DueDate         time.Time
	ReturnDate      *time.Time
	IsReturned      bool
	LateFeeCents    int64
	Notes           string
	State           borrowing.State
	IsOverdue       bool
	DaysOverdue     int
	DaysRemaining   int
	AccruedFeeCents int64
	AsOf            time.Time
}

type ListBorrowingsParams struct {
	UserID       *uuid.UUID
	ItemID       *uuid.UUID
	State        string `validate:"omitempty,oneof=active overdue returned"`
	BorrowedFrom *time.Time
	BorrowedTo   *time.Time
	DueFrom      *time.Time
	DueTo        *time.Time
	Sort         string `validate:"omitempty,oneof=borrow_date due_date"`
	Order        string `validate:"omitempty,oneof=asc desc"`
	Limit        int    `validate:"gte=0"`
	After        string
}

type BorrowingList struct {
	Items []*BorrowingView
	Next  string
}

type Viewer struct {
	ID   uuid.UUID
	Role user.Role
}

func (v Viewer) readsAll() bool {
	return v.Role.Can(user.PermActOnBehalf)
}

//go:generate mockgen -source=borrowing.go -destination=../../../tests/mock/queries/borrowing_mock.go -package=queriesmock
type BorrowingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID, viewer Viewer) (*BorrowingView, error)
	List(ctx context.Context, params ListBorrowingsParams, viewer Viewer) (*BorrowingList, error)
	// Present derives a view for a record the caller already holds.
	Present(rec *borrowing.Record) *BorrowingView
}

type borrowingQueriesImpl struct {
	ledger   shared.BorrowingLedger
	clock    clock.Clock
	fees     borrowing.FeePolicy
	validate *validator.Validate
}

func NewBorrowingQueries(ledger shared.BorrowingLedger, clk clock.Clock, cfg config.Config) BorrowingQueries {
	v := validator.New()
	v.RegisterStructValidation(validateDateRanges, ListBorrowingsParams{})
	return &borrowingQueriesImpl{
		ledger:   ledger,
		clock:    clk,
		fees:     borrowing.NewFeePolicy(borrowing.Money(cfg.Lending.FeePerDayCents)),
		validate: v,
	}
}

// validateDateRanges rejects ranges whose upper bound is not after the lower bound.
func validateDateRanges(sl validator.StructLevel) {
	p := sl.Current().Interface().(ListBorrowingsParams)
	if p.BorrowedFrom != nil && p.BorrowedTo != nil && !p.BorrowedTo.After(*p.BorrowedFrom) {
		sl.ReportError(p.BorrowedTo, "BorrowedTo", "borrowed_to", "gtfield", "BorrowedFrom")
	}
	if p.DueFrom != nil && p.DueTo != nil && !p.DueTo.After(*p.DueFrom) {
		sl.ReportError(p.DueTo, "DueTo", "due_to", "gtfield", "DueFrom")
	}
}

func (q *borrowingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, viewer Viewer) (*BorrowingView, error) {
	rec, err := q.ledger.Get(ctx, id)
	if err != nil {
		return nil, shared.MapStorageErr(err, shared.ErrBorrowingNotFound)
	}
	if !viewer.readsAll() && rec.UserID() != viewer.ID {
		return nil, shared.ErrNotPermitted
	}
	return q.Present(rec), nil
}

func (q *borrowingQueriesImpl) List(ctx context.Context, params ListBorrowingsParams, viewer Viewer) (*BorrowingList, error) {
	if err := q.validate.Struct(params); err != nil {
		return nil, errs.Mark(err, shared.ErrInvalidQuery)
	}

	if !viewer.readsAll() {
		if params.UserID != nil && *params.UserID != viewer.ID {
			return nil, shared.ErrNotPermitted
		}
		own := viewer.ID
		params.UserID = &own
	}

	now := q.clock.Now()
	filter := shared.BorrowingFilter{
		UserID:       params.UserID,
		ItemID:       params.ItemID,
		BorrowedFrom: params.BorrowedFrom,
		BorrowedTo:   params.BorrowedTo,
		DueFrom:      params.DueFrom,
		DueTo:        params.DueTo,
		Now:          now,
	}
	if params.State != "" {
		state, err := borrowing.ParseState(params.State)
		if err != nil {
			return nil, errs.Mark(err, shared.ErrInvalidQuery)
		}
		filter.State = &state
	}

	sort := shared.BorrowingSort{Field: shared.SortByBorrowDate, Order: shared.OrderDesc}
	if params.Sort != "" {
		sort.Field = shared.SortField(params.Sort)
	}
	if params.Order != "" {
		sort.Order = shared.SortOrder(params.Order)
	}

	page := shared.PageRequest{Limit: ValidateLimit(params.Limit)}
	if params.After != "" {
		after, err := DecodeAfterCursor(params.After)
		if err != nil {
			return nil, errs.Mark(err, shared.ErrInvalidQuery)
		}
		page.After = after
	}

	result, err := q.ledger.Query(ctx, filter, sort, page)
	if err != nil {
		return nil, shared.MapStorageErr(err, nil)
	}

	list := &BorrowingList{Items: make([]*BorrowingView, 0, len(result.Records))}
	for _, rec := range result.Records {
		list.Items = append(list.Items, q.presentAt(rec, now))
	}
	if result.Next != nil {
		list.Next = EncodeAfterCursor(*result.Next)
	}
	return list, nil
}

func (q *borrowingQueriesImpl) Present(rec *borrowing.Record) *BorrowingView {
	return q.presentAt(rec, q.clock.Now())
}

func (q *borrowingQueriesImpl) presentAt(rec *borrowing.Record, now time.Time) *BorrowingView {
	view := &BorrowingView{
		ID:            rec.ID(),
		UserID:        rec.UserID(),
		ItemID:        rec.ItemID(),
		BorrowDate:    rec.BorrowDate(),
		DueDate:       rec.DueDate(),
		ReturnDate:    rec.ReturnDate(),
		IsReturned:    rec.IsReturned(),
		LateFeeCents:  rec.LateFee().Cents(),
		Notes:         rec.Notes(),
		State:         rec.State(now),
		IsOverdue:     rec.IsOverdue(now),
		DaysOverdue:   rec.DaysOverdue(now),
		DaysRemaining: rec.DaysRemaining(now),
		AsOf:          now,
	}
	if rec.IsReturned() {
		view.AccruedFeeCents = rec.LateFee().Cents()
	} else {
		view.AccruedFeeCents = q.fees.Compute(rec.DueDate(), now).Cents()
	}
	return view
}
