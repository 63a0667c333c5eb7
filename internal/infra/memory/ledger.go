package memory

import (
	"context"
	"sort"
	"time"

	"library-lending/internal/domain/borrowing"
	"library-lending/internal/infra"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

type BorrowingLedger struct {
	store *Store
}

func NewBorrowingLedger(store *Store) *BorrowingLedger {
	return &BorrowingLedger{store: store}
}

func (l *BorrowingLedger) Append(ctx context.Context, rec *borrowing.Record) (uuid.UUID, error) {
	if err := checkCtx(ctx); err != nil {
		return uuid.Nil, err
	}
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	if _, exists := l.store.records[rec.ID()]; exists {
		return uuid.Nil, infra.NewRepoErr(infra.KindDuplicateKey, "borrowing already exists")
	}
	l.store.records[rec.ID()] = cloneRecord(rec)
	return rec.ID(), nil
}

func (l *BorrowingLedger) Get(ctx context.Context, id uuid.UUID) (*borrowing.Record, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	rec, ok := l.store.record(id)
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "borrowing not found")
	}
	return l.store.snapshotRecord(rec), nil
}

func (l *BorrowingLedger) MarkReturned(ctx context.Context, id uuid.UUID, returnDate time.Time, lateFee borrowing.Money, notes *string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	rec, ok := l.store.record(id)
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "borrowing not found")
	}

	unlock := l.store.recordLocks.lock(id)
	defer unlock()

	if rec.IsReturned() {
		return infra.NewRepoErr(infra.KindConflict, "borrowing already returned")
	}
	return rec.MarkReturned(returnDate, lateFee, notes)
}

func (l *BorrowingLedger) ExtendDueDate(ctx context.Context, id uuid.UUID, newDueDate, expectedDueDate time.Time) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	rec, ok := l.store.record(id)
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "borrowing not found")
	}

	unlock := l.store.recordLocks.lock(id)
	defer unlock()

	if rec.IsReturned() {
		return infra.NewRepoErr(infra.KindConflict, "borrowing already returned")
	}
	if !rec.DueDate().Equal(expectedDueDate) {
		return infra.NewRepoErr(infra.KindStaleWrite, "due date changed concurrently")
	}
	*rec = *borrowing.ReconstructRecord(
		rec.ID(), rec.UserID(), rec.ItemID(),
		rec.BorrowDate(), newDueDate, rec.ReturnDate(),
		rec.IsReturned(), rec.LateFee(), rec.Notes(),
	)
	return nil
}

func (l *BorrowingLedger) Query(ctx context.Context, filter shared.BorrowingFilter, order shared.BorrowingSort, page shared.PageRequest) (*shared.BorrowingPage, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	matched := make([]*borrowing.Record, 0)
	for _, rec := range l.store.allRecords() {
		if matchesFilter(rec, filter) {
			matched = append(matched, rec)
		}
	}

	desc := order.Order == shared.OrderDesc
	less := func(a, b *borrowing.Record) bool {
		av, bv := order.SortValue(a), order.SortValue(b)
		if !av.Equal(bv) {
			return av.Before(bv)
		}
		return a.ID().String() < b.ID().String()
	}
	sort.Slice(matched, func(i, j int) bool {
		if desc {
			return less(matched[j], matched[i])
		}
		return less(matched[i], matched[j])
	})

	if page.After != nil {
		start := len(matched)
		for i, rec := range matched {
			if afterCursor(order.SortValue(rec), rec.ID(), *page.After, desc) {
				start = i
				break
			}
		}
		matched = matched[start:]
	}

	result := &shared.BorrowingPage{}
	if page.Limit > 0 && len(matched) > page.Limit {
		matched = matched[:page.Limit]
		last := matched[len(matched)-1]
		result.Next = &shared.KeysetCursor{SortValue: order.SortValue(last), ID: last.ID()}
	}
	result.Records = matched
	return result, nil
}

func afterCursor(v time.Time, id uuid.UUID, c shared.KeysetCursor, desc bool) bool {
	if !v.Equal(c.SortValue) {
		if desc {
			return v.Before(c.SortValue)
		}
		return v.After(c.SortValue)
	}
	if desc {
		return id.String() < c.ID.String()
	}
	return id.String() > c.ID.String()
}

func matchesFilter(rec *borrowing.Record, f shared.BorrowingFilter) bool {
	if f.UserID != nil && rec.UserID() != *f.UserID {
		return false
	}
	if f.ItemID != nil && rec.ItemID() != *f.ItemID {
		return false
	}
	if f.State != nil && rec.State(f.Now) != *f.State {
		return false
	}
	if !inRange(rec.BorrowDate(), f.BorrowedFrom, f.BorrowedTo) {
		return false
	}
	return inRange(rec.DueDate(), f.DueFrom, f.DueTo)
}

// inRange treats from as inclusive and to as exclusive.
func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

var _ shared.BorrowingLedger = (*BorrowingLedger)(nil)
