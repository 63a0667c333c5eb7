package postgres

import (
	"context"
	"time"

	"library-lending/internal/domain/borrowing"
	"library-lending/internal/infra"
	"library-lending/internal/pkg/pgconv"
	"library-lending/internal/usecase/shared"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertBorrowingSQL = `INSERT INTO borrowings
		(id, user_id, item_id, borrow_date, due_date, return_date, is_returned, late_fee, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	selectBorrowingSQL = `SELECT ` + borrowingColumns + ` FROM borrowings WHERE id = $1`

	markReturnedSQL = `UPDATE borrowings
		SET is_returned = TRUE, return_date = $2, late_fee = $3, notes = COALESCE($4, notes)
		WHERE id = $1 AND NOT is_returned`

	extendDueDateSQL = `UPDATE borrowings SET due_date = $2
		WHERE id = $1 AND NOT is_returned AND due_date = $3`

	borrowingStatusSQL = `SELECT is_returned FROM borrowings WHERE id = $1`

	borrowingColumns = `id, user_id, item_id, borrow_date, due_date, return_date, is_returned, late_fee, notes`
)

type BorrowingLedger struct {
	*Store
}

func NewBorrowingLedger(s *Store) *BorrowingLedger {
	return &BorrowingLedger{Store: s}
}

// Append is safe to retry after a timeout: a second insert of the same id reports
// DUPLICATE_KEY.
func (l *BorrowingLedger) Append(ctx context.Context, rec *borrowing.Record) (uuid.UUID, error) {
	err := l.retrier.Do(ctx, "ledger.append", true, func(ctx context.Context) error {
		_, err := l.pool.Exec(ctx, insertBorrowingSQL,
			rec.ID(), rec.UserID(), rec.ItemID(),
			rec.BorrowDate(), rec.DueDate(), rec.ReturnDate(),
			rec.IsReturned(), rec.LateFee().Cents(), rec.Notes(),
		)
		if err != nil {
			return wrapErr("failed to append borrowing", err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return rec.ID(), nil
}

func (l *BorrowingLedger) Get(ctx context.Context, id uuid.UUID) (*borrowing.Record, error) {
	var rec *borrowing.Record
	err := l.retrier.Do(ctx, "ledger.get", true, func(ctx context.Context) error {
		r, err := scanBorrowing(l.pool.QueryRow(ctx, selectBorrowingSQL, id))
		if err != nil {
			return wrapErr("borrowing not found", err)
		}
		rec = r
		return nil
	})
	return rec, err
}

func (l *BorrowingLedger) MarkReturned(ctx context.Context, id uuid.UUID, returnDate time.Time, lateFee borrowing.Money, notes *string) error {
	var stored *string
	if notes != nil {
		n, err := borrowing.NormalizeNotes(*notes)
		if err != nil {
			return err
		}
		stored = &n
	}

	return l.retrier.Do(ctx, "ledger.mark_returned", false, func(ctx context.Context) error {
		tag, err := l.pool.Exec(ctx, markReturnedSQL, id, returnDate, lateFee.Cents(), pgconv.StringPtrToPgtype(stored))
		if err != nil {
			return wrapErr("failed to mark borrowing returned", err)
		}
		if tag.RowsAffected() == 1 {
			return nil
		}
		return l.explainMiss(ctx, id)
	})
}

func (l *BorrowingLedger) ExtendDueDate(ctx context.Context, id uuid.UUID, newDueDate, expectedDueDate time.Time) error {
	return l.retrier.Do(ctx, "ledger.extend", false, func(ctx context.Context) error {
		tag, err := l.pool.Exec(ctx, extendDueDateSQL, id, newDueDate, expectedDueDate)
		if err != nil {
			return wrapErr("failed to extend due date", err)
		}
		if tag.RowsAffected() == 1 {
			return nil
		}
		if err := l.explainMiss(ctx, id); err != nil {
			return err
		}
		return infra.NewRepoErr(infra.KindStaleWrite, "due date changed concurrently")
	})
}

// explainMiss reports why a guarded update touched no row. nil means the row is open.
func (l *BorrowingLedger) explainMiss(ctx context.Context, id uuid.UUID) error {
	var returned bool
	if err := l.pool.QueryRow(ctx, borrowingStatusSQL, id).Scan(&returned); err != nil {
		return wrapErr("borrowing not found", err)
	}
	if returned {
		return infra.NewRepoErr(infra.KindConflict, "borrowing already returned")
	}
	return nil
}

func (l *BorrowingLedger) Query(ctx context.Context, filter shared.BorrowingFilter, order shared.BorrowingSort, page shared.PageRequest) (*shared.BorrowingPage, error) {
	query, args, err := l.buildQuery(filter, order, page)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build borrowing query", err)
	}

	var records []*borrowing.Record
	err = l.retrier.Do(ctx, "ledger.query", true, func(ctx context.Context) error {
		rows, err := l.pool.Query(ctx, query, args...)
		if err != nil {
			return wrapErr("failed to query borrowings", err)
		}
		defer rows.Close()

		records = records[:0]
		for rows.Next() {
			rec, err := scanBorrowing(rows)
			if err != nil {
				return wrapErr("failed to scan borrowing", err)
			}
			records = append(records, rec)
		}
		if err := rows.Err(); err != nil {
			return wrapErr("failed to iterate borrowings", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &shared.BorrowingPage{Records: records}
	if page.Limit > 0 && len(records) > page.Limit {
		result.Records = records[:page.Limit]
		last := result.Records[len(result.Records)-1]
		result.Next = &shared.KeysetCursor{SortValue: order.SortValue(last), ID: last.ID()}
	}
	return result, nil
}

func (l *BorrowingLedger) buildQuery(f shared.BorrowingFilter, order shared.BorrowingSort, page shared.PageRequest) (string, []any, error) {
	sortCol := string(shared.SortByBorrowDate)
	if order.Field == shared.SortByDueDate {
		sortCol = string(shared.SortByDueDate)
	}
	desc := order.Order == shared.OrderDesc

	where := make([]exp.Expression, 0, 8)
	if f.UserID != nil {
		where = append(where, goqu.C("user_id").Eq(f.UserID.String()))
	}
	if f.ItemID != nil {
		where = append(where, goqu.C("item_id").Eq(f.ItemID.String()))
	}
	if f.State != nil {
		switch *f.State {
		case borrowing.StateReturned:
			where = append(where, goqu.C("is_returned").IsTrue())
		case borrowing.StateOverdue:
			where = append(where, goqu.C("is_returned").IsFalse(), goqu.C("due_date").Lt(f.Now))
		case borrowing.StateActive:
			where = append(where, goqu.C("is_returned").IsFalse(), goqu.C("due_date").Gte(f.Now))
		}
	}
	where = appendRange(where, "borrow_date", f.BorrowedFrom, f.BorrowedTo)
	where = appendRange(where, "due_date", f.DueFrom, f.DueTo)

	if c := page.After; c != nil {
		id := c.ID.String()
		if desc {
			where = append(where, goqu.Or(
				goqu.C(sortCol).Lt(c.SortValue),
				goqu.And(goqu.C(sortCol).Eq(c.SortValue), goqu.C("id").Lt(id)),
			))
		} else {
			where = append(where, goqu.Or(
				goqu.C(sortCol).Gt(c.SortValue),
				goqu.And(goqu.C(sortCol).Eq(c.SortValue), goqu.C("id").Gt(id)),
			))
		}
	}

	ds := l.dialect.From("borrowings").
		Select(goqu.L(borrowingColumns)).
		Where(where...).
		Prepared(true)
	if desc {
		ds = ds.Order(goqu.C(sortCol).Desc(), goqu.C("id").Desc())
	} else {
		ds = ds.Order(goqu.C(sortCol).Asc(), goqu.C("id").Asc())
	}
	if page.Limit > 0 {
		ds = ds.Limit(uint(page.Limit + 1))
	}
	return ds.ToSQL()
}

// appendRange adds from (inclusive) and to (exclusive) bounds on col.
func appendRange(where []exp.Expression, col string, from, to *time.Time) []exp.Expression {
	if from != nil {
		where = append(where, goqu.C(col).Gte(*from))
	}
	if to != nil {
		where = append(where, goqu.C(col).Lt(*to))
	}
	return where
}

func scanBorrowing(row pgx.Row) (*borrowing.Record, error) {
	var (
		id, userID, itemID  uuid.UUID
		borrowDate, dueDate time.Time
		returnDate          pgtype.Timestamptz
		isReturned          bool
		lateFee             int64
		notes               string
	)
	if err := row.Scan(&id, &userID, &itemID, &borrowDate, &dueDate, &returnDate, &isReturned, &lateFee, &notes); err != nil {
		return nil, err
	}
	return borrowing.ReconstructRecord(
		id, userID, itemID,
		borrowDate.UTC(), dueDate.UTC(), pgconv.TimePtrFromPgtype(returnDate),
		isReturned, borrowing.Money(lateFee), notes,
	), nil
}

var _ shared.BorrowingLedger = (*BorrowingLedger)(nil)
