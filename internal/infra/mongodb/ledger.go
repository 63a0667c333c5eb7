package mongodb

import (
	"context"
	"time"

	"library-lending/internal/domain/borrowing"
	"library-lending/internal/infra"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BorrowingLedger struct {
	*Store
}

func NewBorrowingLedger(s *Store) *BorrowingLedger {
	return &BorrowingLedger{Store: s}
}

func (l *BorrowingLedger) Append(ctx context.Context, rec *borrowing.Record) (uuid.UUID, error) {
	doc := newBorrowingDocument(rec)
	err := l.retrier.Do(ctx, "ledger.append", true, func(ctx context.Context) error {
		if _, err := l.borrowings().InsertOne(ctx, doc); err != nil {
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
		var doc borrowingDocument
		if err := l.borrowings().FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
			return wrapErr("borrowing not found", err)
		}
		r, err := doc.toDomain()
		if err != nil {
			return infra.WrapRepoErr("corrupt borrowing document", err)
		}
		rec = r
		return nil
	})
	return rec, err
}

func (l *BorrowingLedger) MarkReturned(ctx context.Context, id uuid.UUID, returnDate time.Time, lateFee borrowing.Money, notes *string) error {
	set := bson.M{
		"is_returned": true,
		"return_date": returnDate,
		"late_fee":    lateFee.Cents(),
	}
	if notes != nil {
		n, err := borrowing.NormalizeNotes(*notes)
		if err != nil {
			return err
		}
		set["notes"] = n
	}
	filter := bson.M{"_id": id.String(), "is_returned": false}

	return l.retrier.Do(ctx, "ledger.mark_returned", false, func(ctx context.Context) error {
		res, err := l.borrowings().UpdateOne(ctx, filter, bson.M{"$set": set})
		if err != nil {
			return wrapErr("failed to mark borrowing returned", err)
		}
		if res.MatchedCount == 1 {
			return nil
		}
		return l.explainMiss(ctx, id)
	})
}

func (l *BorrowingLedger) ExtendDueDate(ctx context.Context, id uuid.UUID, newDueDate, expectedDueDate time.Time) error {
	filter := bson.M{"_id": id.String(), "is_returned": false, "due_date": expectedDueDate}
	update := bson.M{"$set": bson.M{"due_date": newDueDate}}

	return l.retrier.Do(ctx, "ledger.extend", false, func(ctx context.Context) error {
		res, err := l.borrowings().UpdateOne(ctx, filter, update)
		if err != nil {
			return wrapErr("failed to extend due date", err)
		}
		if res.MatchedCount == 1 {
			return nil
		}
		if err := l.explainMiss(ctx, id); err != nil {
			return err
		}
		return infra.NewRepoErr(infra.KindStaleWrite, "due date changed concurrently")
	})
}

// explainMiss reports why a guarded update matched nothing. nil means the record is open.
func (l *BorrowingLedger) explainMiss(ctx context.Context, id uuid.UUID) error {
	var doc struct {
		IsReturned bool `bson:"is_returned"`
	}
	opts := options.FindOne().SetProjection(bson.M{"is_returned": 1})
	if err := l.borrowings().FindOne(ctx, bson.M{"_id": id.String()}, opts).Decode(&doc); err != nil {
		return wrapErr("borrowing not found", err)
	}
	if doc.IsReturned {
		return infra.NewRepoErr(infra.KindConflict, "borrowing already returned")
	}
	return nil
}

func (l *BorrowingLedger) Query(ctx context.Context, f shared.BorrowingFilter, order shared.BorrowingSort, page shared.PageRequest) (*shared.BorrowingPage, error) {
	sortCol := string(shared.SortByBorrowDate)
	if order.Field == shared.SortByDueDate {
		sortCol = string(shared.SortByDueDate)
	}
	dir := 1
	if order.Order == shared.OrderDesc {
		dir = -1
	}

	opts := options.Find().SetSort(bson.D{{Key: sortCol, Value: dir}, {Key: "_id", Value: dir}})
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit + 1))
	}
	filter := borrowingFilter(f, sortCol, dir, page.After)

	var records []*borrowing.Record
	err := l.retrier.Do(ctx, "ledger.query", true, func(ctx context.Context) error {
		cursor, err := l.borrowings().Find(ctx, filter, opts)
		if err != nil {
			return wrapErr("failed to query borrowings", err)
		}
		var docs []borrowingDocument
		if err := cursor.All(ctx, &docs); err != nil {
			return wrapErr("failed to decode borrowings", err)
		}

		records = make([]*borrowing.Record, 0, len(docs))
		for _, d := range docs {
			rec, err := d.toDomain()
			if err != nil {
				return infra.WrapRepoErr("corrupt borrowing document", err)
			}
			records = append(records, rec)
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

func borrowingFilter(f shared.BorrowingFilter, sortCol string, dir int, after *shared.KeysetCursor) bson.M {
	and := bson.A{}
	if f.UserID != nil {
		and = append(and, bson.M{"user_id": f.UserID.String()})
	}
	if f.ItemID != nil {
		and = append(and, bson.M{"item_id": f.ItemID.String()})
	}
	if f.State != nil {
		switch *f.State {
		case borrowing.StateReturned:
			and = append(and, bson.M{"is_returned": true})
		case borrowing.StateOverdue:
			and = append(and, bson.M{"is_returned": false, "due_date": bson.M{"$lt": f.Now}})
		case borrowing.StateActive:
			and = append(and, bson.M{"is_returned": false, "due_date": bson.M{"$gte": f.Now}})
		}
	}
	if r := timeRange(f.BorrowedFrom, f.BorrowedTo); r != nil {
		and = append(and, bson.M{"borrow_date": r})
	}
	if r := timeRange(f.DueFrom, f.DueTo); r != nil {
		and = append(and, bson.M{"due_date": r})
	}
	if after != nil {
		and = append(and, keysetAfter(sortCol, dir, *after))
	}

	if len(and) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": and}
}

// keysetAfter selects documents strictly past the cursor in the given sort direction.
func keysetAfter(col string, dir int, c shared.KeysetCursor) bson.M {
	op := "$gt"
	if dir < 0 {
		op = "$lt"
	}
	return bson.M{"$or": bson.A{
		bson.M{col: bson.M{op: c.SortValue}},
		bson.M{col: c.SortValue, "_id": bson.M{op: c.ID.String()}},
	}}
}

// timeRange builds an inclusive-from, exclusive-to bound; nil when both are open.
func timeRange(from, to *time.Time) bson.M {
	if from == nil && to == nil {
		return nil
	}
	r := bson.M{}
	if from != nil {
		r["$gte"] = *from
	}
	if to != nil {
		r["$lt"] = *to
	}
	return r
}

var _ shared.BorrowingLedger = (*BorrowingLedger)(nil)
