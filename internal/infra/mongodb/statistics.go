package mongodb

import (
	"context"

	"library-lending/internal/infra"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type StatisticsReadStore struct {
	*Store
}

func NewStatisticsReadStore(s *Store) *StatisticsReadStore {
	return &StatisticsReadStore{Store: s}
}

type catalogTotals struct {
	TotalTitles     int64    `bson:"total_titles"`
	TotalCopies     int64    `bson:"total_copies"`
	AvailableCopies int64    `bson:"available_copies"`
	Authors         []string `bson:"authors"`
	Genres          []string `bson:"genres"`
	ItemsAdded      int64    `bson:"items_added"`
}

type borrowingTotals struct {
	Active   int64 `bson:"active"`
	Overdue  int64 `bson:"overdue"`
	Returned int64 `bson:"returned"`
	LateFees int64 `bson:"late_fees"`
}

type rankedItem struct {
	ItemID string `bson:"_id"`
	Count  int64  `bson:"count"`
	Title  string `bson:"title"`
	Author string `bson:"author"`
}

type rankedUser struct {
	UserID string `bson:"_id"`
	Count  int64  `bson:"count"`
	Name   string `bson:"name"`
	Email  string `bson:"email"`
}

func (s *StatisticsReadStore) Snapshot(ctx context.Context, q shared.StatisticsQuery) (*shared.StatisticsSnapshot, error) {
	var snap *shared.StatisticsSnapshot
	err := s.retrier.Do(ctx, "statistics.snapshot", true, func(ctx context.Context) error {
		result, err := s.snapshot(ctx, q)
		if err != nil {
			return err
		}
		snap = result
		return nil
	})
	return snap, err
}

func (s *StatisticsReadStore) snapshot(ctx context.Context, q shared.StatisticsQuery) (*shared.StatisticsSnapshot, error) {
	var catalog catalogTotals
	if err := aggregateOne(ctx, s.items(), catalogPipeline(q), &catalog); err != nil {
		return nil, wrapErr("failed to aggregate catalog", err)
	}
	var ledger borrowingTotals
	if err := aggregateOne(ctx, s.borrowings(), borrowingPipeline(q), &ledger); err != nil {
		return nil, wrapErr("failed to aggregate borrowings", err)
	}

	var items []rankedItem
	if err := aggregateAll(ctx, s.borrowings(), mostBorrowedPipeline(q.TopN), &items); err != nil {
		return nil, wrapErr("failed to rank items", err)
	}
	var users []rankedUser
	if err := aggregateAll(ctx, s.borrowings(), mostActivePipeline(q.TopN), &users); err != nil {
		return nil, wrapErr("failed to rank users", err)
	}

	snap := &shared.StatisticsSnapshot{
		TotalTitles:        catalog.TotalTitles,
		TotalCopies:        catalog.TotalCopies,
		AvailableCopies:    catalog.AvailableCopies,
		BorrowedCopies:     catalog.TotalCopies - catalog.AvailableCopies,
		ActiveBorrowings:   ledger.Active,
		OverdueBorrowings:  ledger.Overdue,
		ReturnedBorrowings: ledger.Returned,
		UniqueAuthors:      int64(len(catalog.Authors)),
		ItemsAddedInPeriod: catalog.ItemsAdded,
		TotalLateFeesCents: ledger.LateFees,
	}
	for _, g := range catalog.Genres {
		if g != "" {
			snap.UniqueGenres++
		}
	}
	for _, r := range items {
		id, err := uuid.Parse(r.ItemID)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt item id", err)
		}
		snap.MostBorrowedItems = append(snap.MostBorrowedItems,
			shared.ItemBorrowCount{ItemID: id, Title: r.Title, Author: r.Author, Count: r.Count})
	}
	for _, r := range users {
		id, err := uuid.Parse(r.UserID)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt user id", err)
		}
		snap.MostActiveUsers = append(snap.MostActiveUsers,
			shared.UserBorrowCount{UserID: id, Name: r.Name, Email: r.Email, Count: r.Count})
	}
	return snap, nil
}

func catalogPipeline(q shared.StatisticsQuery) mongo.Pipeline {
	inPeriod := bson.M{"$and": bson.A{
		bson.M{"$gte": bson.A{"$created_at", q.PeriodStart}},
		bson.M{"$lt": bson.A{"$created_at", q.PeriodEnd}},
	}}
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":              nil,
			"total_titles":     bson.M{"$sum": 1},
			"total_copies":     bson.M{"$sum": "$total_copies"},
			"available_copies": bson.M{"$sum": "$available_copies"},
			"authors":          bson.M{"$addToSet": "$author"},
			"genres":           bson.M{"$addToSet": "$genre"},
			"items_added":      bson.M{"$sum": bson.M{"$cond": bson.A{inPeriod, 1, 0}}},
		}}},
	}
}

func borrowingPipeline(q shared.StatisticsQuery) mongo.Pipeline {
	open := bson.M{"$eq": bson.A{"$is_returned", false}}
	countIf := func(cond bson.M) bson.M {
		return bson.M{"$sum": bson.M{"$cond": bson.A{cond, 1, 0}}}
	}
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"active":   countIf(bson.M{"$and": bson.A{open, bson.M{"$gte": bson.A{"$due_date", q.Now}}}}),
			"overdue":  countIf(bson.M{"$and": bson.A{open, bson.M{"$lt": bson.A{"$due_date", q.Now}}}}),
			"returned": countIf(bson.M{"$eq": bson.A{"$is_returned", true}}),
			"late_fees": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$is_returned", true}}, "$late_fee", 0,
			}}},
		}}},
	}
}

// mostBorrowedPipeline ranks items by completed borrowings, ties by id.
func mostBorrowedPipeline(topN int) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_returned": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$item_id", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	if topN > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: topN}})
	}
	return append(p,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": itemsCollection, "localField": "_id", "foreignField": "_id", "as": "item",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$item", "preserveNullAndEmptyArrays": true}}},
		bson.D{{Key: "$project", Value: bson.M{"count": 1, "title": "$item.title", "author": "$item.author"}}},
	)
}

func mostActivePipeline(topN int) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$user_id", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	if topN > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: topN}})
	}
	return append(p,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": usersCollection, "localField": "_id", "foreignField": "_id", "as": "user",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}}},
		bson.D{{Key: "$project", Value: bson.M{"count": 1, "name": "$user.name", "email": "$user.email"}}},
	)
}

// aggregateOne decodes the single $group result; an empty collection leaves out untouched.
func aggregateOne(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, out any) error {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer func() { _ = cursor.Close(ctx) }()

	if cursor.Next(ctx) {
		return cursor.Decode(out)
	}
	return cursor.Err()
}

func aggregateAll(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, out any) error {
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

var _ shared.StatisticsReadStore = (*StatisticsReadStore)(nil)
