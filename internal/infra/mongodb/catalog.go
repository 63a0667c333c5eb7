package mongodb

import (
	"context"
	"regexp"

	"library-lending/internal/domain/item"
	"library-lending/internal/infra"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ItemCatalog struct {
	*Store
}

func NewItemCatalog(s *Store) *ItemCatalog {
	return &ItemCatalog{Store: s}
}

func (c *ItemCatalog) Create(ctx context.Context, it *item.Item) error {
	doc := newItemDocument(it)
	return c.retrier.Do(ctx, "catalog.create", true, func(ctx context.Context) error {
		if _, err := c.items().InsertOne(ctx, doc); err != nil {
			return wrapErr("failed to create item", err)
		}
		return nil
	})
}

func (c *ItemCatalog) FindByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	var it *item.Item
	err := c.retrier.Do(ctx, "catalog.find", true, func(ctx context.Context) error {
		var doc itemDocument
		if err := c.items().FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
			return wrapErr("item not found", err)
		}
		found, err := doc.toDomain()
		if err != nil {
			return infra.WrapRepoErr("corrupt item document", err)
		}
		it = found
		return nil
	})
	return it, err
}

// List orders newest first, ties broken by id.
func (c *ItemCatalog) List(ctx context.Context, f shared.ItemFilter) ([]*item.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	filter := itemFilter(f)

	var items []*item.Item
	err := c.retrier.Do(ctx, "catalog.list", true, func(ctx context.Context) error {
		cursor, err := c.items().Find(ctx, filter, opts)
		if err != nil {
			return wrapErr("failed to list items", err)
		}
		var docs []itemDocument
		if err := cursor.All(ctx, &docs); err != nil {
			return wrapErr("failed to decode items", err)
		}

		items = make([]*item.Item, 0, len(docs))
		for _, d := range docs {
			it, err := d.toDomain()
			if err != nil {
				return infra.WrapRepoErr("corrupt item document", err)
			}
			items = append(items, it)
		}
		return nil
	})
	return items, err
}

func itemFilter(f shared.ItemFilter) bson.M {
	and := bson.A{}
	if f.Genre != "" {
		and = append(and, bson.M{"genre": exactFold(f.Genre)})
	}
	if f.Author != "" {
		and = append(and, bson.M{"author": exactFold(f.Author)})
	}
	if f.Status != "" {
		and = append(and, statusFilter(item.AvailabilityStatus(f.Status)))
	}
	if f.After != nil {
		and = append(and, keysetAfter("created_at", -1, *f.After))
	}
	if len(and) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": and}
}

func exactFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

// statusFilter mirrors item.StatusOf as a query.
func statusFilter(s item.AvailabilityStatus) bson.M {
	sameCounts := bson.M{"$eq": bson.A{"$available_copies", "$total_copies"}}
	fewerAvailable := bson.M{"$lt": bson.A{"$available_copies", "$total_copies"}}

	switch s {
	case item.StatusNotAvailable:
		return bson.M{"total_copies": 0}
	case item.StatusFullyBorrowed:
		return bson.M{"total_copies": bson.M{"$gt": 0}, "available_copies": 0}
	case item.StatusAvailable:
		return bson.M{"total_copies": bson.M{"$gt": 0}, "$expr": sameCounts}
	case item.StatusPartiallyAvailable:
		return bson.M{"available_copies": bson.M{"$gt": 0}, "$expr": fewerAvailable}
	default:
		return bson.M{"_id": bson.M{"$exists": false}}
	}
}

var _ shared.ItemCatalog = (*ItemCatalog)(nil)
