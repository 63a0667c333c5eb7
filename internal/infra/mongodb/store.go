// Package mongodb implements the lending storage ports on MongoDB. Capacity changes are
// single-document FindOneAndUpdate calls guarded by their filter, so no transactions are
// needed and a standalone server is enough.
package mongodb

import (
	"context"
	"time"

	"library-lending/internal/infra"
	"library-lending/internal/pkg/config"
	"library-lending/internal/pkg/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// Backend labels retry metrics for this package.
	Backend = "mongo"

	itemsCollection      = "items"
	usersCollection      = "users"
	borrowingsCollection = "borrowings"
	sagasCollection      = "borrow_sagas"

	connectTimeout = 10 * time.Second
)

type Store struct {
	db      *mongo.Database
	retrier *infra.Retrier
}

func NewStore(db *mongo.Database, retrier *infra.Retrier) *Store {
	return &Store{db: db, retrier: retrier}
}

func (s *Store) items() *mongo.Collection      { return s.db.Collection(itemsCollection) }
func (s *Store) users() *mongo.Collection      { return s.db.Collection(usersCollection) }
func (s *Store) borrowings() *mongo.Collection { return s.db.Collection(borrowingsCollection) }
func (s *Store) sagas() *mongo.Collection      { return s.db.Collection(sagasCollection) }

// Connect opens a client and pings it.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to connect to MongoDB")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, errs.Wrap(err, "failed to ping MongoDB")
	}

	cleanup := func() {
		_ = client.Disconnect(context.Background())
	}
	return client, cleanup, nil
}

// EnsureIndexes creates the unique and query indexes the backend relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		itemsCollection: {
			{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		},
		borrowingsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "borrow_date", Value: -1}}},
			{Keys: bson.D{{Key: "item_id", Value: 1}}},
			{Keys: bson.D{{Key: "is_returned", Value: 1}, {Key: "due_date", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return errs.Wrapf(err, "failed to create indexes on %s", name)
		}
	}
	return nil
}
