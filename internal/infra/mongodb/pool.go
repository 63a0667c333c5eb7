package mongodb

import (
	"context"
	"errors"
	"time"

	"library-lending/internal/infra"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CapacityPool struct {
	*Store
}

func NewCapacityPool(s *Store) *CapacityPool {
	return &CapacityPool{Store: s}
}

func (p *CapacityPool) TryAcquire(ctx context.Context, itemID uuid.UUID) error {
	filter := bson.M{"_id": itemID.String(), "available_copies": bson.M{"$gt": 0}}
	return p.retrier.Do(ctx, "pool.acquire", false, func(ctx context.Context) error {
		return p.apply(ctx, filter, -1, "no copies available")
	})
}

func (p *CapacityPool) Release(ctx context.Context, itemID uuid.UUID) error {
	filter := bson.M{
		"_id":   itemID.String(),
		"$expr": bson.M{"$lt": bson.A{"$available_copies", "$total_copies"}},
	}
	return p.retrier.Do(ctx, "pool.release", false, func(ctx context.Context) error {
		return p.apply(ctx, filter, 1, "release exceeds total copies")
	})
}

func (p *CapacityPool) apply(ctx context.Context, filter bson.M, delta int, conflictMsg string) error {
	update := bson.M{
		"$inc": bson.M{"available_copies": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetProjection(bson.M{"available_copies": 1}).
		SetReturnDocument(options.After)

	err := p.items().FindOneAndUpdate(ctx, filter, update, opts).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return wrapErr("capacity update failed", err)
	}

	n, err := p.items().CountDocuments(ctx, bson.M{"_id": filter["_id"]})
	if err != nil {
		return wrapErr("failed to check item", err)
	}
	if n == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "item not found")
	}
	return infra.NewRepoErr(infra.KindConflict, conflictMsg)
}

var _ shared.CapacityPool = (*CapacityPool)(nil)
