package mongodb

import (
	"context"
	"time"

	"library-lending/internal/domain/user"
	"library-lending/internal/infra"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

type UserDirectory struct {
	*Store
}

func NewUserDirectory(s *Store) *UserDirectory {
	return &UserDirectory{Store: s}
}

// Create relies on the unique email index from EnsureIndexes.
func (d *UserDirectory) Create(ctx context.Context, u *user.User) error {
	doc := newUserDocument(u)
	return d.retrier.Do(ctx, "users.create", true, func(ctx context.Context) error {
		if _, err := d.users().InsertOne(ctx, doc); err != nil {
			return wrapErr("failed to create user", err)
		}
		return nil
	})
}

func (d *UserDirectory) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var found *user.User
	err := d.retrier.Do(ctx, "users.find", true, func(ctx context.Context) error {
		var doc userDocument
		if err := d.users().FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
			return wrapErr("user not found", err)
		}
		u, err := doc.toDomain()
		if err != nil {
			return infra.WrapRepoErr("corrupt user document", err)
		}
		found = u
		return nil
	})
	return found, err
}

func (d *UserDirectory) SetActive(ctx context.Context, id uuid.UUID, active bool, now time.Time) error {
	update := bson.M{"$set": bson.M{"is_active": active, "updated_at": now}}
	return d.retrier.Do(ctx, "users.set_active", true, func(ctx context.Context) error {
		res, err := d.users().UpdateOne(ctx, bson.M{"_id": id.String()}, update)
		if err != nil {
			return wrapErr("failed to update user", err)
		}
		if res.MatchedCount == 0 {
			return infra.NewRepoErr(infra.KindNotFound, "user not found")
		}
		return nil
	})
}

var _ shared.UserDirectory = (*UserDirectory)(nil)
