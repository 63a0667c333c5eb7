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

type SagaLog struct {
	*Store
}

func NewSagaLog(s *Store) *SagaLog {
	return &SagaLog{Store: s}
}

// Begin inserts the saga, or takes it over with a compare-and-set on the token and status
// read, so two callers reclaiming the same expired lease cannot both win.
func (l *SagaLog) Begin(ctx context.Context, p shared.BeginSagaParams) (*shared.BorrowSaga, bool, error) {
	var (
		saga    *shared.BorrowSaga
		claimed bool
	)
	err := l.retrier.Do(ctx, "saga.begin", false, func(ctx context.Context) error {
		doc := sagaDocument{
			Key:         p.Key.String(),
			UserID:      p.UserID.String(),
			ItemID:      p.ItemID.String(),
			RequestHash: p.RequestHash,
			Status:      shared.SagaPending.String(),
			BorrowingID: p.BorrowingID.String(),
			LeaseToken:  p.LeaseToken.String(),
			LeaseUntil:  p.LeaseUntil,
			CreatedAt:   p.Now,
			UpdatedAt:   p.Now,
		}
		_, err := l.sagas().InsertOne(ctx, doc)
		if err == nil {
			s, err := doc.toShared()
			if err != nil {
				return infra.WrapRepoErr("corrupt saga document", err)
			}
			saga, claimed = s, true
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return wrapErr("failed to insert saga", err)
		}

		existing, err := l.find(ctx, p.Key)
		if err != nil {
			return err
		}
		if !existing.Reclaimable(p.RequestHash, p.Now) {
			saga, claimed = existing, false
			return nil
		}

		status := existing.Status
		if status == shared.SagaCompensated {
			status = shared.SagaPending
		}
		filter := bson.M{
			"_id":         p.Key.String(),
			"status":      existing.Status.String(),
			"lease_token": existing.LeaseToken.String(),
		}
		update := bson.M{"$set": bson.M{
			"status":      status.String(),
			"lease_token": p.LeaseToken.String(),
			"lease_until": p.LeaseUntil,
			"updated_at":  p.Now,
		}}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

		var updated sagaDocument
		err = l.sagas().FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Lost the race; report whoever won.
			current, ferr := l.find(ctx, p.Key)
			if ferr != nil {
				return ferr
			}
			saga, claimed = current, false
			return nil
		}
		if err != nil {
			return wrapErr("failed to reclaim saga", err)
		}
		s, err := updated.toShared()
		if err != nil {
			return infra.WrapRepoErr("corrupt saga document", err)
		}
		saga, claimed = s, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return saga, claimed, nil
}

func (l *SagaLog) MarkAcquired(ctx context.Context, key, token uuid.UUID, now time.Time) error {
	return l.transition(ctx, key, token, shared.SagaPending.String(), shared.SagaAcquired, now, false)
}

func (l *SagaLog) Complete(ctx context.Context, key, token uuid.UUID, now time.Time) error {
	return l.transition(ctx, key, token, shared.SagaAcquired.String(), shared.SagaCompleted, now, false)
}

func (l *SagaLog) MarkCompensated(ctx context.Context, key, token uuid.UUID, now time.Time) error {
	guard := bson.M{"$ne": shared.SagaCompleted.String()}
	return l.transition(ctx, key, token, guard, shared.SagaCompensated, now, true)
}

// transition applies when the saga still carries token and its status matches statusGuard.
func (l *SagaLog) transition(ctx context.Context, key, token uuid.UUID, statusGuard any, to shared.SagaStatus, now time.Time, idempotent bool) error {
	filter := bson.M{
		"_id":         key.String(),
		"lease_token": token.String(),
		"status":      statusGuard,
	}
	update := bson.M{"$set": bson.M{"status": to.String(), "updated_at": now}}

	return l.retrier.Do(ctx, "saga."+to.String(), idempotent, func(ctx context.Context) error {
		res, err := l.sagas().UpdateOne(ctx, filter, update)
		if err != nil {
			return wrapErr("failed to update saga", err)
		}
		if res.MatchedCount == 1 {
			return nil
		}
		current, err := l.find(ctx, key)
		if err != nil {
			return err
		}
		if current.LeaseToken != token {
			return infra.NewRepoErr(infra.KindConflict, "saga claimed by another request")
		}
		return infra.NewRepoErr(infra.KindConflict, "saga is "+current.Status.String())
	})
}

func (l *SagaLog) find(ctx context.Context, key uuid.UUID) (*shared.BorrowSaga, error) {
	var doc sagaDocument
	if err := l.sagas().FindOne(ctx, bson.M{"_id": key.String()}).Decode(&doc); err != nil {
		return nil, wrapErr("saga not found", err)
	}
	s, err := doc.toShared()
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt saga document", err)
	}
	return s, nil
}

var _ shared.SagaLog = (*SagaLog)(nil)
