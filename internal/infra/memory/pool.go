package memory

import (
	"context"

	"library-lending/internal/domain/item"
	"library-lending/internal/infra"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

type CapacityPool struct {
	store *Store
}

func NewCapacityPool(store *Store) *CapacityPool {
	return &CapacityPool{store: store}
}

func (p *CapacityPool) TryAcquire(ctx context.Context, itemID uuid.UUID) error {
	return p.apply(ctx, itemID, (*item.Item).Acquire, "no copies available")
}

func (p *CapacityPool) Release(ctx context.Context, itemID uuid.UUID) error {
	return p.apply(ctx, itemID, (*item.Item).Release, "release exceeds total copies")
}

func (p *CapacityPool) apply(ctx context.Context, itemID uuid.UUID, op func(*item.Item) error, conflictMsg string) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	it, ok := p.store.item(itemID)
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "item not found")
	}

	unlock := p.store.itemLocks.lock(itemID)
	defer unlock()

	if err := op(it); err != nil {
		if errs.Is(err, item.ErrInsufficientAvailability) || errs.Is(err, item.ErrOverRelease) {
			return infra.WrapRepoErr(conflictMsg, err, infra.KindConflict)
		}
		return infra.WrapRepoErr("capacity update failed", err)
	}
	return nil
}

var _ shared.CapacityPool = (*CapacityPool)(nil)
