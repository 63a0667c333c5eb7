package postgres

import (
	"context"

	"library-lending/internal/infra"
	"library-lending/internal/pkg/pgconv"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	acquireSQL = `UPDATE items
		SET available_copies = available_copies - 1, updated_at = NOW()
		WHERE id = $1 AND available_copies > 0
		RETURNING available_copies`

	releaseSQL = `UPDATE items
		SET available_copies = available_copies + 1, updated_at = NOW()
		WHERE id = $1 AND available_copies < total_copies
		RETURNING available_copies`

	itemExistsSQL = `SELECT EXISTS (SELECT 1 FROM items WHERE id = $1)`
)

type CapacityPool struct {
	*Store
}

func NewCapacityPool(s *Store) *CapacityPool {
	return &CapacityPool{Store: s}
}

// TryAcquire and Release are not retried after a timeout: the update may have committed.
func (p *CapacityPool) TryAcquire(ctx context.Context, itemID uuid.UUID) error {
	return p.retrier.Do(ctx, "pool.acquire", false, func(ctx context.Context) error {
		return p.apply(ctx, acquireSQL, itemID, "no copies available")
	})
}

func (p *CapacityPool) Release(ctx context.Context, itemID uuid.UUID) error {
	return p.retrier.Do(ctx, "pool.release", false, func(ctx context.Context) error {
		return p.apply(ctx, releaseSQL, itemID, "release exceeds total copies")
	})
}

func (p *CapacityPool) apply(ctx context.Context, stmt string, itemID uuid.UUID, conflictMsg string) error {
	var remaining int32
	err := p.pool.QueryRow(ctx, stmt, itemID).Scan(&remaining)
	if err == nil {
		return nil
	}
	if !pgconv.IsNoRows(err) {
		return wrapErr("capacity update failed", err)
	}

	// The guard refused the update or the item does not exist.
	var exists bool
	if err := p.pool.QueryRow(ctx, itemExistsSQL, itemID).Scan(&exists); err != nil {
		return wrapErr("failed to check item", err)
	}
	if !exists {
		return infra.NewRepoErr(infra.KindNotFound, "item not found")
	}
	return infra.NewRepoErr(infra.KindConflict, conflictMsg)
}

var _ shared.CapacityPool = (*CapacityPool)(nil)
