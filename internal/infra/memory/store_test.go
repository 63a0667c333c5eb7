//go:build unit

package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"library-lending/internal/infra"
	"library-lending/internal/infra/memory"
	"library-lending/internal/usecase/shared"
	"library-lending/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityPool(t *testing.T) {
	ctx := context.Background()

	t.Run("concurrent acquires never go below zero", func(t *testing.T) {
		store := memory.NewStore()
		catalog := memory.NewItemCatalog(store)
		pool := memory.NewCapacityPool(store)
		it, err := builder.NewItemBuilder().WithCopies(10).BuildDomain()
		require.NoError(t, err)
		require.NoError(t, catalog.Create(ctx, it))

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			acquired  int
			conflicts int
		)
		for iter := 0; iter < 100; iter++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := pool.TryAcquire(ctx, it.ID())
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					acquired++
				} else if infra.IsKind(err, infra.KindConflict) {
					conflicts++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 10, acquired)
		assert.Equal(t, 90, conflicts)
		stored, err := catalog.FindByID(ctx, it.ID())
		require.NoError(t, err)
		assert.Equal(t, 0, stored.AvailableCopies())
	})

	t.Run("release above total is a conflict", func(t *testing.T) {
		store := memory.NewStore()
		catalog := memory.NewItemCatalog(store)
		pool := memory.NewCapacityPool(store)
		it, err := builder.NewItemBuilder().WithCopies(1).BuildDomain()
		require.NoError(t, err)
		require.NoError(t, catalog.Create(ctx, it))

		err = pool.Release(ctx, it.ID())
		assert.True(t, infra.IsKind(err, infra.KindConflict))
	})

	t.Run("unknown item", func(t *testing.T) {
		pool := memory.NewCapacityPool(memory.NewStore())
		assert.True(t, infra.IsKind(pool.TryAcquire(ctx, uuid.New()), infra.KindNotFound))
	})

	t.Run("stored items are isolated from callers", func(t *testing.T) {
		store := memory.NewStore()
		catalog := memory.NewItemCatalog(store)
		it, err := builder.NewItemBuilder().WithCopies(2).BuildDomain()
		require.NoError(t, err)
		require.NoError(t, catalog.Create(ctx, it))

		require.NoError(t, it.Acquire())

		stored, err := catalog.FindByID(ctx, it.ID())
		require.NoError(t, err)
		assert.Equal(t, 2, stored.AvailableCopies())
	})
}

func TestBorrowingLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("append rejects duplicate ids", func(t *testing.T) {
		ledger := memory.NewBorrowingLedger(memory.NewStore())
		rec := builder.NewBorrowingBuilder().BuildDomain()

		_, err := ledger.Append(ctx, rec)
		require.NoError(t, err)
		_, err = ledger.Append(ctx, rec)
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	})

	t.Run("mark returned is conditional", func(t *testing.T) {
		ledger := memory.NewBorrowingLedger(memory.NewStore())
		rec := builder.NewBorrowingBuilder().BuildDomain()
		_, err := ledger.Append(ctx, rec)
		require.NoError(t, err)

		require.NoError(t, ledger.MarkReturned(ctx, rec.ID(), rec.DueDate(), 0, nil))
		err = ledger.MarkReturned(ctx, rec.ID(), rec.DueDate(), 0, nil)
		assert.True(t, infra.IsKind(err, infra.KindConflict))

		err = ledger.MarkReturned(ctx, uuid.New(), rec.DueDate(), 0, nil)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("extend compares the expected due date", func(t *testing.T) {
		ledger := memory.NewBorrowingLedger(memory.NewStore())
		rec := builder.NewBorrowingBuilder().BuildDomain()
		_, err := ledger.Append(ctx, rec)
		require.NoError(t, err)
		due := rec.DueDate()

		err = ledger.ExtendDueDate(ctx, rec.ID(), due.AddDate(0, 0, 3), due.Add(time.Hour))
		assert.True(t, infra.IsKind(err, infra.KindStaleWrite))

		require.NoError(t, ledger.ExtendDueDate(ctx, rec.ID(), due.AddDate(0, 0, 3), due))
		stored, err := ledger.Get(ctx, rec.ID())
		require.NoError(t, err)
		assert.Equal(t, due.AddDate(0, 0, 3), stored.DueDate())
	})

	t.Run("returned records cannot be extended", func(t *testing.T) {
		ledger := memory.NewBorrowingLedger(memory.NewStore())
		b := builder.NewBorrowingBuilder()
		rec := b.Returned(b.DueDate, 0).BuildDomain()
		_, err := ledger.Append(ctx, rec)
		require.NoError(t, err)

		err = ledger.ExtendDueDate(ctx, rec.ID(), rec.DueDate().AddDate(0, 0, 1), rec.DueDate())
		assert.True(t, infra.IsKind(err, infra.KindConflict))
	})

	t.Run("query sorts by due date and pages", func(t *testing.T) {
		ledger := memory.NewBorrowingLedger(memory.NewStore())
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		var ids []uuid.UUID
		for i := 0; i < 5; i++ {
			rec := builder.NewBorrowingBuilder().With(func(b *builder.BorrowingBuilder) {
				b.BorrowDate = base
				b.DueDate = base.AddDate(0, 0, 10-i)
			}).BuildDomain()
			_, err := ledger.Append(ctx, rec)
			require.NoError(t, err)
			ids = append([]uuid.UUID{rec.ID()}, ids...)
		}

		order := shared.BorrowingSort{Field: shared.SortByDueDate, Order: shared.OrderAsc}
		first, err := ledger.Query(ctx, shared.BorrowingFilter{Now: base}, order, shared.PageRequest{Limit: 2})
		require.NoError(t, err)
		require.NotNil(t, first.Next)
		second, err := ledger.Query(ctx, shared.BorrowingFilter{Now: base}, order, shared.PageRequest{Limit: 10, After: first.Next})
		require.NoError(t, err)
		assert.Nil(t, second.Next)

		var got []uuid.UUID
		for _, r := range append(first.Records, second.Records...) {
			got = append(got, r.ID())
		}
		assert.Equal(t, ids, got)
	})
}

func TestSagaLog(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	params := func(key uuid.UUID, hash string, at time.Time) shared.BeginSagaParams {
		return shared.BeginSagaParams{
			Key: key, UserID: uuid.New(), ItemID: uuid.New(), RequestHash: hash,
			BorrowingID: uuid.New(), LeaseToken: uuid.New(), LeaseUntil: at.Add(30 * time.Second), Now: at,
		}
	}

	t.Run("first begin claims", func(t *testing.T) {
		log := memory.NewSagaLog(memory.NewStore())
		saga, claimed, err := log.Begin(ctx, params(uuid.New(), "h", now))
		require.NoError(t, err)
		assert.True(t, claimed)
		assert.Equal(t, shared.SagaPending, saga.Status)
	})

	t.Run("concurrent begins have one winner", func(t *testing.T) {
		log := memory.NewSagaLog(memory.NewStore())
		key := uuid.New()
		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			claims int
		)
		for iter := 0; iter < 20; iter++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, claimed, err := log.Begin(ctx, params(key, "h", now))
				if err == nil && claimed {
					mu.Lock()
					claims++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, claims)
	})

	t.Run("lifecycle and reclaim rules", func(t *testing.T) {
		log := memory.NewSagaLog(memory.NewStore())
		key := uuid.New()
		first, _, err := log.Begin(ctx, params(key, "h", now))
		require.NoError(t, err)

		// a live lease is not reclaimable
		_, claimed, err := log.Begin(ctx, params(key, "h", now.Add(time.Second)))
		require.NoError(t, err)
		assert.False(t, claimed)

		require.NoError(t, log.MarkAcquired(ctx, key, first.LeaseToken, now))
		assert.True(t, infra.IsKind(log.MarkAcquired(ctx, key, first.LeaseToken, now), infra.KindConflict))

		// an expired lease is reclaimed with the original borrowing id
		again, claimed, err := log.Begin(ctx, params(key, "h", now.Add(time.Minute)))
		require.NoError(t, err)
		assert.True(t, claimed)
		assert.Equal(t, shared.SagaAcquired, again.Status)
		assert.Equal(t, first.BorrowingID, again.BorrowingID)
		assert.NotEqual(t, first.LeaseToken, again.LeaseToken)

		require.NoError(t, log.Complete(ctx, key, again.LeaseToken, now))
		assert.True(t, infra.IsKind(log.MarkCompensated(ctx, key, again.LeaseToken, now), infra.KindConflict))

		done, claimed, err := log.Begin(ctx, params(key, "h", now.Add(time.Hour)))
		require.NoError(t, err)
		assert.False(t, claimed)
		assert.Equal(t, shared.SagaCompleted, done.Status)
	})

	t.Run("compensated saga is reclaimable at once", func(t *testing.T) {
		log := memory.NewSagaLog(memory.NewStore())
		key := uuid.New()
		first, _, err := log.Begin(ctx, params(key, "h", now))
		require.NoError(t, err)
		require.NoError(t, log.MarkCompensated(ctx, key, first.LeaseToken, now))

		saga, claimed, err := log.Begin(ctx, params(key, "h", now))
		require.NoError(t, err)
		assert.True(t, claimed)
		assert.Equal(t, shared.SagaPending, saga.Status)

		other, claimed, err := log.Begin(ctx, params(key, "different", now.Add(time.Hour)))
		require.NoError(t, err)
		assert.False(t, claimed)
		assert.Equal(t, "h", other.RequestHash)
	})

	t.Run("previous owner is fenced out after a takeover", func(t *testing.T) {
		log := memory.NewSagaLog(memory.NewStore())
		key := uuid.New()
		stale, _, err := log.Begin(ctx, params(key, "h", now))
		require.NoError(t, err)

		owner, claimed, err := log.Begin(ctx, params(key, "h", now.Add(time.Minute)))
		require.NoError(t, err)
		require.True(t, claimed)
		require.NoError(t, log.MarkAcquired(ctx, key, owner.LeaseToken, now))

		for name, err := range map[string]error{
			"acquire":    log.MarkAcquired(ctx, key, stale.LeaseToken, now),
			"complete":   log.Complete(ctx, key, stale.LeaseToken, now),
			"compensate": log.MarkCompensated(ctx, key, stale.LeaseToken, now),
		} {
			assert.True(t, infra.IsKind(err, infra.KindConflict), name)
		}

		current, claimed, err := log.Begin(ctx, params(key, "h", now.Add(time.Second)))
		require.NoError(t, err)
		assert.False(t, claimed)
		assert.Equal(t, shared.SagaAcquired, current.Status)
		assert.Equal(t, owner.LeaseToken, current.LeaseToken)
	})
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := memory.NewStore()

	_, err := memory.NewBorrowingLedger(store).Get(ctx, uuid.New())
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, memory.NewCapacityPool(store).TryAcquire(ctx, uuid.New()), context.Canceled)

}
