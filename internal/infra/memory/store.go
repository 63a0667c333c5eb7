// Package memory keeps lending state in process. Each item and each borrowing record is
// guarded by its own mutex from a lock table, so unrelated items never contend.
package memory

import (
	"context"
	"sync"

	"library-lending/internal/domain/borrowing"
	"library-lending/internal/domain/item"
	"library-lending/internal/domain/user"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

type lockTable struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (t *lockTable) lock(id uuid.UUID) (unlock func()) {
	t.mu.Lock()
	m, ok := t.locks[id]
	if !ok {
		m = &sync.Mutex{}
		t.locks[id] = m
	}
	t.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Store backs every memory port. mu guards the maps; the entities behind them are mutated
// only while holding their key's lock.
type Store struct {
	mu           sync.RWMutex
	items        map[uuid.UUID]*item.Item
	records      map[uuid.UUID]*borrowing.Record
	users        map[uuid.UUID]*user.User
	usersByEmail map[string]uuid.UUID
	sagas        map[uuid.UUID]*shared.BorrowSaga

	itemLocks   *lockTable
	recordLocks *lockTable
}

func NewStore() *Store {
	return &Store{
		items:        make(map[uuid.UUID]*item.Item),
		records:      make(map[uuid.UUID]*borrowing.Record),
		users:        make(map[uuid.UUID]*user.User),
		usersByEmail: make(map[string]uuid.UUID),
		sagas:        make(map[uuid.UUID]*shared.BorrowSaga),
		itemLocks:    newLockTable(),
		recordLocks:  newLockTable(),
	}
}

func (s *Store) item(id uuid.UUID) (*item.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	return it, ok
}

func (s *Store) record(id uuid.UUID) (*borrowing.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	return rec, ok
}

// snapshotItem copies it under its lock.
func (s *Store) snapshotItem(it *item.Item) *item.Item {
	unlock := s.itemLocks.lock(it.ID())
	defer unlock()
	return cloneItem(it)
}

func (s *Store) snapshotRecord(rec *borrowing.Record) *borrowing.Record {
	unlock := s.recordLocks.lock(rec.ID())
	defer unlock()
	return cloneRecord(rec)
}

func (s *Store) allItems() []*item.Item {
	s.mu.RLock()
	list := make([]*item.Item, 0, len(s.items))
	for _, it := range s.items {
		list = append(list, it)
	}
	s.mu.RUnlock()

	out := make([]*item.Item, 0, len(list))
	for _, it := range list {
		out = append(out, s.snapshotItem(it))
	}
	return out
}

func (s *Store) allRecords() []*borrowing.Record {
	s.mu.RLock()
	list := make([]*borrowing.Record, 0, len(s.records))
	for _, rec := range s.records {
		list = append(list, rec)
	}
	s.mu.RUnlock()

	out := make([]*borrowing.Record, 0, len(list))
	for _, rec := range list {
		out = append(out, s.snapshotRecord(rec))
	}
	return out
}

func cloneItem(it *item.Item) *item.Item {
	return item.ReconstructItem(it.ID(), it.Title(), it.Author(), it.Genre(), it.TotalCopies(), it.AvailableCopies(), it.CreatedAt())
}

func cloneRecord(rec *borrowing.Record) *borrowing.Record {
	returnDate := rec.ReturnDate()
	if returnDate != nil {
		rd := *returnDate
		returnDate = &rd
	}
	return borrowing.ReconstructRecord(
		rec.ID(), rec.UserID(), rec.ItemID(),
		rec.BorrowDate(), rec.DueDate(), returnDate,
		rec.IsReturned(), rec.LateFee(), rec.Notes(),
	)
}

func cloneUser(u *user.User) *user.User {
	return user.ReconstructUser(u.ID(), u.Email(), u.Name(), u.Role(), u.IsActive(), u.CreatedAt(), u.UpdatedAt())
}

func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}
