package memory

import (
	"context"
	"sort"

	"library-lending/internal/domain/borrowing"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

type StatisticsReadStore struct {
	store *Store
}

func NewStatisticsReadStore(store *Store) *StatisticsReadStore {
	return &StatisticsReadStore{store: store}
}

func (s *StatisticsReadStore) Snapshot(ctx context.Context, q shared.StatisticsQuery) (*shared.StatisticsSnapshot, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	snap := &shared.StatisticsSnapshot{}
	authors := make(map[string]struct{})
	genres := make(map[string]struct{})
	itemIndex := make(map[uuid.UUID]shared.ItemBorrowCount)

	for _, it := range s.store.allItems() {
		snap.TotalTitles++
		snap.TotalCopies += int64(it.TotalCopies())
		snap.AvailableCopies += int64(it.AvailableCopies())
		authors[it.Author().String()] = struct{}{}
		if g := it.Genre().String(); g != "" {
			genres[g] = struct{}{}
		}
		if !it.CreatedAt().Before(q.PeriodStart) && it.CreatedAt().Before(q.PeriodEnd) {
			snap.ItemsAddedInPeriod++
		}
		itemIndex[it.ID()] = shared.ItemBorrowCount{ItemID: it.ID(), Title: it.Title().String(), Author: it.Author().String()}
	}
	snap.BorrowedCopies = snap.TotalCopies - snap.AvailableCopies
	snap.UniqueAuthors = int64(len(authors))
	snap.UniqueGenres = int64(len(genres))

	completed := make(map[uuid.UUID]int64)
	perUser := make(map[uuid.UUID]int64)
	for _, rec := range s.store.allRecords() {
		switch rec.State(q.Now) {
		case borrowing.StateReturned:
			snap.ReturnedBorrowings++
			completed[rec.ItemID()]++
			snap.TotalLateFeesCents += rec.LateFee().Cents()
		case borrowing.StateOverdue:
			snap.OverdueBorrowings++
		default:
			snap.ActiveBorrowings++
		}
		perUser[rec.UserID()]++
	}

	for id, n := range completed {
		entry, ok := itemIndex[id]
		if !ok {
			entry = shared.ItemBorrowCount{ItemID: id}
		}
		entry.Count = n
		snap.MostBorrowedItems = append(snap.MostBorrowedItems, entry)
	}
	sort.Slice(snap.MostBorrowedItems, func(i, j int) bool {
		a, b := snap.MostBorrowedItems[i], snap.MostBorrowedItems[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.ItemID.String() < b.ItemID.String()
	})
	snap.MostBorrowedItems = topN(snap.MostBorrowedItems, q.TopN)

	s.store.mu.RLock()
	for id, n := range perUser {
		entry := shared.UserBorrowCount{UserID: id, Count: n}
		if u, ok := s.store.users[id]; ok {
			entry.Name = u.Name().String()
			entry.Email = u.Email().Value()
		}
		snap.MostActiveUsers = append(snap.MostActiveUsers, entry)
	}
	s.store.mu.RUnlock()
	sort.Slice(snap.MostActiveUsers, func(i, j int) bool {
		a, b := snap.MostActiveUsers[i], snap.MostActiveUsers[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.UserID.String() < b.UserID.String()
	})
	snap.MostActiveUsers = topN(snap.MostActiveUsers, q.TopN)

	return snap, nil
}

func topN[T any](list []T, n int) []T {
	if n > 0 && len(list) > n {
		return list[:n]
	}
	return list
}

var _ shared.StatisticsReadStore = (*StatisticsReadStore)(nil)
