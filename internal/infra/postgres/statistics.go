package postgres

import (
	"context"

	"library-lending/internal/infra"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	catalogTotalsSQL = `SELECT
			COUNT(*)                                    AS total_titles,
			COALESCE(SUM(total_copies), 0)              AS total_copies,
			COALESCE(SUM(available_copies), 0)          AS available_copies,
			COUNT(DISTINCT author)                      AS unique_authors,
			COUNT(DISTINCT NULLIF(genre, ''))           AS unique_genres,
			COUNT(*) FILTER (WHERE created_at >= $1 AND created_at < $2) AS items_added
		FROM items`

	borrowingTotalsSQL = `SELECT
			COUNT(*) FILTER (WHERE NOT is_returned AND due_date >= $1) AS active,
			COUNT(*) FILTER (WHERE NOT is_returned AND due_date < $1)  AS overdue,
			COUNT(*) FILTER (WHERE is_returned)                        AS returned,
			COALESCE(SUM(late_fee) FILTER (WHERE is_returned), 0)      AS late_fees
		FROM borrowings`

	mostBorrowedSQL = `SELECT b.item_id, COALESCE(i.title, '') AS title, COALESCE(i.author, '') AS author,
			COUNT(*) AS borrow_count
		FROM borrowings b
		LEFT JOIN items i ON i.id = b.item_id
		WHERE b.is_returned
		GROUP BY b.item_id, i.title, i.author
		ORDER BY borrow_count DESC, b.item_id ASC
		LIMIT $1`

	mostActiveSQL = `SELECT b.user_id, COALESCE(u.name, '') AS name, COALESCE(u.email, '') AS email,
			COUNT(*) AS borrow_count
		FROM borrowings b
		LEFT JOIN users u ON u.id = b.user_id
		GROUP BY b.user_id, u.name, u.email
		ORDER BY borrow_count DESC, b.user_id ASC
		LIMIT $1`
)

type catalogTotalsRow struct {
	TotalTitles     int64 `db:"total_titles"`
	TotalCopies     int64 `db:"total_copies"`
	AvailableCopies int64 `db:"available_copies"`
	UniqueAuthors   int64 `db:"unique_authors"`
	UniqueGenres    int64 `db:"unique_genres"`
	ItemsAdded      int64 `db:"items_added"`
}

type borrowingTotalsRow struct {
	Active   int64 `db:"active"`
	Overdue  int64 `db:"overdue"`
	Returned int64 `db:"returned"`
	LateFees int64 `db:"late_fees"`
}

type itemCountRow struct {
	ItemID uuid.UUID `db:"item_id"`
	Title  string    `db:"title"`
	Author string    `db:"author"`
	Count  int64     `db:"borrow_count"`
}

type userCountRow struct {
	UserID uuid.UUID `db:"user_id"`
	Name   string    `db:"name"`
	Email  string    `db:"email"`
	Count  int64     `db:"borrow_count"`
}

// StatisticsReadStore aggregates over database/sql so it can point at a read replica.
type StatisticsReadStore struct {
	db      *sqlx.DB
	retrier *infra.Retrier
}

func NewStatisticsReadStore(db *sqlx.DB, retrier *infra.Retrier) *StatisticsReadStore {
	return &StatisticsReadStore{db: db, retrier: retrier}
}

func (s *StatisticsReadStore) Snapshot(ctx context.Context, q shared.StatisticsQuery) (*shared.StatisticsSnapshot, error) {
	var snap *shared.StatisticsSnapshot
	err := s.retrier.Do(ctx, "statistics.snapshot", true, func(ctx context.Context) error {
		result, err := s.snapshot(ctx, q)
		if err != nil {
			return err
		}
		snap = result
		return nil
	})
	return snap, err
}

func (s *StatisticsReadStore) snapshot(ctx context.Context, q shared.StatisticsQuery) (*shared.StatisticsSnapshot, error) {
	var catalog catalogTotalsRow
	if err := s.db.GetContext(ctx, &catalog, catalogTotalsSQL, q.PeriodStart, q.PeriodEnd); err != nil {
		return nil, wrapErr("failed to aggregate catalog", err)
	}

	var ledger borrowingTotalsRow
	if err := s.db.GetContext(ctx, &ledger, borrowingTotalsSQL, q.Now); err != nil {
		return nil, wrapErr("failed to aggregate borrowings", err)
	}

	limit := any(nil)
	if q.TopN > 0 {
		limit = q.TopN
	}

	var items []itemCountRow
	if err := s.db.SelectContext(ctx, &items, mostBorrowedSQL, limit); err != nil {
		return nil, wrapErr("failed to rank items", err)
	}

	var users []userCountRow
	if err := s.db.SelectContext(ctx, &users, mostActiveSQL, limit); err != nil {
		return nil, wrapErr("failed to rank users", err)
	}

	snap := &shared.StatisticsSnapshot{
		TotalTitles:        catalog.TotalTitles,
		TotalCopies:        catalog.TotalCopies,
		AvailableCopies:    catalog.AvailableCopies,
		BorrowedCopies:     catalog.TotalCopies - catalog.AvailableCopies,
		ActiveBorrowings:   ledger.Active,
		OverdueBorrowings:  ledger.Overdue,
		ReturnedBorrowings: ledger.Returned,
		UniqueAuthors:      catalog.UniqueAuthors,
		UniqueGenres:       catalog.UniqueGenres,
		ItemsAddedInPeriod: catalog.ItemsAdded,
		TotalLateFeesCents: ledger.LateFees,
	}
	for _, r := range items {
		snap.MostBorrowedItems = append(snap.MostBorrowedItems, shared.ItemBorrowCount(r))
	}
	for _, r := range users {
		snap.MostActiveUsers = append(snap.MostActiveUsers, shared.UserBorrowCount(r))
	}
	return snap, nil
}

var _ shared.StatisticsReadStore = (*StatisticsReadStore)(nil)
