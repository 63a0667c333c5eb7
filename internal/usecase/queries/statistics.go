package queries

import (
	"context"
	"time"

	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/config"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ItemBorrowCountView struct {
	ItemID uuid.UUID
	Title  string
	Author string
	Count  int64
}

type UserBorrowCountView struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Count  int64
}

type StatisticsView struct {
	TotalTitles        int64
	TotalCopies        int64
	AvailableCopies    int64
	BorrowedCopies     int64
	ActiveBorrowings   int64
	OverdueBorrowings  int64
	ReturnedBorrowings int64
	UniqueAuthors      int64
	UniqueGenres       int64
	ItemsAddedInPeriod int64
	PeriodStart        time.Time
	PeriodEnd          time.Time
	MostBorrowedItems  []ItemBorrowCountView
	MostActiveUsers    []UserBorrowCountView
	TotalLateFeesCents int64
	GeneratedAt        time.Time
}

//go:generate mockgen -source=statistics.go -destination=../../../tests/mock/queries/statistics_mock.go -package=queriesmock
type StatisticsQueries interface {
	Snapshot(ctx context.Context) (*StatisticsView, error)
}

type statisticsQueriesImpl struct {
	store shared.StatisticsReadStore
	clock clock.Clock
	topN  int
}

func NewStatisticsQueries(store shared.StatisticsReadStore, clk clock.Clock, cfg config.Config) StatisticsQueries {
	return &statisticsQueriesImpl{store: store, clock: clk, topN: cfg.Statistics.TopN}
}

// Snapshot is read-only; the current period is the UTC calendar month containing now.
func (q *statisticsQueriesImpl) Snapshot(ctx context.Context) (*StatisticsView, error) {
	now := q.clock.Now().UTC()
	start, end := CalendarMonth(now)

	snap, err := q.store.Snapshot(ctx, shared.StatisticsQuery{
		Now:         now,
		PeriodStart: start,
		PeriodEnd:   end,
		TopN:        q.topN,
	})
	if err != nil {
		return nil, shared.MapStorageErr(err, nil)
	}

	view := &StatisticsView{}
	if err := copier.Copy(view, snap); err != nil {
		return nil, errs.Wrap(err, "failed to map statistics snapshot")
	}
	if view.MostBorrowedItems == nil {
		view.MostBorrowedItems = []ItemBorrowCountView{}
	}
	if view.MostActiveUsers == nil {
		view.MostActiveUsers = []UserBorrowCountView{}
	}
	view.PeriodStart = start
	view.PeriodEnd = end
	view.GeneratedAt = now
	return view, nil
}

func CalendarMonth(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
