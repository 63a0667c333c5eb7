package response

import (
	"time"

	"library-lending/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ItemBorrowCount struct {
	ItemID uuid.UUID `json:"itemId"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	Count  int64     `json:"count"`
}

type UserBorrowCount struct {
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Count  int64     `json:"count"`
}

type StatisticsResponse struct {
	TotalTitles        int64             `json:"totalTitles"`
	TotalCopies        int64             `json:"totalCopies"`
	AvailableCopies    int64             `json:"availableCopies"`
	BorrowedCopies     int64             `json:"borrowedCopies"`
	ActiveBorrowings   int64             `json:"activeBorrowings"`
	OverdueBorrowings  int64             `json:"overdueBorrowings"`
	ReturnedBorrowings int64             `json:"returnedBorrowings"`
	UniqueAuthors      int64             `json:"uniqueAuthors"`
	UniqueGenres       int64             `json:"uniqueGenres"`
	ItemsAddedInPeriod int64             `json:"itemsAddedInPeriod"`
	PeriodStart        time.Time         `json:"periodStart"`
	PeriodEnd          time.Time         `json:"periodEnd"`
	MostBorrowedItems  []ItemBorrowCount `json:"mostBorrowedItems"`
	MostActiveUsers    []UserBorrowCount `json:"mostActiveUsers"`
	TotalLateFeesCents int64             `json:"totalLateFeesCents"`
	GeneratedAt        time.Time         `json:"generatedAt"`
}

// FromStatisticsView copies by field name; the rankings are never null in the output.
func FromStatisticsView(v *queries.StatisticsView) (*StatisticsResponse, error) {
	res := &StatisticsResponse{}
	if err := copier.Copy(res, v); err != nil {
		return nil, err
	}
	if res.MostBorrowedItems == nil {
		res.MostBorrowedItems = []ItemBorrowCount{}
	}
	if res.MostActiveUsers == nil {
		res.MostActiveUsers = []UserBorrowCount{}
	}
	return res, nil
}
