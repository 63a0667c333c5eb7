package response

import (
	"time"

	"library-lending/internal/usecase/queries"

	"github.com/google/uuid"
)

type BorrowingResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"userId"`
	ItemID          uuid.UUID  `json:"itemId"`
	BorrowDate      time.Time  `json:"borrowDate"`
	DueDate         time.Time  `json:"dueDate"`
	ReturnDate      *time.Time `json:"returnDate,omitempty"`
	IsReturned      bool       `json:"isReturned"`
	LateFeeCents    int64      `json:"lateFeeCents"`
	Notes           string     `json:"notes,omitempty"`
	State           string     `json:"state"`
	IsOverdue       bool       `json:"isOverdue"`
	DaysOverdue     int        `json:"daysOverdue"`
	DaysRemaining   int        `json:"daysRemaining"`
	AccruedFeeCents int64      `json:"accruedFeeCents"`
	AsOf            time.Time  `json:"asOf"`
}

type BorrowingListResponse struct {
	Items []*BorrowingResponse `json:"items"`
	Next  string               `json:"next,omitempty"`
}

func FromBorrowingView(v *queries.BorrowingView) *BorrowingResponse {
	return &BorrowingResponse{
		ID:              v.ID,
		UserID:          v.UserID,
		ItemID:          v.ItemID,
		BorrowDate:      v.BorrowDate,
		DueDate:         v.DueDate,
		ReturnDate:      v.ReturnDate,
		IsReturned:      v.IsReturned,
		LateFeeCents:    v.LateFeeCents,
		Notes:           v.Notes,
		State:           v.State.String(),
		IsOverdue:       v.IsOverdue,
		DaysOverdue:     v.DaysOverdue,
		DaysRemaining:   v.DaysRemaining,
		AccruedFeeCents: v.AccruedFeeCents,
		AsOf:            v.AsOf,
	}
}

func FromBorrowingList(list *queries.BorrowingList) *BorrowingListResponse {
	items := make([]*BorrowingResponse, len(list.Items))
	for i, v := range list.Items {
		items[i] = FromBorrowingView(v)
	}
	return &BorrowingListResponse{Items: items, Next: list.Next}
}
