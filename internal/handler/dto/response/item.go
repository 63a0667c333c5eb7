package response

import (
	"time"

	"library-lending/internal/usecase/queries"

	"github.com/google/uuid"
)

type ItemResponse struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	Author            string    `json:"author"`
	Genre             string    `json:"genre,omitempty"`
	TotalCopies       int       `json:"totalCopies"`
	AvailableCopies   int       `json:"availableCopies"`
	BorrowedCopies    int       `json:"borrowedCopies"`
	Status            string    `json:"status"`
	StatusDescription string    `json:"statusDescription"`
	CreatedAt         time.Time `json:"createdAt"`
}

type ItemListResponse struct {
	Items []*ItemResponse `json:"items"`
	Next  string          `json:"next,omitempty"`
}

func FromItemView(v *queries.ItemView) *ItemResponse {
	return &ItemResponse{
		ID:                v.ID,
		Title:             v.Title,
		Author:            v.Author,
		Genre:             v.Genre,
		TotalCopies:       v.TotalCopies,
		AvailableCopies:   v.AvailableCopies,
		BorrowedCopies:    v.BorrowedCopies,
		Status:            v.Status.String(),
		StatusDescription: v.StatusDescription,
		CreatedAt:         v.CreatedAt,
	}
}

func FromItemList(list *queries.ItemList) *ItemListResponse {
	items := make([]*ItemResponse, len(list.Items))
	for i, v := range list.Items {
		items[i] = FromItemView(v)
	}
	return &ItemListResponse{Items: items, Next: list.Next}
}
