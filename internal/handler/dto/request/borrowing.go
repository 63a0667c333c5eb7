package request

import (
	"time"

	"github.com/google/uuid"
)

type BorrowRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
	// UserID borrows on behalf of another member; librarians and admins only.
	UserID *uuid.UUID `json:"user_id,omitempty"`
	Notes  string     `json:"notes" binding:"max=1000"`
}

func (r BorrowRequest) OnBehalfOf() uuid.UUID {
	if r.UserID == nil {
		return uuid.Nil
	}
	return *r.UserID
}

type ReturnRequest struct {
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Notes      *string    `json:"notes,omitempty" binding:"omitempty,max=1000"`
}

type ExtendRequest struct {
	AdditionalDays int `json:"additional_days" binding:"required"`
}

type ListBorrowingsQuery struct {
	UserID       string     `form:"user_id" binding:"omitempty,uuid"`
	ItemID       string     `form:"item_id" binding:"omitempty,uuid"`
	State        string     `form:"state"`
	BorrowedFrom *time.Time `form:"borrowed_from" time_format:"2006-01-02T15:04:05Z07:00"`
	BorrowedTo   *time.Time `form:"borrowed_to" time_format:"2006-01-02T15:04:05Z07:00"`
	DueFrom      *time.Time `form:"due_from" time_format:"2006-01-02T15:04:05Z07:00"`
	DueTo        *time.Time `form:"due_to" time_format:"2006-01-02T15:04:05Z07:00"`
	Sort         string     `form:"sort"`
	Order        string     `form:"order"`
	Limit        int        `form:"limit" binding:"gte=0"`
	After        string     `form:"after"`
}

func (q ListBorrowingsQuery) UserUUID() *uuid.UUID {
	return parseOptionalUUID(q.UserID)
}

func (q ListBorrowingsQuery) ItemUUID() *uuid.UUID {
	return parseOptionalUUID(q.ItemID)
}

// parseOptionalUUID expects a value already checked by the uuid binding.
func parseOptionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
