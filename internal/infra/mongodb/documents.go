package mongodb

import (
	"time"

	"library-lending/internal/domain/borrowing"
	"library-lending/internal/domain/item"
	"library-lending/internal/domain/user"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

// Identifiers are stored as canonical UUID strings so _id ordering matches the other
// backends' keyset tie-break.

type itemDocument struct {
	ID              string    `bson:"_id"`
	Title           string    `bson:"title"`
	Author          string    `bson:"author"`
	Genre           string    `bson:"genre"`
	TotalCopies     int       `bson:"total_copies"`
	AvailableCopies int       `bson:"available_copies"`
	CreatedAt       time.Time `bson:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

func newItemDocument(it *item.Item) itemDocument {
	return itemDocument{
		ID:              it.ID().String(),
		Title:           it.Title().String(),
		Author:          it.Author().String(),
		Genre:           it.Genre().String(),
		TotalCopies:     it.TotalCopies(),
		AvailableCopies: it.AvailableCopies(),
		CreatedAt:       it.CreatedAt(),
		UpdatedAt:       it.CreatedAt(),
	}
}

func (d itemDocument) toDomain() (*item.Item, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	return item.ReconstructItem(id,
		item.ReconstructTitle(d.Title), item.ReconstructAuthor(d.Author), item.ReconstructGenre(d.Genre),
		d.TotalCopies, d.AvailableCopies, d.CreatedAt.UTC(),
	), nil
}

type userDocument struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	Name      string    `bson:"name"`
	Role      string    `bson:"role"`
	IsActive  bool      `bson:"is_active"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func newUserDocument(u *user.User) userDocument {
	return userDocument{
		ID:        u.ID().String(),
		Email:     u.Email().Value(),
		Name:      u.Name().String(),
		Role:      u.Role().String(),
		IsActive:  u.IsActive(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func (d userDocument) toDomain() (*user.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	return user.ReconstructUser(id,
		user.ReconstructEmail(d.Email), user.ReconstructName(d.Name), user.Role(d.Role),
		d.IsActive, d.CreatedAt.UTC(), d.UpdatedAt.UTC(),
	), nil
}

type borrowingDocument struct {
	ID         string     `bson:"_id"`
	UserID     string     `bson:"user_id"`
	ItemID     string     `bson:"item_id"`
	BorrowDate time.Time  `bson:"borrow_date"`
	DueDate    time.Time  `bson:"due_date"`
	ReturnDate *time.Time `bson:"return_date"`
	IsReturned bool       `bson:"is_returned"`
	LateFee    int64      `bson:"late_fee"`
	Notes      string     `bson:"notes"`
}

func newBorrowingDocument(rec *borrowing.Record) borrowingDocument {
	return borrowingDocument{
		ID:         rec.ID().String(),
		UserID:     rec.UserID().String(),
		ItemID:     rec.ItemID().String(),
		BorrowDate: rec.BorrowDate(),
		DueDate:    rec.DueDate(),
		ReturnDate: rec.ReturnDate(),
		IsReturned: rec.IsReturned(),
		LateFee:    rec.LateFee().Cents(),
		Notes:      rec.Notes(),
	}
}

func (d borrowingDocument) toDomain() (*borrowing.Record, error) {
	ids, err := parseIDs(d.ID, d.UserID, d.ItemID)
	if err != nil {
		return nil, err
	}
	var returnDate *time.Time
	if d.ReturnDate != nil {
		t := d.ReturnDate.UTC()
		returnDate = &t
	}
	return borrowing.ReconstructRecord(
		ids[0], ids[1], ids[2],
		d.BorrowDate.UTC(), d.DueDate.UTC(), returnDate,
		d.IsReturned, borrowing.Money(d.LateFee), d.Notes,
	), nil
}

type sagaDocument struct {
	Key         string    `bson:"_id"`
	UserID      string    `bson:"user_id"`
	ItemID      string    `bson:"item_id"`
	RequestHash string    `bson:"request_hash"`
	Status      string    `bson:"status"`
	BorrowingID string    `bson:"borrowing_id"`
	LeaseToken  string    `bson:"lease_token"`
	LeaseUntil  time.Time `bson:"lease_until"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d sagaDocument) toShared() (*shared.BorrowSaga, error) {
	ids, err := parseIDs(d.Key, d.UserID, d.ItemID, d.BorrowingID, d.LeaseToken)
	if err != nil {
		return nil, err
	}
	return &shared.BorrowSaga{
		Key:         ids[0],
		UserID:      ids[1],
		ItemID:      ids[2],
		RequestHash: d.RequestHash,
		Status:      shared.SagaStatus(d.Status),
		BorrowingID: ids[3],
		LeaseToken:  ids[4],
		LeaseUntil:  d.LeaseUntil.UTC(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}, nil
}

func parseIDs(raw ...string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
