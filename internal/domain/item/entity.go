package item

import (
	"time"

	"library-lending/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle               = errs.New("title cannot be empty")
	ErrTitleTooLong             = errs.New("title exceeds maximum length")
	ErrEmptyAuthor              = errs.New("author cannot be empty")
	ErrAuthorTooLong            = errs.New("author exceeds maximum length")
	ErrGenreTooLong             = errs.New("genre exceeds maximum length")
	ErrNegativeCopies           = errs.New("total copies cannot be negative")
	ErrInvalidStatus            = errs.New("invalid availability status")
	ErrInsufficientAvailability = errs.New("no copies available")
	ErrOverRelease              = errs.New("release would exceed total copies")
)

type Item struct {
	id              uuid.UUID
	title           Title
	author          Author
	genre           Genre
	totalCopies     int
	availableCopies int
	createdAt       time.Time
}

// NewItem registers a catalog entry with every copy on the shelf.
func NewItem(id uuid.UUID, titleStr, authorStr, genreStr string, totalCopies int, now time.Time) (*Item, error) {
	title, err := NewTitle(titleStr)
	if err != nil {
		return nil, err
	}
	author, err := NewAuthor(authorStr)
	if err != nil {
		return nil, err
	}
	genre, err := NewGenre(genreStr)
	if err != nil {
		return nil, err
	}
	if totalCopies < 0 {
		return nil, ErrNegativeCopies
	}

	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Item{
		id:              id,
		title:           title,
		author:          author,
		genre:           genre,
		totalCopies:     totalCopies,
		availableCopies: totalCopies,
		createdAt:       now,
	}, nil
}

func ReconstructItem(id uuid.UUID, title Title, author Author, genre Genre, totalCopies, availableCopies int, createdAt time.Time) *Item {
	return &Item{
		id:              id,
		title:           title,
		author:          author,
		genre:           genre,
		totalCopies:     totalCopies,
		availableCopies: availableCopies,
		createdAt:       createdAt,
	}
}

// Acquire and Release are the only mutators of availableCopies. Callers hold the item's
// lock for the duration of the call.
func (i *Item) Acquire() error {
	if i.availableCopies <= 0 {
		return ErrInsufficientAvailability
	}
	i.availableCopies--
	return nil
}

func (i *Item) Release() error {
	if i.availableCopies >= i.totalCopies {
		return ErrOverRelease
	}
	i.availableCopies++
	return nil
}

func (i *Item) Status() AvailabilityStatus {
	return StatusOf(i.totalCopies, i.availableCopies)
}

func (i *Item) BorrowedCopies() int {
	return i.totalCopies - i.availableCopies
}

func (i *Item) ID() uuid.UUID        { return i.id }
func (i *Item) Title() Title         { return i.title }
func (i *Item) Author() Author       { return i.author }
func (i *Item) Genre() Genre         { return i.genre }
func (i *Item) TotalCopies() int     { return i.totalCopies }
func (i *Item) AvailableCopies() int { return i.availableCopies }
func (i *Item) CreatedAt() time.Time { return i.createdAt }
