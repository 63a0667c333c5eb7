package borrowing

import (
	"strings"
	"time"
	"unicode/utf8"

	"library-lending/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	MinExtensionDays  = 1
	MaxExtensionDays  = 30
	MaxNotesLength    = 1000
	DefaultLoanPeriod = 14 * day
)

var (
	ErrAlreadyReturned   = errs.New("borrowing already returned")
	ErrInvalidExtension  = errs.New("extension must be between 1 and 30 days")
	ErrInvalidReturnDate = errs.New("return date precedes borrow date")
	ErrInvalidLoanPeriod = errs.New("loan period must be positive")
	ErrNotesTooLong      = errs.New("notes exceed maximum length")
	ErrInvalidState      = errs.New("invalid borrowing state")
)

// Record is one copy on loan to one user. Overdue status, day counts and state are
// computed from the stored dates and a caller-supplied now; none of them are stored.
type Record struct {
	id         uuid.UUID
	userID     uuid.UUID
	itemID     uuid.UUID
	borrowDate time.Time
	dueDate    time.Time
	returnDate *time.Time
	isReturned bool
	lateFee    Money
	notes      string
}

func NewRecord(id, userID, itemID uuid.UUID, borrowDate time.Time, loanPeriod time.Duration, notes string) (*Record, error) {
	if loanPeriod <= 0 {
		return nil, ErrInvalidLoanPeriod
	}
	n, err := normalizeNotes(notes)
	if err != nil {
		return nil, err
	}

	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Record{
		id:         id,
		userID:     userID,
		itemID:     itemID,
		borrowDate: borrowDate,
		dueDate:    borrowDate.Add(loanPeriod),
		notes:      n,
	}, nil
}

func ReconstructRecord(id, userID, itemID uuid.UUID, borrowDate, dueDate time.Time, returnDate *time.Time, isReturned bool, lateFee Money, notes string) *Record {
	return &Record{
		id:         id,
		userID:     userID,
		itemID:     itemID,
		borrowDate: borrowDate,
		dueDate:    dueDate,
		returnDate: returnDate,
		isReturned: isReturned,
		lateFee:    lateFee,
		notes:      notes,
	}
}

func (r *Record) IsOverdue(now time.Time) bool {
	return !r.isReturned && now.After(r.dueDate)
}

func (r *Record) DaysOverdue(now time.Time) int {
	if !r.IsOverdue(now) {
		return 0
	}
	return DaysLate(r.dueDate, now)
}

func (r *Record) DaysRemaining(now time.Time) int {
	if r.isReturned {
		return 0
	}
	return DaysUntil(r.dueDate, now)
}

func (r *Record) State(now time.Time) State {
	switch {
	case r.isReturned:
		return StateReturned
	case r.IsOverdue(now):
		return StateOverdue
	default:
		return StateActive
	}
}

// ExtendedDueDate returns the due date after adding days to the current one. Overdue
// records may be extended; returned ones may not.
func (r *Record) ExtendedDueDate(days int) (time.Time, error) {
	if r.isReturned {
		return time.Time{}, ErrAlreadyReturned
	}
	if err := ValidateExtensionDays(days); err != nil {
		return time.Time{}, err
	}
	return r.dueDate.Add(time.Duration(days) * day), nil
}

func (r *Record) ExtendDueDate(days int) error {
	due, err := r.ExtendedDueDate(days)
	if err != nil {
		return err
	}
	r.dueDate = due
	return nil
}

// MarkReturned closes the record. notes replaces the stored notes when non-nil.
func (r *Record) MarkReturned(returnDate time.Time, fee Money, notes *string) error {
	if r.isReturned {
		return ErrAlreadyReturned
	}
	if returnDate.Before(r.borrowDate) {
		return ErrInvalidReturnDate
	}
	if notes != nil {
		n, err := normalizeNotes(*notes)
		if err != nil {
			return err
		}
		r.notes = n
	}
	if fee < 0 {
		fee = 0
	}
	rd := returnDate
	r.returnDate = &rd
	r.isReturned = true
	r.lateFee = fee
	return nil
}

func ValidateExtensionDays(days int) error {
	if days < MinExtensionDays || days > MaxExtensionDays {
		return ErrInvalidExtension
	}
	return nil
}

func ValidateNotes(notes string) error {
	_, err := normalizeNotes(notes)
	return err
}

// NormalizeNotes returns notes as they are stored.
func NormalizeNotes(notes string) (string, error) {
	return normalizeNotes(notes)
}

func normalizeNotes(notes string) (string, error) {
	n := strings.TrimSpace(notes)
	if utf8.RuneCountInString(n) > MaxNotesLength {
		return "", ErrNotesTooLong
	}
	return n, nil
}

func (r *Record) ID() uuid.UUID          { return r.id }
func (r *Record) UserID() uuid.UUID      { return r.userID }
func (r *Record) ItemID() uuid.UUID      { return r.itemID }
func (r *Record) BorrowDate() time.Time  { return r.borrowDate }
func (r *Record) DueDate() time.Time     { return r.dueDate }
func (r *Record) ReturnDate() *time.Time { return r.returnDate }
func (r *Record) IsReturned() bool       { return r.isReturned }
func (r *Record) LateFee() Money         { return r.lateFee }
func (r *Record) Notes() string          { return r.notes }
