//go:build unit

package borrowing_test

import (
	"strings"
	"testing"
	"time"

	"library-lending/internal/domain/borrowing"
	"library-lending/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var borrowedAt = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func TestNewRecord(t *testing.T) {
	t.Run("due date is borrow date plus loan period", func(t *testing.T) {
		userID, itemID := uuid.New(), uuid.New()

		r, err := borrowing.NewRecord(uuid.Nil, userID, itemID, borrowedAt, borrowing.DefaultLoanPeriod, "  first loan ")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, r.ID())
		assert.Equal(t, userID, r.UserID())
		assert.Equal(t, itemID, r.ItemID())
		assert.Equal(t, borrowedAt.AddDate(0, 0, 14), r.DueDate())
		assert.Equal(t, "first loan", r.Notes())
		assert.False(t, r.IsReturned())
		assert.Nil(t, r.ReturnDate())
		assert.Equal(t, borrowing.Money(0), r.LateFee())
		assert.Equal(t, borrowing.StateActive, r.State(borrowedAt))
	})

	t.Run("rejects non-positive loan period", func(t *testing.T) {
		_, err := borrowing.NewRecord(uuid.New(), uuid.New(), uuid.New(), borrowedAt, 0, "")
		require.ErrorIs(t, err, borrowing.ErrInvalidLoanPeriod)
	})

	t.Run("notes length", func(t *testing.T) {
		_, err := borrowing.NewRecord(uuid.New(), uuid.New(), uuid.New(), borrowedAt,
			borrowing.DefaultLoanPeriod, strings.Repeat("n", borrowing.MaxNotesLength))
		require.NoError(t, err)

		_, err = borrowing.NewRecord(uuid.New(), uuid.New(), uuid.New(), borrowedAt,
			borrowing.DefaultLoanPeriod, strings.Repeat("n", borrowing.MaxNotesLength+1))
		require.ErrorIs(t, err, borrowing.ErrNotesTooLong)
	})
}

func TestRecord_State(t *testing.T) {
	r := builder.NewBorrowingBuilder().BuildDomain()
	due := r.DueDate()

	t.Run("active until the due instant", func(t *testing.T) {
		assert.Equal(t, borrowing.StateActive, r.State(due))
		assert.False(t, r.IsOverdue(due))
		assert.Equal(t, 0, r.DaysOverdue(due))
		assert.Equal(t, 14, r.DaysRemaining(borrowedAt))
	})

	t.Run("overdue after the due instant", func(t *testing.T) {
		now := due.Add(time.Minute)
		assert.Equal(t, borrowing.StateOverdue, r.State(now))
		assert.True(t, r.IsOverdue(now))
		assert.Equal(t, 1, r.DaysOverdue(now))
		assert.Equal(t, 0, r.DaysRemaining(now))
	})

	t.Run("returned is terminal and never overdue", func(t *testing.T) {
		returned := builder.NewBorrowingBuilder().Returned(due.AddDate(0, 0, 5), 500).BuildDomain()
		later := due.AddDate(0, 1, 0)

		assert.Equal(t, borrowing.StateReturned, returned.State(later))
		assert.True(t, returned.State(later).IsTerminal())
		assert.False(t, returned.IsOverdue(later))
		assert.Equal(t, 0, returned.DaysOverdue(later))
		assert.Equal(t, 0, returned.DaysRemaining(later))
	})
}

func TestRecord_MarkReturned(t *testing.T) {
	t.Run("records return date and fee", func(t *testing.T) {
		r := builder.NewBorrowingBuilder().BuildDomain()
		at := r.DueDate().Add(48 * time.Hour)
		notes := " left in rain "

		require.NoError(t, r.MarkReturned(at, 200, &notes))

		assert.True(t, r.IsReturned())
		require.NotNil(t, r.ReturnDate())
		assert.Equal(t, at, *r.ReturnDate())
		assert.Equal(t, borrowing.Money(200), r.LateFee())
		assert.Equal(t, "left in rain", r.Notes())
	})

	t.Run("keeps notes when none are given", func(t *testing.T) {
		r := builder.NewBorrowingBuilder().With(func(b *builder.BorrowingBuilder) { b.Notes = "original" }).BuildDomain()

		require.NoError(t, r.MarkReturned(r.DueDate(), 0, nil))
		assert.Equal(t, "original", r.Notes())
	})

	t.Run("negative fee is clamped", func(t *testing.T) {
		r := builder.NewBorrowingBuilder().BuildDomain()
		require.NoError(t, r.MarkReturned(r.DueDate(), -5, nil))
		assert.Equal(t, borrowing.Money(0), r.LateFee())
	})

	t.Run("second return fails", func(t *testing.T) {
		r := builder.NewBorrowingBuilder().BuildDomain()
		require.NoError(t, r.MarkReturned(r.DueDate(), 0, nil))

		err := r.MarkReturned(r.DueDate().Add(time.Hour), 100, nil)
		require.ErrorIs(t, err, borrowing.ErrAlreadyReturned)
		assert.Equal(t, borrowing.Money(0), r.LateFee())
	})

	t.Run("return before borrow date fails", func(t *testing.T) {
		r := builder.NewBorrowingBuilder().BuildDomain()
		err := r.MarkReturned(r.BorrowDate().Add(-time.Second), 0, nil)
		require.ErrorIs(t, err, borrowing.ErrInvalidReturnDate)
		assert.False(t, r.IsReturned())
	})

	t.Run("notes over the limit leave the record open", func(t *testing.T) {
		r := builder.NewBorrowingBuilder().BuildDomain()
		long := strings.Repeat("x", borrowing.MaxNotesLength+1)
		require.ErrorIs(t, r.MarkReturned(r.DueDate(), 0, &long), borrowing.ErrNotesTooLong)
		assert.False(t, r.IsReturned())
	})
}

func TestRecord_ExtendDueDate(t *testing.T) {
	cases := []struct {
		name  string
		days  int
		errIs error
	}{
		{name: "zero days", days: 0, errIs: borrowing.ErrInvalidExtension},
		{name: "minimum", days: borrowing.MinExtensionDays},
		{name: "maximum", days: borrowing.MaxExtensionDays},
		{name: "over maximum", days: borrowing.MaxExtensionDays + 1, errIs: borrowing.ErrInvalidExtension},
		{name: "negative", days: -3, errIs: borrowing.ErrInvalidExtension},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := builder.NewBorrowingBuilder().BuildDomain()
			before := r.DueDate()

			err := r.ExtendDueDate(c.days)

			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				assert.Equal(t, before, r.DueDate())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, before.Add(time.Duration(c.days)*24*time.Hour), r.DueDate())
		})
	}

	t.Run("overdue record may be extended", func(t *testing.T) {
		r := builder.NewBorrowingBuilder().BuildDomain()
		now := r.DueDate().Add(72 * time.Hour)
		require.True(t, r.IsOverdue(now))

		require.NoError(t, r.ExtendDueDate(7))
		assert.False(t, r.IsOverdue(now))
	})

	t.Run("returned record cannot be extended", func(t *testing.T) {
		r := builder.NewBorrowingBuilder().Returned(borrowedAt.Add(time.Hour), 0).BuildDomain()
		require.ErrorIs(t, r.ExtendDueDate(3), borrowing.ErrAlreadyReturned)
	})
}

func TestFeePolicy(t *testing.T) {
	policy := borrowing.NewFeePolicy(100)
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		returned time.Time
		want     borrowing.Money
	}{
		{"returned early", due.Add(-48 * time.Hour), 0},
		{"returned at due instant", due, 0},
		{"one second late counts a day", due.Add(time.Second), 100},
		{"exactly one day late", due.Add(24 * time.Hour), 100},
		{"three days late", time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC), 300},
		{"partial fourth day", due.Add(72*time.Hour + time.Hour), 400},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, policy.Compute(due, c.returned))
		})
	}

	t.Run("negative rate charges nothing", func(t *testing.T) {
		p := borrowing.NewFeePolicy(-10)
		assert.Equal(t, borrowing.Money(0), p.PerDay())
		assert.Equal(t, borrowing.Money(0), p.Compute(due, due.AddDate(0, 0, 9)))
	})

	t.Run("days until due", func(t *testing.T) {
		assert.Equal(t, 2, borrowing.DaysUntil(due, due.Add(-50*time.Hour)))
		assert.Equal(t, 0, borrowing.DaysUntil(due, due.Add(time.Hour)))
	})
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "3.00", borrowing.Money(300).String())
	assert.Equal(t, "0.05", borrowing.Money(5).String())
	assert.Equal(t, "-1.25", borrowing.Money(-125).String())
}

func TestParseState(t *testing.T) {
	s, err := borrowing.ParseState("overdue")
	require.NoError(t, err)
	assert.Equal(t, borrowing.StateOverdue, s)

	_, err = borrowing.ParseState("lost")
	require.ErrorIs(t, err, borrowing.ErrInvalidState)
}
