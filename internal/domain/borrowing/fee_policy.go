package borrowing

import "time"

const day = 24 * time.Hour

// FeePolicy charges a flat rate per started day past the due date.
type FeePolicy struct {
	perDay Money
}

func NewFeePolicy(perDay Money) FeePolicy {
	if perDay < 0 {
		perDay = 0
	}
	return FeePolicy{perDay: perDay}
}

func (p FeePolicy) PerDay() Money { return p.perDay }

// Compute is zero for returned <= due and grows with every started day after it.
func (p FeePolicy) Compute(due, returned time.Time) Money {
	return Money(int64(DaysLate(due, returned)) * int64(p.perDay))
}

// DaysLate counts started 24h periods between due and at; a partial day counts as one.
func DaysLate(due, at time.Time) int {
	late := at.Sub(due)
	if late <= 0 {
		return 0
	}
	days := late / day
	if late%day != 0 {
		days++
	}
	return int(days)
}

// DaysUntil counts whole 24h periods from at until due, never negative.
func DaysUntil(due, at time.Time) int {
	left := due.Sub(at)
	if left <= 0 {
		return 0
	}
	return int(left / day)
}
