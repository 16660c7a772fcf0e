package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = 0
	Expense TransactionType = 1
)

const (
	Never     RepeatInterval = 0
	Daily     RepeatInterval = 1
	Weekly    RepeatInterval = 2
	Monthly   RepeatInterval = 3
	Quarterly RepeatInterval = 4
	Yearly    RepeatInterval = 5
	Biyearly  RepeatInterval = 6
)

// NoGroup is the sentinel for a transaction that belongs to no group.
const NoGroup = -1

type (
	// TransactionType is the direction of a transaction. The integer
	// values are the persisted representation and must not be reordered.
	TransactionType int

	// RepeatInterval is the cadence at which a transaction recurs.
	// The integer values are the persisted representation.
	RepeatInterval int

	// Date is a calendar date with no time-of-day component, always UTC.
	Date struct {
		time.Time
	}

	// Transaction is a single income or expense entry in an account.
	// ID is immutable after creation and unique within its account.
	Transaction struct {
		ID          int
		Date        Date
		Description string
		Type        TransactionType
		Repeat      RepeatInterval
		Amount      decimal.Decimal
		GroupID     int
	}

	// Group is a named label for transactions. Its balance is never
	// stored; it is derived from member transactions on demand.
	Group struct {
		ID          int
		Name        string
		Description string
	}

	// Transfer describes moving an amount from one account file to
	// another.
	Transfer struct {
		SourceAccountPath string
		DestAccountPath   string
		Amount            decimal.Decimal
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidInterval  = errors.New("invalid repeat interval")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses an ISO-8601 date string (yyyy-mm-dd).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t.UTC()}, nil
}

// String formats the date as ISO-8601 (yyyy-mm-dd), the persisted form.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Before reports whether d falls before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// AddMonths returns the date n calendar months later, clamping the day
// to the last day of the target month (Jan 31 + 1 month = Feb 28/29).
func (d Date) AddMonths(n int) Date {
	year, month, day := d.Date()
	first := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return NewDate(first.Year(), int(first.Month()), day)
}

// AddYears returns the date n calendar years later, clamping Feb 29 to
// Feb 28 in non-leap years.
func (d Date) AddYears(n int) Date {
	return d.AddMonths(12 * n)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (r RepeatInterval) Validate() error {
	if r < Never || r > Biyearly {
		return ErrInvalidInterval
	}
	return nil
}

// Next returns the scheduled occurrence after the given date: the date
// at which a recurring transaction dated d becomes due again.
func (r RepeatInterval) Next(d Date) Date {
	switch r {
	case Daily:
		return d.AddDays(1)
	case Weekly:
		return d.AddDays(7)
	case Monthly:
		return d.AddMonths(1)
	case Quarterly:
		return d.AddMonths(4)
	case Yearly:
		return d.AddYears(1)
	case Biyearly:
		return d.AddYears(2)
	default:
		return d
	}
}

func (r RepeatInterval) String() string {
	switch r {
	case Never:
		return "never"
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	case Biyearly:
		return "biyearly"
	default:
		return "unknown"
	}
}

func (t TransactionType) String() string {
	if t == Income {
		return "income"
	}
	return "expense"
}

// Signed returns the amount with the sign implied by the transaction
// type: positive for income, negative for expense. The stored amount
// itself is always non-negative.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Income {
		return t.Amount
	}
	return t.Amount.Neg()
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if err := t.Repeat.Validate(); err != nil {
		return err
	}
	return nil
}
