package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date (no time of day), normalized to midnight UTC.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// ExpenseRecord is a persisted ledger entry. Records are immutable once
	// created; they exist until explicitly removed and are never edited.
	ExpenseRecord struct {
		ID          int64
		Amount      Money
		Description string
		RecordedOn  Date
	}

	// NewExpense is the input for appending a record to the ledger.
	// RecordedOn must be resolved by the caller before it reaches a store
	// ("today" when the user supplied no date).
	NewExpense struct {
		Amount      Money
		Description string
		RecordedOn  Date
	}

	// BudgetConfig holds the two process-wide constants: the money available
	// at inception and the date it must last until. Set at startup, immutable
	// thereafter.
	BudgetConfig struct {
		StartBudget Money
		Deadline    Date
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeAmount   = errors.New("negative amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrZeroDate         = errors.New("date cannot be zero")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// DaysUntil returns the whole-day difference from d to other
// (midnight-to-midnight). Negative when other is in the past.
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time) / (24 * time.Hour))
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Validate rejects negative amounts. Zero is a valid recorded amount.
func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Add returns the exact sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns the exact difference. The result may be negative.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

func (e NewExpense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := e.RecordedOn.Validate(); err != nil {
		return err
	}
	return nil
}

func (c BudgetConfig) Validate() error {
	if c.StartBudget.Cents <= 0 {
		return ErrInvalidAmount
	}
	if err := c.Deadline.Validate(); err != nil {
		return err
	}
	return nil
}
