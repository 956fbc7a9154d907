package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

const (
	// DefaultCategoryColor is applied when a category is saved without a color.
	DefaultCategoryColor = "#4f46e5"
	// UncategorizedTitle is the title given to batch rows without a category.
	UncategorizedTitle = "Uncategorized Expense"
	// UncategorizedLabel is shown wherever a transaction has no category.
	UncategorizedLabel = "Uncategorized"

	DateLayout = "2006-01-02"

	MaxTitleLength        = 200
	MaxCategoryNameLength = 100
	MaxColorLength        = 20
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	// DateRange is inclusive on both ends.
	DateRange struct {
		From Date
		To   Date
	}

	User struct {
		ID           int64
		Username     string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}

	Category struct {
		ID        int64
		UserID    int64
		Name      string
		Color     string
		CreatedAt time.Time
	}

	Transaction struct {
		ID            int64
		UserID        int64
		CategoryID    int64 // 0 when uncategorized
		CategoryName  string
		CategoryColor string
		Title         string
		Amount        Money
		Date          Date
		Type          TransactionType
		Description   string
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	// LineItem is one row of a batch submission before it becomes a Transaction.
	LineItem struct {
		Type        TransactionType
		Amount      Money
		CategoryID  int64
		Description string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyTitle    = errors.New("empty title")
	ErrEmptyName     = errors.New("empty category name")
)

func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidType
	}
	return t, nil
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Label is the human readable name used in templates and exports.
func (t TransactionType) Label() string {
	switch t {
	case Income:
		return "Income"
	case Expense:
		return "Expense"
	}
	return string(t)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate reads YYYY-MM-DD. 0001-01-01 is the zero Date, which stands
// for "no date", so it is rejected like any other unusable input.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	d := Date{Time: t}
	if err := d.Validate(); err != nil {
		return Date{}, err
	}
	return d, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the single-day range for d.
func Day(d Date) DateRange {
	return DateRange{From: d, To: d}
}

// Month returns the calendar month containing d.
func Month(d Date) DateRange {
	first := NewDate(d.Year(), int(d.Month()), 1)
	return DateRange{From: first, To: Date{Time: first.AddDate(0, 1, -1)}}
}

func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.From.Time) && !d.After(r.To.Time)
}

func (c Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len([]rune(name)) > MaxCategoryNameLength {
		return errors.New("category name too long (max 100 characters)")
	}
	if len(c.Color) > MaxColorLength {
		return errors.New("color too long (max 20 characters)")
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if len([]rune(t.Title)) > MaxTitleLength {
		return errors.New("title too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// HasCategory reports whether the transaction is tagged.
func (t Transaction) HasCategory() bool {
	return t.CategoryID != 0
}

// CategoryLabel returns the category name or the uncategorized placeholder.
func (t Transaction) CategoryLabel() string {
	if t.CategoryName == "" {
		return UncategorizedLabel
	}
	return t.CategoryName
}

// Title derives the stored title from the chosen category name.
func (li LineItem) Title(categoryName string) string {
	if li.CategoryID == 0 || categoryName == "" {
		return UncategorizedTitle
	}
	return categoryName
}
