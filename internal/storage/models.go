package storage

import "database/sql"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    string
}

type Category struct {
	ID        int64
	UserID    int64
	Name      string
	Color     string
	CreatedAt string
}

// TransactionRow is a transactions row joined with its optional category.
type TransactionRow struct {
	ID              int64
	UserID          int64
	CategoryID      sql.NullInt64
	CategoryName    sql.NullString
	CategoryColor   sql.NullString
	Title           string
	AmountCents     int64
	Date            string
	TransactionType string
	Description     string
	CreatedAt       string
	UpdatedAt       string
}

type DailyTotalRow struct {
	Date        string
	TotalAmount int64
}

type CategoryTotalRow struct {
	CategoryID    sql.NullInt64
	CategoryName  sql.NullString
	CategoryColor sql.NullString
	TotalAmount   int64
}
