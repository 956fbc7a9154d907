package storage

import (
	"context"
	"database/sql"
)

const createUser = `-- name: CreateUser :one
INSERT INTO users (username, email, password_hash, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, username, email, password_hash, created_at
`

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser, arg.Username, arg.Email, arg.PasswordHash, arg.CreatedAt)
	var i User
	err := row.Scan(&i.ID, &i.Username, &i.Email, &i.PasswordHash, &i.CreatedAt)
	return i, err
}

const getUser = `-- name: GetUser :one
SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?
`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx, getUser, id)
	var i User
	err := row.Scan(&i.ID, &i.Username, &i.Email, &i.PasswordHash, &i.CreatedAt)
	return i, err
}

// Username and email columns are COLLATE NOCASE. A username match wins
// over an email match when both exist.
const getUserByLogin = `-- name: GetUserByLogin :one
SELECT id, username, email, password_hash, created_at FROM users
WHERE username = ?1 OR email = ?1
ORDER BY (username = ?1) DESC, id
LIMIT 1
`

func (q *Queries) GetUserByLogin(ctx context.Context, login string) (User, error) {
	row := q.db.QueryRowContext(ctx, getUserByLogin, login)
	var i User
	err := row.Scan(&i.ID, &i.Username, &i.Email, &i.PasswordHash, &i.CreatedAt)
	return i, err
}

const userConflicts = `-- name: UserConflicts :one
SELECT
    EXISTS (SELECT 1 FROM users WHERE username = ?1),
    EXISTS (SELECT 1 FROM users WHERE email = ?2)
`

func (q *Queries) UserConflicts(ctx context.Context, username, email string) (bool, bool, error) {
	row := q.db.QueryRowContext(ctx, userConflicts, username, email)
	var usernameTaken, emailTaken bool
	err := row.Scan(&usernameTaken, &emailTaken)
	return usernameTaken, emailTaken, err
}

const deleteUser = `-- name: DeleteUser :execrows
DELETE FROM users WHERE id = ?
`

func (q *Queries) DeleteUser(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteUser, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createCategory = `-- name: CreateCategory :one
INSERT INTO categories (user_id, name, color, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, user_id, name, color, created_at
`

type CreateCategoryParams struct {
	UserID    int64
	Name      string
	Color     string
	CreatedAt string
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRowContext(ctx, createCategory, arg.UserID, arg.Name, arg.Color, arg.CreatedAt)
	var i Category
	err := row.Scan(&i.ID, &i.UserID, &i.Name, &i.Color, &i.CreatedAt)
	return i, err
}

const getCategory = `-- name: GetCategory :one
SELECT id, user_id, name, color, created_at FROM categories
WHERE id = ? AND user_id = ?
`

func (q *Queries) GetCategory(ctx context.Context, id, userID int64) (Category, error) {
	row := q.db.QueryRowContext(ctx, getCategory, id, userID)
	var i Category
	err := row.Scan(&i.ID, &i.UserID, &i.Name, &i.Color, &i.CreatedAt)
	return i, err
}

const listCategories = `-- name: ListCategories :many
SELECT id, user_id, name, color, created_at FROM categories
WHERE user_id = ?
ORDER BY name, id
`

func (q *Queries) ListCategories(ctx context.Context, userID int64) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var i Category
		if err := rows.Scan(&i.ID, &i.UserID, &i.Name, &i.Color, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateCategory = `-- name: UpdateCategory :execrows
UPDATE categories SET name = ?, color = ?
WHERE id = ? AND user_id = ?
`

type UpdateCategoryParams struct {
	Name   string
	Color  string
	ID     int64
	UserID int64
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateCategory, arg.Name, arg.Color, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const clearCategoryReferences = `-- name: ClearCategoryReferences :exec
UPDATE transactions SET category_id = NULL
WHERE category_id = ? AND user_id = ?
`

func (q *Queries) ClearCategoryReferences(ctx context.Context, categoryID, userID int64) error {
	_, err := q.db.ExecContext(ctx, clearCategoryReferences, categoryID, userID)
	return err
}

const deleteCategory = `-- name: DeleteCategory :execrows
DELETE FROM categories WHERE id = ? AND user_id = ?
`

func (q *Queries) DeleteCategory(ctx context.Context, id, userID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteCategory, id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const insertTransaction = `-- name: InsertTransaction :one
INSERT INTO transactions (user_id, category_id, title, amount_cents, date, transaction_type, description, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

type InsertTransactionParams struct {
	UserID          int64
	CategoryID      sql.NullInt64
	Title           string
	AmountCents     int64
	Date            string
	TransactionType string
	Description     string
	CreatedAt       string
	UpdatedAt       string
}

func (q *Queries) InsertTransaction(ctx context.Context, arg InsertTransactionParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertTransaction,
		arg.UserID,
		arg.CategoryID,
		arg.Title,
		arg.AmountCents,
		arg.Date,
		arg.TransactionType,
		arg.Description,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const transactionColumns = `t.id, t.user_id, t.category_id, c.name, c.color, t.title, t.amount_cents,
       t.date, t.transaction_type, t.description, t.created_at, t.updated_at
FROM transactions t
LEFT JOIN categories c ON c.id = t.category_id`

const defaultOrder = `ORDER BY t.date DESC, t.created_at DESC, t.id DESC`

func scanTransaction(row interface{ Scan(...interface{}) error }) (TransactionRow, error) {
	var i TransactionRow
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.CategoryID,
		&i.CategoryName,
		&i.CategoryColor,
		&i.Title,
		&i.AmountCents,
		&i.Date,
		&i.TransactionType,
		&i.Description,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionRow
	for rows.Next() {
		i, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTransaction = `-- name: GetTransaction :one
SELECT ` + transactionColumns + `
WHERE t.id = ? AND t.user_id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id, userID int64) (TransactionRow, error) {
	return scanTransaction(q.db.QueryRowContext(ctx, getTransaction, id, userID))
}

const updateTransaction = `-- name: UpdateTransaction :execrows
UPDATE transactions
SET category_id = ?, title = ?, amount_cents = ?, date = ?, transaction_type = ?, description = ?, updated_at = ?
WHERE id = ? AND user_id = ?
`

type UpdateTransactionParams struct {
	CategoryID      sql.NullInt64
	Title           string
	AmountCents     int64
	Date            string
	TransactionType string
	Description     string
	UpdatedAt       string
	ID              int64
	UserID          int64
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTransaction,
		arg.CategoryID,
		arg.Title,
		arg.AmountCents,
		arg.Date,
		arg.TransactionType,
		arg.Description,
		arg.UpdatedAt,
		arg.ID,
		arg.UserID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions WHERE id = ? AND user_id = ?
`

func (q *Queries) DeleteTransaction(ctx context.Context, id, userID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransaction, id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// NULL parameters disable the matching filter.
const listFilter = `WHERE t.user_id = ?1
  AND (?2 IS NULL OR t.category_id = ?2)
  AND (?3 IS NULL OR t.date >= ?3)
  AND (?4 IS NULL OR t.date <= ?4)`

type ListTransactionsParams struct {
	UserID     int64
	CategoryID sql.NullInt64
	DateFrom   sql.NullString
	DateTo     sql.NullString
	Limit      int64
	Offset     int64
}

const listTransactions = `-- name: ListTransactions :many
SELECT ` + transactionColumns + `
` + listFilter + `
` + defaultOrder + `
LIMIT ?5 OFFSET ?6
`

func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]TransactionRow, error) {
	return q.queryTransactions(ctx, listTransactions,
		arg.UserID, arg.CategoryID, arg.DateFrom, arg.DateTo, arg.Limit, arg.Offset)
}

const countTransactions = `-- name: CountTransactions :one
SELECT COUNT(*) FROM transactions t
` + listFilter + `
`

type CountTransactionsParams struct {
	UserID     int64
	CategoryID sql.NullInt64
	DateFrom   sql.NullString
	DateTo     sql.NullString
}

func (q *Queries) CountTransactions(ctx context.Context, arg CountTransactionsParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTransactions, arg.UserID, arg.CategoryID, arg.DateFrom, arg.DateTo)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const allTransactions = `-- name: AllTransactions :many
SELECT ` + transactionColumns + `
WHERE t.user_id = ?
` + defaultOrder + `
`

func (q *Queries) AllTransactions(ctx context.Context, userID int64) ([]TransactionRow, error) {
	return q.queryTransactions(ctx, allTransactions, userID)
}

const recentTransactions = `-- name: RecentTransactions :many
SELECT ` + transactionColumns + `
WHERE t.user_id = ?
` + defaultOrder + `
LIMIT ?
`

func (q *Queries) RecentTransactions(ctx context.Context, userID, limit int64) ([]TransactionRow, error) {
	return q.queryTransactions(ctx, recentTransactions, userID, limit)
}

// Aggregates share one filter: user and type always, date bounds optional.
const aggregateFilter = `WHERE t.user_id = ?1
  AND t.transaction_type = ?2
  AND (?3 IS NULL OR t.date >= ?3)
  AND (?4 IS NULL OR t.date <= ?4)`

type AggregateParams struct {
	UserID          int64
	TransactionType string
	DateFrom        sql.NullString
	DateTo          sql.NullString
}

const sumAmount = `-- name: SumAmount :one
SELECT COALESCE(SUM(t.amount_cents), 0) FROM transactions t
` + aggregateFilter + `
`

func (q *Queries) SumAmount(ctx context.Context, arg AggregateParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, sumAmount, arg.UserID, arg.TransactionType, arg.DateFrom, arg.DateTo)
	var total int64
	err := row.Scan(&total)
	return total, err
}

const dailyTotals = `-- name: DailyTotals :many
SELECT t.date, COALESCE(SUM(t.amount_cents), 0) FROM transactions t
` + aggregateFilter + `
GROUP BY t.date
ORDER BY t.date
`

func (q *Queries) DailyTotals(ctx context.Context, arg AggregateParams) ([]DailyTotalRow, error) {
	rows, err := q.db.QueryContext(ctx, dailyTotals, arg.UserID, arg.TransactionType, arg.DateFrom, arg.DateTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DailyTotalRow
	for rows.Next() {
		var i DailyTotalRow
		if err := rows.Scan(&i.Date, &i.TotalAmount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const categoryTotals = `-- name: CategoryTotals :many
SELECT t.category_id, c.name, c.color, COALESCE(SUM(t.amount_cents), 0) AS total
FROM transactions t
LEFT JOIN categories c ON c.id = t.category_id
` + aggregateFilter + `
GROUP BY t.category_id
ORDER BY total DESC, c.name
`

func (q *Queries) CategoryTotals(ctx context.Context, arg AggregateParams) ([]CategoryTotalRow, error) {
	rows, err := q.db.QueryContext(ctx, categoryTotals, arg.UserID, arg.TransactionType, arg.DateFrom, arg.DateTo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategoryTotalRow
	for rows.Next() {
		var i CategoryTotalRow
		if err := rows.Scan(&i.CategoryID, &i.CategoryName, &i.CategoryColor, &i.TotalAmount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
