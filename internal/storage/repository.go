package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spendwise/internal/core"

	_ "modernc.org/sqlite"
)

// timestampLayout is fixed width so TEXT ordering matches time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

var (
	// ErrNotFound is returned when no row exists for the requesting user and id.
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

// ListFilter narrows a transaction listing. Zero values impose no constraint.
type ListFilter struct {
	CategoryID int64
	From       core.Date
	To         core.Date
}

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", DSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping is used by the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) timestamp() string {
	return r.now().UTC().Format(timestampLayout)
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(r.queries.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.WarnContext(ctx, "Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func requireAffected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Users

// UserConflicts reports, case-insensitively, whether the username and the
// email are already registered.
func (r *SQLiteRepository) UserConflicts(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error) {
	usernameTaken, emailTaken, err = r.queries.UserConflicts(ctx, strings.TrimSpace(username), strings.TrimSpace(email))
	if err != nil {
		return false, false, fmt.Errorf("check user conflicts: %w", err)
	}
	return usernameTaken, emailTaken, nil
}

// CreateUser maps the unique constraints to ErrDuplicateUsername and
// ErrDuplicateEmail for signups racing past UserConflicts.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (core.User, error) {
	u, err := r.queries.CreateUser(ctx, CreateUserParams{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    r.timestamp(),
	})
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "users.username"):
			return core.User{}, ErrDuplicateUsername
		case strings.Contains(msg, "users.email"):
			return core.User{}, ErrDuplicateEmail
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	return toCoreUser(u), nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (core.User, error) {
	u, err := r.queries.GetUser(ctx, id)
	if err != nil {
		return core.User{}, notFound(err)
	}
	return toCoreUser(u), nil
}

// GetUserByLogin matches login case-insensitively against username or email.
func (r *SQLiteRepository) GetUserByLogin(ctx context.Context, login string) (core.User, error) {
	u, err := r.queries.GetUserByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		return core.User{}, notFound(err)
	}
	return toCoreUser(u), nil
}

// DeleteUser removes the user together with every owned category and transaction.
func (r *SQLiteRepository) DeleteUser(ctx context.Context, id int64) error {
	if err := requireAffected(r.queries.DeleteUser(ctx, id)); err != nil {
		return notFound(err)
	}
	slog.InfoContext(ctx, "User deleted", "user_id", id)
	return nil
}

// Categories

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if c.Color == "" {
		c.Color = core.DefaultCategoryColor
	}
	row, err := r.queries.CreateCategory(ctx, CreateCategoryParams{
		UserID:    c.UserID,
		Name:      c.Name,
		Color:     c.Color,
		CreatedAt: r.timestamp(),
	})
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return toCoreCategory(row), nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, userID, id int64) (core.Category, error) {
	row, err := r.queries.GetCategory(ctx, id, userID)
	if err != nil {
		return core.Category{}, notFound(err)
	}
	return toCoreCategory(row), nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.queries.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]core.Category, len(rows))
	for i, row := range rows {
		out[i] = toCoreCategory(row)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	if c.Color == "" {
		c.Color = core.DefaultCategoryColor
	}
	err := requireAffected(r.queries.UpdateCategory(ctx, UpdateCategoryParams{
		Name:   c.Name,
		Color:  c.Color,
		ID:     c.ID,
		UserID: c.UserID,
	}))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("update category: %w", err)
	}
	return err
}

// DeleteCategory removes the category and clears it from every transaction
// that referenced it. The transactions themselves survive.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, id int64) error {
	return r.withTx(ctx, func(q *Queries) error {
		if err := q.ClearCategoryReferences(ctx, id, userID); err != nil {
			return fmt.Errorf("clear category references: %w", err)
		}
		return requireAffected(q.DeleteCategory(ctx, id, userID))
	})
}

// Transactions

// CreateTransactions inserts every transaction in one database transaction.
// A category that the owner does not have aborts the whole batch with ErrNotFound.
func (r *SQLiteRepository) CreateTransactions(ctx context.Context, txs []core.Transaction) ([]int64, error) {
	ids := make([]int64, 0, len(txs))
	ts := r.timestamp()
	err := r.withTx(ctx, func(q *Queries) error {
		for _, t := range txs {
			if t.HasCategory() {
				if _, err := q.GetCategory(ctx, t.CategoryID, t.UserID); err != nil {
					return fmt.Errorf("category %d: %w", t.CategoryID, notFound(err))
				}
			}
			id, err := q.InsertTransaction(ctx, InsertTransactionParams{
				UserID:          t.UserID,
				CategoryID:      nullID(t.CategoryID),
				Title:           t.Title,
				AmountCents:     t.Amount.Cents,
				Date:            t.Date.String(),
				TransactionType: string(t.Type),
				Description:     t.Description,
				CreatedAt:       ts,
				UpdatedAt:       ts,
			})
			if err != nil {
				return fmt.Errorf("insert transaction: %w", err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id, userID)
	if err != nil {
		return core.Transaction{}, notFound(err)
	}
	return toCoreTransaction(row)
}

// UpdateTransaction rewrites the mutable fields. The owner never changes.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	return r.withTx(ctx, func(q *Queries) error {
		if t.HasCategory() {
			if _, err := q.GetCategory(ctx, t.CategoryID, t.UserID); err != nil {
				return fmt.Errorf("category %d: %w", t.CategoryID, notFound(err))
			}
		}
		return requireAffected(q.UpdateTransaction(ctx, UpdateTransactionParams{
			CategoryID:      nullID(t.CategoryID),
			Title:           t.Title,
			AmountCents:     t.Amount.Cents,
			Date:            t.Date.String(),
			TransactionType: string(t.Type),
			Description:     t.Description,
			UpdatedAt:       r.timestamp(),
			ID:              t.ID,
			UserID:          t.UserID,
		}))
	})
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	return requireAffected(r.queries.DeleteTransaction(ctx, id, userID))
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, f ListFilter, limit, offset int) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx, ListTransactionsParams{
		UserID:     userID,
		CategoryID: nullID(f.CategoryID),
		DateFrom:   nullDate(f.From),
		DateTo:     nullDate(f.To),
		Limit:      int64(limit),
		Offset:     int64(offset),
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return toCoreTransactions(rows)
}

func (r *SQLiteRepository) CountTransactions(ctx context.Context, userID int64, f ListFilter) (int, error) {
	n, err := r.queries.CountTransactions(ctx, CountTransactionsParams{
		UserID:     userID,
		CategoryID: nullID(f.CategoryID),
		DateFrom:   nullDate(f.From),
		DateTo:     nullDate(f.To),
	})
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return int(n), nil
}

// AllTransactions returns every transaction of the user, newest first.
func (r *SQLiteRepository) AllTransactions(ctx context.Context, userID int64) ([]core.Transaction, error) {
	rows, err := r.queries.AllTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("all transactions: %w", err)
	}
	return toCoreTransactions(rows)
}

func (r *SQLiteRepository) RecentTransactions(ctx context.Context, userID int64, limit int) ([]core.Transaction, error) {
	rows, err := r.queries.RecentTransactions(ctx, userID, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	return toCoreTransactions(rows)
}

// Aggregates

func aggregateParams(userID int64, typ core.TransactionType, r core.DateRange) AggregateParams {
	return AggregateParams{
		UserID:          userID,
		TransactionType: string(typ),
		DateFrom:        nullDate(r.From),
		DateTo:          nullDate(r.To),
	}
}

// SumAmount totals a user's transactions of one type. A zero range means all time.
func (r *SQLiteRepository) SumAmount(ctx context.Context, userID int64, typ core.TransactionType, rng core.DateRange) (core.Money, error) {
	total, err := r.queries.SumAmount(ctx, aggregateParams(userID, typ, rng))
	if err != nil {
		return core.Money{}, fmt.Errorf("sum amount: %w", err)
	}
	return core.Money{Cents: total}, nil
}

// DailyTotals returns one entry per day that has data, oldest first.
func (r *SQLiteRepository) DailyTotals(ctx context.Context, userID int64, typ core.TransactionType, rng core.DateRange) ([]core.DailyAmount, error) {
	rows, err := r.queries.DailyTotals(ctx, aggregateParams(userID, typ, rng))
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	out := make([]core.DailyAmount, 0, len(rows))
	for _, row := range rows {
		d, err := core.ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("daily totals: stored date %q: %w", row.Date, err)
		}
		out = append(out, core.DailyAmount{Date: d, Amount: core.Money{Cents: row.TotalAmount}})
	}
	return out, nil
}

// CategoryTotals groups a user's totals by category, largest first.
// Uncategorized rows are reported with CategoryID 0.
func (r *SQLiteRepository) CategoryTotals(ctx context.Context, userID int64, typ core.TransactionType, rng core.DateRange) ([]core.CategoryAmount, error) {
	rows, err := r.queries.CategoryTotals(ctx, aggregateParams(userID, typ, rng))
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	out := make([]core.CategoryAmount, 0, len(rows))
	for _, row := range rows {
		ca := core.CategoryAmount{
			CategoryID: row.CategoryID.Int64,
			Name:       row.CategoryName.String,
			Color:      row.CategoryColor.String,
			Amount:     core.Money{Cents: row.TotalAmount},
		}
		if !row.CategoryID.Valid {
			ca.Name = core.UncategorizedLabel
		}
		out = append(out, ca)
	}
	return out, nil
}

// Mapping

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func nullDate(d core.Date) sql.NullString {
	return sql.NullString{String: d.String(), Valid: !d.IsZero()}
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func toCoreUser(u User) core.User {
	return core.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    parseTimestamp(u.CreatedAt),
	}
}

func toCoreCategory(c Category) core.Category {
	return core.Category{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Color:     c.Color,
		CreatedAt: parseTimestamp(c.CreatedAt),
	}
}

func toCoreTransaction(row TransactionRow) (core.Transaction, error) {
	d, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d: stored date %q: %w", row.ID, row.Date, err)
	}
	return core.Transaction{
		ID:            row.ID,
		UserID:        row.UserID,
		CategoryID:    row.CategoryID.Int64,
		CategoryName:  row.CategoryName.String,
		CategoryColor: row.CategoryColor.String,
		Title:         row.Title,
		Amount:        core.Money{Cents: row.AmountCents},
		Date:          d,
		Type:          core.TransactionType(row.TransactionType),
		Description:   row.Description,
		CreatedAt:     parseTimestamp(row.CreatedAt),
		UpdatedAt:     parseTimestamp(row.UpdatedAt),
	}, nil
}

func toCoreTransactions(rows []TransactionRow) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := toCoreTransaction(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
