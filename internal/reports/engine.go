// Package reports computes per-user monetary summaries: totals by type,
// period totals, balance, trailing daily series and recent activity.
//
// Every operation is scoped to one user id. Missing data resolves to zero.
package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spendwise/internal/core"

	"golang.org/x/text/language"
)

const (
	RecentLimit     = 5
	DashboardDays   = 7
	DefaultDays     = 7
	MaxSeriesDays   = 366
	TopCategoryRows = 8
)

var ErrInvalidDays = errors.New("days must be between 1 and 366")

// Store is the subset of the repository the engine reads from.
type Store interface {
	SumAmount(ctx context.Context, userID int64, typ core.TransactionType, rng core.DateRange) (core.Money, error)
	DailyTotals(ctx context.Context, userID int64, typ core.TransactionType, rng core.DateRange) ([]core.DailyAmount, error)
	CategoryTotals(ctx context.Context, userID int64, typ core.TransactionType, rng core.DateRange) ([]core.CategoryAmount, error)
	RecentTransactions(ctx context.Context, userID int64, limit int) ([]core.Transaction, error)
}

type Engine struct {
	store Store
	now   func() time.Time
	loc   *time.Location
}

type Option func(*Engine)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the zone used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{store: store, now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today returns the current calendar day in the engine's location.
func (e *Engine) Today() core.Date {
	return core.DateOf(e.now().In(e.loc))
}

func (e *Engine) TotalByType(ctx context.Context, userID int64, typ core.TransactionType) (core.Money, error) {
	return e.store.SumAmount(ctx, userID, typ, core.DateRange{})
}

// MonthTotal restricts the total to the calendar month containing d.
func (e *Engine) MonthTotal(ctx context.Context, userID int64, typ core.TransactionType, d core.Date) (core.Money, error) {
	return e.store.SumAmount(ctx, userID, typ, core.Month(d))
}

// DayTotal restricts the total to the exact date d.
func (e *Engine) DayTotal(ctx context.Context, userID int64, typ core.TransactionType, d core.Date) (core.Money, error) {
	return e.store.SumAmount(ctx, userID, typ, core.Day(d))
}

// Balance is all-time income minus all-time expense.
func (e *Engine) Balance(ctx context.Context, userID int64) (core.Money, error) {
	income, err := e.TotalByType(ctx, userID, core.Income)
	if err != nil {
		return core.Money{}, fmt.Errorf("income total: %w", err)
	}
	expense, err := e.TotalByType(ctx, userID, core.Expense)
	if err != nil {
		return core.Money{}, fmt.Errorf("expense total: %w", err)
	}
	return income.Sub(expense), nil
}

// DailySeries returns exactly days points ending today, oldest first.
// Days without transactions are zero.
func (e *Engine) DailySeries(ctx context.Context, userID int64, typ core.TransactionType, days int, label LabelFunc) ([]core.SeriesPoint, error) {
	if days < 1 || days > MaxSeriesDays {
		return nil, ErrInvalidDays
	}
	today := e.Today()
	rng := core.DateRange{From: today.AddDays(-(days - 1)), To: today}

	totals, err := e.store.DailyTotals(ctx, userID, typ, rng)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	byDay := make(map[string]core.Money, len(totals))
	for _, t := range totals {
		byDay[t.Date.String()] = t.Amount
	}

	series := make([]core.SeriesPoint, days)
	for i := range series {
		d := rng.From.AddDays(i)
		series[i] = core.SeriesPoint{
			Label:  label(d),
			Date:   d,
			Amount: byDay[d.String()],
		}
	}
	return series, nil
}

// Recent returns the latest transactions under the default listing order.
func (e *Engine) Recent(ctx context.Context, userID int64) ([]core.Transaction, error) {
	return e.store.RecentTransactions(ctx, userID, RecentLimit)
}

type Dashboard struct {
	Today        core.Date
	TotalIncome  core.Money
	TotalExpense core.Money
	Balance      core.Money
	MonthExpense core.Money
	TodayExpense core.Money
	Recent       []core.Transaction
	Week         []core.SeriesPoint
	ByCategory   []core.CategoryAmount
}

// Dashboard gathers every figure shown on the dashboard page.
func (e *Engine) Dashboard(ctx context.Context, userID int64, tag language.Tag) (Dashboard, error) {
	today := e.Today()
	d := Dashboard{Today: today}
	var err error

	if d.TotalIncome, err = e.TotalByType(ctx, userID, core.Income); err != nil {
		return d, fmt.Errorf("income total: %w", err)
	}
	if d.TotalExpense, err = e.TotalByType(ctx, userID, core.Expense); err != nil {
		return d, fmt.Errorf("expense total: %w", err)
	}
	d.Balance = d.TotalIncome.Sub(d.TotalExpense)

	if d.MonthExpense, err = e.MonthTotal(ctx, userID, core.Expense, today); err != nil {
		return d, fmt.Errorf("month total: %w", err)
	}
	if d.TodayExpense, err = e.DayTotal(ctx, userID, core.Expense, today); err != nil {
		return d, fmt.Errorf("day total: %w", err)
	}
	if d.Recent, err = e.Recent(ctx, userID); err != nil {
		return d, fmt.Errorf("recent transactions: %w", err)
	}
	if d.Week, err = e.DailySeries(ctx, userID, core.Expense, DashboardDays, WeekdayLabels(tag)); err != nil {
		return d, fmt.Errorf("week series: %w", err)
	}
	if d.ByCategory, err = e.store.CategoryTotals(ctx, userID, core.Expense, core.Month(today)); err != nil {
		return d, fmt.Errorf("category totals: %w", err)
	}
	if len(d.ByCategory) > TopCategoryRows {
		d.ByCategory = d.ByCategory[:TopCategoryRows]
	}
	return d, nil
}

// ChartData is the JSON payload of the chart endpoint.
type ChartData struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

// Chart builds the general chart payload with "month day" labels.
// Amounts become floats only here.
func (e *Engine) Chart(ctx context.Context, userID int64, typ core.TransactionType, days int, tag language.Tag) (ChartData, error) {
	series, err := e.DailySeries(ctx, userID, typ, days, MonthDayLabels(tag))
	if err != nil {
		return ChartData{}, err
	}
	return NewChartData(series), nil
}

func NewChartData(series []core.SeriesPoint) ChartData {
	out := ChartData{
		Labels: make([]string, len(series)),
		Data:   make([]float64, len(series)),
	}
	for i, p := range series {
		out.Labels[i] = p.Label
		out.Data[i] = p.Amount.Float64()
	}
	return out
}
