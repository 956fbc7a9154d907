package reports

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"spendwise/internal/core"

	"golang.org/x/text/language"
)

// fakeStore aggregates an in-memory slice the same way the SQL queries do.
type fakeStore struct {
	txs []core.Transaction
	err error
}

func (f *fakeStore) match(userID int64, typ core.TransactionType, rng core.DateRange, t core.Transaction) bool {
	if t.UserID != userID || t.Type != typ {
		return false
	}
	if !rng.From.IsZero() && t.Date.Before(rng.From.Time) {
		return false
	}
	if !rng.To.IsZero() && t.Date.After(rng.To.Time) {
		return false
	}
	return true
}

func (f *fakeStore) SumAmount(_ context.Context, userID int64, typ core.TransactionType, rng core.DateRange) (core.Money, error) {
	if f.err != nil {
		return core.Money{}, f.err
	}
	var total core.Money
	for _, t := range f.txs {
		if f.match(userID, typ, rng, t) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (f *fakeStore) DailyTotals(_ context.Context, userID int64, typ core.TransactionType, rng core.DateRange) ([]core.DailyAmount, error) {
	if f.err != nil {
		return nil, f.err
	}
	byDay := map[string]core.DailyAmount{}
	for _, t := range f.txs {
		if f.match(userID, typ, rng, t) {
			cur := byDay[t.Date.String()]
			cur.Date = t.Date
			cur.Amount = cur.Amount.Add(t.Amount)
			byDay[t.Date.String()] = cur
		}
	}
	out := make([]core.DailyAmount, 0, len(byDay))
	for _, v := range byDay {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out, nil
}

func (f *fakeStore) CategoryTotals(_ context.Context, userID int64, typ core.TransactionType, rng core.DateRange) ([]core.CategoryAmount, error) {
	if f.err != nil {
		return nil, f.err
	}
	byCat := map[int64]core.CategoryAmount{}
	for _, t := range f.txs {
		if f.match(userID, typ, rng, t) {
			cur := byCat[t.CategoryID]
			cur.CategoryID = t.CategoryID
			cur.Name = t.CategoryLabel()
			cur.Amount = cur.Amount.Add(t.Amount)
			byCat[t.CategoryID] = cur
		}
	}
	out := make([]core.CategoryAmount, 0, len(byCat))
	for _, v := range byCat {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Amount.Cents > out[j].Amount.Cents })
	return out, nil
}

func (f *fakeStore) RecentTransactions(_ context.Context, userID int64, limit int) ([]core.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	var mine []core.Transaction
	for _, t := range f.txs {
		if t.UserID == userID {
			mine = append(mine, t)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		if !mine[i].Date.Equal(mine[j].Date.Time) {
			return mine[i].Date.After(mine[j].Date.Time)
		}
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})
	if len(mine) > limit {
		mine = mine[:limit]
	}
	return mine, nil
}

func fixedClock(y, m, d int) Option {
	return WithClock(func() time.Time { return time.Date(y, time.Month(m), d, 15, 30, 0, 0, time.UTC) })
}

func txn(userID int64, date string, typ core.TransactionType, cents int64) core.Transaction {
	d, _ := core.ParseDate(date)
	return core.Transaction{UserID: userID, Date: d, Type: typ, Amount: core.Money{Cents: cents}, Title: date}
}

func TestTotalsAndBalance(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{txs: []core.Transaction{
		txn(1, "2024-03-01", core.Income, 250000),
		txn(1, "2024-03-02", core.Expense, 1010),
		txn(1, "2024-03-02", core.Expense, 2020),
		txn(1, "2024-02-28", core.Expense, 3),
		txn(2, "2024-03-02", core.Expense, 999999),
	}}
	e := NewEngine(store, fixedClock(2024, 3, 2))

	income, _ := e.TotalByType(ctx, 1, core.Income)
	expense, _ := e.TotalByType(ctx, 1, core.Expense)
	balance, err := e.Balance(ctx, 1)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if income.Cents != 250000 || expense.Cents != 3033 {
		t.Fatalf("unexpected totals %v / %v", income, expense)
	}
	if balance.Cents != income.Cents-expense.Cents {
		t.Fatalf("balance %v != %v - %v", balance, income, expense)
	}

	month, _ := e.MonthTotal(ctx, 1, core.Expense, e.Today())
	day, _ := e.DayTotal(ctx, 1, core.Expense, e.Today())
	if month.Cents != 3030 || day.Cents != 3030 {
		t.Fatalf("unexpected period totals month=%v day=%v", month, day)
	}

	empty, err := e.Balance(ctx, 42)
	if err != nil || empty.Cents != 0 {
		t.Fatalf("expected zero balance for user without data, got %v (%v)", empty, err)
	}
}

func TestDailySeries(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{txs: []core.Transaction{
		txn(1, "2024-03-01", core.Expense, 100),
		txn(1, "2024-03-01", core.Expense, 50),
		txn(1, "2024-02-25", core.Expense, 700),
		txn(1, "2024-02-24", core.Expense, 9999), // outside the window
		txn(1, "2024-03-02", core.Income, 5000),
	}}
	e := NewEngine(store, fixedClock(2024, 3, 2))

	series, err := e.DailySeries(ctx, 1, core.Expense, 7, WeekdayLabels(language.English))
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	if len(series) != 7 {
		t.Fatalf("expected 7 points, got %d", len(series))
	}
	if series[6].Date.String() != "2024-03-02" || series[0].Date.String() != "2024-02-25" {
		t.Fatalf("unexpected window %s..%s", series[0].Date, series[6].Date)
	}
	for _, p := range series {
		want, _ := e.DayTotal(ctx, 1, core.Expense, p.Date)
		if p.Amount != want {
			t.Fatalf("%s: series %v != day total %v", p.Date, p.Amount, want)
		}
	}
	if series[5].Amount.Cents != 150 || series[0].Amount.Cents != 700 || series[6].Amount.Cents != 0 {
		t.Fatalf("unexpected amounts %+v", series)
	}
	if series[6].Label != "Sat" || series[0].Label != "Sun" {
		t.Fatalf("unexpected labels %q %q", series[0].Label, series[6].Label)
	}

	one, err := e.DailySeries(ctx, 1, core.Expense, 1, MonthDayLabels(language.English))
	if err != nil || len(one) != 1 || one[0].Label != "Mar 02" {
		t.Fatalf("unexpected single point %+v (%v)", one, err)
	}

	for _, days := range []int{0, -3, MaxSeriesDays + 1} {
		if _, err := e.DailySeries(ctx, 1, core.Expense, days, WeekdayLabels(language.English)); !errors.Is(err, ErrInvalidDays) {
			t.Fatalf("days=%d: expected ErrInvalidDays, got %v", days, err)
		}
	}
}

func TestTodayUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	e := NewEngine(&fakeStore{},
		WithClock(func() time.Time { return time.Date(2024, 3, 2, 2, 0, 0, 0, time.UTC) }),
		WithLocation(loc))
	if got := e.Today().String(); got != "2024-03-01" {
		t.Fatalf("expected previous local day, got %s", got)
	}
}

func TestChart(t *testing.T) {
	store := &fakeStore{txs: []core.Transaction{txn(1, "2024-10-05", core.Income, 1999)}}
	e := NewEngine(store, fixedClock(2024, 10, 5))

	chart, err := e.Chart(context.Background(), 1, core.Income, 3, language.English)
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	wantLabels := []string{"Oct 03", "Oct 04", "Oct 05"}
	wantData := []float64{0, 0, 19.99}
	for i := range wantLabels {
		if chart.Labels[i] != wantLabels[i] || chart.Data[i] != wantData[i] {
			t.Fatalf("point %d: got %q/%v", i, chart.Labels[i], chart.Data[i])
		}
	}
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	var txs []core.Transaction
	for i := 0; i < 7; i++ {
		tx := txn(1, "2024-03-0"+string(rune('1'+i%2)), core.Expense, int64(100*(i+1)))
		tx.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		tx.CategoryID = int64(i%3 + 1)
		tx.CategoryName = []string{"Food", "Rent", "Fun"}[i%3]
		txs = append(txs, tx)
	}
	txs = append(txs, txn(1, "2024-01-15", core.Income, 100000))
	e := NewEngine(&fakeStore{txs: txs}, fixedClock(2024, 3, 2))

	d, err := e.Dashboard(ctx, 1, language.Italian)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.TotalExpense.Cents != 2800 || d.TotalIncome.Cents != 100000 || d.Balance.Cents != 97200 {
		t.Fatalf("unexpected totals %+v", d)
	}
	if d.MonthExpense.Cents != 2800 || d.TodayExpense.Cents != 1200 {
		t.Fatalf("unexpected period totals month=%v today=%v", d.MonthExpense, d.TodayExpense)
	}
	if len(d.Recent) != RecentLimit {
		t.Fatalf("expected %d recent, got %d", RecentLimit, len(d.Recent))
	}
	if d.Recent[0].Amount.Cents != 600 {
		t.Fatalf("expected newest entry first, got %+v", d.Recent[0])
	}
	if len(d.Week) != DashboardDays || d.Week[6].Label != "sab" {
		t.Fatalf("unexpected week %+v", d.Week)
	}
	if len(d.ByCategory) != 3 || d.ByCategory[0].Amount.Cents < d.ByCategory[1].Amount.Cents {
		t.Fatalf("unexpected category totals %+v", d.ByCategory)
	}
}

func TestEngineSurfacesStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	e := NewEngine(&fakeStore{err: boom})
	if _, err := e.Dashboard(context.Background(), 1, language.English); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
