package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"spendwise/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	clock := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return repo
}

func mustUser(t *testing.T, repo *SQLiteRepository, name string) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), name, name+"@example.com", "hash")
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func mustCategory(t *testing.T, repo *SQLiteRepository, userID int64, name string) core.Category {
	t.Helper()
	c, err := repo.CreateCategory(context.Background(), core.Category{UserID: userID, Name: name})
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return c
}

func tx(userID, categoryID int64, date string, typ core.TransactionType, cents int64) core.Transaction {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Transaction{
		UserID:     userID,
		CategoryID: categoryID,
		Title:      "t-" + date,
		Amount:     core.Money{Cents: cents},
		Date:       d,
		Type:       typ,
	}
}

func mustCreate(t *testing.T, repo *SQLiteRepository, txs ...core.Transaction) []int64 {
	t.Helper()
	ids, err := repo.CreateTransactions(context.Background(), txs)
	if err != nil {
		t.Fatalf("create transactions: %v", err)
	}
	return ids
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := mustUser(t, repo, "alice")

	if _, err := repo.CreateUser(ctx, "ALICE", "other@example.com", "h"); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if _, err := repo.CreateUser(ctx, "bob", "Alice@Example.com", "h"); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	conflicts := []struct {
		username, email         string
		wantUsername, wantEmail bool
	}{
		{"bob", "bob@example.com", false, false},
		{" ALICE ", "bob@example.com", true, false},
		{"bob", "Alice@Example.com", false, true},
		{"Alice", "alice@example.com", true, true},
	}
	for _, tc := range conflicts {
		gotUsername, gotEmail, err := repo.UserConflicts(ctx, tc.username, tc.email)
		if err != nil {
			t.Fatalf("conflicts %q/%q: %v", tc.username, tc.email, err)
		}
		if gotUsername != tc.wantUsername || gotEmail != tc.wantEmail {
			t.Errorf("conflicts %q/%q = %v/%v, want %v/%v", tc.username, tc.email, gotUsername, gotEmail, tc.wantUsername, tc.wantEmail)
		}
	}

	for _, login := range []string{"alice", "Alice", "ALICE@example.COM"} {
		u, err := repo.GetUserByLogin(ctx, login)
		if err != nil || u.ID != alice.ID {
			t.Fatalf("login %q: expected user %d, got %d (%v)", login, alice.ID, u.ID, err)
		}
	}
	if _, err := repo.GetUserByLogin(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if u, err := repo.GetUser(ctx, alice.ID); err != nil || u.Username != "alice" || u.CreatedAt.IsZero() {
		t.Fatalf("unexpected user %+v (%v)", u, err)
	}
}

func TestCategoriesAreScopedAndOrdered(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := mustUser(t, repo, "alice")
	bob := mustUser(t, repo, "bob")

	mustCategory(t, repo, alice.ID, "Rent")
	food := mustCategory(t, repo, alice.ID, "Food")
	bobs := mustCategory(t, repo, bob.ID, "Travel")

	if food.Color != core.DefaultCategoryColor {
		t.Fatalf("expected default color, got %q", food.Color)
	}

	list, err := repo.ListCategories(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Food" || list[1].Name != "Rent" {
		t.Fatalf("unexpected categories %+v", list)
	}

	if _, err := repo.GetCategory(ctx, alice.ID, bobs.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign category, got %v", err)
	}
	err = repo.UpdateCategory(ctx, core.Category{ID: bobs.ID, UserID: alice.ID, Name: "Hijack"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on foreign update, got %v", err)
	}
	if err := repo.DeleteCategory(ctx, alice.ID, bobs.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on foreign delete, got %v", err)
	}
	if got, _ := repo.GetCategory(ctx, bob.ID, bobs.ID); got.Name != "Travel" {
		t.Fatalf("foreign category modified: %+v", got)
	}

	if err := repo.UpdateCategory(ctx, core.Category{ID: food.ID, UserID: alice.ID, Name: "Groceries", Color: "#000000"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.GetCategory(ctx, alice.ID, food.ID)
	if err != nil || got.Name != "Groceries" || got.Color != "#000000" {
		t.Fatalf("unexpected category after update %+v (%v)", got, err)
	}
}

func TestDeleteCategoryKeepsTransactions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := mustUser(t, repo, "alice")
	food := mustCategory(t, repo, alice.ID, "Food")
	ids := mustCreate(t, repo,
		tx(alice.ID, food.ID, "2024-01-10", core.Expense, 1000),
		tx(alice.ID, food.ID, "2024-01-11", core.Expense, 2000),
	)

	if err := repo.DeleteCategory(ctx, alice.ID, food.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	for _, id := range ids {
		got, err := repo.GetTransaction(ctx, alice.ID, id)
		if err != nil {
			t.Fatalf("transaction %d vanished: %v", id, err)
		}
		if got.HasCategory() || got.CategoryLabel() != core.UncategorizedLabel {
			t.Fatalf("expected cleared category, got %+v", got)
		}
	}
}

func TestCreateTransactionsIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := mustUser(t, repo, "alice")
	bob := mustUser(t, repo, "bob")
	bobs := mustCategory(t, repo, bob.ID, "Travel")

	_, err := repo.CreateTransactions(ctx, []core.Transaction{
		tx(alice.ID, 0, "2024-01-10", core.Expense, 1000),
		tx(alice.ID, bobs.ID, "2024-01-10", core.Expense, 2000),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign category, got %v", err)
	}
	n, err := repo.CountTransactions(ctx, alice.ID, ListFilter{})
	if err != nil || n != 0 {
		t.Fatalf("expected no rows after failed batch, got %d (%v)", n, err)
	}
}

func TestListTransactionsFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := mustUser(t, repo, "alice")
	bob := mustUser(t, repo, "bob")
	food := mustCategory(t, repo, alice.ID, "Food")

	mustCreate(t, repo, tx(alice.ID, 0, "2023-12-31", core.Expense, 100))
	mustCreate(t, repo, tx(alice.ID, food.ID, "2024-01-01", core.Expense, 200))
	mustCreate(t, repo, tx(alice.ID, 0, "2024-01-31", core.Income, 300))
	mustCreate(t, repo, tx(alice.ID, food.ID, "2024-01-31", core.Expense, 400))
	mustCreate(t, repo, tx(alice.ID, 0, "2024-02-01", core.Expense, 500))
	mustCreate(t, repo, tx(bob.ID, 0, "2024-01-15", core.Expense, 600))

	jan := ListFilter{From: core.NewDate(2024, 1, 1), To: core.NewDate(2024, 1, 31)}
	got, err := repo.ListTransactions(ctx, alice.ID, jan, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []int64{400, 300, 200}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Amount.Cents != w {
			t.Fatalf("row %d: expected %d, got %d", i, w, got[i].Amount.Cents)
		}
	}

	byCat := ListFilter{CategoryID: food.ID}
	if n, _ := repo.CountTransactions(ctx, alice.ID, byCat); n != 2 {
		t.Fatalf("expected 2 rows for category, got %d", n)
	}
	if n, _ := repo.CountTransactions(ctx, alice.ID, ListFilter{}); n != 5 {
		t.Fatalf("expected 5 rows for alice, got %d", n)
	}

	page2, err := repo.ListTransactions(ctx, alice.ID, ListFilter{}, 2, 2)
	if err != nil || len(page2) != 2 || page2[0].Amount.Cents != 300 || page2[1].Amount.Cents != 200 {
		t.Fatalf("unexpected second page %+v (%v)", page2, err)
	}

	recent, err := repo.RecentTransactions(ctx, alice.ID, 1)
	if err != nil || len(recent) != 1 || recent[0].Amount.Cents != 500 {
		t.Fatalf("unexpected recent %+v (%v)", recent, err)
	}
	all, err := repo.AllTransactions(ctx, alice.ID)
	if err != nil || len(all) != 5 {
		t.Fatalf("expected 5 rows from AllTransactions, got %d (%v)", len(all), err)
	}
}

func TestUpdateAndDeleteTransactionScoped(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := mustUser(t, repo, "alice")
	bob := mustUser(t, repo, "bob")
	ids := mustCreate(t, repo, tx(alice.ID, 0, "2024-01-10", core.Expense, 1000))
	id := ids[0]

	before, _ := repo.GetTransaction(ctx, alice.ID, id)

	if _, err := repo.GetTransaction(ctx, bob.ID, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for bob, got %v", err)
	}
	hijack := before
	hijack.UserID = bob.ID
	if err := repo.UpdateTransaction(ctx, hijack); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for bob update, got %v", err)
	}
	if err := repo.DeleteTransaction(ctx, bob.ID, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for bob delete, got %v", err)
	}

	edited := before
	edited.Title = "Edited"
	edited.Amount = core.Money{Cents: 1234}
	edited.Type = core.Income
	if err := repo.UpdateTransaction(ctx, edited); err != nil {
		t.Fatalf("update: %v", err)
	}
	after, err := repo.GetTransaction(ctx, alice.ID, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.Title != "Edited" || after.Amount.Cents != 1234 || after.Type != core.Income {
		t.Fatalf("unexpected transaction after update %+v", after)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) || !after.CreatedAt.Equal(before.CreatedAt) {
		t.Fatalf("expected updated_at to move and created_at to stay: %v/%v", before, after)
	}

	if err := repo.DeleteTransaction(ctx, alice.ID, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, alice.ID, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestAggregates(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := mustUser(t, repo, "alice")
	food := mustCategory(t, repo, alice.ID, "Food")
	rent := mustCategory(t, repo, alice.ID, "Rent")

	total, err := repo.SumAmount(ctx, alice.ID, core.Expense, core.DateRange{})
	if err != nil || total.Cents != 0 {
		t.Fatalf("expected zero total without data, got %v (%v)", total, err)
	}

	mustCreate(t, repo,
		tx(alice.ID, food.ID, "2024-01-10", core.Expense, 1050),
		tx(alice.ID, food.ID, "2024-01-10", core.Expense, 250),
		tx(alice.ID, rent.ID, "2024-01-12", core.Expense, 50000),
		tx(alice.ID, 0, "2024-01-12", core.Expense, 99),
		tx(alice.ID, 0, "2024-01-12", core.Income, 100000),
		tx(alice.ID, food.ID, "2024-02-01", core.Expense, 700),
	)

	total, _ = repo.SumAmount(ctx, alice.ID, core.Expense, core.DateRange{})
	if total.Cents != 52099 {
		t.Fatalf("expected 52099, got %d", total.Cents)
	}
	month, _ := repo.SumAmount(ctx, alice.ID, core.Expense, core.Month(core.NewDate(2024, 1, 20)))
	if month.Cents != 51399 {
		t.Fatalf("expected 51399 for january, got %d", month.Cents)
	}
	day, _ := repo.SumAmount(ctx, alice.ID, core.Expense, core.Day(core.NewDate(2024, 1, 10)))
	if day.Cents != 1300 {
		t.Fatalf("expected 1300 for the day, got %d", day.Cents)
	}

	daily, err := repo.DailyTotals(ctx, alice.ID, core.Expense, core.Month(core.NewDate(2024, 1, 1)))
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if len(daily) != 2 || daily[0].Date.String() != "2024-01-10" || daily[0].Amount.Cents != 1300 || daily[1].Amount.Cents != 50099 {
		t.Fatalf("unexpected daily totals %+v", daily)
	}

	cats, err := repo.CategoryTotals(ctx, alice.ID, core.Expense, core.Month(core.NewDate(2024, 1, 1)))
	if err != nil {
		t.Fatalf("category totals: %v", err)
	}
	if len(cats) != 3 {
		t.Fatalf("expected 3 buckets, got %+v", cats)
	}
	if cats[0].Name != "Rent" || cats[1].Name != "Food" || cats[1].Amount.Cents != 1300 {
		t.Fatalf("unexpected ordering %+v", cats)
	}
	if cats[2].CategoryID != 0 || cats[2].Name != core.UncategorizedLabel || cats[2].Amount.Cents != 99 {
		t.Fatalf("unexpected uncategorized bucket %+v", cats[2])
	}
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	alice := mustUser(t, repo, "alice")
	food := mustCategory(t, repo, alice.ID, "Food")
	ids := mustCreate(t, repo, tx(alice.ID, food.ID, "2024-01-10", core.Expense, 1000))

	if err := repo.DeleteUser(ctx, alice.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := repo.GetCategory(ctx, alice.ID, food.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected category removed, got %v", err)
	}
	if _, err := repo.GetTransaction(ctx, alice.ID, ids[0]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected transaction removed, got %v", err)
	}
	if err := repo.DeleteUser(ctx, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
