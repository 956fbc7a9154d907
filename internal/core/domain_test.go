package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false},
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-02-29 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Fatalf("unexpected date %s", d)
	}
	for _, in := range []string{"", "2023-02-29", "29/02/2024", "2024-2-1", "0001-01-01"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q: expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestMonthRange(t *testing.T) {
	r := Month(NewDate(2024, 2, 17))
	if r.From.String() != "2024-02-01" || r.To.String() != "2024-02-29" {
		t.Fatalf("unexpected range %s..%s", r.From, r.To)
	}
	if !r.Contains(NewDate(2024, 2, 29)) || r.Contains(NewDate(2024, 3, 1)) {
		t.Fatalf("contains mismatch")
	}
	day := Day(NewDate(2024, 1, 5))
	if !day.Contains(NewDate(2024, 1, 5)) || day.Contains(NewDate(2024, 1, 6)) {
		t.Fatalf("single day range mismatch")
	}
}

func TestDateOfKeepsLocalDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	d := DateOf(time.Date(2024, 3, 1, 1, 0, 0, 0, loc))
	if d.String() != "2024-03-01" {
		t.Fatalf("expected local calendar day, got %s", d)
	}
}

func TestParseTransactionType(t *testing.T) {
	for in, want := range map[string]TransactionType{"INCOME": Income, "expense": Expense, " Income ": Income} {
		got, err := ParseTransactionType(in)
		if err != nil || got != want {
			t.Fatalf("%q: expected %s, got %s (%v)", in, want, got, err)
		}
	}
	if _, err := ParseTransactionType("TRANSFER"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Title:  "Groceries",
		Amount: Money{Cents: 100},
		Date:   NewDate(2025, 1, 1),
		Type:   Expense,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := func(mut func(*Transaction)) Transaction {
		tx := good
		mut(&tx)
		return tx
	}
	bads := []Transaction{
		bad(func(tx *Transaction) { tx.Date = Date{} }),
		bad(func(tx *Transaction) { tx.Title = "  " }),
		bad(func(tx *Transaction) { tx.Title = strings.Repeat("x", 201) }),
		bad(func(tx *Transaction) { tx.Amount = Money{Cents: -1} }),
		bad(func(tx *Transaction) { tx.Type = "OTHER" }),
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Name: "Food", Color: DefaultCategoryColor}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Name: " "}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := (Category{Name: strings.Repeat("a", 101)}).Validate(); err == nil {
		t.Fatalf("expected length error")
	}
}

func TestLineItem(t *testing.T) {
	if got := (LineItem{}).Title("Food"); got != UncategorizedTitle {
		t.Fatalf("expected placeholder title, got %q", got)
	}
	if got := (LineItem{CategoryID: 3}).Title("Food"); got != "Food" {
		t.Fatalf("expected category title, got %q", got)
	}
}

func TestCategoryLabel(t *testing.T) {
	if got := (Transaction{}).CategoryLabel(); got != UncategorizedLabel {
		t.Fatalf("got %q", got)
	}
	if got := (Transaction{CategoryID: 1, CategoryName: "Rent"}).CategoryLabel(); got != "Rent" {
		t.Fatalf("got %q", got)
	}
}
