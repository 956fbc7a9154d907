package forms

import (
	"net/url"
	"strconv"
	"strings"
	"testing"

	"spendwise/internal/core"
)

var userCategories = []core.Category{
	{ID: 3, UserID: 1, Name: "Food", Color: "#ff0000"},
	{ID: 7, UserID: 1, Name: "Rent", Color: "#00ff00"},
}

func TestCategoryForm(t *testing.T) {
	cases := []struct {
		name   string
		values url.Values
		field  string
	}{
		{"valid", url.Values{"name": {"Food"}, "color": {"#abcdef"}}, ""},
		{"default color", url.Values{"name": {"Food"}}, ""},
		{"missing name", url.Values{"name": {"   "}}, "name"},
		{"long name", url.Values{"name": {strings.Repeat("n", 101)}}, "name"},
		{"bad color", url.Values{"name": {"Food"}, "color": {"red"}}, "color"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ParseCategoryForm(tc.values).Validate()
			if tc.field == "" && errs.Any() {
				t.Fatalf("expected no errors, got %v", errs)
			}
			if tc.field != "" && !errs.Has(tc.field) {
				t.Fatalf("expected error on %s, got %v", tc.field, errs)
			}
		})
	}

	c := ParseCategoryForm(url.Values{"name": {"Food"}}).Category(1, 0)
	if c.Color != core.DefaultCategoryColor || c.UserID != 1 {
		t.Fatalf("unexpected category %+v", c)
	}
}

func TestTransactionForm(t *testing.T) {
	valid := url.Values{
		"title":            {"Groceries"},
		"amount":           {"12,50"},
		"transaction_type": {"EXPENSE"},
		"category":         {"3"},
		"date":             {"2024-01-31"},
		"description":      {" weekly "},
	}
	f := ParseTransactionForm(valid)
	if errs := f.Validate(userCategories); errs.Any() {
		t.Fatalf("expected valid form, got %v", errs)
	}
	tx, err := f.Transaction(1, 9, userCategories)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if tx.Amount.Cents != 1250 || tx.CategoryID != 3 || tx.Description != "weekly" || tx.ID != 9 || tx.UserID != 1 {
		t.Fatalf("unexpected transaction %+v", tx)
	}

	with := func(key, value string) url.Values {
		v := url.Values{}
		for k, vals := range valid {
			v[k] = vals
		}
		v.Set(key, value)
		return v
	}
	cases := []struct {
		values url.Values
		field  string
		msg    string
	}{
		{with("title", ""), "title", "This field is required."},
		{with("amount", "abc"), "amount", "Enter a number."},
		{with("amount", "1.234"), "amount", "Ensure that there are no more than 2 decimal places."},
		{with("amount", "-5"), "amount", "Enter a number."},
		{with("amount", "123456789"), "amount", "Ensure that there are no more than 8 digits before the decimal point."},
		{with("transaction_type", "TRANSFER"), "transaction_type", ""},
		{with("category", "99"), "category", invalidChoice},
		{with("category", "abc"), "category", invalidChoice},
		{with("date", "31/01/2024"), "date", "Enter a valid date."},
		{with("date", "0001-01-01"), "date", "Enter a valid date."},
	}
	for _, tc := range cases {
		errs := ParseTransactionForm(tc.values).Validate(userCategories)
		if !errs.Has(tc.field) {
			t.Fatalf("expected error on %s, got %v", tc.field, errs)
		}
		if tc.msg != "" && errs.First(tc.field) != tc.msg {
			t.Fatalf("%s: expected %q, got %q", tc.field, tc.msg, errs.First(tc.field))
		}
	}

	noCat := ParseTransactionForm(with("category", ""))
	if errs := noCat.Validate(userCategories); errs.Any() {
		t.Fatalf("category is optional, got %v", errs)
	}
}

func TestTransactionFormFromRoundTrip(t *testing.T) {
	tx := core.Transaction{
		Title:      "Rent",
		Amount:     core.Money{Cents: 90000},
		Type:       core.Expense,
		Date:       core.NewDate(2024, 2, 1),
		CategoryID: 7,
	}
	f := TransactionFormFrom(tx)
	if f.Amount != "900.00" || f.Category != "7" || f.Date != "2024-02-01" {
		t.Fatalf("unexpected prefill %+v", f)
	}
	if errs := f.Validate(userCategories); errs.Any() {
		t.Fatalf("prefilled form must validate, got %v", errs)
	}
}

func batchValues(date string, rows ...map[string]string) url.Values {
	v := url.Values{"date": {date}, "items-TOTAL": {strconv.Itoa(len(rows))}}
	for i, row := range rows {
		for k, val := range row {
			v.Set("items-"+strconv.Itoa(i)+"-"+k, val)
		}
	}
	return v
}


func TestBatchFormSkipsBlankAndDeletedRows(t *testing.T) {
	values := batchValues("2024-03-05",
		map[string]string{"transaction_type": "EXPENSE", "amount": "10.00", "category": "3"},
		map[string]string{"transaction_type": "INCOME", "amount": "2000"},
		map[string]string{"transaction_type": "EXPENSE"},
		map[string]string{"transaction_type": "EXPENSE", "amount": "5", "description": "coffee"},
		map[string]string{"transaction_type": "EXPENSE", "amount": "bad", "DELETE": "on"},
	)
	b := ParseBatchForm(values)
	if !b.Validate(userCategories) {
		t.Fatalf("expected valid batch, got %v / %+v", b.Errors, b.Items)
	}
	date, items, err := b.LineItems()
	if err != nil {
		t.Fatalf("line items: %v", err)
	}
	if date.String() != "2024-03-05" {
		t.Fatalf("unexpected date %s", date)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].CategoryID != 3 || items[1].Type != core.Income || items[2].Description != "coffee" {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestBatchFormErrors(t *testing.T) {
	b := ParseBatchForm(batchValues("not-a-date",
		map[string]string{"transaction_type": "EXPENSE", "amount": "1.999"},
		map[string]string{"transaction_type": "EXPENSE", "amount": "1", "category": "42"},
	))
	if b.Validate(userCategories) {
		t.Fatalf("expected invalid batch")
	}
	if !b.Errors.Has("date") {
		t.Fatalf("expected date error, got %v", b.Errors)
	}
	if !b.Items[0].Errors.Has("amount") || !b.Items[1].Errors.Has("category") {
		t.Fatalf("expected row errors, got %v / %v", b.Items[0].Errors, b.Items[1].Errors)
	}
	if b.Items[1].Name("category") != "items-1-category" {
		t.Fatalf("unexpected input name %q", b.Items[1].Name("category"))
	}

	tampered := ParseBatchForm(url.Values{"date": {"2024-01-01"}, "items-TOTAL": {"lots"}})
	if tampered.Validate(userCategories) || len(tampered.Errors.NonField()) != 1 {
		t.Fatalf("expected management error, got %v", tampered.Errors)
	}
}

func TestBatchFormTypeChangeIsInput(t *testing.T) {
	b := ParseBatchForm(batchValues("2024-03-05",
		map[string]string{"transaction_type": "EXPENSE", "amount": "10"},
		map[string]string{"transaction_type": "INCOME"},
	))
	if b.Items[1].IsBlank() {
		t.Fatalf("a row switched to INCOME must not be blank")
	}
	if b.Validate(userCategories) {
		t.Fatalf("expected invalid batch")
	}
	if got := b.Items[1].Errors.First("amount"); got != "This field is required." {
		t.Fatalf("expected required amount, got %q", got)
	}
}

func TestZeroAmountAccepted(t *testing.T) {
	b := ParseBatchForm(batchValues("2024-03-05",
		map[string]string{"transaction_type": "EXPENSE", "amount": "0.00"},
	))
	if !b.Validate(userCategories) {
		t.Fatalf("expected valid batch, got %v", b.Items[0].Errors)
	}
	_, items, err := b.LineItems()
	if err != nil || len(items) != 1 || items[0].Amount.Cents != 0 {
		t.Fatalf("unexpected items %+v (%v)", items, err)
	}

	f := ParseTransactionForm(url.Values{
		"title": {"Free sample"}, "amount": {"0"}, "transaction_type": {"EXPENSE"}, "date": {"2024-03-05"},
	})
	if errs := f.Validate(userCategories); errs.Any() {
		t.Fatalf("zero amount must validate, got %v", errs)
	}
}

func TestNewBatchForm(t *testing.T) {
	b := NewBatchForm(core.NewDate(2024, 6, 1))
	if b.Date != "2024-06-01" || len(b.Items) != 1 || !b.Items[0].IsBlank() {
		t.Fatalf("unexpected initial form %+v", b)
	}
}

func TestSignupForm(t *testing.T) {
	good := url.Values{
		"username":  {"alice"},
		"email":     {"alice@example.com"},
		"password1": {"correct horse"},
		"password2": {"correct horse"},
	}
	if errs := ParseSignupForm(good).Validate(); errs.Any() {
		t.Fatalf("expected valid signup, got %v", errs)
	}

	cases := []struct {
		mutate func(url.Values)
		field  string
	}{
		{func(v url.Values) { v.Set("username", "") }, "username"},
		{func(v url.Values) { v.Set("username", "has space") }, "username"},
		{func(v url.Values) { v.Set("email", "nope") }, "email"},
		{func(v url.Values) { v.Set("password2", "different") }, "password2"},
		{func(v url.Values) { v.Set("password1", "short"); v.Set("password2", "short") }, "password2"},
	}
	for i, tc := range cases {
		v := url.Values{}
		for k, vals := range good {
			v[k] = append([]string(nil), vals...)
		}
		tc.mutate(v)
		if errs := ParseSignupForm(v).Validate(); !errs.Has(tc.field) {
			t.Fatalf("case %d: expected error on %s, got %v", i, tc.field, errs)
		}
	}
}

func TestLoginForm(t *testing.T) {
	errs := ParseLoginForm(url.Values{}).Validate()
	if !errs.Has("username") || !errs.Has("password") {
		t.Fatalf("expected both fields required, got %v", errs)
	}
}

func TestValidatorCustomTags(t *testing.T) {
	cases := []struct {
		tag, good, bad string
	}{
		{"notblank", " x ", "   "},
		{"amount", "1.50", "1.234"},
		{"isodate", "2024-03-15", "2024-02-30"},
		{"txtype", "INCOME", "TRANSFER"},
		{"username", "alice.b+1", "al ice"},
	}
	for _, tc := range cases {
		t.Run(tc.tag, func(t *testing.T) {
			if err := validate.Var(tc.good, tc.tag); err != nil {
				t.Errorf("%q should pass: %v", tc.good, err)
			}
			if err := validate.Var(tc.bad, tc.tag); err == nil {
				t.Errorf("%q should fail", tc.bad)
			}
		})
	}
}
