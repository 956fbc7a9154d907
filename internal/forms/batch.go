package forms

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"spendwise/internal/core"
)

const (
	// BatchPrefix prefixes every line item input, e.g. items-0-amount.
	BatchPrefix = "items"
	// MaxLineItems caps how many rows one submission may carry.
	MaxLineItems = 1000
)

// LineItemForm is one row of the batch form.
type LineItemForm struct {
	Index           int    `form:"-"`
	TransactionType string `form:"transaction_type" validate:"required,txtype"`
	Amount          string `form:"amount" validate:"required,amount"`
	Category        string `form:"category"`
	Description     string `form:"description"`
	Delete          bool   `form:"DELETE"`
	Errors          Errors `form:"-" validate:"-"`
}

// Name returns the HTML input name of a row field.
func (li LineItemForm) Name(field string) string {
	return fmt.Sprintf("%s-%d-%s", BatchPrefix, li.Index, field)
}

// IsBlank reports a row the user never touched. The type selector counts
// only once it is moved away from its initial EXPENSE.
func (li LineItemForm) IsBlank() bool {
	typeChanged := li.TransactionType != "" && li.TransactionType != string(core.Expense)
	return !typeChanged && li.Amount == "" && li.Category == "" && li.Description == ""
}

// BatchForm is the shared date plus its line items.
type BatchForm struct {
	Date   string `form:"date" validate:"required,isodate"`
	Items  []LineItemForm
	Errors Errors `validate:"-"`
}

// NewBatchForm is the initial form: today's date and one empty row.
func NewBatchForm(today core.Date) BatchForm {
	return BatchForm{
		Date:   today.String(),
		Items:  []LineItemForm{{Index: 0, TransactionType: string(core.Expense), Errors: Errors{}}},
		Errors: Errors{},
	}
}

func ParseBatchForm(values url.Values) BatchForm {
	b := BatchForm{
		Date:   strings.TrimSpace(values.Get("date")),
		Errors: Errors{},
	}

	total, err := strconv.Atoi(values.Get(BatchPrefix + "-TOTAL"))
	if err != nil || total < 0 || total > MaxLineItems {
		b.Errors.Add(NonFieldErrors, "Line item data is missing or has been tampered with.")
		return b
	}

	b.Items = make([]LineItemForm, total)
	for i := range b.Items {
		get := func(field string) string {
			return strings.TrimSpace(values.Get(fmt.Sprintf("%s-%d-%s", BatchPrefix, i, field)))
		}
		del := get("DELETE")
		b.Items[i] = LineItemForm{
			Index:           i,
			TransactionType: get("transaction_type"),
			Amount:          get("amount"),
			Category:        get("category"),
			Description:     get("description"),
			Delete:          del != "" && del != "false" && del != "0",
			Errors:          Errors{},
		}
	}
	return b
}

// Validate checks the shared date and every row that will be stored.
// It returns false if anything failed; errors are kept on the form.
func (b *BatchForm) Validate(categories []core.Category) bool {
	if b.Errors == nil {
		b.Errors = Errors{}
	}
	if b.Errors.Any() {
		return false
	}
	for field, msgs := range validateStruct(struct {
		Date string `form:"date" validate:"required,isodate"`
	}{b.Date}) {
		b.Errors[field] = msgs
	}

	ok := !b.Errors.Any()
	for i := range b.Items {
		li := &b.Items[i]
		li.Errors = Errors{}
		if li.Delete || li.IsBlank() {
			continue
		}
		li.Errors = validateStruct(*li)
		if _, found := categoryChoice(li.Category, categories); !found {
			li.Errors.Add("category", invalidChoice)
		}
		if li.Errors.Any() {
			ok = false
		}
	}
	return ok
}

// LineItems returns the shared date and the rows to store, skipping
// deleted and blank rows. Call only after Validate returned true.
func (b BatchForm) LineItems() (core.Date, []core.LineItem, error) {
	date, err := core.ParseDate(b.Date)
	if err != nil {
		return core.Date{}, nil, err
	}
	var items []core.LineItem
	for _, li := range b.Items {
		if li.Delete || li.IsBlank() {
			continue
		}
		amount, err := core.ParseAmount(li.Amount)
		if err != nil {
			return core.Date{}, nil, fmt.Errorf("row %d: %w", li.Index, err)
		}
		typ, err := core.ParseTransactionType(li.TransactionType)
		if err != nil {
			return core.Date{}, nil, fmt.Errorf("row %d: %w", li.Index, err)
		}
		var categoryID int64
		if li.Category != "" {
			if categoryID, err = strconv.ParseInt(li.Category, 10, 64); err != nil {
				return core.Date{}, nil, fmt.Errorf("row %d: %w", li.Index, ErrInvalidCategory)
			}
		}
		items = append(items, core.LineItem{
			Type:        typ,
			Amount:      amount,
			CategoryID:  categoryID,
			Description: li.Description,
		})
	}
	return date, items, nil
}
