package forms

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"spendwise/internal/core"
)

var ErrInvalidCategory = errors.New("category is not one of the user's categories")

// TransactionForm edits a single transaction.
type TransactionForm struct {
	Title           string `form:"title" validate:"required,notblank,max=200"`
	Amount          string `form:"amount" validate:"required,amount"`
	TransactionType string `form:"transaction_type" validate:"required,txtype"`
	Category        string `form:"category"`
	Date            string `form:"date" validate:"required,isodate"`
	Description     string `form:"description"`
}

func ParseTransactionForm(values url.Values) TransactionForm {
	return TransactionForm{
		Title:           strings.TrimSpace(values.Get("title")),
		Amount:          strings.TrimSpace(values.Get("amount")),
		TransactionType: strings.TrimSpace(values.Get("transaction_type")),
		Category:        strings.TrimSpace(values.Get("category")),
		Date:            strings.TrimSpace(values.Get("date")),
		Description:     strings.TrimSpace(values.Get("description")),
	}
}

// TransactionFormFrom pre-fills the edit form from a stored transaction.
func TransactionFormFrom(t core.Transaction) TransactionForm {
	f := TransactionForm{
		Title:           t.Title,
		Amount:          t.Amount.String(),
		TransactionType: string(t.Type),
		Date:            t.Date.String(),
		Description:     t.Description,
	}
	if t.HasCategory() {
		f.Category = strconv.FormatInt(t.CategoryID, 10)
	}
	return f
}

// Validate checks every field. The category must be one of the given
// categories, which are the requesting user's own.
func (f TransactionForm) Validate(categories []core.Category) Errors {
	errs := validateStruct(f)
	if _, ok := categoryChoice(f.Category, categories); !ok {
		errs.Add("category", invalidChoice)
	}
	return errs
}

// Transaction converts a validated form. The owner and id come from the caller.
func (f TransactionForm) Transaction(userID, id int64, categories []core.Category) (core.Transaction, error) {
	amount, err := core.ParseAmount(f.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(f.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	typ, err := core.ParseTransactionType(f.TransactionType)
	if err != nil {
		return core.Transaction{}, err
	}
	cat, ok := categoryChoice(f.Category, categories)
	if !ok {
		return core.Transaction{}, ErrInvalidCategory
	}
	return core.Transaction{
		ID:            id,
		UserID:        userID,
		CategoryID:    cat.ID,
		CategoryName:  cat.Name,
		CategoryColor: cat.Color,
		Title:         f.Title,
		Amount:        amount,
		Date:          date,
		Type:          typ,
		Description:   f.Description,
	}, nil
}
