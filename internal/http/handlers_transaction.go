package http

import (
	"errors"
	"net/http"
	"strconv"

	"spendwise/internal/core"
	"spendwise/internal/forms"
	"spendwise/internal/services"
)

type expenseListView struct {
	Page       services.Page
	Categories []core.Category
	Filter     ListFilterParams
}

// PageURL links to page n keeping the active filters.
func (v expenseListView) PageURL(n int) string {
	q := v.Filter.Query()
	if q != "" {
		q += "&"
	}
	return "?" + q + "page=" + strconv.Itoa(n)
}

type batchView struct {
	Form       forms.BatchForm
	Categories []core.Category
	Types      []core.TransactionType
}

type expenseEditView struct {
	Transaction core.Transaction
	Form        forms.TransactionForm
	Errors      forms.Errors
	Categories  []core.Category
	Types       []core.TransactionType
}

var transactionTypes = []core.TransactionType{core.Expense, core.Income}

func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	q := r.URL.Query()
	filter, params := ParseListFilter(q)

	page, err := s.Transactions.List(r.Context(), u.ID, filter, q.Get("page"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cats, err := s.Categories.List(r.Context(), u.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "expense_list", expenseListView{
		Page:       page,
		Categories: cats,
		Filter:     params,
	})
}

func (s *Server) handleExpenseAddForm(w http.ResponseWriter, r *http.Request) {
	cats, err := s.Categories.List(r.Context(), currentUser(r).ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "expense_form", batchView{
		Form:       forms.NewBatchForm(s.Reports.Today()),
		Categories: cats,
		Types:      transactionTypes,
	})
}

// handleExpenseAdd stores every filled row of the batch form, or none.
func (s *Server) handleExpenseAdd(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	u := currentUser(r)
	cats, err := s.Categories.List(r.Context(), u.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	form := forms.ParseBatchForm(r.PostForm)
	view := batchView{Form: form, Categories: cats, Types: transactionTypes}
	if !view.Form.Validate(cats) {
		s.render(w, r, http.StatusUnprocessableEntity, "expense_form", view)
		return
	}

	date, items, err := view.Form.LineItems()
	if err != nil {
		view.Form.Errors.Add(forms.NonFieldErrors, err.Error())
		s.render(w, r, http.StatusUnprocessableEntity, "expense_form", view)
		return
	}

	_, err = s.Transactions.CreateBatch(r.Context(), u.ID, date, items)
	switch {
	case errors.Is(err, services.ErrUnknownCategory):
		// The category vanished between validation and insert.
		view.Form.Errors.Add(forms.NonFieldErrors, "Select a valid choice. That choice is not one of the available choices.")
		s.render(w, r, http.StatusUnprocessableEntity, "expense_form", view)
		return
	case err != nil:
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/expenses/")
}

func (s *Server) loadTransaction(w http.ResponseWriter, r *http.Request) (core.Transaction, bool) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return core.Transaction{}, false
	}
	t, err := s.Transactions.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		s.fail(w, r, err)
		return core.Transaction{}, false
	}
	return t, true
}

func (s *Server) handleExpenseEditForm(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTransaction(w, r)
	if !ok {
		return
	}
	cats, err := s.Categories.List(r.Context(), t.UserID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "expense_edit", expenseEditView{
		Transaction: t,
		Form:        forms.TransactionFormFrom(t),
		Errors:      forms.Errors{},
		Categories:  cats,
		Types:       transactionTypes,
	})
}

func (s *Server) handleExpenseEdit(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTransaction(w, r)
	if !ok || !parseForm(w, r) {
		return
	}
	cats, err := s.Categories.List(r.Context(), t.UserID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	form := forms.ParseTransactionForm(r.PostForm)
	view := expenseEditView{Transaction: t, Form: form, Errors: form.Validate(cats), Categories: cats, Types: transactionTypes}
	if view.Errors.Any() {
		s.render(w, r, http.StatusUnprocessableEntity, "expense_edit", view)
		return
	}

	updated, err := form.Transaction(t.UserID, t.ID, cats)
	if err != nil {
		view.Errors.Add(forms.NonFieldErrors, err.Error())
		s.render(w, r, http.StatusUnprocessableEntity, "expense_edit", view)
		return
	}
	if err := s.Transactions.Update(r.Context(), updated); err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, "/expenses/")
}

func (s *Server) handleExpenseDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTransaction(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "expense_confirm_delete", t)
}

func (s *Server) handleExpenseDelete(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTransaction(w, r)
	if !ok {
		return
	}
	if err := s.Transactions.Delete(r.Context(), t.UserID, t.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, "/expenses/")
}
