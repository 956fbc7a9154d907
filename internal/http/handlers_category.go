package http

import (
	"net/http"

	"spendwise/internal/core"
	"spendwise/internal/forms"
)

type categoryFormView struct {
	Category core.Category
	Form     forms.CategoryForm
	Errors   forms.Errors
	Editing  bool
}

func (s *Server) handleCategoryList(w http.ResponseWriter, r *http.Request) {
	cats, err := s.Categories.List(r.Context(), currentUser(r).ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "category_list", cats)
}

func (s *Server) handleCategoryAddForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "category_form", categoryFormView{
		Form:   forms.NewCategoryForm(),
		Errors: forms.Errors{},
	})
}

func (s *Server) handleCategoryAdd(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	form := forms.ParseCategoryForm(r.PostForm)
	if errs := form.Validate(); errs.Any() {
		s.render(w, r, http.StatusUnprocessableEntity, "category_form", categoryFormView{Form: form, Errors: errs})
		return
	}

	if _, err := s.Categories.Create(r.Context(), form.Category(currentUser(r).ID, 0)); err != nil {
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, "/categories/")
}

// loadCategory resolves {id} to a category of the current user or writes 404.
func (s *Server) loadCategory(w http.ResponseWriter, r *http.Request) (core.Category, bool) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w, r)
		return core.Category{}, false
	}
	c, err := s.Categories.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		s.fail(w, r, err)
		return core.Category{}, false
	}
	return c, true
}

func (s *Server) handleCategoryEditForm(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCategory(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "category_form", categoryFormView{
		Category: c,
		Form:     forms.CategoryFormFrom(c),
		Errors:   forms.Errors{},
		Editing:  true,
	})
}

func (s *Server) handleCategoryEdit(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCategory(w, r)
	if !ok || !parseForm(w, r) {
		return
	}
	form := forms.ParseCategoryForm(r.PostForm)
	if errs := form.Validate(); errs.Any() {
		s.render(w, r, http.StatusUnprocessableEntity, "category_form", categoryFormView{
			Category: c, Form: form, Errors: errs, Editing: true,
		})
		return
	}

	if err := s.Categories.Update(r.Context(), form.Category(c.UserID, c.ID)); err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, "/categories/")
}

func (s *Server) handleCategoryDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCategory(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "category_confirm_delete", c)
}

// handleCategoryDelete keeps the category's transactions, uncategorized.
func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := s.loadCategory(w, r)
	if !ok {
		return
	}
	if err := s.Categories.Delete(r.Context(), c.UserID, c.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, "/categories/")
}
