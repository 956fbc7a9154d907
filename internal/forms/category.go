package forms

import (
	"net/url"
	"strings"

	"spendwise/internal/core"
)

type CategoryForm struct {
	Name  string `form:"name" validate:"required,notblank,max=100"`
	Color string `form:"color" validate:"omitempty,max=20,hexcolor"`
}

func ParseCategoryForm(values url.Values) CategoryForm {
	return CategoryForm{
		Name:  strings.TrimSpace(values.Get("name")),
		Color: strings.TrimSpace(values.Get("color")),
	}
}

// CategoryFormFrom pre-fills the edit form.
func CategoryFormFrom(c core.Category) CategoryForm {
	return CategoryForm{Name: c.Name, Color: c.Color}
}

// NewCategoryForm is the empty create form.
func NewCategoryForm() CategoryForm {
	return CategoryForm{Color: core.DefaultCategoryColor}
}

func (f CategoryForm) Validate() Errors {
	return validateStruct(f)
}

// Category builds the domain value. Call only after Validate reported no errors.
func (f CategoryForm) Category(userID, id int64) core.Category {
	color := f.Color
	if color == "" {
		color = core.DefaultCategoryColor
	}
	return core.Category{ID: id, UserID: userID, Name: f.Name, Color: color}
}
