// Package forms holds the static validation structs behind every HTML form.
//
// Each form is decoded from url.Values, validated with go-playground/validator
// and reports field-level messages keyed by the HTML input name.
package forms

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"spendwise/internal/core"

	"github.com/go-playground/validator/v10"
)

// NonFieldErrors is the key for errors that belong to the whole form.
const NonFieldErrors = "__all__"

var (
	validate = newValidator()

	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	nonBlank        = regexp.MustCompile(`\S`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	custom := map[string]validator.Func{
		"notblank": func(fl validator.FieldLevel) bool {
			return nonBlank.MatchString(fl.Field().String())
		},
		"amount": func(fl validator.FieldLevel) bool {
			_, err := core.ParseAmount(fl.Field().String())
			return err == nil
		},
		"isodate": func(fl validator.FieldLevel) bool {
			_, err := core.ParseDate(fl.Field().String())
			return err == nil
		},
		"txtype": func(fl validator.FieldLevel) bool {
			return core.TransactionType(fl.Field().String()).Valid()
		},
		"username": func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		},
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	return v
}

// Errors maps an input name to its messages.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (e Errors) Any() bool {
	return len(e) > 0
}

// NonField returns the form-wide messages.
func (e Errors) NonField() []string {
	return e[NonFieldErrors]
}

func validateStruct(v any) Errors {
	errs := Errors{}
	if err := validate.Struct(v); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			errs.Add(NonFieldErrors, err.Error())
			return errs
		}
		for _, fe := range verrs {
			errs.Add(fe.Field(), fieldErrorToString(fe))
		}
	}
	return errs
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", e.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", e.Param())
	case "amount":
		return amountMessage(fmt.Sprint(e.Value()))
	case "isodate":
		return "Enter a valid date."
	case "hexcolor":
		return "Enter a valid hex color, e.g. #4f46e5."
	case "txtype":
		return fmt.Sprintf("Select a valid choice. %v is not one of the available choices.", e.Value())
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "number":
		return invalidChoice
	default:
		return "Enter a valid value."
	}
}

const invalidChoice = "Select a valid choice. That choice is not one of the available choices."

// amountMessage explains why a non-empty amount was rejected.
func amountMessage(s string) string {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	intPart, fracPart, _ := strings.Cut(s, ".")
	digits := func(p string) bool {
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}
	if s != "." && digits(intPart) && digits(fracPart) {
		switch {
		case len(fracPart) > 2:
			return "Ensure that there are no more than 2 decimal places."
		case len(strings.TrimLeft(intPart, "0")) > 8:
			return "Ensure that there are no more than 8 digits before the decimal point."
		}
	}
	return "Enter a number."
}

// categoryChoice resolves a submitted category id against the user's own
// categories. Empty input means no category.
func categoryChoice(raw string, categories []core.Category) (core.Category, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return core.Category{}, true
	}
	for _, c := range categories {
		if fmt.Sprint(c.ID) == raw {
			return c, true
		}
	}
	return core.Category{}, false
}
