package forms

import (
	"net/url"
	"strings"
)

const MinPasswordLength = 8

type SignupForm struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	Email     string `form:"email" validate:"required,max=254,email"`
	Password1 string `form:"password1" validate:"required"`
	Password2 string `form:"password2" validate:"required"`
}

func ParseSignupForm(values url.Values) SignupForm {
	return SignupForm{
		Username:  strings.TrimSpace(values.Get("username")),
		Email:     strings.TrimSpace(values.Get("email")),
		Password1: values.Get("password1"),
		Password2: values.Get("password2"),
	}
}

func (f SignupForm) Validate() Errors {
	errs := validateStruct(f)
	if errs.Has("password1") || errs.Has("password2") {
		return errs
	}
	if f.Password1 != f.Password2 {
		errs.Add("password2", "The two password fields didn't match.")
		return errs
	}
	if len([]rune(f.Password2)) < MinPasswordLength {
		errs.Add("password2", "This password is too short. It must contain at least 8 characters.")
	}
	return errs
}

// LoginForm accepts a username or an email in the username field.
type LoginForm struct {
	Login    string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func ParseLoginForm(values url.Values) LoginForm {
	return LoginForm{
		Login:    strings.TrimSpace(values.Get("username")),
		Password: values.Get("password"),
	}
}

func (f LoginForm) Validate() Errors {
	return validateStruct(f)
}
