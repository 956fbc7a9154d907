package http

import (
	"errors"
	"net/http"

	"spendwise/internal/auth"
	"spendwise/internal/forms"
)

const badLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

type loginView struct {
	Form   forms.LoginForm
	Errors forms.Errors
	Next   string
}

type signupView struct {
	Form   forms.SignupForm
	Errors forms.Errors
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login", loginView{
		Errors: forms.Errors{},
		Next:   r.URL.Query().Get("next"),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	form := forms.ParseLoginForm(r.PostForm)
	view := loginView{Form: form, Errors: form.Validate(), Next: r.PostForm.Get("next")}
	view.Form.Password = ""

	if view.Errors.Any() {
		s.render(w, r, http.StatusUnprocessableEntity, "login", view)
		return
	}

	u, err := s.Accounts.Login(r.Context(), form.Login, form.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		view.Errors.Add(forms.NonFieldErrors, badLogin)
		s.render(w, r, http.StatusUnprocessableEntity, "login", view)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	if err := s.Sessions.Issue(w, u.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	redirect(w, r, auth.SafeNext(view.Next))
}

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "signup", signupView{Errors: forms.Errors{}})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	form := forms.ParseSignupForm(r.PostForm)
	view := signupView{Form: form, Errors: form.Validate()}
	view.Form.Password1, view.Form.Password2 = "", ""

	if !view.Errors.Any() {
		_, err := s.Accounts.Signup(r.Context(), form.Username, form.Email, form.Password1)
		if err == nil {
			redirect(w, r, auth.LoginPath)
			return
		}
		usernameTaken, emailTaken := errors.Is(err, auth.ErrUsernameTaken), errors.Is(err, auth.ErrEmailTaken)
		if !usernameTaken && !emailTaken {
			s.serverError(w, r, err)
			return
		}
		if usernameTaken {
			view.Errors.Add("username", "A user with that username already exists.")
		}
		if emailTaken {
			view.Errors.Add("email", "A user with that email already exists.")
		}
	}
	s.render(w, r, http.StatusUnprocessableEntity, "signup", view)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.Sessions.Clear(w)
	redirect(w, r, auth.LoginPath)
}
