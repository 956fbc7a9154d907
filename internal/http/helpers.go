package http

import (
	"errors"
	"log/slog"
	"net/http"

	"spendwise/internal/auth"
	"spendwise/internal/core"
	"spendwise/internal/services"
	"spendwise/internal/storage"
)

func userFrom(r *http.Request) (core.User, bool) {
	return auth.UserFromContext(r.Context())
}

// currentUser is only called behind protect, which guarantees a user.
func currentUser(r *http.Request) core.User {
	u, _ := userFrom(r)
	return u
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "not_found", nil)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "Request failed",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// fail maps service errors to a response: missing or foreign rows and
// out-of-range pages are 404, everything else is 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, services.ErrPageNotFound):
		s.notFound(w, r)
	default:
		s.serverError(w, r, err)
	}
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusFound)
}

// parseForm rejects unreadable bodies with 400.
func parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		slog.WarnContext(r.Context(), "Parse form error", "error", err, "path", r.URL.Path)
		http.Error(w, "Malformed request", http.StatusBadRequest)
		return false
	}
	return true
}
