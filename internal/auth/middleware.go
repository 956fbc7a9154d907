package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"spendwise/internal/core"
	"spendwise/internal/storage"
)

const (
	LoginPath       = "/accounts/login/"
	DefaultRedirect = "/dashboard/"
)

type ctxKey struct{}

func WithUser(ctx context.Context, u core.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the authenticated user set by RequireUser.
func UserFromContext(ctx context.Context) (core.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(core.User)
	return u, ok
}

// RequireUser redirects anonymous requests to the login page, keeping the
// original destination in the next parameter.
func RequireUser(sessions *SessionManager, users *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := sessions.UserID(r)
			if err != nil {
				redirectToLogin(w, r)
				return
			}

			u, err := users.User(r.Context(), id)
			if errors.Is(err, storage.ErrNotFound) {
				sessions.Clear(w)
				redirectToLogin(w, r)
				return
			}
			if err != nil {
				slog.ErrorContext(r.Context(), "Failed to load session user", "user_id", id, "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, LoginPath+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
}

// SafeNext returns next when it is a local absolute path, DefaultRedirect otherwise.
func SafeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") {
		return DefaultRedirect
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") || strings.ContainsAny(next, "\r\n") {
		return DefaultRedirect
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return DefaultRedirect
	}
	return next
}
