package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"spendwise/internal/core"
	"spendwise/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("a user with that username already exists")
	ErrEmailTaken         = errors.New("a user with that email already exists")
)

// UserStore is the persistence the account service needs.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (core.User, error)
	GetUser(ctx context.Context, id int64) (core.User, error)
	GetUserByLogin(ctx context.Context, login string) (core.User, error)
	UserConflicts(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error)
}

type Service struct {
	users  UserStore
	hasher *Hasher
}

func NewService(users UserStore, hasher *Hasher) *Service {
	return &Service{users: users, hasher: hasher}
}

// Signup creates an account. Field validation happens in the form layer.
// When both the username and the email are taken the error wraps
// ErrUsernameTaken and ErrEmailTaken.
func (s *Service) Signup(ctx context.Context, username, email, password string) (core.User, error) {
	username, email = strings.TrimSpace(username), strings.TrimSpace(email)

	usernameTaken, emailTaken, err := s.users.UserConflicts(ctx, username, email)
	if err != nil {
		return core.User{}, fmt.Errorf("signup: %w", err)
	}
	var taken []error
	if usernameTaken {
		taken = append(taken, ErrUsernameTaken)
	}
	if emailTaken {
		taken = append(taken, ErrEmailTaken)
	}
	if len(taken) > 0 {
		return core.User{}, errors.Join(taken...)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return core.User{}, err
	}

	u, err := s.users.CreateUser(ctx, username, email, hash)
	switch {
	case errors.Is(err, storage.ErrDuplicateUsername):
		return core.User{}, ErrUsernameTaken
	case errors.Is(err, storage.ErrDuplicateEmail):
		return core.User{}, ErrEmailTaken
	case err != nil:
		return core.User{}, fmt.Errorf("signup: %w", err)
	}

	slog.InfoContext(ctx, "User signed up", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Login authenticates by username or email.
func (s *Service) Login(ctx context.Context, login, password string) (core.User, error) {
	u, err := s.users.GetUserByLogin(ctx, login)
	if errors.Is(err, storage.ErrNotFound) {
		s.hasher.CompareDummy(password)
		slog.InfoContext(ctx, "Login failed", "reason", "unknown user")
		return core.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.Compare(u.PasswordHash, password)
	if err != nil {
		return core.User{}, err
	}
	if !ok {
		slog.InfoContext(ctx, "Login failed", "reason", "wrong password", "user_id", u.ID)
		return core.User{}, ErrInvalidCredentials
	}

	slog.InfoContext(ctx, "User logged in", "user_id", u.ID)
	return u, nil
}

// User loads an account by id.
func (s *Service) User(ctx context.Context, id int64) (core.User, error) {
	return s.users.GetUser(ctx, id)
}
