package services

import (
	"context"
	"fmt"
	"log/slog"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
)

type CategoryStore interface {
	ListCategories(ctx context.Context, userID int64) ([]core.Category, error)
	GetCategory(ctx context.Context, userID, id int64) (core.Category, error)
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	UpdateCategory(ctx context.Context, c core.Category) error
	DeleteCategory(ctx context.Context, userID, id int64) error
}

type CategoryService struct {
	store  CategoryStore
	events EventPublisher
}

func NewCategoryService(store CategoryStore, events EventPublisher) *CategoryService {
	return &CategoryService{store: store, events: events}
}

// List returns the user's categories ordered by name.
func (s *CategoryService) List(ctx context.Context, userID int64) ([]core.Category, error) {
	return s.store.ListCategories(ctx, userID)
}

func (s *CategoryService) Get(ctx context.Context, userID, id int64) (core.Category, error) {
	return s.store.GetCategory(ctx, userID, id)
}

func (s *CategoryService) Create(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	created, err := s.store.CreateCategory(ctx, c)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	slog.InfoContext(ctx, "Category created", "user_id", c.UserID, "id", created.ID)
	return created, nil
}

func (s *CategoryService) Update(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.store.UpdateCategory(ctx, c)
}

// Delete removes the category. Transactions that used it become uncategorized.
func (s *CategoryService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteCategory(ctx, userID, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Category deleted", "user_id", userID, "id", id)
	if s.events != nil {
		if err := s.events.Publish(ctx, amqp.NewCategoryDeleted(userID, id)); err != nil {
			slog.ErrorContext(ctx, "Failed to publish event", "type", amqp.EventCategoryDeleted, "error", err)
		}
	}
	return nil
}
