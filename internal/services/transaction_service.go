package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	applog "spendwise/internal/log"
	"spendwise/internal/storage"
)

// ErrUnknownCategory means a line item referenced a category the user does not own.
var ErrUnknownCategory = fmt.Errorf("unknown category: %w", storage.ErrNotFound)

// EventPublisher is satisfied by *amqp.Client.
type EventPublisher interface {
	Publish(ctx context.Context, ev amqp.Event) error
}

type TransactionStore interface {
	ListCategories(ctx context.Context, userID int64) ([]core.Category, error)
	CreateTransactions(ctx context.Context, txs []core.Transaction) ([]int64, error)
	GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id int64) error
	ListTransactions(ctx context.Context, userID int64, f storage.ListFilter, limit, offset int) ([]core.Transaction, error)
	CountTransactions(ctx context.Context, userID int64, f storage.ListFilter) (int, error)
	AllTransactions(ctx context.Context, userID int64) ([]core.Transaction, error)
}

// TransactionService orchestrates transaction writes against storage and
// announces committed changes on the event bus.
type TransactionService struct {
	store  TransactionStore
	events EventPublisher
}

// NewTransactionService accepts a nil publisher when AMQP is not configured.
func NewTransactionService(store TransactionStore, events EventPublisher) *TransactionService {
	return &TransactionService{store: store, events: events}
}

// CreateBatch stores every line item as one transaction dated date, all or
// nothing. Titles come from the category name or the uncategorized placeholder.
func (s *TransactionService) CreateBatch(ctx context.Context, userID int64, date core.Date, items []core.LineItem) ([]int64, error) {
	if err := date.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	names := make(map[int64]core.Category, len(categories))
	for _, c := range categories {
		names[c.ID] = c
	}

	txs := make([]core.Transaction, 0, len(items))
	for i, item := range items {
		var cat core.Category
		if item.CategoryID != 0 {
			var ok bool
			if cat, ok = names[item.CategoryID]; !ok {
				return nil, fmt.Errorf("line %d: %w", i, ErrUnknownCategory)
			}
		}
		t := core.Transaction{
			UserID:       userID,
			CategoryID:   item.CategoryID,
			CategoryName: cat.Name,
			Title:        item.Title(cat.Name),
			Amount:       item.Amount,
			Date:         date,
			Type:         item.Type,
			Description:  item.Description,
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		txs = append(txs, t)
	}

	ids, err := s.store.CreateTransactions(ctx, txs)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("create batch: %w", ErrUnknownCategory)
		}
		return nil, fmt.Errorf("create batch: %w", err)
	}

	applog.NewStructuredLogger(applog.FromContext(ctx)).
		LogTransactionsCreated(ctx, userID, ids, date.String())

	s.publish(ctx, amqp.NewTransactionsCreated(userID, ids))
	return ids, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id int64) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, userID, id)
}

// Update rewrites a transaction owned by t.UserID.
func (s *TransactionService) Update(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction updated", "user_id", t.UserID, "id", t.ID)
	s.publish(ctx, amqp.NewTransactionUpdated(t.UserID, t.ID))
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction deleted", "user_id", userID, "id", id)
	s.publish(ctx, amqp.NewTransactionDeleted(userID, id))
	return nil
}

// List returns one page of the filtered listing under the default order.
func (s *TransactionService) List(ctx context.Context, userID int64, f storage.ListFilter, page string) (Page, error) {
	total, err := s.store.CountTransactions(ctx, userID, f)
	if err != nil {
		return Page{}, err
	}
	p, err := NewPage(page, total, PageSize)
	if err != nil {
		return Page{}, err
	}
	if total == 0 {
		return p, nil
	}
	p.Items, err = s.store.ListTransactions(ctx, userID, f, PageSize, p.Offset())
	if err != nil {
		return Page{}, err
	}
	return p, nil
}

// All returns every transaction of the user, newest first.
func (s *TransactionService) All(ctx context.Context, userID int64) ([]core.Transaction, error) {
	return s.store.AllTransactions(ctx, userID)
}

func (s *TransactionService) publish(ctx context.Context, ev amqp.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		// The write is committed; the event is best effort.
		fields := applog.NewFields().WithComponent(applog.ComponentAMQP)
		fields[applog.FieldEventType] = ev.Type
		fields[applog.FieldUserID] = ev.UserID
		applog.NewStructuredLogger(applog.FromContext(ctx)).
			LogError(ctx, "Failed to publish event", err, applog.OpPublish, fields)
	}
}
