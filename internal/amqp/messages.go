package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
	EventCategoryDeleted    = "category.deleted"
)

// Event is the JSON body of every published message.
type Event struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	UserID         int64     `json:"user_id"`
	TransactionIDs []int64   `json:"transaction_ids,omitempty"`
	CategoryID     int64     `json:"category_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func newEvent(typ string, userID int64) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}

// NewTransactionsCreated carries every id of one batch.
func NewTransactionsCreated(userID int64, ids []int64) Event {
	ev := newEvent(EventTransactionCreated, userID)
	ev.TransactionIDs = ids
	return ev
}

func NewTransactionUpdated(userID, id int64) Event {
	ev := newEvent(EventTransactionUpdated, userID)
	ev.TransactionIDs = []int64{id}
	return ev
}

func NewTransactionDeleted(userID, id int64) Event {
	ev := newEvent(EventTransactionDeleted, userID)
	ev.TransactionIDs = []int64{id}
	return ev
}

func NewCategoryDeleted(userID, categoryID int64) Event {
	ev := newEvent(EventCategoryDeleted, userID)
	ev.CategoryID = categoryID
	return ev
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EventFromJSON(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}
