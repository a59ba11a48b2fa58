// Package events publishes ledger domain events to interested consumers.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type names a domain event. It doubles as the AMQP routing key.
type Type string

const (
	ExpenseCreated     Type = "expense.created"
	ExpenseUpdated     Type = "expense.updated"
	ExpenseDeleted     Type = "expense.deleted"
	SettlementRecorded Type = "settlement.recorded"
	SettlementSettled  Type = "settlement.settled"
)

// Event is a lightweight notification. Consumers fetch full records by
// SubjectID if they need more than the amount.
type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	GroupID    string          `json:"group_id"`
	SubjectID  string          `json:"subject_id"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// New creates an event stamped with a fresh ID and the current time.
func New(typ Type, groupID, subjectID string, amount decimal.Decimal) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       typ,
		GroupID:    groupID,
		SubjectID:  subjectID,
		Amount:     amount,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event and rejects payloads without a type.
func FromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if e.Type == "" {
		return Event{}, fmt.Errorf("decode event: missing type")
	}
	return e, nil
}
