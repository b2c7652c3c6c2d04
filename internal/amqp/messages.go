package amqp

import (
	"encoding/json"
	"time"
)

// Ledger event actions.
const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// LedgerEventMessage describes one mutation of the expense ledger. The
// message carries the full record so the audit worker never has to read the
// ledger back.
type LedgerEventMessage struct {
	ExpenseID   int64     `json:"expense_id"`
	Action      string    `json:"action"`
	AmountCents int64     `json:"amount_cents"`
	Description string    `json:"description"`
	RecordedOn  string    `json:"recorded_on"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewLedgerEventMessage creates an event stamped with the current time.
func NewLedgerEventMessage(action string, expenseID, amountCents int64, description, recordedOn string) *LedgerEventMessage {
	return &LedgerEventMessage{
		ExpenseID:   expenseID,
		Action:      action,
		AmountCents: amountCents,
		Description: description,
		RecordedOn:  recordedOn,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
