package events

import (
	"encoding/json"
	"time"
)

// Message kinds carried on the events queue.
const (
	KindExpenseRecorded = "expense_recorded"
	KindExpensesCleared = "expenses_cleared"
)

// ExpenseRecordedMessage announces one newly persisted expense. It carries
// only identifiers; consumers fetch the full record themselves.
type ExpenseRecordedMessage struct {
	Kind          string    `json:"kind"`
	ID            int64     `json:"id"`
	ContributorID int64     `json:"contributor_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// ExpensesClearedMessage announces a bulk deletion of all expense records.
type ExpensesClearedMessage struct {
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseRecordedMessage creates a recorded-expense message.
func NewExpenseRecordedMessage(id, contributor int64) *ExpenseRecordedMessage {
	return &ExpenseRecordedMessage{
		Kind:          KindExpenseRecorded,
		ID:            id,
		ContributorID: contributor,
		Timestamp:     time.Now(),
	}
}

// NewExpensesClearedMessage creates a bulk-clear message.
func NewExpensesClearedMessage() *ExpensesClearedMessage {
	return &ExpensesClearedMessage{
		Kind:      KindExpensesCleared,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExpenseRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseRecordedMessageFromJSON creates a message from JSON bytes.
func ExpenseRecordedMessageFromJSON(data []byte) (*ExpenseRecordedMessage, error) {
	var msg ExpenseRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ToJSON converts the message to JSON bytes.
func (m *ExpensesClearedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
