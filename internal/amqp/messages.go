package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EntryKind names the table an entry was written to.
type EntryKind string

const (
	KindIncome  EntryKind = "income"
	KindExpense EntryKind = "expense"
)

// IsValid returns true if the kind is known.
func (k EntryKind) IsValid() bool {
	return k == KindIncome || k == KindExpense
}

// EntryRecordedMessage announces a new income or expense so other views can
// refresh the user's figures. Consumers read the entry itself from the database.
type EntryRecordedMessage struct {
	MessageID string    `json:"message_id"`
	Kind      EntryKind `json:"kind"`
	EntryID   int64     `json:"entry_id"`
	UserID    int64     `json:"user_id"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntryRecordedMessage creates a message with a fresh id and the current time.
func NewEntryRecordedMessage(kind EntryKind, entryID, userID int64, amount float64) *EntryRecordedMessage {
	return &EntryRecordedMessage{
		MessageID: uuid.NewString(),
		Kind:      kind,
		EntryID:   entryID,
		UserID:    userID,
		Amount:    amount,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryRecordedMessageFromJSON decodes and checks a message body.
func EntryRecordedMessageFromJSON(data []byte) (*EntryRecordedMessage, error) {
	var msg EntryRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Kind.IsValid() {
		return nil, fmt.Errorf("unknown entry kind %q", msg.Kind)
	}
	if _, err := uuid.Parse(msg.MessageID); err != nil {
		return nil, fmt.Errorf("invalid message id: %w", err)
	}
	return &msg, nil
}
