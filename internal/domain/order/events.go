// Package order implements the DME order aggregate and domain events.
package order

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of domain event
type EventType string

const (
	EventOrderReceived  EventType = "OrderReceived"
	EventOrderExtracted EventType = "OrderExtracted"
	EventOrderSubmitted EventType = "OrderSubmitted"
	EventOrderAccepted  EventType = "OrderAccepted"
	EventOrderRejected  EventType = "OrderRejected"
)

// Event represents a domain event
type Event struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     EventType       `json:"event_type"`
	EventData     json.RawMessage `json:"event_data"`
	Version       int             `json:"version"`
	Timestamp     time.Time       `json:"timestamp"`
	ClientID      string          `json:"client_id,omitempty"`
	NoteHash      string          `json:"note_hash,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

// NewEvent creates a new event
func NewEvent(aggregateID string, eventType EventType, data interface{}) (*Event, error) {
	eventData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: "Order",
		EventType:     eventType,
		EventData:     eventData,
		Timestamp:     time.Now().UTC(),
	}, nil
}

// WithAuditInfo sets audit fields carried on every persisted event
func (e *Event) WithAuditInfo(clientID, noteHash string) *Event {
	e.ClientID = clientID
	e.NoteHash = noteHash
	return e
}

// OrderReceivedData contains intake details
type OrderReceivedData struct {
	OrderID    string    `json:"order_id"`
	ClientID   string    `json:"client_id"`
	NoteHash   string    `json:"note_hash"`
	Note       string    `json:"note"`
	ReceivedAt time.Time `json:"received_at"`
}

// OrderExtractedData contains the structured extraction output
type OrderExtractedData struct {
	OrderID          string          `json:"order_id"`
	Device           string          `json:"device"`
	OrderingProvider string          `json:"ordering_provider"`
	Payload          json.RawMessage `json:"payload"`
	Strategy         string          `json:"strategy"`
	ExtractedAt      time.Time       `json:"extracted_at"`
}

// OrderSubmittedData contains downstream submission details
type OrderSubmittedData struct {
	OrderID     string    `json:"order_id"`
	MessageID   string    `json:"message_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// OrderRejectedData contains the payer rejection reason
type OrderRejectedData struct {
	OrderID    string    `json:"order_id"`
	Reason     string    `json:"reason"`
	RejectedAt time.Time `json:"rejected_at"`
}
