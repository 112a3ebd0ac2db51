package order

import (
	"encoding/json"
	"errors"
	"time"
)

// Status represents order status
type Status string

const (
	StatusNew       Status = "new"
	StatusReceived  Status = "received"
	StatusExtracted Status = "extracted"
	StatusSubmitted Status = "submitted"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
)

// Aggregate represents the DME order aggregate root
type Aggregate struct {
	id               string
	version          int
	status           Status
	clientID         string
	noteHash         string
	note             string
	device           string
	orderingProvider string
	payload          json.RawMessage
	strategy         string
	messageID        string
	rejectReason     string
	createdAt        time.Time
	updatedAt        time.Time
	changes          []*Event
}

// NewAggregate creates a new order aggregate
func NewAggregate(id string) *Aggregate {
	return &Aggregate{
		id:        id,
		status:    StatusNew,
		createdAt: time.Now().UTC(),
		updatedAt: time.Now().UTC(),
		changes:   make([]*Event, 0),
	}
}

// ID returns the aggregate ID
func (a *Aggregate) ID() string { return a.id }

// Version returns the current version
func (a *Aggregate) Version() int { return a.version }

// Status returns the current status
func (a *Aggregate) Status() Status { return a.status }

// Device returns the extracted device type, empty before extraction
func (a *Aggregate) Device() string { return a.device }

// Payload returns the serialized extraction result, nil before extraction
func (a *Aggregate) Payload() json.RawMessage { return a.payload }

// Note returns the normalized note text
func (a *Aggregate) Note() string { return a.note }

// ClientID returns the submitting client
func (a *Aggregate) ClientID() string { return a.clientID }

// Changes returns uncommitted events
func (a *Aggregate) Changes() []*Event { return a.changes }

// ClearChanges clears uncommitted events
func (a *Aggregate) ClearChanges() { a.changes = make([]*Event, 0) }

// Receive records intake of a physician note
func (a *Aggregate) Receive(data *OrderReceivedData) error {
	if a.status != StatusNew {
		return errors.New("order already received")
	}

	event, err := NewEvent(a.id, EventOrderReceived, data)
	if err != nil {
		return err
	}
	event.WithAuditInfo(data.ClientID, data.NoteHash)

	a.apply(event)
	a.changes = append(a.changes, event)
	return nil
}

// AttachExtraction records the structured extraction output
func (a *Aggregate) AttachExtraction(data *OrderExtractedData) error {
	if a.status != StatusReceived {
		return errors.New("order not ready for extraction")
	}

	event, err := NewEvent(a.id, EventOrderExtracted, data)
	if err != nil {
		return err
	}
	event.WithAuditInfo(a.clientID, a.noteHash)

	a.apply(event)
	a.changes = append(a.changes, event)
	return nil
}

// MarkSubmitted records successful submission to the supplier network
func (a *Aggregate) MarkSubmitted(messageID string) error {
	if a.status != StatusExtracted {
		return errors.New("order not extracted")
	}

	data := &OrderSubmittedData{
		OrderID:     a.id,
		MessageID:   messageID,
		SubmittedAt: time.Now().UTC(),
	}

	event, err := NewEvent(a.id, EventOrderSubmitted, data)
	if err != nil {
		return err
	}
	event.WithAuditInfo(a.clientID, a.noteHash)

	a.apply(event)
	a.changes = append(a.changes, event)
	return nil
}

// Accept records payer acceptance
func (a *Aggregate) Accept() error {
	if a.status != StatusSubmitted {
		return errors.New("order not submitted")
	}

	event, err := NewEvent(a.id, EventOrderAccepted, struct{}{})
	if err != nil {
		return err
	}
	event.WithAuditInfo(a.clientID, a.noteHash)

	a.apply(event)
	a.changes = append(a.changes, event)
	return nil
}

// Reject records payer rejection
func (a *Aggregate) Reject(reason string) error {
	if a.status != StatusSubmitted {
		return errors.New("order not submitted")
	}

	data := &OrderRejectedData{
		OrderID:    a.id,
		Reason:     reason,
		RejectedAt: time.Now().UTC(),
	}

	event, err := NewEvent(a.id, EventOrderRejected, data)
	if err != nil {
		return err
	}
	event.WithAuditInfo(a.clientID, a.noteHash)

	a.apply(event)
	a.changes = append(a.changes, event)
	return nil
}

// apply applies an event to update state
func (a *Aggregate) apply(event *Event) {
	a.version++
	a.updatedAt = event.Timestamp

	switch event.EventType {
	case EventOrderReceived:
		a.applyReceived(event)
	case EventOrderExtracted:
		a.applyExtracted(event)
	case EventOrderSubmitted:
		a.applySubmitted(event)
	case EventOrderAccepted:
		a.status = StatusAccepted
	case EventOrderRejected:
		a.applyRejected(event)
	}
}

func (a *Aggregate) applyReceived(event *Event) {
	var data OrderReceivedData
	if err := json.Unmarshal(event.EventData, &data); err != nil {
		return
	}
	a.status = StatusReceived
	a.clientID = data.ClientID
	a.noteHash = data.NoteHash
	a.note = data.Note
}

func (a *Aggregate) applyExtracted(event *Event) {
	var data OrderExtractedData
	if err := json.Unmarshal(event.EventData, &data); err != nil {
		return
	}
	a.status = StatusExtracted
	a.device = data.Device
	a.orderingProvider = data.OrderingProvider
	a.payload = data.Payload
	a.strategy = data.Strategy
}

func (a *Aggregate) applySubmitted(event *Event) {
	var data OrderSubmittedData
	if err := json.Unmarshal(event.EventData, &data); err != nil {
		return
	}
	a.status = StatusSubmitted
	a.messageID = data.MessageID
}

func (a *Aggregate) applyRejected(event *Event) {
	var data OrderRejectedData
	if err := json.Unmarshal(event.EventData, &data); err != nil {
		return
	}
	a.status = StatusRejected
	a.rejectReason = data.Reason
}

// LoadFromHistory rebuilds state from events
func (a *Aggregate) LoadFromHistory(events []*Event) {
	for _, event := range events {
		a.apply(event)
	}
}
