package order

import "time"

// NoteSubmission is the message carried on the notes.inbound topic
// between the intake API and the extraction workers.
type NoteSubmission struct {
	OrderID    string    `json:"order_id"`
	ClientID   string    `json:"client_id"`
	NoteHash   string    `json:"note_hash"`
	Note       string    `json:"note"`
	ReceivedAt time.Time `json:"received_at"`
}
