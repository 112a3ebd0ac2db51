package order

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receivedData() *OrderReceivedData {
	return &OrderReceivedData{
		OrderID:    "ord-1",
		ClientID:   "clinic-42",
		NoteHash:   "abc123",
		Note:       "Patient needs a CPAP. Ordering Physician: Dr. Smith",
		ReceivedAt: time.Now().UTC(),
	}
}

func extractedData() *OrderExtractedData {
	return &OrderExtractedData{
		OrderID:          "ord-1",
		Device:           "CPAP",
		OrderingProvider: "Dr. Smith",
		Payload:          json.RawMessage(`{"device":"CPAP","ordering_provider":"Dr. Smith"}`),
		Strategy:         "pattern",
		ExtractedAt:      time.Now().UTC(),
	}
}

func TestOrderLifecycle(t *testing.T) {
	agg := NewAggregate("ord-1")
	assert.Equal(t, StatusNew, agg.Status())

	require.NoError(t, agg.Receive(receivedData()))
	assert.Equal(t, StatusReceived, agg.Status())
	assert.Equal(t, "clinic-42", agg.ClientID())

	require.NoError(t, agg.AttachExtraction(extractedData()))
	assert.Equal(t, StatusExtracted, agg.Status())
	assert.Equal(t, "CPAP", agg.Device())
	assert.JSONEq(t, `{"device":"CPAP","ordering_provider":"Dr. Smith"}`, string(agg.Payload()))

	require.NoError(t, agg.MarkSubmitted("msg-9"))
	assert.Equal(t, StatusSubmitted, agg.Status())

	require.NoError(t, agg.Accept())
	assert.Equal(t, StatusAccepted, agg.Status())

	assert.Equal(t, 4, agg.Version())
	assert.Len(t, agg.Changes(), 4)
}

func TestOrderRejection(t *testing.T) {
	agg := NewAggregate("ord-1")
	require.NoError(t, agg.Receive(receivedData()))
	require.NoError(t, agg.AttachExtraction(extractedData()))
	require.NoError(t, agg.MarkSubmitted("msg-9"))

	require.NoError(t, agg.Reject("missing diagnosis"))
	assert.Equal(t, StatusRejected, agg.Status())
}

func TestOrderGuardsStatusTransitions(t *testing.T) {
	agg := NewAggregate("ord-1")

	assert.Error(t, agg.AttachExtraction(extractedData()))
	assert.Error(t, agg.MarkSubmitted("msg-9"))
	assert.Error(t, agg.Accept())
	assert.Error(t, agg.Reject("no"))

	require.NoError(t, agg.Receive(receivedData()))
	assert.Error(t, agg.Receive(receivedData()))
}

func TestOrderEventsCarryAuditInfo(t *testing.T) {
	agg := NewAggregate("ord-1")
	require.NoError(t, agg.Receive(receivedData()))
	require.NoError(t, agg.AttachExtraction(extractedData()))

	for _, e := range agg.Changes() {
		assert.Equal(t, "clinic-42", e.ClientID)
		assert.Equal(t, "abc123", e.NoteHash)
		assert.Equal(t, "Order", e.AggregateType)
		assert.NotEmpty(t, e.ID)
	}
}

func TestLoadFromHistory(t *testing.T) {
	src := NewAggregate("ord-1")
	require.NoError(t, src.Receive(receivedData()))
	require.NoError(t, src.AttachExtraction(extractedData()))
	require.NoError(t, src.MarkSubmitted("msg-9"))

	replayed := NewAggregate("ord-1")
	replayed.LoadFromHistory(src.Changes())

	assert.Equal(t, StatusSubmitted, replayed.Status())
	assert.Equal(t, src.Version(), replayed.Version())
	assert.Equal(t, "CPAP", replayed.Device())
	assert.Empty(t, replayed.Changes())
}
