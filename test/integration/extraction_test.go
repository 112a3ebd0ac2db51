// Package integration provides integration tests for the extraction pipeline.
package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/carebridge/go-dme/internal/domain/order"
	"github.com/carebridge/go-dme/internal/extract"
	"github.com/carebridge/go-dme/pkg/idempotency"
)

// TestNoteToOrderFlow runs a note through the same stages the services
// do: format detection, extraction, serialization, and the aggregate
// lifecycle, without external infrastructure.
func TestNoteToOrderFlow(t *testing.T) {
	rawBody := `{"physicianNote":"Patient Name: Harold Finch\nDOB: 04/12/1952\nDiagnosis: COPD\nRequires a portable oxygen tank delivering 2 L per minute.\nUsage: During sleep and exertion.\nOrdering Physician: Dr. Cuddy"}`

	formats := extract.DefaultFormats()
	note, err := formats.DetectAndExtract(rawBody)
	if err != nil {
		t.Fatalf("format detection failed: %v", err)
	}
	if note == rawBody {
		t.Error("expected JSON wrapper to be unwrapped")
	}

	engine := extract.NewEngine(extract.DefaultRegistry(), nil)
	result := engine.Extract(context.Background(), note)

	if result.Device != extract.DeviceOxygenTank {
		t.Errorf("expected OxygenTank, got %s", result.Device)
	}
	if result.OrderingProvider != "Dr. Cuddy" {
		t.Errorf("expected Dr. Cuddy, got %q", result.OrderingProvider)
	}

	serialized, err := extract.Serialize(result)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}

	key := idempotency.GenerateKey("test-clinic", rawBody)
	if key == "" {
		t.Fatal("expected idempotency key")
	}
	if key != idempotency.GenerateKey("test-clinic", rawBody) {
		t.Error("idempotency key not deterministic")
	}

	agg := order.NewAggregate("ord-int-1")
	err = agg.Receive(&order.OrderReceivedData{
		OrderID:    "ord-int-1",
		ClientID:   "test-clinic",
		NoteHash:   key,
		Note:       note,
		ReceivedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}

	err = agg.AttachExtraction(&order.OrderExtractedData{
		OrderID:          "ord-int-1",
		Device:           string(result.Device),
		OrderingProvider: result.OrderingProvider,
		Payload:          serialized,
		Strategy:         "pattern",
		ExtractedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("attach extraction failed: %v", err)
	}

	if agg.Status() != order.StatusExtracted {
		t.Errorf("expected extracted status, got %s", agg.Status())
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(agg.Payload(), &payload); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if payload["device"] != "OxygenTank" {
		t.Errorf("expected OxygenTank in payload, got %v", payload["device"])
	}
	if payload["liters"] != "2 L" {
		t.Errorf("expected liters 2 L, got %v", payload["liters"])
	}
}

// TestDuplicateSubmissionSameKey verifies a resent body maps to the same
// inbox key while an edited note does not.
func TestDuplicateSubmissionSameKey(t *testing.T) {
	body := "Patient needs a CPAP with nasal mask. Ordering Physician: Dr. Smith"

	first := idempotency.GenerateKey("clinic-a", body)
	second := idempotency.GenerateKey("clinic-a", body)
	if first != second {
		t.Error("identical submissions must share a key")
	}

	edited := idempotency.GenerateKey("clinic-a", body+" AHI > 20.")
	if first == edited {
		t.Error("edited note must get a new key")
	}
}
