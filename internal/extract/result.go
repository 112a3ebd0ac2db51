// Package extract implements the DME order extraction engine: input format
// detection, common field extraction, device-specific strategy dispatch, and
// canonical result serialization. Extraction is deterministic and
// pattern-driven; gaps degrade to defaults instead of failing.
package extract

import (
	"context"
	"encoding/json"
)

// DeviceType identifies the kind of durable medical equipment an order is for.
type DeviceType string

const (
	DeviceCPAP       DeviceType = "CPAP"
	DeviceOxygenTank DeviceType = "OxygenTank"
	DeviceWheelchair DeviceType = "Wheelchair"
	DeviceUnknown    DeviceType = "Unknown"
)

// Result is the canonical record extracted from one physician note.
// It is a plain value: each note gets its own Result, built in two passes
// (common fields, then device-specific fields). Device-specific fields are
// populated only when Device matches the owning strategy's key.
type Result struct {
	Device           DeviceType
	OrderingProvider string
	PatientName      string
	DateOfBirth      string
	Diagnosis        string

	// CPAP fields.
	MaskType  string
	AddOns    []string
	Qualifier string

	// Oxygen tank fields.
	Liters string
	Usage  string
}

// DefaultResult returns the all-defaults record: device and ordering provider
// Unknown, everything else absent.
func DefaultResult() Result {
	return Result{
		Device:           DeviceUnknown,
		OrderingProvider: "Unknown",
	}
}

// Extractor is the end-to-end contract: one Result per note, always.
// Implementations never return an error; every internal failure or
// extraction gap degrades to the defaults of DefaultResult.
type Extractor interface {
	Extract(ctx context.Context, note string) Result
}

// payload is the wire shape of a serialized Result. Struct field order fixes
// the key order of the canonical JSON output.
type payload struct {
	Device           string   `json:"device"`
	OrderingProvider string   `json:"ordering_provider"`
	MaskType         string   `json:"mask_type,omitempty"`
	AddOns           []string `json:"add_ons,omitempty"`
	Qualifier        string   `json:"qualifier,omitempty"`
	PatientName      string   `json:"patient_name,omitempty"`
	DateOfBirth      string   `json:"dob,omitempty"`
	Diagnosis        string   `json:"diagnosis,omitempty"`
	Liters           string   `json:"liters,omitempty"`
	Usage            string   `json:"usage,omitempty"`
}

// Serialize converts a Result into its canonical JSON representation.
// Device and ordering provider are always emitted since they always carry a
// value; optional fields only when set. Liters and usage are emitted only for
// oxygen tank orders, so stale device fields can never leak into the output
// of another device.
func Serialize(r Result) ([]byte, error) {
	p := payload{
		Device:           string(r.Device),
		OrderingProvider: r.OrderingProvider,
		MaskType:         r.MaskType,
		Qualifier:        r.Qualifier,
		PatientName:      r.PatientName,
		DateOfBirth:      r.DateOfBirth,
		Diagnosis:        r.Diagnosis,
	}
	if len(r.AddOns) > 0 {
		p.AddOns = r.AddOns
	}
	if r.Device == DeviceOxygenTank {
		p.Liters = r.Liters
		p.Usage = r.Usage
	}
	return json.Marshal(p)
}
