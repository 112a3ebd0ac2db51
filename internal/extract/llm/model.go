package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/carebridge/go-dme/internal/extract"
	"github.com/carebridge/go-dme/pkg/circuitbreaker"
)

// ModelExtractor asks a language model for structured order fields. It
// satisfies the same contract as the pattern engine: extraction never
// fails, it degrades. Model errors, open circuits, and unparseable
// replies all route through the fallback extractor (or the default
// result when no fallback is set).
type ModelExtractor struct {
	backend         Backend
	breaker         *circuitbreaker.CircuitBreaker
	fallback        extract.Extractor
	logger          *zap.Logger
	tracer          trace.Tracer
	fallbackCounter metric.Int64Counter
}

// NewModelExtractor wires a backend behind a circuit breaker. fallback
// may be nil; logger may be nil.
func NewModelExtractor(backend Backend, fallback extract.Extractor, logger *zap.Logger) (*ModelExtractor, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	breaker, err := circuitbreaker.New(circuitbreaker.DefaultConfig("extraction-model"), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create circuit breaker: %w", err)
	}

	fallbackCounter, _ := otel.Meter("extraction-model").Int64Counter("model_fallbacks_total",
		metric.WithDescription("Model extractions that degraded to the fallback"))

	return &ModelExtractor{
		backend:         backend,
		breaker:         breaker,
		fallback:        fallback,
		logger:          logger,
		tracer:          otel.Tracer("extraction-model"),
		fallbackCounter: fallbackCounter,
	}, nil
}

// Extract implements extract.Extractor.
func (m *ModelExtractor) Extract(ctx context.Context, note string) extract.Result {
	ctx, span := m.tracer.Start(ctx, "model_extract",
		trace.WithAttributes(attribute.Int("note_length", len(note))))
	defer span.End()

	if strings.TrimSpace(note) == "" {
		return extract.DefaultResult()
	}

	raw, err := m.breaker.Execute(ctx, func() (interface{}, error) {
		return m.backend.Complete(ctx, buildPrompt(note))
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("model_fallback", true))
		m.logger.Warn("model extraction failed, degrading",
			zap.Error(err),
			zap.Bool("circuit_open", m.breaker.IsOpen()))
		return m.degrade(ctx, note)
	}

	r, err := parseResponse(raw.(string))
	if err != nil {
		span.SetAttributes(attribute.Bool("model_fallback", true))
		m.logger.Warn("model reply unparseable, degrading", zap.Error(err))
		return m.degrade(ctx, note)
	}

	span.SetAttributes(attribute.String("device", string(r.Device)))
	return r
}

func (m *ModelExtractor) degrade(ctx context.Context, note string) extract.Result {
	m.fallbackCounter.Add(ctx, 1)
	if m.fallback != nil {
		return m.fallback.Extract(ctx, note)
	}
	return extract.DefaultResult()
}

func buildPrompt(note string) string {
	var b strings.Builder
	b.WriteString(`Extract durable medical equipment order fields from the physician note below.

Reply with a single JSON object and nothing else, using exactly these keys:
  device            one of "CPAP", "OxygenTank", "Wheelchair", "Unknown"
  ordering_provider provider name as written, or "Unknown"
  patient_name      or ""
  dob               MM/DD/YYYY as written, or ""
  diagnosis         or ""
  mask_type         CPAP only: "full face", "nasal pillow", or "nasal"
  add_ons           CPAP only: array of accessory names
  qualifier         CPAP only: the AHI clause verbatim, e.g. "AHI > 20"
  liters            oxygen only: flow rate like "2 L"
  usage             oxygen only: "sleep", "exertion", or "sleep and exertion"

Copy values from the note verbatim. Leave a field empty rather than guessing.

Note:
`)
	b.WriteString(note)
	return b.String()
}

// modelResponse mirrors the JSON shape requested in the prompt.
type modelResponse struct {
	Device           string   `json:"device"`
	OrderingProvider string   `json:"ordering_provider"`
	PatientName      string   `json:"patient_name"`
	DateOfBirth      string   `json:"dob"`
	Diagnosis        string   `json:"diagnosis"`
	MaskType         string   `json:"mask_type"`
	AddOns           []string `json:"add_ons"`
	Qualifier        string   `json:"qualifier"`
	Liters           string   `json:"liters"`
	Usage            string   `json:"usage"`
}

// parseResponse tolerates prose or code fences around the JSON object but
// rejects replies with no object at all.
func parseResponse(reply string) (extract.Result, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return extract.Result{}, fmt.Errorf("no JSON object in model reply")
	}

	var mr modelResponse
	if err := json.Unmarshal([]byte(reply[start:end+1]), &mr); err != nil {
		return extract.Result{}, fmt.Errorf("failed to decode model reply: %w", err)
	}

	r := extract.DefaultResult()
	r.Device = normalizeDevice(mr.Device)
	if strings.TrimSpace(mr.OrderingProvider) != "" {
		r.OrderingProvider = strings.TrimSpace(mr.OrderingProvider)
	}
	r.PatientName = strings.TrimSpace(mr.PatientName)
	r.DateOfBirth = strings.TrimSpace(mr.DateOfBirth)
	r.Diagnosis = strings.TrimSpace(mr.Diagnosis)

	switch r.Device {
	case extract.DeviceCPAP:
		r.MaskType = strings.TrimSpace(mr.MaskType)
		r.Qualifier = strings.TrimSpace(mr.Qualifier)
		if len(mr.AddOns) > 0 {
			r.AddOns = mr.AddOns
		}
	case extract.DeviceOxygenTank:
		r.Liters = strings.TrimSpace(mr.Liters)
		r.Usage = strings.TrimSpace(mr.Usage)
	}

	return r, nil
}

func normalizeDevice(s string) extract.DeviceType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cpap":
		return extract.DeviceCPAP
	case "oxygentank", "oxygen tank":
		return extract.DeviceOxygenTank
	case "wheelchair":
		return extract.DeviceWheelchair
	default:
		return extract.DeviceUnknown
	}
}
