package extract

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Engine composes one pass over a plain note: common fields first, then one
// device-specific pass selected through the registry. It satisfies the
// Extractor contract and is safe for concurrent use; every call builds its
// own Result.
type Engine struct {
	registry   *Registry
	logger     *zap.Logger
	tracer     trace.Tracer
	gapCounter metric.Int64Counter
}

// NewEngine creates an extraction engine over the given registry.
// A nil registry is a programmer error and fails fast.
func NewEngine(registry *Registry, logger *zap.Logger) *Engine {
	if registry == nil {
		panic("extract: nil registry")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	gapCounter, _ := otel.Meter("extraction-engine").Int64Counter("extraction_gaps_total",
		metric.WithDescription("Known devices extracted without a registered strategy"))
	return &Engine{
		registry:   registry,
		logger:     logger,
		tracer:     otel.Tracer("extraction-engine"),
		gapCounter: gapCounter,
	}
}

// Extract runs both extraction passes over one note and always returns a
// usable Result. Empty or whitespace-only notes short-circuit to the
// all-defaults record without invoking any field extractor.
func (e *Engine) Extract(ctx context.Context, note string) Result {
	ctx, span := e.tracer.Start(ctx, "extract_note",
		trace.WithAttributes(attribute.Int("note_length", len(note))))
	defer span.End()

	if strings.TrimSpace(note) == "" {
		e.logger.Debug("empty note, returning defaults")
		return DefaultResult()
	}

	r := ExtractCommon(note)
	span.SetAttributes(attribute.String("device", string(r.Device)))

	if r.Device == DeviceUnknown {
		// Not an error: the record still carries whatever common fields
		// were found.
		e.logger.Debug("device not recognized",
			zap.String("ordering_provider", r.OrderingProvider))
		return r
	}

	strategy, ok := e.registry.Lookup(r.Device)
	if !ok {
		// Known device with no registered strategy is a gap, not a
		// failure; common fields alone are returned.
		e.logger.Warn("no strategy registered for device",
			zap.String("device", string(r.Device)))
		span.SetAttributes(attribute.Bool("strategy_gap", true))
		e.gapCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("device", string(r.Device))))
		return r
	}

	return strategy.Extract(note, r)
}
