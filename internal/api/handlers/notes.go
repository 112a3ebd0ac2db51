// Package handlers provides HTTP handlers for the intake API.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/carebridge/go-dme/internal/api/middleware"
	"github.com/carebridge/go-dme/internal/domain/order"
	"github.com/carebridge/go-dme/internal/extract"
	"github.com/carebridge/go-dme/internal/infrastructure/postgres"
	"github.com/carebridge/go-dme/internal/infrastructure/redpanda"
	"github.com/carebridge/go-dme/internal/observability/metrics"
	"github.com/carebridge/go-dme/pkg/idempotency"
)

// maxNoteBytes bounds the request body; physician notes are short.
const maxNoteBytes = 256 * 1024

// NotesHandler accepts physician notes and enqueues them for extraction
type NotesHandler struct {
	pool    *pgxpool.Pool
	repo    *order.Repository
	formats *extract.FormatSet
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewNotesHandler creates a new handler
func NewNotesHandler(pool *pgxpool.Pool, repo *order.Repository, formats *extract.FormatSet, m *metrics.Metrics, logger *zap.Logger) *NotesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotesHandler{
		pool:    pool,
		repo:    repo,
		formats: formats,
		metrics: m,
		logger:  logger,
	}
}

// Routes returns the handler routes
func (h *NotesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Submit)
	return r
}

// SubmitResponse is the response for a submitted note
type SubmitResponse struct {
	ID             string    `json:"id"`
	Status         string    `json:"status"`
	IdempotencyKey string    `json:"idempotency_key"`
	ReceivedAt     time.Time `json:"received_at"`
}

// Submit handles POST /api/v1/notes. The body is the note itself: either
// plain text or a JSON wrapper, resolved by format detection.
func (h *NotesHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tracer := otel.Tracer("notes-handler")
	ctx, span := tracer.Start(ctx, "submit_note")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxNoteBytes))
	if err != nil {
		jsonError(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	note, err := h.formats.DetectAndExtract(string(body))
	if err != nil {
		var formatErr *extract.FormatError
		if errors.As(err, &formatErr) {
			jsonError(w, "unrecognized note format: "+formatErr.Reason, http.StatusUnprocessableEntity)
			return
		}
		jsonError(w, "failed to process note", http.StatusInternalServerError)
		return
	}

	clientID := middleware.GetClientID(ctx)
	noteHash := idempotency.GenerateKey(clientID, string(body))

	orderID := uuid.New().String()
	span.SetAttributes(
		attribute.String("order_id", orderID),
		attribute.String("client_id", clientID),
	)

	receivedAt := time.Now().UTC()
	agg := order.NewAggregate(orderID)
	if err := agg.Receive(&order.OrderReceivedData{
		OrderID:    orderID,
		ClientID:   clientID,
		NoteHash:   noteHash,
		Note:       note,
		ReceivedAt: receivedAt,
	}); err != nil {
		h.logger.Error("aggregate receive failed", zap.Error(err))
		jsonError(w, "failed to create order", http.StatusInternalServerError)
		return
	}

	submission, err := json.Marshal(order.NoteSubmission{
		OrderID:    orderID,
		ClientID:   clientID,
		NoteHash:   noteHash,
		Note:       note,
		ReceivedAt: receivedAt,
	})
	if err != nil {
		jsonError(w, "failed to encode submission", http.StatusInternalServerError)
		return
	}

	// Events and the outbox entry commit atomically; the relay delivers
	// the submission to Redpanda afterwards.
	tx, err := h.pool.Begin(ctx)
	if err != nil {
		h.logger.Error("begin tx failed", zap.Error(err))
		jsonError(w, "failed to save order", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback(ctx)

	if err := h.repo.SaveTx(ctx, tx, agg); err != nil {
		h.logger.Error("save events failed", zap.Error(err))
		jsonError(w, "failed to save order", http.StatusInternalServerError)
		return
	}

	if err := postgres.WriteEntry(ctx, tx, &postgres.OutboxEntry{
		AggregateID:   orderID,
		AggregateType: "Order",
		EventType:     string(order.EventOrderReceived),
		Payload:       submission,
		KafkaTopic:    redpanda.TopicNotesInbound,
		KafkaKey:      orderID,
	}); err != nil {
		h.logger.Error("write outbox failed", zap.Error(err))
		jsonError(w, "failed to save order", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		h.logger.Error("commit failed", zap.Error(err))
		jsonError(w, "failed to save order", http.StatusInternalServerError)
		return
	}
	agg.ClearChanges()

	if h.metrics != nil {
		h.metrics.NotesReceived.Inc()
	}

	h.logger.Info("note received",
		zap.String("order_id", orderID),
		zap.String("client_id", clientID),
		zap.String("request_id", middleware.GetRequestID(ctx)),
		zap.Int("note_length", len(note)),
	)

	resp := SubmitResponse{
		ID:             orderID,
		Status:         string(agg.Status()),
		IdempotencyKey: noteHash,
		ReceivedAt:     receivedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(resp)
}

func jsonError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
