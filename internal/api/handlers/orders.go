package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/carebridge/go-dme/internal/domain/order"
)

// OrdersHandler serves read access to order state and history
type OrdersHandler struct {
	repo   *order.Repository
	logger *zap.Logger
}

// NewOrdersHandler creates a new handler
func NewOrdersHandler(repo *order.Repository, logger *zap.Logger) *OrdersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrdersHandler{repo: repo, logger: logger}
}

// Routes returns the handler routes
func (h *OrdersHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{id}", h.Get)
	r.Get("/{id}/events", h.GetEvents)
	return r
}

// Get handles GET /api/v1/orders/{id}
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	agg, err := h.repo.Load(ctx, id)
	if err != nil {
		jsonError(w, "order not found", http.StatusNotFound)
		return
	}

	resp := map[string]interface{}{
		"id":      agg.ID(),
		"status":  agg.Status(),
		"version": agg.Version(),
	}
	if agg.Device() != "" {
		resp["device"] = agg.Device()
	}
	if len(agg.Payload()) > 0 {
		resp["extraction"] = json.RawMessage(agg.Payload())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetEvents handles GET /api/v1/orders/{id}/events
func (h *OrdersHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	events, err := h.repo.GetEvents(ctx, id)
	if err != nil {
		jsonError(w, "failed to get events", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}
