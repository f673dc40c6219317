package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/devburger/ordering-agent/internal/model"
	"github.com/devburger/ordering-agent/internal/store"
	"github.com/devburger/ordering-agent/pkg/logger"
)

const defaultOrderListLimit = 50

// OrderReader reads committed orders from the ledger.
type OrderReader interface {
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	ListOrders(ctx context.Context, limit int) ([]model.Order, error)
}

// OrderHandler exposes committed orders for the kitchen dashboard.
type OrderHandler struct {
	ledger OrderReader
	logger *logger.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(ledger OrderReader, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		ledger: ledger,
		logger: log,
	}
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultOrderListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	orders, err := h.ledger.ListOrders(r.Context(), limit)
	if err != nil {
		h.logger.Error("order listing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}

// Get handles GET /api/v1/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.ledger.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("order lookup failed", zap.Int64("order_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}

	writeJSON(w, http.StatusOK, order)
}
