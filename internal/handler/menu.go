package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/devburger/ordering-agent/internal/model"
	"github.com/devburger/ordering-agent/pkg/logger"
)

// MenuReader lists the product catalog.
type MenuReader interface {
	GetAll(ctx context.Context) ([]model.MenuItem, error)
}

// MenuHandler exposes the product catalog.
type MenuHandler struct {
	catalog MenuReader
	logger  *logger.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(catalog MenuReader, log *logger.Logger) *MenuHandler {
	return &MenuHandler{
		catalog: catalog,
		logger:  log,
	}
}

// List handles GET /api/v1/menu
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.GetAll(r.Context())
	if err != nil {
		h.logger.Error("menu listing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list menu")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}
