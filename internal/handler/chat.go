package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/devburger/ordering-agent/internal/middleware"
	"github.com/devburger/ordering-agent/internal/model"
	"github.com/devburger/ordering-agent/pkg/logger"
)

// ChatHandler exposes the conversation loop over plain JSON, mainly for
// local testing without a Twilio sandbox in front.
type ChatHandler struct {
	agent  Replier
	logger *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(agent Replier, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		agent:  agent,
		logger: log,
	}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if err := middleware.ValidateCustomerID(req.CustomerID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateMessageText(req.Text); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Debug("chat message received",
		zap.String("customer_id", req.CustomerID),
		zap.String("correlation_id", middleware.GetCorrelationID(r.Context())),
	)

	reply := h.agent.HandleMessage(r.Context(), req.CustomerID, req.Text)

	writeJSON(w, http.StatusOK, model.ChatResponse{Reply: reply})
}
