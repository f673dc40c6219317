package handler

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/devburger/ordering-agent/internal/middleware"
	"github.com/devburger/ordering-agent/pkg/logger"
)

// Replier is the conversation entry point the webhook delegates to.
type Replier interface {
	HandleMessage(ctx context.Context, customerID, text string) string
}

// twimlResponse is the XML document Twilio expects back from a webhook.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// TwilioHandler handles inbound WhatsApp messages relayed by Twilio.
type TwilioHandler struct {
	agent  Replier
	logger *logger.Logger
}

// NewTwilioHandler creates a new Twilio webhook handler.
func NewTwilioHandler(agent Replier, log *logger.Logger) *TwilioHandler {
	return &TwilioHandler{
		agent:  agent,
		logger: log,
	}
}

// Webhook handles POST /webhook/twilio
//
// Twilio posts form-encoded From and Body fields. The From value carries
// a "whatsapp:" prefix that is stripped to recover the customer's phone
// number, which doubles as the session key.
func (h *TwilioHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	from := strings.TrimPrefix(r.FormValue("From"), "whatsapp:")
	body := r.FormValue("Body")

	if err := middleware.ValidateCustomerID(from); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateMessageText(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info("webhook message received",
		zap.String("customer_id", from),
		zap.Int("body_len", len(body)),
		zap.String("correlation_id", middleware.GetCorrelationID(r.Context())),
	)

	reply := h.agent.HandleMessage(r.Context(), from, body)

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(twimlResponse{Message: reply}); err != nil {
		h.logger.Error("twiml encoding failed", zap.Error(err))
	}
}
