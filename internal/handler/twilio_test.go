package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/devburger/ordering-agent/pkg/logger"
)

type cannedAgent struct {
	reply      string
	customerID string
	text       string
}

func (a *cannedAgent) HandleMessage(_ context.Context, customerID, text string) string {
	a.customerID = customerID
	a.text = text
	return a.reply
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return log
}

func postForm(t *testing.T, h http.HandlerFunc, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/twilio", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestWebhookRepliesWithTwiML(t *testing.T) {
	agent := &cannedAgent{reply: "Olá! O que vai querer hoje?"}
	h := NewTwilioHandler(agent, testLogger(t))

	rec := postForm(t, h.Webhook, url.Values{
		"From": {"whatsapp:+5511999998888"},
		"Body": {"oi"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/xml" {
		t.Fatalf("expected application/xml, got %q", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<Response><Message>Olá! O que vai querer hoje?</Message></Response>") {
		t.Fatalf("unexpected TwiML body: %q", body)
	}

	// The whatsapp: prefix is stripped before the phone becomes the session key.
	if agent.customerID != "+5511999998888" {
		t.Fatalf("expected stripped customer ID, got %q", agent.customerID)
	}
	if agent.text != "oi" {
		t.Fatalf("expected body forwarded, got %q", agent.text)
	}
}

func TestWebhookRejectsMissingFields(t *testing.T) {
	agent := &cannedAgent{reply: "nunca"}
	h := NewTwilioHandler(agent, testLogger(t))

	cases := []struct {
		name string
		form url.Values
	}{
		{"missing from", url.Values{"Body": {"oi"}}},
		{"missing body", url.Values{"From": {"whatsapp:+5511999998888"}}},
		{"blank body", url.Values{"From": {"whatsapp:+5511999998888"}, "Body": {"   "}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postForm(t, h.Webhook, tc.form)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}

	if agent.text != "" {
		t.Fatalf("agent should not have been called, got %q", agent.text)
	}
}

func TestWebhookEscapesReplyForXML(t *testing.T) {
	agent := &cannedAgent{reply: `Temos combos <promoção> & mais`}
	h := NewTwilioHandler(agent, testLogger(t))

	rec := postForm(t, h.Webhook, url.Values{
		"From": {"whatsapp:+5511999998888"},
		"Body": {"promoções?"},
	})

	body := rec.Body.String()
	if !strings.Contains(body, "&lt;promoção&gt; &amp; mais") {
		t.Fatalf("reply not XML escaped: %q", body)
	}
}
