package model

import (
	"time"
)

// ChatRequest is the JSON body accepted by POST /api/v1/chat.
type ChatRequest struct {
	CustomerID string `json:"customer_id"`
	Text       string `json:"text"`
}

// ChatResponse carries the agent's reply back to the transport.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// EventType classifies events published for downstream consumers.
type EventType string

const (
	EventTypeOrderCreated EventType = "order_created"
	EventTypeReply        EventType = "reply"
)

// OrderCreatedEvent is published after an order commits.
type OrderCreatedEvent struct {
	OrderID      int64     `json:"order_id"`
	CustomerName string    `json:"customer_name"`
	Address      string    `json:"address"`
	Total        float64   `json:"total"`
	LineCount    int       `json:"line_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReplyEvent is published after a conversation round completes.
type ReplyEvent struct {
	CustomerID string    `json:"customer_id"`
	Reply      string    `json:"reply"`
	ToolRound  bool      `json:"tool_round"`
	CreatedAt  time.Time `json:"created_at"`
}
