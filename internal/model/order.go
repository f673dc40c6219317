package model

import (
	"time"
)

// OrderStatus tracks an order through fulfillment.
type OrderStatus string

const (
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusDelivered OrderStatus = "delivered"
)

// Order is a placed order with its line items.
type Order struct {
	ID           int64       `json:"id"`
	CustomerName string      `json:"customer_name"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	Status       OrderStatus `json:"status"`
	Total        float64     `json:"total"`
	CreatedAt    time.Time   `json:"created_at"`
	Items        []OrderLine `json:"items"`
}

// OrderLine snapshots one ordered product.
//
// ProductName and UnitPrice are copied from the catalog at order time so
// later catalog changes never alter a historical order.
type OrderLine struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Note        string  `json:"note,omitempty"`
}

// LineItemRequest is one requested line of a new order.
type LineItemRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

// OrderRequest is the validated input to the order-finalization transaction.
type OrderRequest struct {
	CustomerName string            `json:"customer_name"`
	Phone        string            `json:"phone"`
	Address      string            `json:"address"`
	Items        []LineItemRequest `json:"items"`
}
