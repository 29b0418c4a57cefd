package models

import "time"

// Event types published to the order-events topic.
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// BaseEvent carries the common event envelope fields.
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderItemData is the event view of a snapshot line item.
type OrderItemData struct {
	ProductID    string  `json:"product_id"`
	Quantity     int     `json:"quantity"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
}

// OrderCreatedEvent is published after an order is persisted.
type OrderCreatedEvent struct {
	BaseEvent
	OrderID       string          `json:"order_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Total         float64         `json:"total"`
	Items         []OrderItemData `json:"items"`
}

// OrderStatusChangedEvent is published after an admin status update.
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID       string `json:"order_id"`
	CustomerEmail string `json:"customer_email"`
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
}
