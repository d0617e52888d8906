package models

import "time"

// Event types
const (
	EventTypeOrderConfirmation = "ORDER_CONFIRMATION"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderConfirmationEvent is published after an order is committed. Delivery is
// fire-and-forget; a publish failure never affects the order.
type OrderConfirmationEvent struct {
	BaseEvent
	OrderNumber    string  `json:"order_number"`
	CustomerEmail  string  `json:"customer_email"`
	CustomerName   string  `json:"customer_name"`
	ItemCount      int     `json:"item_count"`
	Subtotal       float64 `json:"subtotal"`
	ShippingCost   float64 `json:"shipping_cost"`
	ShippingMethod string  `json:"shipping_method"`
	TaxAmount      float64 `json:"tax_amount"`
	Total          float64 `json:"total"`
}
