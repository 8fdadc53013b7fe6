package models

import "time"

const EventTypeOrderPaid = "order.paid"

// OrderPaidEvent is published after an order has been marked paid.
type OrderPaidEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Amount    int64     `json:"amount"` // in cents
	EventID   string    `json:"stripe_event_id"`
	Timestamp time.Time `json:"timestamp"`
}
