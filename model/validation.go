package model

import "time"

// Validation is the product validation participant's durable record of its
// saga step, keyed by (order_id, transaction_id). Success flips to false when
// the saga unwinds.
type Validation struct {
	ID            int64     `json:"-"`
	ValidationID  string    `json:"validation_id"`
	OrderID       string    `json:"order_id"`
	TransactionID string    `json:"transaction_id"`
	Success       bool      `json:"success"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
