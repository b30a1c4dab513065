package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the payment participant's local status, distinct from the
// envelope's saga-wide status.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentSuccess  PaymentStatus = "SUCCESS"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Payment is the payment participant's durable record of its saga step,
// keyed by (order_id, transaction_id). It is never deleted; compensation is
// recorded as a status update, not a rewrite.
type Payment struct {
	ID            int64           `json:"-"`
	PaymentID     string          `json:"payment_id"`
	OrderID       string          `json:"order_id"`
	TransactionID string          `json:"transaction_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalItems    int             `json:"total_items"`
	Status        PaymentStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
