package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SagaStatus is the saga-wide outcome as last written by a participant.
// The orchestrator reads it to decide the saga's next hop.
type SagaStatus string

const (
	StatusSuccess         SagaStatus = "SUCCESS"
	StatusFail            SagaStatus = "FAIL"
	StatusRollbackPending SagaStatus = "ROLLBACK_PENDING"
)

// IsValid reports whether the status is one of the closed set of saga statuses.
func (s SagaStatus) IsValid() bool {
	switch s {
	case StatusSuccess, StatusFail, StatusRollbackPending:
		return true
	}
	return false
}

// Product is a catalog item referenced by an order line.
type Product struct {
	Code      string          `json:"code"`
	UnitValue decimal.Decimal `json:"unit_value"`
}

// OrderProduct is a single order line: a product and the quantity ordered.
type OrderProduct struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Order is the domain payload carried by the event envelope. Participants
// enrich it with computed fields so downstream services do not recompute them.
type Order struct {
	OrderID     string          `json:"order_id"`
	Products    []OrderProduct  `json:"products"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalItems  int             `json:"total_items"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
}

// WithTotals returns a copy of the payload with the computed totals set.
// The envelope payload is passed by value through each stage, never mutated
// in place.
func (o Order) WithTotals(amount decimal.Decimal, items int) Order {
	o.TotalAmount = amount
	o.TotalItems = items
	return o
}

// History is a single audit entry on the envelope. Immutable once appended.
type History struct {
	Source    string     `json:"source"`
	Status    SagaStatus `json:"status"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
}

// Event is the envelope relayed between saga participants. OrderID and
// TransactionID together identify the saga instance; History grows
// append-only, one entry per participant action.
type Event struct {
	OrderID       string     `json:"order_id"`
	TransactionID string     `json:"transaction_id"`
	Payload       Order      `json:"payload"`
	Status        SagaStatus `json:"status"`
	Source        string     `json:"source"`
	History       []History  `json:"event_history"`
	CreatedAt     time.Time  `json:"created_at"`
}

// AddHistory appends an audit entry stamped with the envelope's current
// source and status.
func (e *Event) AddHistory(message string) {
	e.History = append(e.History, History{
		Source:    e.Source,
		Status:    e.Status,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes an envelope from the wire. A decode failure means
// the message is unprocessable: nothing can be emitted back for it.
func EventFromJSON(data []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
