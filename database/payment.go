package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/orderstack/saga/internal/sagaerror"
	"github.com/orderstack/saga/model"
)

const paymentCacheTTL = 5 * time.Minute

func paymentCacheKey(orderID, transactionID string) string {
	return fmt.Sprintf("payment:%s:%s", orderID, transactionID)
}

// RecordPayment inserts a new pending payment. Lifecycle fields (id, status,
// timestamps) are assigned here, not by the caller. A unique violation on the
// (order_id, transaction_id) key is surfaced as the duplicate-transaction
// business error so concurrent duplicate envelopes have exactly one winner.
func (d Datasource) RecordPayment(ctx context.Context, pmt *model.Payment) (*model.Payment, error) {
	pmt.PaymentID = GenerateUUIDWithSuffix("pmt")
	pmt.Status = model.PaymentPending
	now := time.Now()
	pmt.CreatedAt = now
	pmt.UpdatedAt = now

	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO payments(payment_id,order_id,transaction_id,total_amount,total_items,status,created_at,updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		pmt.PaymentID, pmt.OrderID, pmt.TransactionID, pmt.TotalAmount, pmt.TotalItems, pmt.Status, pmt.CreatedAt, pmt.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, sagaerror.New(sagaerror.ErrDuplicateTransaction, "There is another transactionId for this payment!", err)
		}
		return nil, sagaerror.New(sagaerror.ErrTransport, "Failed to record payment", err)
	}

	if d.Cache != nil {
		_ = d.Cache.Set(ctx, paymentCacheKey(pmt.OrderID, pmt.TransactionID), true, paymentCacheTTL)
	}

	return pmt, nil
}

// PaymentExists is the idempotency guard check for the payment participant.
// The cache is a fast path only; a miss always falls through to the store.
func (d Datasource) PaymentExists(ctx context.Context, orderID, transactionID string) (bool, error) {
	if d.Cache != nil {
		var cached bool
		if err := d.Cache.Get(ctx, paymentCacheKey(orderID, transactionID), &cached); err == nil && cached {
			return true, nil
		}
	}

	var exists bool
	err := d.Conn.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM payments WHERE order_id = $1 AND transaction_id = $2)
	`, orderID, transactionID).Scan(&exists)

	if err != nil {
		return false, sagaerror.New(sagaerror.ErrTransport, "Failed to check if payment exists", err)
	}

	if exists && d.Cache != nil {
		_ = d.Cache.Set(ctx, paymentCacheKey(orderID, transactionID), true, paymentCacheTTL)
	}

	return exists, nil
}

func (d Datasource) GetPayment(ctx context.Context, orderID, transactionID string) (*model.Payment, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT payment_id, order_id, transaction_id, total_amount, total_items, status, created_at, updated_at
		FROM payments
		WHERE order_id = $1 AND transaction_id = $2
	`, orderID, transactionID)

	pmt := &model.Payment{}
	err := row.Scan(&pmt.PaymentID, &pmt.OrderID, &pmt.TransactionID, &pmt.TotalAmount, &pmt.TotalItems, &pmt.Status, &pmt.CreatedAt, &pmt.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sagaerror.New(sagaerror.ErrNotFound, "Payment not found by orderId and transactionId!", err)
		}
		return nil, sagaerror.New(sagaerror.ErrTransport, "Failed to retrieve payment", err)
	}

	return pmt, nil
}

// UpdatePaymentStatus moves the payment to a terminal status and restamps
// updated_at. The prior status is not rewritten anywhere else; the row is the
// participant's ledger entry for the saga step.
func (d Datasource) UpdatePaymentStatus(ctx context.Context, orderID, transactionID string, status model.PaymentStatus) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE payments
		SET status = $3, updated_at = NOW()
		WHERE order_id = $1 AND transaction_id = $2
	`, orderID, transactionID, status)

	if err != nil {
		return sagaerror.New(sagaerror.ErrTransport, "Failed to update payment status", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return sagaerror.New(sagaerror.ErrTransport, "Failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return sagaerror.New(sagaerror.ErrNotFound, "Payment not found by orderId and transactionId!", nil)
	}

	return nil
}
