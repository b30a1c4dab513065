package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/orderstack/saga/internal/sagaerror"
	"github.com/orderstack/saga/model"
)

// RecordValidation inserts a validation record for the saga key. The unique
// constraint carries the processed-once guarantee; a duplicate key maps to
// the duplicate-transaction business error.
func (d Datasource) RecordValidation(ctx context.Context, vld *model.Validation) (*model.Validation, error) {
	vld.ValidationID = GenerateUUIDWithSuffix("vld")
	now := time.Now()
	vld.CreatedAt = now
	vld.UpdatedAt = now

	_, err := d.Conn.ExecContext(ctx,
		`INSERT INTO validations(validation_id,order_id,transaction_id,success,created_at,updated_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		vld.ValidationID, vld.OrderID, vld.TransactionID, vld.Success, vld.CreatedAt, vld.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, sagaerror.New(sagaerror.ErrDuplicateTransaction, "There is another transactionId for this validation!", err)
		}
		return nil, sagaerror.New(sagaerror.ErrTransport, "Failed to record validation", err)
	}

	return vld, nil
}

// ValidationExists is the idempotency guard check for the validation participant.
func (d Datasource) ValidationExists(ctx context.Context, orderID, transactionID string) (bool, error) {
	var exists bool
	err := d.Conn.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM validations WHERE order_id = $1 AND transaction_id = $2)
	`, orderID, transactionID).Scan(&exists)

	if err != nil {
		return false, sagaerror.New(sagaerror.ErrTransport, "Failed to check if validation exists", err)
	}

	return exists, nil
}

func (d Datasource) GetValidation(ctx context.Context, orderID, transactionID string) (*model.Validation, error) {
	row := d.Conn.QueryRowContext(ctx, `
		SELECT validation_id, order_id, transaction_id, success, created_at, updated_at
		FROM validations
		WHERE order_id = $1 AND transaction_id = $2
	`, orderID, transactionID)

	vld := &model.Validation{}
	err := row.Scan(&vld.ValidationID, &vld.OrderID, &vld.TransactionID, &vld.Success, &vld.CreatedAt, &vld.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sagaerror.New(sagaerror.ErrNotFound, "Validation not found by orderId and transactionId!", err)
		}
		return nil, sagaerror.New(sagaerror.ErrTransport, "Failed to retrieve validation", err)
	}

	return vld, nil
}

// UpdateValidationSuccess flips the validation outcome and restamps updated_at.
func (d Datasource) UpdateValidationSuccess(ctx context.Context, orderID, transactionID string, success bool) error {
	result, err := d.Conn.ExecContext(ctx, `
		UPDATE validations
		SET success = $3, updated_at = NOW()
		WHERE order_id = $1 AND transaction_id = $2
	`, orderID, transactionID, success)

	if err != nil {
		return sagaerror.New(sagaerror.ErrTransport, "Failed to update validation", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return sagaerror.New(sagaerror.ErrTransport, "Failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return sagaerror.New(sagaerror.ErrNotFound, "Validation not found by orderId and transactionId!", nil)
	}

	return nil
}
