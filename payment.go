/*
Copyright 2024 Orderstack Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package saga

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/orderstack/saga/config"
	"github.com/orderstack/saga/internal/notification"
	"github.com/orderstack/saga/internal/sagaerror"
	"github.com/orderstack/saga/model"
)

// SourcePayment identifies the payment participant on envelopes it writes.
const SourcePayment = "PAYMENT_SERVICE"

// RealizePayment is the payment participant's forward step. Any failure in
// the pipeline short-circuits to the failure branch: the envelope is marked
// ROLLBACK_PENDING with the error recorded in history, and is emitted all
// the same. Only an emission failure escalates to the caller.
func (s *Saga) RealizePayment(ctx context.Context, event *model.Event) (*model.Event, error) {
	if err := s.executePayment(ctx, event); err != nil {
		logrus.Errorf("error trying to realize payment: %v", err)
		handleFailCurrentNotExecuted(event, SourcePayment, fmt.Sprintf("Fail to realize payment: %s", sagaerror.Message(err)))
	}

	if err := s.queue.Emit(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *Saga) executePayment(ctx context.Context, event *model.Event) error {
	if err := validateOrderPayload(event); err != nil {
		return err
	}

	// Guard before any local write. A duplicate is a protocol violation
	// surfaced to the orchestrator, not a silent skip.
	exists, err := s.datasource.PaymentExists(ctx, event.OrderID, event.TransactionID)
	if err != nil {
		return err
	}
	if exists {
		return sagaerror.New(sagaerror.ErrDuplicateTransaction, "There is another transactionId for this payment!", nil)
	}

	totalAmount, totalItems := orderTotals(event.Payload)
	pending := &model.Payment{
		OrderID:       event.OrderID,
		TransactionID: event.TransactionID,
		TotalAmount:   totalAmount,
		TotalItems:    totalItems,
	}
	if _, err := s.datasource.RecordPayment(ctx, pending); err != nil {
		return err
	}

	event.Payload = event.Payload.WithTotals(totalAmount, totalItems)

	// Re-fetch before finalizing; the stored row is the source of truth.
	stored, err := s.datasource.GetPayment(ctx, event.OrderID, event.TransactionID)
	if err != nil {
		return err
	}

	if err := validateMinimumAmount(stored.TotalAmount); err != nil {
		return err
	}

	if err := s.datasource.UpdatePaymentStatus(ctx, event.OrderID, event.TransactionID, model.PaymentSuccess); err != nil {
		return err
	}

	handleSuccess(event, SourcePayment, "Payment realized successfully!")
	return nil
}

// RefundPayment is the payment participant's compensation step. The envelope
// always goes out as FAIL: a local refund failure is recorded in history and
// pushed to the operator channel, but never blocks the rollback chain.
func (s *Saga) RefundPayment(ctx context.Context, event *model.Event) (*model.Event, error) {
	event.Status = model.StatusFail
	event.Source = SourcePayment

	if err := s.refundPayment(ctx, event); err != nil {
		logrus.Errorf("rollback not executed for payment: %v", err)
		event.AddHistory(fmt.Sprintf("Rollback not executed for payment! %s", sagaerror.Message(err)))
		notification.NotifyError(err)
	} else {
		event.AddHistory("Rollback executed for payment!")
	}

	if err := s.queue.Emit(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *Saga) refundPayment(ctx context.Context, event *model.Event) error {
	pmt, err := s.datasource.GetPayment(ctx, event.OrderID, event.TransactionID)
	if err != nil {
		return err
	}
	event.Payload = event.Payload.WithTotals(pmt.TotalAmount, pmt.TotalItems)
	return s.datasource.UpdatePaymentStatus(ctx, event.OrderID, event.TransactionID, model.PaymentRefunded)
}

// orderTotals derives the payment totals from the order lines.
func orderTotals(payload model.Order) (decimal.Decimal, int) {
	totalAmount := decimal.Zero
	totalItems := 0
	for _, line := range payload.Products {
		quantity := decimal.NewFromInt(int64(line.Quantity))
		totalAmount = totalAmount.Add(line.Product.UnitValue.Mul(quantity))
		totalItems += line.Quantity
	}
	return totalAmount, totalItems
}

func validateMinimumAmount(amount decimal.Decimal) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}
	minimum, err := decimal.NewFromString(cfg.Payment.MinimumAmount)
	if err != nil {
		return sagaerror.New(sagaerror.ErrTransport, "Invalid minimum amount configured", err)
	}
	if amount.LessThan(minimum) {
		return sagaerror.New(sagaerror.ErrValidation, fmt.Sprintf("The minimum amount value is %s", minimum.String()), nil)
	}
	return nil
}
