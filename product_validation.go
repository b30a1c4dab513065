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

	"github.com/sirupsen/logrus"

	"github.com/orderstack/saga/internal/notification"
	"github.com/orderstack/saga/internal/sagaerror"
	"github.com/orderstack/saga/model"
)

// SourceProductValidation identifies the catalog participant on envelopes it writes.
const SourceProductValidation = "PRODUCT_VALIDATION_SERVICE"

// ValidateProducts is the catalog participant's forward step: every product
// referenced by the order must exist in this participant's own catalog.
func (s *Saga) ValidateProducts(ctx context.Context, event *model.Event) (*model.Event, error) {
	if err := s.executeProductValidation(ctx, event); err != nil {
		logrus.Errorf("error trying to validate products: %v", err)
		handleFailCurrentNotExecuted(event, SourceProductValidation, fmt.Sprintf("Fail to validate products: %s", sagaerror.Message(err)))
	}

	if err := s.queue.Emit(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *Saga) executeProductValidation(ctx context.Context, event *model.Event) error {
	if err := validateOrderPayload(event); err != nil {
		return err
	}

	exists, err := s.datasource.ValidationExists(ctx, event.OrderID, event.TransactionID)
	if err != nil {
		return err
	}
	if exists {
		return sagaerror.New(sagaerror.ErrDuplicateTransaction, "There is another transactionId for this validation!", nil)
	}

	for _, line := range event.Payload.Products {
		if err := validateProductInformed(line); err != nil {
			return err
		}
		found, err := s.datasource.ProductExistsByCode(ctx, line.Product.Code)
		if err != nil {
			return err
		}
		if !found {
			return sagaerror.New(sagaerror.ErrValidation, fmt.Sprintf("Product with code %s does not exist in database!", line.Product.Code), nil)
		}
	}

	record := &model.Validation{
		OrderID:       event.OrderID,
		TransactionID: event.TransactionID,
		Success:       true,
	}
	if _, err := s.datasource.RecordValidation(ctx, record); err != nil {
		return err
	}

	handleSuccess(event, SourceProductValidation, "Products are validated successfully!")
	return nil
}

// RollbackProducts is the catalog participant's compensation step. When no
// record exists the participant never reached its local write; a failed
// record is created as the durable audit entry and the rollback proceeds.
func (s *Saga) RollbackProducts(ctx context.Context, event *model.Event) (*model.Event, error) {
	event.Status = model.StatusFail
	event.Source = SourceProductValidation

	if err := s.invalidateProducts(ctx, event); err != nil {
		logrus.Errorf("rollback not executed for product validation: %v", err)
		event.AddHistory(fmt.Sprintf("Rollback not executed on product validation! %s", sagaerror.Message(err)))
		notification.NotifyError(err)
	} else {
		event.AddHistory("Rollback executed on product validation!")
	}

	if err := s.queue.Emit(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *Saga) invalidateProducts(ctx context.Context, event *model.Event) error {
	err := s.datasource.UpdateValidationSuccess(ctx, event.OrderID, event.TransactionID, false)
	if sagaerror.Is(err, sagaerror.ErrNotFound) {
		record := &model.Validation{
			OrderID:       event.OrderID,
			TransactionID: event.TransactionID,
			Success:       false,
		}
		_, err = s.datasource.RecordValidation(ctx, record)
	}
	return err
}
