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
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/orderstack/saga/internal/sagaerror"
	"github.com/orderstack/saga/model"
)

// validateOrderPayload runs the structural checks shared by both
// participants. Checks run one at a time and the first failing check wins:
// saga steps are all-or-nothing per participant, so there is nothing to
// aggregate.
func validateOrderPayload(event *model.Event) error {
	if err := validation.Validate(event.Payload.Products,
		validation.Required.Error("Product list is empty!"),
	); err != nil {
		return sagaerror.New(sagaerror.ErrValidation, err.Error(), nil)
	}

	if err := validation.Validate(event.OrderID,
		validation.Required.Error("OrderId and TransactionId must be informed!"),
	); err != nil {
		return sagaerror.New(sagaerror.ErrValidation, err.Error(), nil)
	}

	if err := validation.Validate(event.TransactionID,
		validation.Required.Error("OrderId and TransactionId must be informed!"),
	); err != nil {
		return sagaerror.New(sagaerror.ErrValidation, err.Error(), nil)
	}

	return nil
}

// validateProductInformed checks a single order line names a product.
func validateProductInformed(line model.OrderProduct) error {
	if err := validation.Validate(line.Product.Code,
		validation.Required.Error("Product must be informed!"),
	); err != nil {
		return sagaerror.New(sagaerror.ErrValidation, err.Error(), nil)
	}
	return nil
}
