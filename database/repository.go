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

package database

import (
	"context"

	"github.com/orderstack/saga/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	payment    // Interface for payment-record operations
	validation // Interface for validation-record operations
	product    // Interface for product catalog lookups
}

// payment defines methods for the payment participant's local state store.
type payment interface {
	RecordPayment(ctx context.Context, pmt *model.Payment) (*model.Payment, error)                               // Inserts a new pending payment; fails on a duplicate (order, transaction) key
	PaymentExists(ctx context.Context, orderID, transactionID string) (bool, error)                              // Idempotency guard check
	GetPayment(ctx context.Context, orderID, transactionID string) (*model.Payment, error)                       // Retrieves a payment by its saga key
	UpdatePaymentStatus(ctx context.Context, orderID, transactionID string, status model.PaymentStatus) error    // Moves a payment to a terminal status
}

// validation defines methods for the product validation participant's local state store.
type validation interface {
	RecordValidation(ctx context.Context, vld *model.Validation) (*model.Validation, error)           // Inserts a new validation record; fails on a duplicate key
	ValidationExists(ctx context.Context, orderID, transactionID string) (bool, error)                // Idempotency guard check
	GetValidation(ctx context.Context, orderID, transactionID string) (*model.Validation, error)      // Retrieves a validation by its saga key
	UpdateValidationSuccess(ctx context.Context, orderID, transactionID string, success bool) error   // Flips the validation outcome
}

// product defines methods for the catalog the validation participant owns.
type product interface {
	ProductExistsByCode(ctx context.Context, code string) (bool, error) // Checks a referenced product exists
}
