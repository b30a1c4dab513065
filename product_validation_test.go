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
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/orderstack/saga/internal/sagaerror"
	"github.com/orderstack/saga/model"
)

func validationEvent() *model.Event {
	return &model.Event{
		OrderID:       "order_1",
		TransactionID: "txn_1",
		Payload: model.Order{
			OrderID: "order_1",
			Products: []model.OrderProduct{
				{Product: model.Product{Code: "COMIC_BOOKS", UnitValue: decimal.NewFromFloat(10.0)}, Quantity: 2},
				{Product: model.Product{Code: "BOOKS", UnitValue: decimal.NewFromFloat(5.0)}, Quantity: 1},
			},
		},
		Status: model.StatusSuccess,
		Source: "ORCHESTRATOR",
	}
}

func TestValidateProductsSuccess(t *testing.T) {
	s, ds, emitter := newTestSaga(t)
	event := validationEvent()

	ds.On("ValidationExists", mock.Anything, "order_1", "txn_1").Return(false, nil)
	ds.On("ProductExistsByCode", mock.Anything, "COMIC_BOOKS").Return(true, nil)
	ds.On("ProductExistsByCode", mock.Anything, "BOOKS").Return(true, nil)
	ds.On("RecordValidation", mock.Anything, mock.AnythingOfType("*model.Validation")).Return(&model.Validation{}, nil)

	result, err := s.ValidateProducts(context.Background(), event)
	assert.NoError(t, err)

	assert.Equal(t, model.StatusSuccess, result.Status)
	assert.Equal(t, SourceProductValidation, result.Source)
	assert.Equal(t, "Products are validated successfully!", result.History[len(result.History)-1].Message)
	assert.Len(t, emitter.emitted, 1)

	recorded := ds.Calls[len(ds.Calls)-1].Arguments.Get(1).(*model.Validation)
	assert.True(t, recorded.Success)
	ds.AssertExpectations(t)
}

func TestValidateProductsUnknownProduct(t *testing.T) {
	s, ds, emitter := newTestSaga(t)
	event := validationEvent()

	ds.On("ValidationExists", mock.Anything, "order_1", "txn_1").Return(false, nil)
	ds.On("ProductExistsByCode", mock.Anything, "COMIC_BOOKS").Return(true, nil)
	ds.On("ProductExistsByCode", mock.Anything, "BOOKS").Return(false, nil)

	result, err := s.ValidateProducts(context.Background(), event)
	assert.NoError(t, err)

	assert.Equal(t, model.StatusRollbackPending, result.Status)
	assert.Contains(t, result.History[len(result.History)-1].Message, "Product with code BOOKS does not exist in database!")
	assert.Len(t, emitter.emitted, 1)
	ds.AssertNotCalled(t, "RecordValidation", mock.Anything, mock.Anything)
}

func TestValidateProductsProductNotInformed(t *testing.T) {
	s, ds, emitter := newTestSaga(t)
	event := validationEvent()
	event.Payload.Products[0].Product.Code = ""

	ds.On("ValidationExists", mock.Anything, "order_1", "txn_1").Return(false, nil)

	result, err := s.ValidateProducts(context.Background(), event)
	assert.NoError(t, err)

	assert.Equal(t, model.StatusRollbackPending, result.Status)
	assert.Contains(t, result.History[len(result.History)-1].Message, "Product must be informed!")
	assert.Len(t, emitter.emitted, 1)
	ds.AssertNotCalled(t, "ProductExistsByCode", mock.Anything, mock.Anything)
}

func TestValidateProductsEmptyList(t *testing.T) {
	s, ds, emitter := newTestSaga(t)
	event := validationEvent()
	event.Payload.Products = nil

	result, err := s.ValidateProducts(context.Background(), event)
	assert.NoError(t, err)

	assert.Equal(t, model.StatusRollbackPending, result.Status)
	assert.Contains(t, result.History[len(result.History)-1].Message, "Product list is empty!")
	assert.Len(t, emitter.emitted, 1)
	ds.AssertNotCalled(t, "ValidationExists", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateProductsMissingIdentity(t *testing.T) {
	s, _, emitter := newTestSaga(t)
	event := validationEvent()
	event.TransactionID = ""

	result, err := s.ValidateProducts(context.Background(), event)
	assert.NoError(t, err)

	assert.Equal(t, model.StatusRollbackPending, result.Status)
	assert.Contains(t, result.History[len(result.History)-1].Message, "OrderId and TransactionId must be informed!")
	assert.Len(t, emitter.emitted, 1)
}

func TestValidateProductsDuplicateTransaction(t *testing.T) {
	s, ds, emitter := newTestSaga(t)
	event := validationEvent()

	ds.On("ValidationExists", mock.Anything, "order_1", "txn_1").Return(true, nil)

	result, err := s.ValidateProducts(context.Background(), event)
	assert.NoError(t, err)

	assert.Equal(t, model.StatusRollbackPending, result.Status)
	assert.Contains(t, result.History[len(result.History)-1].Message, "There is another transactionId for this validation!")
	assert.Len(t, emitter.emitted, 1)
	ds.AssertNotCalled(t, "RecordValidation", mock.Anything, mock.Anything)
}

func TestRollbackProducts(t *testing.T) {
	s, ds, emitter := newTestSaga(t)
	event := validationEvent()

	ds.On("UpdateValidationSuccess", mock.Anything, "order_1", "txn_1", false).Return(nil)

	result, err := s.RollbackProducts(context.Background(), event)
	assert.NoError(t, err)

	assert.Equal(t, model.StatusFail, result.Status)
	assert.Equal(t, SourceProductValidation, result.Source)
	assert.Equal(t, "Rollback executed on product validation!", result.History[len(result.History)-1].Message)
	assert.Len(t, emitter.emitted, 1)
	ds.AssertExpectations(t)
}

func TestRollbackProductsWithoutPriorRecord(t *testing.T) {
	s, ds, emitter := newTestSaga(t)
	event := validationEvent()

	ds.On("UpdateValidationSuccess", mock.Anything, "order_1", "txn_1", false).
		Return(sagaerror.New(sagaerror.ErrNotFound, "Validation not found by orderId and transactionId!", nil))
	ds.On("RecordValidation", mock.Anything, mock.AnythingOfType("*model.Validation")).Return(&model.Validation{}, nil)

	result, err := s.RollbackProducts(context.Background(), event)
	assert.NoError(t, err)

	assert.Equal(t, model.StatusFail, result.Status)
	assert.Equal(t, "Rollback executed on product validation!", result.History[len(result.History)-1].Message)
	assert.Len(t, emitter.emitted, 1)

	recorded := ds.Calls[len(ds.Calls)-1].Arguments.Get(1).(*model.Validation)
	assert.False(t, recorded.Success)
}

func TestRollbackProductsStoreFailureStillEmitsFail(t *testing.T) {
	s, ds, emitter := newTestSaga(t)
	event := validationEvent()

	ds.On("UpdateValidationSuccess", mock.Anything, "order_1", "txn_1", false).
		Return(sagaerror.New(sagaerror.ErrTransport, "Failed to update validation", nil))

	result, err := s.RollbackProducts(context.Background(), event)
	assert.NoError(t, err)

	assert.Equal(t, model.StatusFail, result.Status)
	assert.Contains(t, result.History[len(result.History)-1].Message, "Rollback not executed on product validation!")
	assert.Len(t, emitter.emitted, 1)
}
