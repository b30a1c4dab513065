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
package mocks

import (
	"context"

	"github.com/orderstack/saga/model"
	"github.com/stretchr/testify/mock"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

// Payment methods

func (m *MockDataSource) RecordPayment(ctx context.Context, pmt *model.Payment) (*model.Payment, error) {
	args := m.Called(ctx, pmt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockDataSource) PaymentExists(ctx context.Context, orderID, transactionID string) (bool, error) {
	args := m.Called(ctx, orderID, transactionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDataSource) GetPayment(ctx context.Context, orderID, transactionID string) (*model.Payment, error) {
	args := m.Called(ctx, orderID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockDataSource) UpdatePaymentStatus(ctx context.Context, orderID, transactionID string, status model.PaymentStatus) error {
	args := m.Called(ctx, orderID, transactionID, status)
	return args.Error(0)
}

// Validation methods

func (m *MockDataSource) RecordValidation(ctx context.Context, vld *model.Validation) (*model.Validation, error) {
	args := m.Called(ctx, vld)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Validation), args.Error(1)
}

func (m *MockDataSource) ValidationExists(ctx context.Context, orderID, transactionID string) (bool, error) {
	args := m.Called(ctx, orderID, transactionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDataSource) GetValidation(ctx context.Context, orderID, transactionID string) (*model.Validation, error) {
	args := m.Called(ctx, orderID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Validation), args.Error(1)
}

func (m *MockDataSource) UpdateValidationSuccess(ctx context.Context, orderID, transactionID string, success bool) error {
	args := m.Called(ctx, orderID, transactionID, success)
	return args.Error(0)
}

// Product methods

func (m *MockDataSource) ProductExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}
