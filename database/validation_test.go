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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/orderstack/saga/internal/sagaerror"
	"github.com/orderstack/saga/model"
)

func TestRecordValidation_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	validation := &model.Validation{
		OrderID:       "order_1",
		TransactionID: "txn_1",
		Success:       true,
	}

	mock.ExpectExec("INSERT INTO validations").
		WithArgs(sqlmock.AnyArg(), validation.OrderID, validation.TransactionID, validation.Success, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	result, err := ds.RecordValidation(context.Background(), validation)
	assert.NoError(t, err)
	assert.NotEmpty(t, result.ValidationID)
	assert.False(t, result.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordValidation_DuplicateKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectExec("INSERT INTO validations").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "validations_order_id_transaction_id_key"})

	_, err = ds.RecordValidation(context.Background(), &model.Validation{
		OrderID:       "order_1",
		TransactionID: "txn_1",
		Success:       true,
	})
	assert.Error(t, err)
	assert.True(t, sagaerror.Is(err, sagaerror.ErrDuplicateTransaction))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidationExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("order_1", "txn_1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := ds.ValidationExists(context.Background(), "order_1", "txn_1")
	assert.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetValidation_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}
	now := time.Now()

	rows := sqlmock.NewRows([]string{"validation_id", "order_id", "transaction_id", "success", "created_at", "updated_at"}).
		AddRow("vld_abc", "order_1", "txn_1", true, now, now)

	mock.ExpectQuery("SELECT validation_id, order_id, transaction_id").
		WithArgs("order_1", "txn_1").
		WillReturnRows(rows)

	validation, err := ds.GetValidation(context.Background(), "order_1", "txn_1")
	assert.NoError(t, err)
	assert.Equal(t, "vld_abc", validation.ValidationID)
	assert.True(t, validation.Success)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateValidationSuccess_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer func() { _ = db.Close() }()

	ds := Datasource{Conn: db}

	mock.ExpectExec("UPDATE validations").
		WithArgs("order_1", "missing", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = ds.UpdateValidationSuccess(context.Background(), "order_1", "missing", false)
	assert.Error(t, err)
	assert.True(t, sagaerror.Is(err, sagaerror.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
