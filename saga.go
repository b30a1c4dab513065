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

	"github.com/orderstack/saga/config"
	"github.com/orderstack/saga/database"
	"github.com/orderstack/saga/model"
)

// EventEmitter hands a finished envelope to the outbound message channel.
// Every processed inbound message produces exactly one emission, on success
// and failure paths alike.
type EventEmitter interface {
	Emit(ctx context.Context, event *model.Event) error
}

// Saga hosts the saga participants: the payment step and the product
// validation step, each with a forward path and a compensation path. The
// durable local store is the source of truth; the envelope is a projection
// of it for transport.
type Saga struct {
	queue      EventEmitter
	datasource database.IDataSource
}

// NewSaga initializes the participants with the provided datasource and the
// queue built from configuration.
func NewSaga(db database.IDataSource) (*Saga, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	newQueue := NewQueue(configuration)
	return &Saga{datasource: db, queue: newQueue}, nil
}

// handleSuccess composes the envelope for a completed forward step.
func handleSuccess(event *model.Event, source, message string) {
	event.Status = model.StatusSuccess
	event.Source = source
	event.AddHistory(message)
}

// handleFailCurrentNotExecuted composes the envelope for a failed forward
// step. ROLLBACK_PENDING tells the orchestrator the saga must unwind from
// this participant backward.
func handleFailCurrentNotExecuted(event *model.Event, source, message string) {
	event.Status = model.StatusRollbackPending
	event.Source = source
	event.AddHistory(message)
}
