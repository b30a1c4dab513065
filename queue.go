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
	"errors"
	"fmt"
	"log"

	"github.com/cenkalti/backoff/v4"
	"github.com/hibiken/asynq"

	"github.com/orderstack/saga/config"
	redis_db "github.com/orderstack/saga/internal/redis-db"
	"github.com/orderstack/saga/internal/sagaerror"
	"github.com/orderstack/saga/model"
)

const emitMaxRetries = 3

// Queue publishes finished envelopes to the orchestrator topic on the
// Redis-backed bus.
type Queue struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
}

// NewQueue initializes a new Queue instance with the provided configuration.
func NewQueue(conf *config.Configuration) *Queue {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		log.Fatalf("Error parsing Redis URL: %v", err)
	}

	queueOptions := asynq.RedisClientOpt{Addr: redisOption.Addr, Password: redisOption.Password, DB: redisOption.DB, TLSConfig: redisOption.TLSConfig}
	client := asynq.NewClient(queueOptions)
	inspector := asynq.NewInspector(queueOptions)
	return &Queue{
		Client:    client,
		Inspector: inspector,
	}
}

// Emit enqueues the envelope for the orchestrator. The task id is derived
// from the emitting participant and the saga key, so a redelivered inbound
// message that reproduces the same outcome is deduplicated by the bus.
// Transient enqueue failures are retried with bounded backoff; retry policy
// lives at this transport boundary, not in the participant core.
func (q *Queue) Emit(ctx context.Context, event *model.Event) error {
	cfg, err := config.Fetch()
	if err != nil {
		return err
	}

	payload, err := event.ToJSON()
	if err != nil {
		return err
	}

	taskID := fmt.Sprintf("%s_%s_%s", event.Source, event.OrderID, event.TransactionID)
	taskOptions := []asynq.Option{
		asynq.TaskID(taskID),
		asynq.Queue(cfg.Queue.OrchestratorQueue),
	}
	task := asynq.NewTask(cfg.Queue.OrchestratorQueue, payload, taskOptions...)

	operation := func() error {
		_, enqueueErr := q.Client.EnqueueContext(ctx, task)
		if errors.Is(enqueueErr, asynq.ErrTaskIDConflict) {
			// Same outcome already on the bus.
			return nil
		}
		return enqueueErr
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), emitMaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return sagaerror.New(sagaerror.ErrTransport, "Failed to emit saga event", err)
	}

	log.Printf(" [*] Successfully emitted saga event: %s", taskID)
	return nil
}
