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

package main

import (
	"context"
	"fmt"
	"log"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/orderstack/saga/config"
	redis_db "github.com/orderstack/saga/internal/redis-db"
	"github.com/orderstack/saga/model"

	"github.com/hibiken/asynq"
)

// decodeEvent unmarshals an inbound envelope. A decode failure is fatal for
// the message: the envelope cannot be constructed, so nothing can be emitted
// back, and retrying the same bytes cannot succeed.
func decodeEvent(t *asynq.Task) (*model.Event, error) {
	event, err := model.EventFromJSON(t.Payload())
	if err != nil {
		logrus.Errorf("undecodable saga event dropped: %v", err)
		return nil, fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return event, nil
}

// handleRealizePayment consumes the payment participant's forward topic.
func (b *sagaInstance) handleRealizePayment(ctx context.Context, t *asynq.Task) error {
	event, err := decodeEvent(t)
	if err != nil {
		return err
	}

	if _, err := b.saga.RealizePayment(ctx, event); err != nil {
		return err
	}

	log.Println(" [*] Payment step processed", event.TransactionID)
	return nil
}

// handleRefundPayment consumes the payment participant's rollback topic.
func (b *sagaInstance) handleRefundPayment(ctx context.Context, t *asynq.Task) error {
	event, err := decodeEvent(t)
	if err != nil {
		return err
	}

	if _, err := b.saga.RefundPayment(ctx, event); err != nil {
		return err
	}

	log.Println(" [*] Payment rollback processed", event.TransactionID)
	return nil
}

// handleValidateProducts consumes the validation participant's forward topic.
func (b *sagaInstance) handleValidateProducts(ctx context.Context, t *asynq.Task) error {
	event, err := decodeEvent(t)
	if err != nil {
		return err
	}

	if _, err := b.saga.ValidateProducts(ctx, event); err != nil {
		return err
	}

	log.Println(" [*] Product validation step processed", event.TransactionID)
	return nil
}

// handleRollbackProducts consumes the validation participant's rollback topic.
func (b *sagaInstance) handleRollbackProducts(ctx context.Context, t *asynq.Task) error {
	event, err := decodeEvent(t)
	if err != nil {
		return err
	}

	if _, err := b.saga.RollbackProducts(ctx, event); err != nil {
		return err
	}

	log.Println(" [*] Product validation rollback processed", event.TransactionID)
	return nil
}

func initializeQueues() map[string]int {
	cfg, err := config.Fetch()
	if err != nil {
		log.Printf("Error fetching config, using defaults: %v", err)
		return nil
	}

	queues := make(map[string]int)
	queues[cfg.Queue.PaymentSuccessQueue] = 1
	queues[cfg.Queue.PaymentFailQueue] = 1
	queues[cfg.Queue.ProductValidationSuccessQueue] = 1
	queues[cfg.Queue.ProductValidationFailQueue] = 1
	return queues
}

func initializeWorkerServer(conf *config.Configuration, queues map[string]int) (*asynq.Server, error) {
	redisOption, err := redis_db.ParseRedisURL(conf.Redis.Dns)
	if err != nil {
		return nil, fmt.Errorf("error parsing Redis URL: %v", err)
	}

	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:      redisOption.Addr,
			Password:  redisOption.Password,
			DB:        redisOption.DB,
			TLSConfig: redisOption.TLSConfig,
		},
		asynq.Config{
			Concurrency: 10,
			Queues:      queues,
		},
	), nil
}

func initializeTaskHandlers(b *sagaInstance, mux *asynq.ServeMux) {
	cfg, err := config.Fetch()
	if err != nil {
		log.Printf("Error fetching config, using defaults: %v", err)
		return
	}

	mux.HandleFunc(cfg.Queue.PaymentSuccessQueue, b.handleRealizePayment)
	mux.HandleFunc(cfg.Queue.PaymentFailQueue, b.handleRefundPayment)
	mux.HandleFunc(cfg.Queue.ProductValidationSuccessQueue, b.handleValidateProducts)
	mux.HandleFunc(cfg.Queue.ProductValidationFailQueue, b.handleRollbackProducts)
}

// workerCommands defines the "workers" command that consumes the saga topics.
func workerCommands(b *sagaInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workers",
		Short: "start saga participant workers",
		Run: func(cmd *cobra.Command, args []string) {
			conf, err := config.Fetch()
			if err != nil {
				log.Fatal("Error fetching config:", err)
			}

			queues := initializeQueues()

			srv, err := initializeWorkerServer(conf, queues)
			if err != nil {
				log.Fatal(err)
			}

			mux := asynq.NewServeMux()
			initializeTaskHandlers(b, mux)

			if err := srv.Run(mux); err != nil {
				log.Fatalf("could not run server: %v", err)
			}
		},
	}

	return cmd
}
