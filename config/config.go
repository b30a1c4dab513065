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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_MINIMUM_AMOUNT = "0.1"
)

var ConfigStore atomic.Value

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"SAGA_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"SAGA_REDIS_DNS"`
}

// QueueConfig names the topics this participant pair consumes and the
// orchestrator topic it emits to.
type QueueConfig struct {
	OrchestratorQueue             string `json:"orchestrator_queue" envconfig:"SAGA_QUEUE_ORCHESTRATOR"`
	PaymentSuccessQueue           string `json:"payment_success_queue" envconfig:"SAGA_QUEUE_PAYMENT_SUCCESS"`
	PaymentFailQueue              string `json:"payment_fail_queue" envconfig:"SAGA_QUEUE_PAYMENT_FAIL"`
	ProductValidationSuccessQueue string `json:"product_validation_success_queue" envconfig:"SAGA_QUEUE_PRODUCT_VALIDATION_SUCCESS"`
	ProductValidationFailQueue    string `json:"product_validation_fail_queue" envconfig:"SAGA_QUEUE_PRODUCT_VALIDATION_FAIL"`
}

type PaymentConfig struct {
	MinimumAmount string `json:"minimum_amount" envconfig:"SAGA_PAYMENT_MINIMUM_AMOUNT"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"SAGA_SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type Configuration struct {
	ProjectName  string           `json:"project_name" envconfig:"SAGA_PROJECT_NAME"`
	DataSource   DataSourceConfig `json:"data_source"`
	Redis        RedisConfig      `json:"redis"`
	Queue        QueueConfig      `json:"queue"`
	Payment      PaymentConfig    `json:"payment"`
	Notification Notification     `json:"notification"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("saga", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called saga.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Saga Participants"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Queue.OrchestratorQueue == "" {
		cnf.Queue.OrchestratorQueue = "orchestrator"
	}
	if cnf.Queue.PaymentSuccessQueue == "" {
		cnf.Queue.PaymentSuccessQueue = "payment_success"
	}
	if cnf.Queue.PaymentFailQueue == "" {
		cnf.Queue.PaymentFailQueue = "payment_fail"
	}
	if cnf.Queue.ProductValidationSuccessQueue == "" {
		cnf.Queue.ProductValidationSuccessQueue = "product_validation_success"
	}
	if cnf.Queue.ProductValidationFailQueue == "" {
		cnf.Queue.ProductValidationFailQueue = "product_validation_fail"
	}

	if cnf.Payment.MinimumAmount == "" {
		log.Printf("Warning: Minimum amount not specified. Setting default value: %s", DEFAULT_MINIMUM_AMOUNT)
		cnf.Payment.MinimumAmount = DEFAULT_MINIMUM_AMOUNT
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	_ = mockConfig.validateAndAddDefaults()
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
