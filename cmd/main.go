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
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	saga "github.com/orderstack/saga"
	"github.com/orderstack/saga/config"
	"github.com/orderstack/saga/database"
	"github.com/orderstack/saga/internal/notification"
)

// CLI encapsulates the root Cobra command.
type CLI struct {
	cmd *cobra.Command
}

// sagaInstance holds the participant service and its configuration, shared
// by all subcommands.
type sagaInstance struct {
	saga *saga.Saga
	cnf  *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error using Logrus.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads configuration and initializes the participant service before
// any command runs.
func preRun(app *sagaInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("saga.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newSaga, err := setupSaga(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.saga = newSaga
		app.cnf = cnf

		return nil
	}
}

// setupSaga connects the datasource and builds the participant service.
func setupSaga(cfg *config.Configuration) (*saga.Saga, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	newSaga, err := saga.NewSaga(db)
	if err != nil {
		return nil, fmt.Errorf("error creating saga participants: %v", err)
	}
	return newSaga, nil
}

// NewCLI creates the command-line interface for the saga participants.
func NewCLI() *CLI {
	var configFile string
	b := &sagaInstance{}

	var rootCmd = &cobra.Command{
		Use:   "saga",
		Short: "Choreographed saga participants",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./saga.json", "Configuration file for the saga participants")

	rootCmd.PersistentPreRunE = preRun(b)

	rootCmd.AddCommand(workerCommands(b))

	return &CLI{cmd: rootCmd}
}

func (w CLI) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
