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

package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/orderstack/saga/config"
)

// SlackNotification sends an error message to the configured Slack webhook.
// Used to put partial-compensation failures in front of an operator instead
// of leaving them buried in the envelope history.
func SlackNotification(err error) {
	data := json.RawMessage(fmt.Sprintf(`{
		"blocks": [
			{
				"type": "header",
				"text": {
					"type": "plain_text",
					"text": "Saga participant error 🐞",
					"emoji": true
				}
			},
			{
				"type": "section",
				"fields": [
					{
						"type": "mrkdwn",
						"text": "*Error:*\n%v"
					}
				]
			},
			{
				"type": "section",
				"fields": [
					{
						"type": "mrkdwn",
						"text": "*Time:*\n%v"
					}
				]
			}
		]
	}`, err.Error(), time.Now().Format(time.RFC822)))

	conf, confErr := config.Fetch()
	if confErr != nil {
		logrus.Error(confErr)
		return
	}

	if conf.Notification.Slack.WebhookUrl == "" {
		return
	}

	payload, marshalErr := json.Marshal(data)
	if marshalErr != nil {
		logrus.Error(marshalErr)
		return
	}

	resp, postErr := http.Post(conf.Notification.Slack.WebhookUrl, "application/json", bytes.NewBuffer(payload))
	if postErr != nil {
		logrus.Error(postErr)
		return
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logrus.Error(closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.Errorf("slack notification failed with status code: %d", resp.StatusCode)
	}
}

// NotifyError reports a system error to the operator channel and the log.
func NotifyError(systemError error) {
	logrus.Error(systemError)
	go SlackNotification(systemError)
}
