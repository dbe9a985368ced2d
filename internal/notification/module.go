// Copyright 2024 udonggeum
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package notification

import (
	"github.com/ecodeclub/mq-api"
	"github.com/udonggeum/udonggeum/internal/notification/internal/event"
	"github.com/udonggeum/udonggeum/internal/notification/internal/sms"
	"github.com/udonggeum/udonggeum/internal/order"
)

type (
	SMSClient             = sms.Client
	PaymentNotifyConsumer = event.PaymentNotifyConsumer
)

var (
	NewAliyunSMS     = sms.NewAliyunSMS
	NewConsoleClient = sms.NewConsoleClient
)

type Module struct {
	Consumer *PaymentNotifyConsumer
}

func InitModule(q mq.MQ, orderSvc order.Service, client sms.Client, templateID string) (*Module, error) {
	consumer, err := event.NewPaymentNotifyConsumer(orderSvc, client, templateID, q)
	if err != nil {
		return nil, err
	}
	return &Module{Consumer: consumer}, nil
}
