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

package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecodeclub/mq-api"
	"github.com/gotomicro/ego/core/elog"
	"github.com/udonggeum/udonggeum/internal/notification/internal/sms"
	"github.com/udonggeum/udonggeum/internal/order"
	"github.com/udonggeum/udonggeum/internal/pkg/krw"
)

const paymentEvents = "payment_events"

// PaymentEvent 与支付模块发布的事件结构保持一致
type PaymentEvent struct {
	OrderSN string `json:"order_sn"`
	OrderID int64  `json:"order_id"`
	PayerID int64  `json:"payer_id"`
	Status  string `json:"status"`
}

const statusPaid = "paid"

// PaymentNotifyConsumer 支付完成后给收件人发短信。
// 自提订单没有收件人电话, 直接跳过
type PaymentNotifyConsumer struct {
	orderSvc   order.Service
	client     sms.Client
	templateID string
	consumer   mq.Consumer
	logger     *elog.Component
}

func NewPaymentNotifyConsumer(orderSvc order.Service, client sms.Client, templateID string, q mq.MQ) (*PaymentNotifyConsumer, error) {
	const groupID = "notification"
	consumer, err := q.Consumer(paymentEvents, groupID)
	if err != nil {
		return nil, err
	}
	return &PaymentNotifyConsumer{
		orderSvc:   orderSvc,
		client:     client,
		templateID: templateID,
		consumer:   consumer,
		logger:     elog.DefaultLogger,
	}, nil
}

func (c *PaymentNotifyConsumer) Start(ctx context.Context) {
	go func() {
		for {
			er := c.Consume(ctx)
			if er != nil {
				c.logger.Error("消费支付事件失败", elog.FieldErr(er))
			}
		}
	}()
}

func (c *PaymentNotifyConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}

	var evt PaymentEvent
	err = json.Unmarshal(msg.Value, &evt)
	if err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}

	if evt.Status != statusPaid {
		return nil
	}

	o, err := c.orderSvc.FindOrderByUIDAndSN(ctx, evt.PayerID, evt.OrderSN)
	if err != nil {
		return fmt.Errorf("查找订单失败: %w", err)
	}
	if o.Fulfillment.Delivery == nil || o.Fulfillment.Delivery.Phone == "" {
		return nil
	}

	_, err = c.client.Send(sms.SendReq{
		PhoneNumbers: []string{o.Fulfillment.Delivery.Phone},
		TemplateID:   c.templateID,
		TemplateParam: map[string]string{
			"order_sn": o.SN,
			"amount":   krw.Format(o.TotalAmount),
		},
	})
	if err != nil {
		c.logger.Error("发送支付完成短信失败",
			elog.FieldErr(err),
			elog.String("order_sn", o.SN))
		return err
	}
	return nil
}
