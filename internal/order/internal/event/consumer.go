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
	"github.com/udonggeum/udonggeum/internal/order/internal/domain"
	"github.com/udonggeum/udonggeum/internal/order/internal/service"
)

// PaymentEventConsumer 消费支付最终态事件, 同步订单冗余支付状态。
// 同一事件重复投递时, 更新是幂等的。
type PaymentEventConsumer struct {
	svc      service.Service
	consumer mq.Consumer
	logger   *elog.Component
}

func NewPaymentEventConsumer(svc service.Service, q mq.MQ) (*PaymentEventConsumer, error) {
	const groupID = "order"
	consumer, err := q.Consumer(paymentEvents, groupID)
	if err != nil {
		return nil, err
	}
	return &PaymentEventConsumer{
		svc:      svc,
		consumer: consumer,
		logger:   elog.DefaultLogger,
	}, nil
}

func (c *PaymentEventConsumer) Start(ctx context.Context) {
	go func() {
		for {
			er := c.Consume(ctx)
			if er != nil {
				c.logger.Error("消费支付事件失败", elog.FieldErr(er))
			}
		}
	}()
}

func (c *PaymentEventConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}

	var evt PaymentEvent
	err = json.Unmarshal(msg.Value, &evt)
	if err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}

	paymentStatus, err := c.toPaymentStatus(evt.Status)
	if err != nil {
		c.logger.Warn("忽略未知的支付事件状态",
			elog.String("order_sn", evt.OrderSN),
			elog.String("status", evt.Status))
		return nil
	}

	err = c.svc.SyncPaymentStatus(ctx, evt.PayerID, evt.OrderSN, paymentStatus)
	if err != nil {
		c.logger.Error("同步订单支付状态失败",
			elog.FieldErr(err),
			elog.String("order_sn", evt.OrderSN),
			elog.Int64("payer_id", evt.PayerID))
	}
	return err
}

func (c *PaymentEventConsumer) toPaymentStatus(status string) (domain.PaymentStatus, error) {
	switch status {
	case PaymentStatusPaid:
		return domain.PaymentStatusCompleted, nil
	case PaymentStatusFailed:
		return domain.PaymentStatusFailed, nil
	case PaymentStatusRefunded:
		return domain.PaymentStatusRefunded, nil
	default:
		return 0, fmt.Errorf("未知的支付事件状态: %s", status)
	}
}
