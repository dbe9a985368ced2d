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

package job

import (
	"context"
	"fmt"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"github.com/gotomicro/ego/task/ecron"
	"github.com/udonggeum/udonggeum/internal/order/internal/domain"
	"github.com/udonggeum/udonggeum/internal/order/internal/service"
)

var _ ecron.NamedJob = (*CloseExpiredOrdersJob)(nil)

// CloseExpiredOrdersJob 关闭超过支付期限仍未支付的订单
type CloseExpiredOrdersJob struct {
	svc     service.Service
	minutes int64
	limit   int
}

func NewCloseExpiredOrdersJob(svc service.Service, minutes int64, limit int) *CloseExpiredOrdersJob {
	return &CloseExpiredOrdersJob{svc: svc, minutes: minutes, limit: limit}
}

func (c *CloseExpiredOrdersJob) Name() string {
	return "close_expired_orders_job"
}

func (c *CloseExpiredOrdersJob) Run(ctx context.Context) error {
	// 冗余10秒, 避免和支付回调竞争临界订单
	ctime := time.Now().Add(time.Duration(-c.minutes)*time.Minute + 10*time.Second).UnixMilli()

	for {
		orders, err := c.svc.ListExpiredOrders(ctx, 0, c.limit, ctime)
		if err != nil {
			return fmt.Errorf("获取过期订单失败: %w", err)
		}

		ids := slice.Map(orders, func(idx int, src domain.Order) int64 {
			return src.ID
		})
		err = c.svc.CloseExpiredOrders(ctx, ids)
		if err != nil {
			return fmt.Errorf("关闭过期订单失败: %w", err)
		}

		if len(orders) < c.limit {
			return nil
		}
	}
}
