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

	"github.com/gotomicro/ego/core/elog"
	"github.com/gotomicro/ego/task/ecron"
	"github.com/udonggeum/udonggeum/internal/payment/internal/service"
)

var _ ecron.NamedJob = (*SyncPendingPaymentJob)(nil)

// SyncPendingPaymentJob 对账任务。
// 用户跳到网关后可能再也没回来, 支付会一直停留在支付中,
// 定期向网关查询真实交易状态并同步本地记录
type SyncPendingPaymentJob struct {
	svc     service.Service
	minutes int64
	limit   int
	l       *elog.Component
}

func NewSyncPendingPaymentJob(svc service.Service, minutes int64, limit int) *SyncPendingPaymentJob {
	return &SyncPendingPaymentJob{
		svc:     svc,
		minutes: minutes,
		limit:   limit,
		l:       elog.DefaultLogger,
	}
}

func (s *SyncPendingPaymentJob) Name() string {
	return "sync_pending_payment_job"
}

func (s *SyncPendingPaymentJob) Run(ctx context.Context) error {
	deadline := time.Now().Add(time.Duration(-s.minutes) * time.Minute)
	for {
		payments, total, err := s.svc.FindTimeoutPayments(ctx, 0, s.limit, deadline)
		if err != nil {
			return fmt.Errorf("获取超时支付记录失败: %w", err)
		}

		for _, pmt := range payments {
			err = s.svc.SyncPaymentStatus(ctx, pmt)
			if err != nil {
				s.l.Error("同步支付状态失败",
					elog.FieldErr(err),
					elog.String("order_sn", pmt.OrderSN),
					elog.Int64("payment_id", pmt.ID))
			}
		}

		if len(payments) < s.limit {
			return nil
		}

		// 同步后仍停留在支付中的记录会被下一轮重查,
		// 以本轮总数为上限避免在原地打转
		if int64(s.limit) >= total {
			return nil
		}
	}
}
