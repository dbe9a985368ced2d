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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udonggeum/udonggeum/internal/payment/internal/domain"
	"github.com/udonggeum/udonggeum/internal/payment/internal/service"
)

func TestSyncPendingPaymentJob_不足一页时一轮结束(t *testing.T) {
	t.Parallel()
	svc := &fakeSyncService{
		payments: []domain.Payment{{ID: 1, OrderSN: "SN-1"}},
		total:    1,
	}
	job := NewSyncPendingPaymentJob(svc, 30, 10)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, svc.findCalls)
	assert.Equal(t, []int64{1}, svc.synced)
}

// 同步后仍停留在支付中的记录不会改变查询结果,
// 任务必须依靠总数上限收尾而不是反复重查同一页
func TestSyncPendingPaymentJob_整页未消化时按总数收尾(t *testing.T) {
	t.Parallel()
	svc := &fakeSyncService{
		payments: []domain.Payment{
			{ID: 1, OrderSN: "SN-1"},
			{ID: 2, OrderSN: "SN-2"},
		},
		total: 2,
	}
	job := NewSyncPendingPaymentJob(svc, 30, 2)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, svc.findCalls)
	assert.Equal(t, []int64{1, 2}, svc.synced)
}

func TestSyncPendingPaymentJob_Name(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "sync_pending_payment_job", NewSyncPendingPaymentJob(&fakeSyncService{}, 30, 10).Name())
}

// fakeSyncService 每轮返回同一页数据, 模拟同步后状态仍未落定的支付
type fakeSyncService struct {
	service.Service
	payments  []domain.Payment
	total     int64
	findCalls int
	synced    []int64
}

func (f *fakeSyncService) FindTimeoutPayments(_ context.Context, _, _ int, _ time.Time) ([]domain.Payment, int64, error) {
	f.findCalls++
	return f.payments, f.total, nil
}

func (f *fakeSyncService) SyncPaymentStatus(_ context.Context, pmt domain.Payment) error {
	f.synced = append(f.synced, pmt.ID)
	return nil
}
