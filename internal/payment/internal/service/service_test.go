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

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"github.com/udonggeum/udonggeum/internal/payment/internal/domain"
	"github.com/udonggeum/udonggeum/internal/payment/internal/events"
	evtmocks "github.com/udonggeum/udonggeum/internal/payment/internal/events/mocks"
	"github.com/udonggeum/udonggeum/internal/payment/internal/repository"
	"github.com/udonggeum/udonggeum/internal/payment/internal/service/kakao"
	kakaomocks "github.com/udonggeum/udonggeum/internal/payment/internal/service/kakao/mocks"
	"github.com/udonggeum/udonggeum/internal/pkg/snowflake"
)

const (
	testUID     = int64(1001)
	testOrderID = int64(2002)
)

func newTestService(t *testing.T, ctrl *gomock.Controller,
	repo repository.PaymentRepository) (Service, *kakaomocks.MockClient, *evtmocks.MockPaymentEventProducer) {
	t.Helper()
	gateway := kakaomocks.NewMockClient(ctrl)
	producer := evtmocks.NewMockPaymentEventProducer(ctrl)
	idGen, err := snowflake.NewMultiAppGenerator(1, 3)
	require.NoError(t, err)
	svc := NewService(repo, gateway, producer, idGen, CallbackURLs{
		Approval: "https://udonggeum.example.com/payment/callback/success",
		Cancel:   "https://udonggeum.example.com/payment/callback/cancel",
		Fail:     "https://udonggeum.example.com/payment/callback/fail",
	})
	return svc, gateway, producer
}

func newProcessingPayment() domain.Payment {
	return domain.Payment{
		ID:          3003,
		SN:          "PMT-3003",
		OrderID:     testOrderID,
		OrderSN:     "ORDER-SN-2002",
		PayerID:     testUID,
		Description: "순금 돌반지 3.75g",
		TotalAmount: 1000000,
		TID:         "T1234567890",
		Status:      domain.PaymentStatusProcessing,
	}
}

func TestService_Ready_重复调用替换旧会话(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := newFakeRepository()
	pmt := newProcessingPayment()
	pmt.TID = ""
	pmt.Status = domain.PaymentStatusUnpaid
	repo.payments[testOrderID] = pmt

	svc, gateway, _ := newTestService(t, ctrl, repo)

	gateway.EXPECT().Ready(gomock.Any(), gomock.Any()).
		Return(kakao.ReadyResponse{TID: "T-FIRST", NextRedirectPCURL: "https://pg/1"}, nil)
	first, err := svc.Ready(context.Background(), testUID, testOrderID)
	require.NoError(t, err)
	assert.Equal(t, "T-FIRST", first.TID)

	// 再次 ready, 旧 tid 整体作废
	gateway.EXPECT().Ready(gomock.Any(), gomock.Any()).
		Return(kakao.ReadyResponse{TID: "T-SECOND", NextRedirectPCURL: "https://pg/2"}, nil)
	second, err := svc.Ready(context.Background(), testUID, testOrderID)
	require.NoError(t, err)
	assert.Equal(t, "T-SECOND", second.TID)

	session, err := repo.FindSession(context.Background(), testOrderID)
	require.NoError(t, err)
	assert.Equal(t, "T-SECOND", session.TID)
	assert.Equal(t, "T-SECOND", repo.payments[testOrderID].TID)
	assert.Equal(t, domain.PaymentStatusProcessing, repo.payments[testOrderID].Status)
}

func TestService_Ready_已支付不可再发起(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := newFakeRepository()
	pmt := newProcessingPayment()
	pmt.Status = domain.PaymentStatusPaidSuccess
	repo.payments[testOrderID] = pmt

	svc, _, _ := newTestService(t, ctrl, repo)
	_, err := svc.Ready(context.Background(), testUID, testOrderID)
	assert.ErrorIs(t, err, ErrPaymentNotPayable)
}

func TestService_Approve_成功批准并发布事件(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := newFakeRepository()
	pmt := newProcessingPayment()
	repo.payments[testOrderID] = pmt
	repo.sessions[testOrderID] = domain.PaymentSession{OrderID: testOrderID, TID: pmt.TID}

	svc, gateway, producer := newTestService(t, ctrl, repo)
	gateway.EXPECT().Approve(gomock.Any(), kakao.ApproveRequest{
		TID:            "T1234567890",
		PartnerOrderID: "ORDER-SN-2002",
		PartnerUserID:  "1001",
		PgToken:        "pg-token-abc",
	}).Return(kakao.ApproveResponse{
		AID:               "A-001",
		TID:               "T1234567890",
		PaymentMethodType: "CARD",
		Amount:            kakao.Amount{Total: 1000000},
		ApprovedAt:        "2024-06-01T10:05:00",
	}, nil)
	producer.EXPECT().Produce(gomock.Any(), events.PaymentEvent{
		OrderSN: "ORDER-SN-2002",
		OrderID: testOrderID,
		PayerID: testUID,
		Status:  events.StatusPaid,
	}).Return(nil)

	got, err := svc.Approve(context.Background(), testOrderID, "pg-token-abc")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaidSuccess, got.Status)
	assert.Equal(t, "A-001", got.AID)
	assert.Equal(t, "CARD", got.Method)

	// 会话已删除, 主记录已更新
	_, err = repo.FindSession(context.Background(), testOrderID)
	assert.Error(t, err)
	assert.Equal(t, domain.PaymentStatusPaidSuccess, repo.payments[testOrderID].Status)
}

func TestService_Approve_已支付幂等返回不再请求网关(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := newFakeRepository()
	pmt := newProcessingPayment()
	pmt.Status = domain.PaymentStatusPaidSuccess
	pmt.AID = "A-001"
	repo.payments[testOrderID] = pmt

	// gateway 与 producer 均未设置期望, 一旦被调用测试即失败
	svc, _, _ := newTestService(t, ctrl, repo)
	got, err := svc.Approve(context.Background(), testOrderID, "pg-token-replay")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaidSuccess, got.Status)
	assert.Equal(t, "A-001", got.AID)
}

func TestService_Approve_会话过期(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := newFakeRepository()
	repo.payments[testOrderID] = newProcessingPayment()
	// 缓存里没有会话, TTL 已过

	svc, _, _ := newTestService(t, ctrl, repo)
	_, err := svc.Approve(context.Background(), testOrderID, "pg-token-abc")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestService_Refund(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := newFakeRepository()
	pmt := newProcessingPayment()
	pmt.Status = domain.PaymentStatusPaidSuccess
	repo.payments[testOrderID] = pmt

	svc, gateway, producer := newTestService(t, ctrl, repo)

	// 第一次部分退款
	gateway.EXPECT().Cancel(gomock.Any(), kakao.CancelRequest{
		TID:          "T1234567890",
		CancelAmount: 300000,
	}).Return(kakao.CancelResponse{
		Status:                kakao.StatusPartCancelPayment,
		CanceledAmount:        kakao.Amount{Total: 300000},
		CancelAvailableAmount: kakao.Amount{Total: 700000},
		CanceledAt:            "2024-06-02T09:00:00",
	}, nil)
	first, err := svc.Refund(context.Background(), testUID, testOrderID, 300000)
	require.NoError(t, err)
	assert.Equal(t, int64(300000), first.CanceledAmount)
	assert.Equal(t, int64(700000), first.RemainingAmount)

	// 超出可退余额, 未到网关即被拒绝
	_, err = svc.Refund(context.Background(), testUID, testOrderID, 700001)
	assert.ErrorIs(t, err, ErrRefundAmountExceeded)

	// 退完剩余金额, 支付进入已退款终态并发布事件
	gateway.EXPECT().Cancel(gomock.Any(), kakao.CancelRequest{
		TID:          "T1234567890",
		CancelAmount: 700000,
	}).Return(kakao.CancelResponse{
		Status:                kakao.StatusCancelPayment,
		CanceledAmount:        kakao.Amount{Total: 700000},
		CancelAvailableAmount: kakao.Amount{Total: 0},
		CanceledAt:            "2024-06-02T09:10:00",
	}, nil)
	producer.EXPECT().Produce(gomock.Any(), events.PaymentEvent{
		OrderSN: "ORDER-SN-2002",
		OrderID: testOrderID,
		PayerID: testUID,
		Status:  events.StatusRefunded,
	}).Return(nil)
	second, err := svc.Refund(context.Background(), testUID, testOrderID, 700000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), second.RemainingAmount)
	assert.Equal(t, domain.PaymentStatusRefunded, repo.payments[testOrderID].Status)
}

func TestService_Refund_非已支付状态不可退款(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := newFakeRepository()
	repo.payments[testOrderID] = newProcessingPayment()

	svc, _, _ := newTestService(t, ctrl, repo)
	_, err := svc.Refund(context.Background(), testUID, testOrderID, 100)
	assert.ErrorIs(t, err, ErrRefundNotAllowed)
}

func TestService_HandleCancelCallback_支付回到未支付(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := newFakeRepository()
	pmt := newProcessingPayment()
	repo.payments[testOrderID] = pmt
	repo.sessions[testOrderID] = domain.PaymentSession{OrderID: testOrderID, TID: pmt.TID}

	svc, _, _ := newTestService(t, ctrl, repo)
	err := svc.HandleCancelCallback(context.Background(), testOrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusUnpaid, repo.payments[testOrderID].Status)
	_, err = repo.FindSession(context.Background(), testOrderID)
	assert.Error(t, err)
}

func TestService_HandleCancelCallback_已支付的支付不受影响(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := newFakeRepository()
	pmt := newProcessingPayment()
	pmt.Status = domain.PaymentStatusPaidSuccess
	pmt.AID = "A-001"
	repo.payments[testOrderID] = pmt

	svc, _, _ := newTestService(t, ctrl, repo)
	err := svc.HandleCancelCallback(context.Background(), testOrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaidSuccess, repo.payments[testOrderID].Status)
	assert.Equal(t, "A-001", repo.payments[testOrderID].AID)
}

func TestService_HandleFailCallback_发布失败事件(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := newFakeRepository()
	repo.payments[testOrderID] = newProcessingPayment()

	svc, _, producer := newTestService(t, ctrl, repo)
	producer.EXPECT().Produce(gomock.Any(), events.PaymentEvent{
		OrderSN: "ORDER-SN-2002",
		OrderID: testOrderID,
		PayerID: testUID,
		Status:  events.StatusFailed,
	}).Return(nil)

	err := svc.HandleFailCallback(context.Background(), testOrderID, "한도 초과")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaidFailed, repo.payments[testOrderID].Status)
	assert.Equal(t, "한도 초과", repo.payments[testOrderID].FailReason)
}

func TestService_HandleFailCallback_已支付的支付不受影响(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := newFakeRepository()
	pmt := newProcessingPayment()
	pmt.Status = domain.PaymentStatusPaidSuccess
	repo.payments[testOrderID] = pmt

	// producer 未设置期望, 一旦发事件测试即失败
	svc, _, _ := newTestService(t, ctrl, repo)
	err := svc.HandleFailCallback(context.Background(), testOrderID, "위조된 실패")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaidSuccess, repo.payments[testOrderID].Status)
	assert.Empty(t, repo.payments[testOrderID].FailReason)
}

func TestService_HandleFailCallback_已退款的支付不受影响(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	repo := newFakeRepository()
	pmt := newProcessingPayment()
	pmt.Status = domain.PaymentStatusRefunded
	repo.payments[testOrderID] = pmt

	svc, _, _ := newTestService(t, ctrl, repo)
	err := svc.HandleFailCallback(context.Background(), testOrderID, "위조된 실패")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusRefunded, repo.payments[testOrderID].Status)
}

// fakeRepository 内存实现, 行为与 GORM 实现保持一致
type fakeRepository struct {
	payments map[int64]domain.Payment
	sessions map[int64]domain.PaymentSession
	refunds  []domain.Refund
	nextID   int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		payments: make(map[int64]domain.Payment),
		sessions: make(map[int64]domain.PaymentSession),
		nextID:   1,
	}
}

func (f *fakeRepository) FindOrCreatePayment(_ context.Context, pmt domain.Payment) (domain.Payment, error) {
	if p, ok := f.payments[pmt.OrderID]; ok {
		return p, nil
	}
	pmt.ID = f.nextID
	f.nextID++
	f.payments[pmt.OrderID] = pmt
	return pmt, nil
}

func (f *fakeRepository) FindPaymentByOrderID(_ context.Context, orderID int64) (domain.Payment, error) {
	p, ok := f.payments[orderID]
	if !ok {
		return domain.Payment{}, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeRepository) FindPaymentByOrderSN(_ context.Context, orderSN string) (domain.Payment, error) {
	for _, p := range f.payments {
		if p.OrderSN == orderSN {
			return p, nil
		}
	}
	return domain.Payment{}, gorm.ErrRecordNotFound
}

func (f *fakeRepository) UpdateTIDAndStatus(_ context.Context, orderID int64, tid string, status domain.PaymentStatus) error {
	p := f.payments[orderID]
	p.TID = tid
	p.Status = status
	f.payments[orderID] = p
	return nil
}

func (f *fakeRepository) UpdateApproved(_ context.Context, orderID int64, aid, method string, approvedAt int64) error {
	p := f.payments[orderID]
	p.AID = aid
	p.Method = method
	p.ApprovedAt = approvedAt
	p.Status = domain.PaymentStatusPaidSuccess
	f.payments[orderID] = p
	return nil
}

func (f *fakeRepository) UpdateStatus(_ context.Context, orderID int64, status domain.PaymentStatus, failReason string) error {
	p := f.payments[orderID]
	p.Status = status
	if failReason != "" {
		p.FailReason = failReason
	}
	f.payments[orderID] = p
	return nil
}

func (f *fakeRepository) FindTimeoutPayments(_ context.Context, offset, limit int, t time.Time) ([]domain.Payment, error) {
	var res []domain.Payment
	for _, p := range f.payments {
		if p.Status == domain.PaymentStatusProcessing {
			res = append(res, p)
		}
	}
	return res, nil
}

func (f *fakeRepository) TotalTimeoutPayments(_ context.Context, _ time.Time) (int64, error) {
	var total int64
	for _, p := range f.payments {
		if p.Status == domain.PaymentStatusProcessing {
			total++
		}
	}
	return total, nil
}

func (f *fakeRepository) CreateRefund(_ context.Context, r domain.Refund) (domain.Refund, error) {
	var total, refunded int64
	for _, p := range f.payments {
		if p.ID == r.PaymentID {
			total = p.TotalAmount
		}
	}
	for _, ref := range f.refunds {
		if ref.PaymentID == r.PaymentID {
			refunded += ref.CanceledAmount
		}
	}
	if refunded+r.CanceledAmount > total {
		return domain.Refund{}, repository.ErrRefundAmountExceeded
	}
	r.ID = f.nextID
	f.nextID++
	f.refunds = append(f.refunds, r)
	return r, nil
}

func (f *fakeRepository) TotalRefundedAmount(_ context.Context, paymentID int64) (int64, error) {
	var sum int64
	for _, r := range f.refunds {
		if r.PaymentID == paymentID {
			sum += r.CanceledAmount
		}
	}
	return sum, nil
}

func (f *fakeRepository) FindRefundsByOrderID(_ context.Context, orderID int64) ([]domain.Refund, error) {
	var res []domain.Refund
	for _, r := range f.refunds {
		if r.OrderID == orderID {
			res = append(res, r)
		}
	}
	return res, nil
}

func (f *fakeRepository) SaveSession(_ context.Context, s domain.PaymentSession) error {
	f.sessions[s.OrderID] = s
	return nil
}

func (f *fakeRepository) FindSession(_ context.Context, orderID int64) (domain.PaymentSession, error) {
	s, ok := f.sessions[orderID]
	if !ok {
		return domain.PaymentSession{}, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (f *fakeRepository) DeleteSession(_ context.Context, orderID int64) error {
	delete(f.sessions, orderID)
	return nil
}
