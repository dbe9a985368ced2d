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

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/ginx/session/redis"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udonggeum/udonggeum/internal/payment/internal/domain"
	"github.com/udonggeum/udonggeum/internal/payment/internal/errs"
	"github.com/udonggeum/udonggeum/internal/payment/internal/service"
)

const testUID = int64(1001)

type result struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newCallbackServer(svc service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	server := gin.New()
	NewHandler(svc).PublicRoutes(server)
	return server
}

func newPaymentServer(svc service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	session.SetDefaultProvider(redis.NewSessionProvider(nil, "test", time.Minute))
	server := gin.New()
	server.Use(func(ctx *gin.Context) {
		ctx.Set("_session", session.NewMemorySession(session.Claims{
			Uid: testUID,
		}))
	})
	NewHandler(svc).PrivateRoutes(server)
	return server
}

func doGet(t *testing.T, server *gin.Engine, target string) result {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	var res result
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
	return res
}

func doPost(t *testing.T, server *gin.Engine, target string, body any) result {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	var res result
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
	return res
}

func TestHandler_SuccessCallback(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name        string
		target      string
		wantCode    int
		wantApprove bool
	}{
		{
			name:        "正常回调",
			target:      "/payment/callback/success?order_id=2002&pg_token=tok-1",
			wantCode:    0,
			wantApprove: true,
		},
		{
			name:        "缺少pg_token不发起批准",
			target:      "/payment/callback/success?order_id=2002",
			wantCode:    errs.InvalidParams.Code,
			wantApprove: false,
		},
		{
			name:        "pg_token为空不发起批准",
			target:      "/payment/callback/success?order_id=2002&pg_token=",
			wantCode:    errs.InvalidParams.Code,
			wantApprove: false,
		},
		{
			name:        "order_id非数字",
			target:      "/payment/callback/success?order_id=abc&pg_token=tok-1",
			wantCode:    errs.InvalidParams.Code,
			wantApprove: false,
		},
		{
			name:        "order_id非正数",
			target:      "/payment/callback/success?order_id=-1&pg_token=tok-1",
			wantCode:    errs.InvalidParams.Code,
			wantApprove: false,
		},
		{
			name:        "缺少order_id",
			target:      "/payment/callback/success?pg_token=tok-1",
			wantCode:    errs.InvalidParams.Code,
			wantApprove: false,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := &fakeService{}
			server := newCallbackServer(svc)

			res := doGet(t, server, tc.target)
			assert.Equal(t, tc.wantCode, res.Code)
			assert.Equal(t, tc.wantApprove, svc.approveCalled)
			if tc.wantApprove {
				assert.Equal(t, int64(2002), svc.approveOrderID)
				assert.Equal(t, "tok-1", svc.approvePgToken)
				var data CallbackResp
				require.NoError(t, json.Unmarshal(res.Data, &data))
				assert.Equal(t, "paid", data.Status)
				assert.Equal(t, "A-001", data.AID)
				assert.Equal(t, "CARD", data.Method)
				assert.Equal(t, int64(1000000), data.TotalAmount)
				assert.Equal(t, "₩1,000,000", data.TotalAmountText)
				assert.Equal(t, int64(1717203900000), data.ApprovedAt)
			}
		})
	}
}

func TestHandler_SuccessCallback_会话过期(t *testing.T) {
	t.Parallel()
	svc := &fakeService{approveErr: service.ErrSessionExpired}
	server := newCallbackServer(svc)

	res := doGet(t, server, "/payment/callback/success?order_id=2002&pg_token=tok-1")
	assert.Equal(t, errs.SessionExpired.Code, res.Code)
}

func TestHandler_FailCallback(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name       string
		target     string
		wantCode   int
		wantErrMsg string
	}{
		{
			name:       "带失败原因",
			target:     "/payment/callback/fail?order_id=2002&error_msg=한도%20초과",
			wantCode:   0,
			wantErrMsg: "한도 초과",
		},
		{
			name:       "无失败原因时用默认文案",
			target:     "/payment/callback/fail?order_id=2002",
			wantCode:   0,
			wantErrMsg: "결제에 실패했습니다",
		},
		{
			name:     "order_id非法",
			target:   "/payment/callback/fail?order_id=0",
			wantCode: errs.InvalidParams.Code,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := &fakeService{}
			server := newCallbackServer(svc)

			res := doGet(t, server, tc.target)
			assert.Equal(t, tc.wantCode, res.Code)
			if tc.wantCode == 0 {
				assert.Equal(t, tc.wantErrMsg, svc.failErrMsg)
			} else {
				assert.Empty(t, svc.failErrMsg)
			}
		})
	}
}

func TestHandler_CancelCallback(t *testing.T) {
	t.Parallel()
	svc := &fakeService{}
	server := newCallbackServer(svc)

	res := doGet(t, server, "/payment/callback/cancel?order_id=2002")
	assert.Equal(t, 0, res.Code)
	assert.Equal(t, int64(2002), svc.cancelOrderID)

	var data CallbackResp
	require.NoError(t, json.Unmarshal(res.Data, &data))
	assert.Equal(t, "unpaid", data.Status)
}

func TestHandler_RetrievePaymentStatus(t *testing.T) {
	t.Parallel()
	svc := &fakeService{
		payment: domain.Payment{
			OrderID:     2002,
			PayerID:     testUID,
			TotalAmount: 1000000,
			TID:         "T1234567890",
			AID:         "A-001",
			Method:      "CARD",
			Status:      domain.PaymentStatusPaidSuccess,
			ApprovedAt:  1717203900000,
		},
		refunds: []domain.Refund{
			{
				SN:              "RF-1",
				TID:             "T1234567890",
				CanceledAmount:  300000,
				RemainingAmount: 700000,
				CanceledAt:      1717290300000,
			},
		},
	}
	server := newPaymentServer(svc)

	res := doPost(t, server, "/payment/status", RetrievePaymentStatusReq{OrderSN: "ORDER-SN-2002"})
	assert.Equal(t, 0, res.Code)
	var data RetrievePaymentStatusResp
	require.NoError(t, json.Unmarshal(res.Data, &data))
	assert.Equal(t, "paid", data.Status)
	assert.Equal(t, "kakaopay", data.Provider)
	assert.Equal(t, "T1234567890", data.TID)
	assert.Equal(t, "A-001", data.AID)
	assert.Equal(t, "CARD", data.Method)
	assert.Equal(t, "₩1,000,000", data.TotalAmountText)
	require.Len(t, data.Refunds, 1)
	assert.Equal(t, "T1234567890", data.Refunds[0].TID)
	assert.Equal(t, "₩300,000", data.Refunds[0].CanceledAmountText)
}

type fakeService struct {
	approveCalled  bool
	approveOrderID int64
	approvePgToken string
	approveErr     error
	failOrderID    int64
	failErrMsg     string
	cancelOrderID  int64
	payment        domain.Payment
	refunds        []domain.Refund
}

func (f *fakeService) CreatePayment(_ context.Context, pmt domain.Payment) (domain.Payment, error) {
	return pmt, nil
}

func (f *fakeService) Ready(_ context.Context, _, _ int64) (domain.PaymentSession, error) {
	return domain.PaymentSession{}, nil
}

func (f *fakeService) Approve(_ context.Context, orderID int64, pgToken string) (domain.Payment, error) {
	f.approveCalled = true
	f.approveOrderID = orderID
	f.approvePgToken = pgToken
	if f.approveErr != nil {
		return domain.Payment{}, f.approveErr
	}
	return domain.Payment{
		OrderID:     orderID,
		Status:      domain.PaymentStatusPaidSuccess,
		AID:         "A-001",
		Method:      "CARD",
		TotalAmount: 1000000,
		ApprovedAt:  1717203900000,
	}, nil
}

func (f *fakeService) HandleFailCallback(_ context.Context, orderID int64, errorMsg string) error {
	f.failOrderID = orderID
	f.failErrMsg = errorMsg
	return nil
}

func (f *fakeService) HandleCancelCallback(_ context.Context, orderID int64) error {
	f.cancelOrderID = orderID
	return nil
}

func (f *fakeService) FindPaymentByOrderID(_ context.Context, _, _ int64) (domain.Payment, error) {
	return domain.Payment{}, nil
}

func (f *fakeService) FindPaymentByOrderSN(_ context.Context, _ string) (domain.Payment, error) {
	return f.payment, nil
}

func (f *fakeService) FindRefundsByOrderID(_ context.Context, _ int64) ([]domain.Refund, error) {
	return f.refunds, nil
}

func (f *fakeService) Refund(_ context.Context, _, _, _ int64) (domain.Refund, error) {
	return domain.Refund{}, nil
}

func (f *fakeService) FindTimeoutPayments(_ context.Context, _, _ int, _ time.Time) ([]domain.Payment, int64, error) {
	return nil, 0, nil
}

func (f *fakeService) SyncPaymentStatus(_ context.Context, _ domain.Payment) error {
	return nil
}
