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

	"github.com/udonggeum/udonggeum/internal/cart"
	"github.com/udonggeum/udonggeum/internal/order/internal/domain"
	"github.com/udonggeum/udonggeum/internal/order/internal/errs"
	"github.com/udonggeum/udonggeum/internal/payment"
	"github.com/udonggeum/udonggeum/internal/pkg/sequencenumber"
	"github.com/udonggeum/udonggeum/internal/product"
)

const testUID = int64(1001)

type result struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newOrderServer(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	session.SetDefaultProvider(redis.NewSessionProvider(nil, "test", time.Minute))
	server := gin.New()
	server.Use(func(ctx *gin.Context) {
		ctx.Set("_session", session.NewMemorySession(session.Claims{
			Uid: testUID,
		}))
	})
	h.PrivateRoutes(server)
	return server
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

func deliveryFulfillment() Fulfillment {
	return Fulfillment{
		Type: "delivery",
		Delivery: &Delivery{
			Recipient:  "김민지",
			Phone:      "010-1234-5678",
			PostalCode: "06236",
			Address1:   "서울 강남구 테헤란로 123",
		},
	}
}

func TestHandler_PreviewOrder(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name            string
		cartItems       []cart.Item
		storeProductIDs map[int64]struct{}
		fulfillment     Fulfillment
		wantCode        int
		wantTotal       int64
		wantTotalText   string
	}{
		{
			name: "配送订单含配送费",
			cartItems: []cart.Item{
				{SPUID: 10, SPUName: "순금 돌반지 3.75g", Quantity: 2, UnitPrice: 500000},
				{SPUID: 11, SPUName: "은수저 세트", Quantity: 1, UnitPrice: 2000, OptionSurcharge: 1000},
			},
			fulfillment:   deliveryFulfillment(),
			wantCode:      0,
			wantTotal:     1006000,
			wantTotalText: "₩1,006,000",
		},
		{
			name: "自提订单免配送费",
			cartItems: []cart.Item{
				{SPUID: 10, SPUName: "순금 돌반지 3.75g", Quantity: 1, UnitPrice: 500000},
			},
			storeProductIDs: map[int64]struct{}{10: {}},
			fulfillment:     Fulfillment{Type: "pickup", Pickup: &Pickup{StoreID: 7}},
			wantCode:        0,
			wantTotal:       500000,
			wantTotalText:   "₩500,000",
		},
		{
			name:        "购物车勾选为空",
			cartItems:   nil,
			fulfillment: deliveryFulfillment(),
			wantCode:    errs.EmptyCart.Code,
		},
		{
			name: "收货信息不完整",
			cartItems: []cart.Item{
				{SPUID: 10, SPUName: "순금 돌반지 3.75g", Quantity: 1, UnitPrice: 500000},
			},
			fulfillment: Fulfillment{
				Type:     "delivery",
				Delivery: &Delivery{Recipient: "김민지", Phone: "12345"},
			},
			wantCode: errs.MissingShipping.Code,
		},
		{
			name: "自提店铺与商品不匹配",
			cartItems: []cart.Item{
				{SPUID: 10, SPUName: "순금 돌반지 3.75g", Quantity: 1, UnitPrice: 500000},
			},
			storeProductIDs: map[int64]struct{}{99: {}},
			fulfillment:     Fulfillment{Type: "pickup", Pickup: &Pickup{StoreID: 7}},
			wantCode:        errs.UnresolvedStore.Code,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := NewHandler(&fakeOrderService{},
				&fakePaymentService{},
				&fakeProductService{storeProductIDs: tc.storeProductIDs},
				&fakeCartService{items: tc.cartItems},
				sequencenumber.NewGenerator(),
				nil)
			server := newOrderServer(h)

			res := doPost(t, server, "/order/preview", PreviewOrderReq{Fulfillment: tc.fulfillment})
			assert.Equal(t, tc.wantCode, res.Code)
			if tc.wantCode != 0 {
				return
			}
			var data PreviewOrderResp
			require.NoError(t, json.Unmarshal(res.Data, &data))
			assert.Equal(t, tc.wantTotal, data.TotalAmount)
			assert.Equal(t, tc.wantTotalText, data.TotalAmountText)
			assert.Len(t, data.Items, len(tc.cartItems))
		})
	}
}

func TestHandler_RetrieveOrderStatus(t *testing.T) {
	t.Parallel()
	svc := &fakeOrderService{
		order: domain.Order{
			SN:            "SN-1",
			BuyerID:       testUID,
			Status:        domain.OrderStatusPending,
			PaymentStatus: domain.PaymentStatusCompleted,
		},
	}
	h := NewHandler(svc, &fakePaymentService{}, &fakeProductService{}, &fakeCartService{},
		sequencenumber.NewGenerator(), nil)
	server := newOrderServer(h)

	res := doPost(t, server, "/order", RetrieveOrderStatusReq{OrderSN: "SN-1"})
	assert.Equal(t, 0, res.Code)
	var data RetrieveOrderStatusResp
	require.NoError(t, json.Unmarshal(res.Data, &data))
	assert.Equal(t, "pending", data.OrderStatus)
	assert.Equal(t, "completed", data.PaymentStatus)
	assert.Equal(t, testUID, svc.findUID)
}

func TestHandler_CancelOrder(t *testing.T) {
	t.Parallel()
	svc := &fakeOrderService{
		order: domain.Order{
			ID:            33,
			SN:            "SN-1",
			BuyerID:       testUID,
			Status:        domain.OrderStatusPending,
			PaymentStatus: domain.PaymentStatusPending,
		},
	}
	h := NewHandler(svc, &fakePaymentService{}, &fakeProductService{}, &fakeCartService{},
		sequencenumber.NewGenerator(), nil)
	server := newOrderServer(h)

	res := doPost(t, server, "/order/cancel", CancelOrderReq{OrderSN: "SN-1"})
	assert.Equal(t, 0, res.Code)
	assert.Equal(t, int64(33), svc.cancelOrderID)
	assert.Equal(t, testUID, svc.cancelUID)
}

func TestHandler_orderDescription(t *testing.T) {
	t.Parallel()
	h := &Handler{}
	assert.Equal(t, "", h.orderDescription(nil))
	assert.Equal(t, "순금 돌반지 3.75g", h.orderDescription([]domain.OrderItem{
		{SPUName: "순금 돌반지 3.75g"},
	}))
	assert.Equal(t, "순금 돌반지 3.75g 외 2건", h.orderDescription([]domain.OrderItem{
		{SPUName: "순금 돌반지 3.75g"},
		{SPUName: "은수저 세트"},
		{SPUName: "커플링"},
	}))
}

type fakeCartService struct {
	items   []cart.Item
	cleared bool
}

func (f *fakeCartService) SelectedItems(_ context.Context, _ int64) ([]cart.Item, error) {
	return f.items, nil
}

func (f *fakeCartService) ClearSelected(_ context.Context, _ int64) error {
	f.cleared = true
	return nil
}

type fakeProductService struct {
	storeProductIDs map[int64]struct{}
}

func (f *fakeProductService) FindByID(_ context.Context, _ int64) (product.Product, error) {
	return product.Product{}, nil
}

func (f *fakeProductService) StoreProductIDs(_ context.Context, _ int64) (map[int64]struct{}, error) {
	return f.storeProductIDs, nil
}

// fakePaymentService 仅覆盖下单链路不会触达的接口, 其余方法继承自嵌入接口
type fakePaymentService struct {
	payment.Service
}

func (f *fakePaymentService) CreatePayment(_ context.Context, pmt payment.Payment) (payment.Payment, error) {
	pmt.ID = 1
	pmt.SN = "PMT-1"
	return pmt, nil
}

type fakeOrderService struct {
	order         domain.Order
	findUID       int64
	cancelUID     int64
	cancelOrderID int64
}

func (f *fakeOrderService) CreateOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	order.ID = 1
	return order, nil
}

func (f *fakeOrderService) FindOrderByUIDAndSN(_ context.Context, uid int64, _ string) (domain.Order, error) {
	f.findUID = uid
	return f.order, nil
}

func (f *fakeOrderService) ListOrders(_ context.Context, _, _ int, _ int64) ([]domain.Order, int64, error) {
	return []domain.Order{f.order}, 1, nil
}

func (f *fakeOrderService) CancelOrder(_ context.Context, uid, orderID int64, _ domain.OrderStatus, _ domain.PaymentStatus) error {
	f.cancelUID = uid
	f.cancelOrderID = orderID
	return nil
}

func (f *fakeOrderService) UpdateOrderPaymentIDAndPaymentSN(_ context.Context, _, _, _ int64, _ string) error {
	return nil
}

func (f *fakeOrderService) SyncPaymentStatus(_ context.Context, _ int64, _ string, _ domain.PaymentStatus) error {
	return nil
}

func (f *fakeOrderService) ListExpiredOrders(_ context.Context, _, _ int, _ int64) ([]domain.Order, error) {
	return nil, nil
}

func (f *fakeOrderService) CloseExpiredOrders(_ context.Context, _ []int64) error {
	return nil
}
