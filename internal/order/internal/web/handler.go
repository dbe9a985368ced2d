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
	"context"
	"fmt"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
	"github.com/udonggeum/udonggeum/internal/cart"
	"github.com/udonggeum/udonggeum/internal/order/internal/domain"
	"github.com/udonggeum/udonggeum/internal/order/internal/service"
	"github.com/udonggeum/udonggeum/internal/payment"
	"github.com/udonggeum/udonggeum/internal/pkg/krw"
	"github.com/udonggeum/udonggeum/internal/pkg/sequencenumber"
	"github.com/udonggeum/udonggeum/internal/product"
)

var _ ginx.Handler = (*Handler)(nil)

type Handler struct {
	svc         service.Service
	paymentSvc  payment.Service
	productSvc  product.Service
	cartSvc     cart.Service
	snGenerator *sequencenumber.Generator
	cache       ecache.Cache
	logger      *elog.Component
}

func NewHandler(svc service.Service,
	paymentSvc payment.Service,
	productSvc product.Service,
	cartSvc cart.Service,
	snGenerator *sequencenumber.Generator,
	cache ecache.Cache) *Handler {
	return &Handler{
		svc:         svc,
		paymentSvc:  paymentSvc,
		productSvc:  productSvc,
		cartSvc:     cartSvc,
		snGenerator: snGenerator,
		cache:       cache,
		logger:      elog.DefaultLogger,
	}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/order")
	g.POST("/preview", ginx.BS[PreviewOrderReq](h.PreviewOrder))
	g.POST("/create", ginx.BS[CreateOrderReq](h.CreateOrder))
	g.POST("", ginx.BS[RetrieveOrderStatusReq](h.RetrieveOrderStatus))
	g.POST("/list", ginx.BS[ListOrdersReq](h.ListOrders))
	g.POST("/detail", ginx.BS[RetrieveOrderDetailReq](h.RetrieveOrderDetail))
	g.POST("/cancel", ginx.BS[CancelOrderReq](h.CancelOrder))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

// PreviewOrder 基于当前购物车勾选和履约方式计算订单草稿, 不落库
func (h *Handler) PreviewOrder(ctx *ginx.Context, req PreviewOrderReq, sess session.Session) (ginx.Result, error) {
	draft, err := h.buildDraft(ctx.Request.Context(), sess.Claims().Uid, req.Fulfillment)
	if err != nil {
		return draftErrorResult(err), nil
	}
	return ginx.Result{
		Data: PreviewOrderResp{
			Items: slice.Map(draft.Items, func(idx int, src domain.OrderItem) OrderItem {
				return h.toOrderItemVO(src)
			}),
			Subtotal:        draft.Subtotal,
			FulfillmentFee:  draft.FulfillmentFee,
			TotalAmount:     draft.TotalAmount,
			TotalAmountText: krw.Format(draft.TotalAmount),
		},
	}, nil
}

// CreateOrder 创建订单及支付主记录。
// 订单创建是同步等待的, 服务端拒绝时直接把原因返回给用户, 不做自动重试。
func (h *Handler) CreateOrder(ctx *ginx.Context, req CreateOrderReq, sess session.Session) (ginx.Result, error) {
	uid := sess.Claims().Uid

	if err := h.checkRequestID(ctx.Request.Context(), req.RequestID); err != nil {
		return duplicateRequestResult, fmt.Errorf("请求ID校验失败: %w", err)
	}

	draft, err := h.buildDraft(ctx.Request.Context(), uid, req.Fulfillment)
	if err != nil {
		return draftErrorResult(err), nil
	}

	order, err := h.createOrder(ctx.Request.Context(), uid, draft)
	if err != nil {
		return systemErrorResult, fmt.Errorf("创建订单失败: %w", err)
	}

	p, err := h.paymentSvc.CreatePayment(ctx.Request.Context(), payment.Payment{
		OrderID:     order.ID,
		OrderSN:     order.SN,
		PayerID:     uid,
		Description: h.orderDescription(order.Items),
		TotalAmount: order.TotalAmount,
	})
	if err != nil {
		return systemErrorResult, fmt.Errorf("创建支付失败: %w", err)
	}

	err = h.svc.UpdateOrderPaymentIDAndPaymentSN(ctx.Request.Context(), uid, order.ID, p.ID, p.SN)
	if err != nil {
		return systemErrorResult, fmt.Errorf("订单冗余支付ID及SN失败: %w", err)
	}

	// 下单成功后清空勾选, 失败只记录日志不影响主流程
	if er := h.cartSvc.ClearSelected(ctx.Request.Context(), uid); er != nil {
		h.logger.Warn("清空购物车勾选失败",
			elog.FieldErr(er),
			elog.Int64("uid", uid),
			elog.String("order_sn", order.SN))
	}

	return ginx.Result{
		Data: CreateOrderResp{
			OrderSN:         order.SN,
			TotalAmount:     order.TotalAmount,
			TotalAmountText: krw.Format(order.TotalAmount),
		},
	}, nil
}

func (h *Handler) checkRequestID(ctx context.Context, requestID string) error {
	if requestID == "" {
		return fmt.Errorf("请求ID为空")
	}
	key := fmt.Sprintf("order:create:%s", requestID)
	val := h.cache.Get(ctx, key)
	if !val.KeyNotFound() {
		return fmt.Errorf("重复请求")
	}
	if err := h.cache.Set(ctx, key, requestID, 0); err != nil {
		return fmt.Errorf("缓存请求ID失败: %w", err)
	}
	return nil
}

func (h *Handler) buildDraft(ctx context.Context, uid int64, f Fulfillment) (domain.OrderDraft, error) {
	items, err := h.cartSvc.SelectedItems(ctx, uid)
	if err != nil {
		return domain.OrderDraft{}, fmt.Errorf("获取购物车勾选失败: %w", err)
	}

	orderItems := slice.Map(items, func(idx int, src cart.Item) domain.OrderItem {
		return domain.OrderItem{
			SPUID:           src.SPUID,
			SPUName:         src.SPUName,
			OptionID:        src.OptionID,
			OptionSnapshot:  src.OptionSnapshot,
			Quantity:        src.Quantity,
			UnitPrice:       src.UnitPrice,
			OptionSurcharge: src.OptionSurcharge,
		}
	})

	fulfillment := h.toFulfillmentDomain(f)

	var storeProductIDs map[int64]struct{}
	if fulfillment.Type == domain.FulfillmentPickup && fulfillment.Pickup != nil {
		storeProductIDs, err = h.productSvc.StoreProductIDs(ctx, fulfillment.Pickup.StoreID)
		if err != nil {
			return domain.OrderDraft{}, fmt.Errorf("获取自提店铺商品失败: %w", err)
		}
	}

	return domain.BuildDraft(orderItems, fulfillment, storeProductIDs)
}

func (h *Handler) createOrder(ctx context.Context, uid int64, draft domain.OrderDraft) (domain.Order, error) {
	orderSN, err := h.snGenerator.Generate(uid)
	if err != nil {
		return domain.Order{}, fmt.Errorf("生成订单序列号失败: %w", err)
	}
	return h.svc.CreateOrder(ctx, domain.Order{
		SN:             orderSN,
		BuyerID:        uid,
		Fulfillment:    draft.Fulfillment,
		Items:          draft.Items,
		Subtotal:       draft.Subtotal,
		FulfillmentFee: draft.FulfillmentFee,
		TotalAmount:    draft.TotalAmount,
	})
}

// RetrieveOrderStatus 获取订单状态, 订单状态与支付状态相互独立
func (h *Handler) RetrieveOrderStatus(ctx *ginx.Context, req RetrieveOrderStatusReq, sess session.Session) (ginx.Result, error) {
	order, err := h.svc.FindOrderByUIDAndSN(ctx.Request.Context(), sess.Claims().Uid, req.OrderSN)
	if err != nil {
		return systemErrorResult, fmt.Errorf("订单未找到: %w", err)
	}
	return ginx.Result{
		Data: RetrieveOrderStatusResp{
			OrderStatus:   order.Status.String(),
			PaymentStatus: order.PaymentStatus.String(),
		},
	}, nil
}

// ListOrders 分页查询用户订单
func (h *Handler) ListOrders(ctx *ginx.Context, req ListOrdersReq, sess session.Session) (ginx.Result, error) {
	orders, total, err := h.svc.ListOrders(ctx.Request.Context(), req.Offset, req.Limit, sess.Claims().Uid)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ListOrdersResp{
			Total: total,
			Orders: slice.Map(orders, func(idx int, src domain.Order) Order {
				return h.toOrderVO(src)
			}),
		},
	}, nil
}

// RetrieveOrderDetail 查看订单详情
func (h *Handler) RetrieveOrderDetail(ctx *ginx.Context, req RetrieveOrderDetailReq, sess session.Session) (ginx.Result, error) {
	order, err := h.svc.FindOrderByUIDAndSN(ctx.Request.Context(), sess.Claims().Uid, req.OrderSN)
	if err != nil {
		return systemErrorResult, fmt.Errorf("订单未找到: %w", err)
	}
	return ginx.Result{
		Data: RetrieveOrderDetailResp{Order: h.toOrderVO(order)},
	}, nil
}

// CancelOrder 取消订单, 仅限未支付订单; 已支付订单走退款流程
func (h *Handler) CancelOrder(ctx *ginx.Context, req CancelOrderReq, sess session.Session) (ginx.Result, error) {
	uid := sess.Claims().Uid
	order, err := h.svc.FindOrderByUIDAndSN(ctx.Request.Context(), uid, req.OrderSN)
	if err != nil {
		return systemErrorResult, fmt.Errorf("查找订单失败: %w", err)
	}
	err = h.svc.CancelOrder(ctx.Request.Context(), uid, order.ID, order.Status, order.PaymentStatus)
	if err != nil {
		return systemErrorResult, fmt.Errorf("取消订单失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

// orderDescription 网关展示用的订单简述, 形如 "순금 돌반지 3.75g 외 2건"
func (h *Handler) orderDescription(items []domain.OrderItem) string {
	if len(items) == 0 {
		return ""
	}
	if len(items) == 1 {
		return items[0].SPUName
	}
	return fmt.Sprintf("%s 외 %d건", items[0].SPUName, len(items)-1)
}

func (h *Handler) toFulfillmentDomain(f Fulfillment) domain.Fulfillment {
	res := domain.Fulfillment{}
	switch f.Type {
	case domain.FulfillmentDelivery.String():
		res.Type = domain.FulfillmentDelivery
		if f.Delivery != nil {
			res.Delivery = &domain.DeliveryInfo{
				Recipient:     f.Delivery.Recipient,
				Phone:         f.Delivery.Phone,
				PostalCode:    f.Delivery.PostalCode,
				Address1:      f.Delivery.Address1,
				Address2:      f.Delivery.Address2,
				SaveAsDefault: f.Delivery.SaveAsDefault,
			}
		} else {
			res.Delivery = &domain.DeliveryInfo{}
		}
	case domain.FulfillmentPickup.String():
		res.Type = domain.FulfillmentPickup
		if f.Pickup != nil {
			res.Pickup = &domain.PickupInfo{StoreID: f.Pickup.StoreID}
		}
	}
	return res
}

func (h *Handler) toOrderVO(order domain.Order) Order {
	f := Fulfillment{Type: order.Fulfillment.Type.String()}
	if d := order.Fulfillment.Delivery; d != nil {
		f.Delivery = &Delivery{
			Recipient:  d.Recipient,
			Phone:      d.Phone,
			PostalCode: d.PostalCode,
			Address1:   d.Address1,
			Address2:   d.Address2,
		}
	}
	if p := order.Fulfillment.Pickup; p != nil {
		f.Pickup = &Pickup{StoreID: p.StoreID}
	}
	return Order{
		SN:          order.SN,
		Fulfillment: f,
		Items: slice.Map(order.Items, func(idx int, src domain.OrderItem) OrderItem {
			return h.toOrderItemVO(src)
		}),
		Subtotal:        order.Subtotal,
		FulfillmentFee:  order.FulfillmentFee,
		TotalAmount:     order.TotalAmount,
		TotalAmountText: krw.Format(order.TotalAmount),
		Status:          order.Status.String(),
		PaymentStatus:   order.PaymentStatus.String(),
		Ctime:           order.Ctime,
		Utime:           order.Utime,
	}
}

func (h *Handler) toOrderItemVO(src domain.OrderItem) OrderItem {
	return OrderItem{
		SPUID:           src.SPUID,
		Name:            src.SPUName,
		OptionSnapshot:  src.OptionSnapshot,
		Quantity:        src.Quantity,
		UnitPrice:       src.UnitPrice,
		OptionSurcharge: src.OptionSurcharge,
		SubAmount:       src.SubAmount(),
		SubAmountText:   krw.Format(src.SubAmount()),
	}
}
