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
	"errors"
	"strconv"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
	"github.com/udonggeum/udonggeum/internal/payment/internal/domain"
	"github.com/udonggeum/udonggeum/internal/payment/internal/service"
	"github.com/udonggeum/udonggeum/internal/pkg/krw"
)

var _ ginx.Handler = (*Handler)(nil)

// paymentProvider 目前只接了一家网关
const paymentProvider = "kakaopay"

type Handler struct {
	svc    service.Service
	logger *elog.Component
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{
		svc:    svc,
		logger: elog.DefaultLogger,
	}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/payment")
	g.POST("/ready", ginx.BS[ReadyReq](h.Ready))
	g.POST("/status", ginx.BS[RetrievePaymentStatusReq](h.RetrievePaymentStatus))
	g.POST("/refund", ginx.BS[RefundReq](h.Refund))
}

// PublicRoutes 网关回调无登录态, 全部走公开路由
func (h *Handler) PublicRoutes(server *gin.Engine) {
	g := server.Group("/payment/callback")
	g.GET("/success", ginx.W(h.SuccessCallback))
	g.GET("/fail", ginx.W(h.FailCallback))
	g.GET("/cancel", ginx.W(h.CancelCallback))
}

// Ready 发起网关预下单, 返回跳转会话
func (h *Handler) Ready(ctx *ginx.Context, req ReadyReq, sess session.Session) (ginx.Result, error) {
	uid := sess.Claims().Uid
	pmt, err := h.svc.FindPaymentByOrderSN(ctx.Request.Context(), req.OrderSN)
	if err != nil {
		return paymentNotFoundResult, err
	}
	s, err := h.svc.Ready(ctx.Request.Context(), uid, pmt.OrderID)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotPayable) {
			return paymentNotPayableResult, nil
		}
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ReadyResp{
			TID:                   s.TID,
			NextRedirectPCURL:     s.NextRedirectPCURL,
			NextRedirectMobileURL: s.NextRedirectMobileURL,
			NextRedirectAppURL:    s.NextRedirectAppURL,
			AndroidAppScheme:      s.AndroidAppScheme,
			IOSAppScheme:          s.IOSAppScheme,
			CreatedAt:             s.CreatedAt,
		},
	}, nil
}

func (h *Handler) RetrievePaymentStatus(ctx *ginx.Context, req RetrievePaymentStatusReq, sess session.Session) (ginx.Result, error) {
	pmt, err := h.svc.FindPaymentByOrderSN(ctx.Request.Context(), req.OrderSN)
	if err != nil {
		return paymentNotFoundResult, err
	}
	if pmt.PayerID != sess.Claims().Uid {
		return paymentNotFoundResult, nil
	}
	refunds, err := h.svc.FindRefundsByOrderID(ctx.Request.Context(), pmt.OrderID)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: RetrievePaymentStatusResp{
			Status:          pmt.Status.String(),
			Provider:        paymentProvider,
			TID:             pmt.TID,
			AID:             pmt.AID,
			Method:          pmt.Method,
			TotalAmount:     pmt.TotalAmount,
			TotalAmountText: krw.Format(pmt.TotalAmount),
			ApprovedAt:      pmt.ApprovedAt,
			FailReason:      pmt.FailReason,
			Refunds: slice.Map(refunds, func(idx int, src domain.Refund) Refund {
				return h.toRefundVO(src)
			}),
		},
	}, nil
}

func (h *Handler) Refund(ctx *ginx.Context, req RefundReq, sess session.Session) (ginx.Result, error) {
	uid := sess.Claims().Uid
	pmt, err := h.svc.FindPaymentByOrderSN(ctx.Request.Context(), req.OrderSN)
	if err != nil {
		return paymentNotFoundResult, err
	}
	refund, err := h.svc.Refund(ctx.Request.Context(), uid, pmt.OrderID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefundAmountExceeded):
			return refundExceededResult, nil
		case errors.Is(err, service.ErrRefundNotAllowed):
			return refundNotAllowedResult, nil
		default:
			return systemErrorResult, err
		}
	}
	return ginx.Result{
		Data: RefundResp{Refund: h.toRefundVO(refund)},
	}, nil
}

// SuccessCallback 网关认证完成跳回。
// order_id 与 pg_token 任一非法都直接拒绝, 不会发起批准
func (h *Handler) SuccessCallback(ctx *ginx.Context) (ginx.Result, error) {
	orderID, ok := h.parseOrderID(ctx)
	if !ok {
		return invalidParamsResult, nil
	}
	pgToken := ctx.Context.Query("pg_token")
	if pgToken == "" {
		return invalidParamsResult, nil
	}
	pmt, err := h.svc.Approve(ctx.Request.Context(), orderID, pgToken)
	if err != nil {
		if errors.Is(err, service.ErrSessionExpired) {
			return sessionExpiredResult, nil
		}
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: CallbackResp{
			OrderID:         orderID,
			Status:          pmt.Status.String(),
			AID:             pmt.AID,
			Method:          pmt.Method,
			TotalAmount:     pmt.TotalAmount,
			TotalAmountText: krw.Format(pmt.TotalAmount),
			ApprovedAt:      pmt.ApprovedAt,
		},
	}, nil
}

func (h *Handler) FailCallback(ctx *ginx.Context) (ginx.Result, error) {
	orderID, ok := h.parseOrderID(ctx)
	if !ok {
		return invalidParamsResult, nil
	}
	errMsg := ctx.Context.Query("error_msg")
	if errMsg == "" {
		errMsg = "결제에 실패했습니다"
	}
	err := h.svc.HandleFailCallback(ctx.Request.Context(), orderID, errMsg)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: CallbackResp{
			OrderID: orderID,
			Status:  domain.PaymentStatusPaidFailed.String(),
			ErrMsg:  errMsg,
		},
	}, nil
}

func (h *Handler) CancelCallback(ctx *ginx.Context) (ginx.Result, error) {
	orderID, ok := h.parseOrderID(ctx)
	if !ok {
		return invalidParamsResult, nil
	}
	err := h.svc.HandleCancelCallback(ctx.Request.Context(), orderID)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: CallbackResp{
			OrderID: orderID,
			Status:  domain.PaymentStatusUnpaid.String(),
		},
	}, nil
}

func (h *Handler) parseOrderID(ctx *ginx.Context) (int64, bool) {
	orderID, err := strconv.ParseInt(ctx.Context.Query("order_id"), 10, 64)
	if err != nil || orderID <= 0 {
		return 0, false
	}
	return orderID, true
}

func (h *Handler) toRefundVO(src domain.Refund) Refund {
	return Refund{
		SN:                  src.SN,
		TID:                 src.TID,
		CanceledAmount:      src.CanceledAmount,
		CanceledAmountText:  krw.Format(src.CanceledAmount),
		RemainingAmount:     src.RemainingAmount,
		RemainingAmountText: krw.Format(src.RemainingAmount),
		CanceledAt:          src.CanceledAt,
	}
}
