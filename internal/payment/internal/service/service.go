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
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gotomicro/ego/core/elog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/udonggeum/udonggeum/internal/payment/internal/domain"
	"github.com/udonggeum/udonggeum/internal/payment/internal/events"
	"github.com/udonggeum/udonggeum/internal/payment/internal/repository"
	"github.com/udonggeum/udonggeum/internal/payment/internal/service/kakao"
	"github.com/udonggeum/udonggeum/internal/pkg/snowflake"
)

var (
	// ErrPaymentNotPayable 当前支付状态不允许发起或批准支付
	ErrPaymentNotPayable = errors.New("当前支付状态不可支付")
	// ErrRefundAmountExceeded 累计退款金额超出支付总额
	ErrRefundAmountExceeded = repository.ErrRefundAmountExceeded
	// ErrRefundNotAllowed 非已支付状态不允许退款
	ErrRefundNotAllowed = errors.New("当前支付状态不可退款")
	// ErrSessionExpired 支付会话已过期, 需重新 ready
	ErrSessionExpired = errors.New("支付会话已过期")
)

// gatewayTimeLayout 网关返回的时间格式, 无时区后缀, 按本地时区解析
const gatewayTimeLayout = "2006-01-02T15:04:05"

//go:generate mockgen -source=./service.go -package=svcmocks -destination=./mocks/payment.mock.go Service
type Service interface {
	// CreatePayment 幂等创建支付主记录, 同一订单重复调用返回同一条
	CreatePayment(ctx context.Context, pmt domain.Payment) (domain.Payment, error)
	// Ready 向网关预下单, 返回跳转会话。重复调用会替换旧会话, 旧 tid 作废
	Ready(ctx context.Context, uid, orderID int64) (domain.PaymentSession, error)
	// Approve 批准支付, 幂等: 已支付的支付不会再次请求网关
	Approve(ctx context.Context, orderID int64, pgToken string) (domain.Payment, error)
	// HandleFailCallback 网关失败回调, 支付进入失败终态
	HandleFailCallback(ctx context.Context, orderID int64, errorMsg string) error
	// HandleCancelCallback 用户在网关侧中途放弃, 会话作废, 支付回到未支付可重试
	HandleCancelCallback(ctx context.Context, orderID int64) error
	FindPaymentByOrderID(ctx context.Context, uid, orderID int64) (domain.Payment, error)
	FindPaymentByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error)
	FindRefundsByOrderID(ctx context.Context, orderID int64) ([]domain.Refund, error)
	// Refund 部分或全额退款, 累计退款不超过支付总额
	Refund(ctx context.Context, uid, orderID, amount int64) (domain.Refund, error)
	// FindTimeoutPayments 查询停留在支付中状态过久的支付及其总数, 供对账任务使用
	FindTimeoutPayments(ctx context.Context, offset, limit int, t time.Time) ([]domain.Payment, int64, error)
	// SyncPaymentStatus 向网关查询交易真实状态并同步本地记录
	SyncPaymentStatus(ctx context.Context, pmt domain.Payment) error
}

// CallbackURLs 网关认证完成后跳回的三个地址, order_id 以查询参数拼接
type CallbackURLs struct {
	Approval string
	Cancel   string
	Fail     string
}

func NewService(repo repository.PaymentRepository,
	gateway kakao.Client,
	producer events.PaymentEventProducer,
	idGen snowflake.Generator,
	callback CallbackURLs) Service {
	return &service{
		repo:     repo,
		gateway:  gateway,
		producer: producer,
		idGen:    idGen,
		callback: callback,
		logger:   elog.DefaultLogger,
	}
}

type service struct {
	repo     repository.PaymentRepository
	gateway  kakao.Client
	producer events.PaymentEventProducer
	idGen    snowflake.Generator
	callback CallbackURLs
	logger   *elog.Component
}

func (s *service) CreatePayment(ctx context.Context, pmt domain.Payment) (domain.Payment, error) {
	id, err := s.idGen.Generate(snowflake.AppPayment)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("生成支付序列号失败: %w", err)
	}
	pmt.SN = id.String()
	pmt.Status = domain.PaymentStatusUnpaid
	return s.repo.FindOrCreatePayment(ctx, pmt)
}

func (s *service) Ready(ctx context.Context, uid, orderID int64) (domain.PaymentSession, error) {
	pmt, err := s.findPayerPayment(ctx, uid, orderID)
	if err != nil {
		return domain.PaymentSession{}, fmt.Errorf("查找支付主记录失败: %w", err)
	}
	if !s.payable(pmt.Status) {
		return domain.PaymentSession{}, fmt.Errorf("%w: 当前状态 %s", ErrPaymentNotPayable, pmt.Status)
	}

	res, err := s.gateway.Ready(ctx, kakao.ReadyRequest{
		PartnerOrderID: pmt.OrderSN,
		PartnerUserID:  strconv.FormatInt(uid, 10),
		ItemName:       pmt.Description,
		Quantity:       1,
		TotalAmount:    pmt.TotalAmount,
		ApprovalURL:    s.callbackURL(s.callback.Approval, orderID),
		CancelURL:      s.callbackURL(s.callback.Cancel, orderID),
		FailURL:        s.callbackURL(s.callback.Fail, orderID),
	})
	if err != nil {
		return domain.PaymentSession{}, fmt.Errorf("网关预下单失败: %w", err)
	}

	session := domain.PaymentSession{
		OrderID:               orderID,
		TID:                   res.TID,
		NextRedirectPCURL:     res.NextRedirectPCURL,
		NextRedirectMobileURL: res.NextRedirectMobileURL,
		NextRedirectAppURL:    res.NextRedirectAppURL,
		AndroidAppScheme:      res.AndroidAppScheme,
		IOSAppScheme:          res.IOSAppScheme,
		CreatedAt:             s.parseGatewayTime(res.CreatedAt),
	}
	// 覆盖写入会话, 再落库新 tid, 旧 tid 自然作废
	if err = s.repo.SaveSession(ctx, session); err != nil {
		return domain.PaymentSession{}, fmt.Errorf("保存支付会话失败: %w", err)
	}
	err = s.repo.UpdateTIDAndStatus(ctx, orderID, res.TID, domain.PaymentStatusProcessing)
	if err != nil {
		return domain.PaymentSession{}, fmt.Errorf("更新支付tid失败: %w", err)
	}
	return session, nil
}

func (s *service) payable(status domain.PaymentStatus) bool {
	switch status {
	case domain.PaymentStatusUnpaid, domain.PaymentStatusProcessing, domain.PaymentStatusPaidFailed:
		return true
	default:
		return false
	}
}

// awaitingGateway 仅未支付与支付中的支付仍在等网关结论, 终态不再接受回调改写
func (s *service) awaitingGateway(status domain.PaymentStatus) bool {
	return status == domain.PaymentStatusUnpaid || status == domain.PaymentStatusProcessing
}

func (s *service) Approve(ctx context.Context, orderID int64, pgToken string) (domain.Payment, error) {
	pmt, err := s.repo.FindPaymentByOrderID(ctx, orderID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("查找支付主记录失败: %w", err)
	}
	// 已支付的直接返回, 不再请求网关
	if pmt.Status == domain.PaymentStatusPaidSuccess {
		return pmt, nil
	}
	if pmt.Status != domain.PaymentStatusProcessing || pmt.TID == "" {
		return domain.Payment{}, fmt.Errorf("%w: 当前状态 %s", ErrPaymentNotPayable, pmt.Status)
	}
	session, err := s.repo.FindSession(ctx, orderID)
	if err != nil || session.TID != pmt.TID {
		return domain.Payment{}, fmt.Errorf("%w", ErrSessionExpired)
	}

	res, err := s.gateway.Approve(ctx, kakao.ApproveRequest{
		TID:            pmt.TID,
		PartnerOrderID: pmt.OrderSN,
		PartnerUserID:  strconv.FormatInt(pmt.PayerID, 10),
		PgToken:        pgToken,
	})
	if err != nil {
		return domain.Payment{}, fmt.Errorf("网关批准失败: %w", err)
	}

	approvedAt := s.parseGatewayTime(res.ApprovedAt)
	err = s.repo.UpdateApproved(ctx, orderID, res.AID, res.PaymentMethodType, approvedAt)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("更新支付批准信息失败: %w", err)
	}
	if er := s.repo.DeleteSession(ctx, orderID); er != nil {
		s.logger.Warn("删除支付会话失败", elog.FieldErr(er), elog.Int64("order_id", orderID))
	}

	pmt.AID = res.AID
	pmt.Method = res.PaymentMethodType
	pmt.ApprovedAt = approvedAt
	pmt.Status = domain.PaymentStatusPaidSuccess
	s.produce(ctx, pmt, events.StatusPaid)
	return pmt, nil
}

func (s *service) HandleFailCallback(ctx context.Context, orderID int64, errorMsg string) error {
	pmt, err := s.repo.FindPaymentByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("查找支付主记录失败: %w", err)
	}
	// 回调无登录态, 只有未结清的支付才接受状态回退
	if !s.awaitingGateway(pmt.Status) {
		s.logger.Warn("忽略非进行中支付的失败回调",
			elog.Int64("order_id", orderID),
			elog.String("status", pmt.Status.String()))
		return nil
	}
	if err = s.repo.UpdateStatus(ctx, orderID, domain.PaymentStatusPaidFailed, errorMsg); err != nil {
		return fmt.Errorf("更新支付状态失败: %w", err)
	}
	if er := s.repo.DeleteSession(ctx, orderID); er != nil {
		s.logger.Warn("删除支付会话失败", elog.FieldErr(er), elog.Int64("order_id", orderID))
	}
	s.produce(ctx, pmt, events.StatusFailed)
	return nil
}

func (s *service) HandleCancelCallback(ctx context.Context, orderID int64) error {
	pmt, err := s.repo.FindPaymentByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("查找支付主记录失败: %w", err)
	}
	if !s.awaitingGateway(pmt.Status) {
		s.logger.Warn("忽略非进行中支付的取消回调",
			elog.Int64("order_id", orderID),
			elog.String("status", pmt.Status.String()))
		return nil
	}
	if err := s.repo.UpdateStatus(ctx, orderID, domain.PaymentStatusUnpaid, ""); err != nil {
		return fmt.Errorf("更新支付状态失败: %w", err)
	}
	if er := s.repo.DeleteSession(ctx, orderID); er != nil {
		s.logger.Warn("删除支付会话失败", elog.FieldErr(er), elog.Int64("order_id", orderID))
	}
	return nil
}

func (s *service) FindPaymentByOrderID(ctx context.Context, uid, orderID int64) (domain.Payment, error) {
	return s.findPayerPayment(ctx, uid, orderID)
}

// findPayerPayment 校验支付归属, 非本人一律按未找到处理
func (s *service) findPayerPayment(ctx context.Context, uid, orderID int64) (domain.Payment, error) {
	pmt, err := s.repo.FindPaymentByOrderID(ctx, orderID)
	if err != nil {
		return domain.Payment{}, err
	}
	if pmt.PayerID != uid {
		return domain.Payment{}, gorm.ErrRecordNotFound
	}
	return pmt, nil
}

func (s *service) FindPaymentByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error) {
	return s.repo.FindPaymentByOrderSN(ctx, orderSN)
}

func (s *service) FindRefundsByOrderID(ctx context.Context, orderID int64) ([]domain.Refund, error) {
	return s.repo.FindRefundsByOrderID(ctx, orderID)
}

func (s *service) Refund(ctx context.Context, uid, orderID, amount int64) (domain.Refund, error) {
	pmt, err := s.findPayerPayment(ctx, uid, orderID)
	if err != nil {
		return domain.Refund{}, fmt.Errorf("查找支付主记录失败: %w", err)
	}
	if pmt.Status != domain.PaymentStatusPaidSuccess {
		return domain.Refund{}, fmt.Errorf("%w: 当前状态 %s", ErrRefundNotAllowed, pmt.Status)
	}
	refunded, err := s.repo.TotalRefundedAmount(ctx, pmt.ID)
	if err != nil {
		return domain.Refund{}, fmt.Errorf("统计累计退款失败: %w", err)
	}
	if amount <= 0 || refunded+amount > pmt.TotalAmount {
		return domain.Refund{}, fmt.Errorf("%w: 已退 %d, 本次 %d, 总额 %d",
			ErrRefundAmountExceeded, refunded, amount, pmt.TotalAmount)
	}

	res, err := s.gateway.Cancel(ctx, kakao.CancelRequest{
		TID:          pmt.TID,
		CancelAmount: amount,
	})
	if err != nil {
		return domain.Refund{}, fmt.Errorf("网关退款失败: %w", err)
	}

	id, err := s.idGen.Generate(snowflake.AppRefund)
	if err != nil {
		return domain.Refund{}, fmt.Errorf("生成退款序列号失败: %w", err)
	}
	refund, err := s.repo.CreateRefund(ctx, domain.Refund{
		SN:              id.String(),
		PaymentID:       pmt.ID,
		OrderID:         orderID,
		TID:             pmt.TID,
		CanceledAmount:  res.CanceledAmount.Total,
		RemainingAmount: res.CancelAvailableAmount.Total,
		CanceledAt:      s.parseGatewayTime(res.CanceledAt),
	})
	if err != nil {
		return domain.Refund{}, fmt.Errorf("保存退款记录失败: %w", err)
	}

	if res.CancelAvailableAmount.Total == 0 {
		if er := s.repo.UpdateStatus(ctx, orderID, domain.PaymentStatusRefunded, ""); er != nil {
			return domain.Refund{}, fmt.Errorf("更新支付状态失败: %w", er)
		}
		s.produce(ctx, pmt, events.StatusRefunded)
	}
	return refund, nil
}

func (s *service) FindTimeoutPayments(ctx context.Context, offset, limit int, t time.Time) ([]domain.Payment, int64, error) {
	var (
		eg       errgroup.Group
		payments []domain.Payment
		total    int64
	)
	eg.Go(func() error {
		var err error
		payments, err = s.repo.FindTimeoutPayments(ctx, offset, limit, t)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalTimeoutPayments(ctx, t)
		return err
	})
	return payments, total, eg.Wait()
}

func (s *service) SyncPaymentStatus(ctx context.Context, pmt domain.Payment) error {
	res, err := s.gateway.Order(ctx, pmt.TID)
	if err != nil {
		return fmt.Errorf("查询网关交易失败: %w", err)
	}
	switch res.Status {
	case kakao.StatusSuccessPayment, kakao.StatusPartCancelPayment:
		err = s.repo.UpdateApproved(ctx, pmt.OrderID, pmt.AID, res.PaymentMethodType, time.Now().UnixMilli())
		if err != nil {
			return fmt.Errorf("更新支付状态失败: %w", err)
		}
		s.produce(ctx, pmt, events.StatusPaid)
	case kakao.StatusFailPayment, kakao.StatusQuitPayment:
		err = s.repo.UpdateStatus(ctx, pmt.OrderID, domain.PaymentStatusPaidFailed, res.Status)
		if err != nil {
			return fmt.Errorf("更新支付状态失败: %w", err)
		}
		s.produce(ctx, pmt, events.StatusFailed)
	case kakao.StatusCancelPayment:
		err = s.repo.UpdateStatus(ctx, pmt.OrderID, domain.PaymentStatusRefunded, "")
		if err != nil {
			return fmt.Errorf("更新支付状态失败: %w", err)
		}
		s.produce(ctx, pmt, events.StatusRefunded)
	default:
		// 仍停留在中间状态, 留给下一轮对账
	}
	return nil
}

func (s *service) produce(ctx context.Context, pmt domain.Payment, status string) {
	err := s.producer.Produce(ctx, events.PaymentEvent{
		OrderSN: pmt.OrderSN,
		OrderID: pmt.OrderID,
		PayerID: pmt.PayerID,
		Status:  status,
	})
	if err != nil {
		s.logger.Error("发送支付事件失败",
			elog.FieldErr(err),
			elog.String("order_sn", pmt.OrderSN),
			elog.String("status", status))
	}
}

func (s *service) callbackURL(base string, orderID int64) string {
	return fmt.Sprintf("%s?order_id=%d", base, orderID)
}

func (s *service) parseGatewayTime(v string) int64 {
	t, err := time.ParseInLocation(gatewayTimeLayout, v, time.Local)
	if err != nil {
		return time.Now().UnixMilli()
	}
	return t.UnixMilli()
}
