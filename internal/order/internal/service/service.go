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
	"time"

	"github.com/udonggeum/udonggeum/internal/order/internal/domain"
	"github.com/udonggeum/udonggeum/internal/order/internal/repository"
	"golang.org/x/sync/errgroup"
)

var (
	ErrOrderNotCancelable = errors.New("当前状态不可取消订单")
)

type Service interface {
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	FindOrderByUIDAndSN(ctx context.Context, uid int64, orderSN string) (domain.Order, error)
	ListOrders(ctx context.Context, offset, limit int, uid int64) ([]domain.Order, int64, error)
	CancelOrder(ctx context.Context, uid, orderID int64, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error
	UpdateOrderPaymentIDAndPaymentSN(ctx context.Context, uid, orderID, paymentID int64, paymentSN string) error
	// SyncPaymentStatus 由 payment_events 消费者调用, 把支付模块的最终状态
	// 同步到订单冗余字段上。支付成功时顺带把订单推进到已确认。
	SyncPaymentStatus(ctx context.Context, uid int64, orderSN string, paymentStatus domain.PaymentStatus) error
	ListExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, error)
	CloseExpiredOrders(ctx context.Context, orderIDs []int64) error
}

func NewService(repo repository.OrderRepository) Service {
	return &service{repo: repo}
}

type service struct {
	repo repository.OrderRepository
}

func (s *service) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	order.Status = domain.OrderStatusPending
	order.PaymentStatus = domain.PaymentStatusPending
	return s.repo.CreateOrder(ctx, order)
}

func (s *service) FindOrderByUIDAndSN(ctx context.Context, uid int64, orderSN string) (domain.Order, error) {
	return s.repo.FindOrderBySNAndBuyerID(ctx, orderSN, uid)
}

func (s *service) ListOrders(ctx context.Context, offset, limit int, uid int64) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListOrdersByUID(ctx, offset, limit, uid)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalOrders(ctx, uid)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) CancelOrder(ctx context.Context, uid, orderID int64, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error {
	// 已进入支付成功及之后的订单走退款流程, 不能直接取消
	if paymentStatus != domain.PaymentStatusPending || status == domain.OrderStatusCanceled {
		return ErrOrderNotCancelable
	}
	return s.repo.UpdateOrderStatus(ctx, uid, orderID, domain.OrderStatusCanceled, time.Now().UnixMilli())
}

func (s *service) UpdateOrderPaymentIDAndPaymentSN(ctx context.Context, uid, orderID, paymentID int64, paymentSN string) error {
	return s.repo.UpdateOrderPaymentInfo(ctx, uid, orderID, paymentID, paymentSN)
}

func (s *service) SyncPaymentStatus(ctx context.Context, uid int64, orderSN string, paymentStatus domain.PaymentStatus) error {
	var status domain.OrderStatus
	if paymentStatus == domain.PaymentStatusCompleted {
		status = domain.OrderStatusConfirmed
	}
	return s.repo.UpdateOrderPaymentStatus(ctx, uid, orderSN, paymentStatus, status)
}

func (s *service) ListExpiredOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, error) {
	return s.repo.ListExpiredUnpaidOrders(ctx, offset, limit, ctime)
}

func (s *service) CloseExpiredOrders(ctx context.Context, orderIDs []int64) error {
	return s.repo.CloseOrders(ctx, orderIDs)
}
