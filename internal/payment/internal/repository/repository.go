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

package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"github.com/udonggeum/udonggeum/internal/payment/internal/domain"
	"github.com/udonggeum/udonggeum/internal/payment/internal/repository/cache"
	"github.com/udonggeum/udonggeum/internal/payment/internal/repository/dao"
)

// ErrRefundAmountExceeded 累计退款金额超出支付总额
var ErrRefundAmountExceeded = dao.ErrRefundAmountExceeded

//go:generate mockgen -source=./repository.go -package=repomocks -destination=mocks/payment.mock.go PaymentRepository
type PaymentRepository interface {
	FindOrCreatePayment(ctx context.Context, pmt domain.Payment) (domain.Payment, error)
	FindPaymentByOrderID(ctx context.Context, orderID int64) (domain.Payment, error)
	FindPaymentByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error)
	UpdateTIDAndStatus(ctx context.Context, orderID int64, tid string, status domain.PaymentStatus) error
	UpdateApproved(ctx context.Context, orderID int64, aid, method string, approvedAt int64) error
	UpdateStatus(ctx context.Context, orderID int64, status domain.PaymentStatus, failReason string) error
	FindTimeoutPayments(ctx context.Context, offset, limit int, t time.Time) ([]domain.Payment, error)
	TotalTimeoutPayments(ctx context.Context, t time.Time) (int64, error)

	CreateRefund(ctx context.Context, r domain.Refund) (domain.Refund, error)
	TotalRefundedAmount(ctx context.Context, paymentID int64) (int64, error)
	FindRefundsByOrderID(ctx context.Context, orderID int64) ([]domain.Refund, error)

	SaveSession(ctx context.Context, s domain.PaymentSession) error
	FindSession(ctx context.Context, orderID int64) (domain.PaymentSession, error)
	DeleteSession(ctx context.Context, orderID int64) error
}

func NewRepository(d dao.PaymentDAO, sessionCache cache.SessionCache) PaymentRepository {
	return &paymentRepository{dao: d, sessionCache: sessionCache}
}

type paymentRepository struct {
	dao          dao.PaymentDAO
	sessionCache cache.SessionCache
}

func (r *paymentRepository) FindOrCreatePayment(ctx context.Context, pmt domain.Payment) (domain.Payment, error) {
	p, err := r.dao.FindOrCreate(ctx, r.toEntity(pmt))
	if err != nil {
		return domain.Payment{}, err
	}
	return r.toDomain(p), nil
}

func (r *paymentRepository) FindPaymentByOrderID(ctx context.Context, orderID int64) (domain.Payment, error) {
	p, err := r.dao.FindByOrderID(ctx, orderID)
	if err != nil {
		return domain.Payment{}, err
	}
	return r.toDomain(p), nil
}

func (r *paymentRepository) FindPaymentByOrderSN(ctx context.Context, orderSN string) (domain.Payment, error) {
	p, err := r.dao.FindByOrderSN(ctx, orderSN)
	if err != nil {
		return domain.Payment{}, err
	}
	return r.toDomain(p), nil
}

func (r *paymentRepository) UpdateTIDAndStatus(ctx context.Context, orderID int64, tid string, status domain.PaymentStatus) error {
	return r.dao.UpdateTIDAndStatus(ctx, orderID, tid, status.ToUint8())
}

func (r *paymentRepository) UpdateApproved(ctx context.Context, orderID int64, aid, method string, approvedAt int64) error {
	return r.dao.UpdateApproved(ctx, orderID, aid, method, approvedAt, domain.PaymentStatusPaidSuccess.ToUint8())
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, orderID int64, status domain.PaymentStatus, failReason string) error {
	return r.dao.UpdateStatus(ctx, orderID, status.ToUint8(), failReason)
}

func (r *paymentRepository) FindTimeoutPayments(ctx context.Context, offset, limit int, t time.Time) ([]domain.Payment, error) {
	ps, err := r.dao.FindTimeoutPayments(ctx, offset, limit, t)
	if err != nil {
		return nil, err
	}
	return slice.Map(ps, func(idx int, src dao.Payment) domain.Payment {
		return r.toDomain(src)
	}), nil
}

func (r *paymentRepository) TotalTimeoutPayments(ctx context.Context, t time.Time) (int64, error) {
	return r.dao.CountTimeoutPayments(ctx, t)
}

func (r *paymentRepository) CreateRefund(ctx context.Context, refund domain.Refund) (domain.Refund, error) {
	created, err := r.dao.CreateRefund(ctx, dao.Refund{
		SN:              refund.SN,
		PaymentId:       refund.PaymentID,
		OrderId:         refund.OrderID,
		Tid:             refund.TID,
		CanceledAmount:  refund.CanceledAmount,
		RemainingAmount: refund.RemainingAmount,
		CanceledAt:      refund.CanceledAt,
	})
	if err != nil {
		return domain.Refund{}, err
	}
	refund.ID = created.Id
	refund.Ctime, refund.Utime = created.Ctime, created.Utime
	return refund, nil
}

func (r *paymentRepository) TotalRefundedAmount(ctx context.Context, paymentID int64) (int64, error) {
	return r.dao.SumRefundedAmount(ctx, paymentID)
}

func (r *paymentRepository) FindRefundsByOrderID(ctx context.Context, orderID int64) ([]domain.Refund, error) {
	rs, err := r.dao.FindRefundsByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return slice.Map(rs, func(idx int, src dao.Refund) domain.Refund {
		return domain.Refund{
			ID:              src.Id,
			SN:              src.SN,
			PaymentID:       src.PaymentId,
			OrderID:         src.OrderId,
			TID:             src.Tid,
			CanceledAmount:  src.CanceledAmount,
			RemainingAmount: src.RemainingAmount,
			CanceledAt:      src.CanceledAt,
			Ctime:           src.Ctime,
			Utime:           src.Utime,
		}
	}), nil
}

func (r *paymentRepository) SaveSession(ctx context.Context, s domain.PaymentSession) error {
	return r.sessionCache.Set(ctx, s)
}

func (r *paymentRepository) FindSession(ctx context.Context, orderID int64) (domain.PaymentSession, error) {
	return r.sessionCache.Get(ctx, orderID)
}

func (r *paymentRepository) DeleteSession(ctx context.Context, orderID int64) error {
	return r.sessionCache.Delete(ctx, orderID)
}

func (r *paymentRepository) toEntity(pmt domain.Payment) dao.Payment {
	return dao.Payment{
		Id:            pmt.ID,
		SN:            pmt.SN,
		PayerId:       pmt.PayerID,
		OrderId:       pmt.OrderID,
		OrderSn:       pmt.OrderSN,
		Description:   pmt.Description,
		TotalAmount:   pmt.TotalAmount,
		Tid:           sql.NullString{String: pmt.TID, Valid: pmt.TID != ""},
		Aid:           sql.NullString{String: pmt.AID, Valid: pmt.AID != ""},
		PaymentMethod: pmt.Method,
		Status:        pmt.Status.ToUint8(),
		ApprovedAt:    pmt.ApprovedAt,
		FailReason:    pmt.FailReason,
	}
}

func (r *paymentRepository) toDomain(p dao.Payment) domain.Payment {
	return domain.Payment{
		ID:          p.Id,
		SN:          p.SN,
		OrderID:     p.OrderId,
		OrderSN:     p.OrderSn,
		PayerID:     p.PayerId,
		Description: p.Description,
		TotalAmount: p.TotalAmount,
		TID:         p.Tid.String,
		AID:         p.Aid.String,
		Method:      p.PaymentMethod,
		Status:      domain.PaymentStatus(p.Status),
		ApprovedAt:  p.ApprovedAt,
		FailReason:  p.FailReason,
		Ctime:       p.Ctime,
		Utime:       p.Utime,
	}
}
