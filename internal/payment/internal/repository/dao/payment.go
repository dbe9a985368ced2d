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

package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

var (
	// ErrRefundAmountExceeded 累计退款金额超出支付总额
	ErrRefundAmountExceeded = errors.New("累计退款金额超出支付总额")
)

type PaymentDAO interface {
	FindOrCreate(ctx context.Context, pmt Payment) (Payment, error)
	FindByOrderID(ctx context.Context, orderID int64) (Payment, error)
	FindByOrderSN(ctx context.Context, orderSN string) (Payment, error)
	// UpdateTIDAndStatus ready 成功后写入新 tid, 旧 tid 被整体替换
	UpdateTIDAndStatus(ctx context.Context, orderID int64, tid string, status uint8) error
	// UpdateApproved approve 成功后写入批准信息并置为已支付
	UpdateApproved(ctx context.Context, orderID int64, aid, method string, approvedAt int64, status uint8) error
	UpdateStatus(ctx context.Context, orderID int64, status uint8, failReason string) error
	FindTimeoutPayments(ctx context.Context, offset, limit int, t time.Time) ([]Payment, error)
	CountTimeoutPayments(ctx context.Context, t time.Time) (int64, error)
	// CreateRefund 在事务内校验累计退款不超过支付总额后落库
	CreateRefund(ctx context.Context, r Refund) (Refund, error)
	SumRefundedAmount(ctx context.Context, paymentID int64) (int64, error)
	FindRefundsByOrderID(ctx context.Context, orderID int64) ([]Refund, error)
}

type PaymentGORMDAO struct {
	db *gorm.DB
}

func NewPaymentGORMDAO(db *gorm.DB) PaymentDAO {
	return &PaymentGORMDAO{db: db}
}

func (g *PaymentGORMDAO) FindOrCreate(ctx context.Context, pmt Payment) (Payment, error) {
	now := time.Now().UnixMilli()
	pmt.Ctime, pmt.Utime = now, now
	err := g.db.WithContext(ctx).
		FirstOrCreate(&pmt, "order_id = ?", pmt.OrderId).Error
	if err != nil {
		return Payment{}, fmt.Errorf("创建支付主记录失败: %w", err)
	}
	return pmt, nil
}

func (g *PaymentGORMDAO) FindByOrderID(ctx context.Context, orderID int64) (Payment, error) {
	var res Payment
	err := g.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&res).Error
	return res, err
}

func (g *PaymentGORMDAO) FindByOrderSN(ctx context.Context, orderSN string) (Payment, error) {
	var res Payment
	err := g.db.WithContext(ctx).Where("order_sn = ?", orderSN).First(&res).Error
	return res, err
}

func (g *PaymentGORMDAO) UpdateTIDAndStatus(ctx context.Context, orderID int64, tid string, status uint8) error {
	return g.db.WithContext(ctx).Model(&Payment{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{
			"tid":    sql.NullString{String: tid, Valid: tid != ""},
			"status": status,
			"utime":  time.Now().UnixMilli(),
		}).Error
}

func (g *PaymentGORMDAO) UpdateApproved(ctx context.Context, orderID int64, aid, method string, approvedAt int64, status uint8) error {
	return g.db.WithContext(ctx).Model(&Payment{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{
			"aid":            sql.NullString{String: aid, Valid: aid != ""},
			"payment_method": method,
			"approved_at":    approvedAt,
			"status":         status,
			"utime":          time.Now().UnixMilli(),
		}).Error
}

func (g *PaymentGORMDAO) UpdateStatus(ctx context.Context, orderID int64, status uint8, failReason string) error {
	fields := map[string]any{
		"status": status,
		"utime":  time.Now().UnixMilli(),
	}
	if failReason != "" {
		fields["fail_reason"] = failReason
	}
	return g.db.WithContext(ctx).Model(&Payment{}).
		Where("order_id = ?", orderID).
		Updates(fields).Error
}

func (g *PaymentGORMDAO) FindTimeoutPayments(ctx context.Context, offset, limit int, t time.Time) ([]Payment, error) {
	var res []Payment
	err := g.db.WithContext(ctx).
		Where("status = ? AND utime < ?", paymentStatusProcessing, t.UnixMilli()).
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (g *PaymentGORMDAO) CountTimeoutPayments(ctx context.Context, t time.Time) (int64, error) {
	var total int64
	err := g.db.WithContext(ctx).Model(&Payment{}).
		Where("status = ? AND utime < ?", paymentStatusProcessing, t.UnixMilli()).
		Count(&total).Error
	return total, err
}

// paymentStatusProcessing 与 domain.PaymentStatusProcessing 保持一致
const paymentStatusProcessing uint8 = 2

func (g *PaymentGORMDAO) CreateRefund(ctx context.Context, r Refund) (Refund, error) {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pmt Payment
		if err := tx.Where("id = ?", r.PaymentId).First(&pmt).Error; err != nil {
			return fmt.Errorf("查找支付主记录失败: %w", err)
		}
		var refunded sql.NullInt64
		if err := tx.Model(&Refund{}).
			Where("payment_id = ?", r.PaymentId).
			Select("SUM(canceled_amount)").
			Scan(&refunded).Error; err != nil {
			return fmt.Errorf("统计累计退款失败: %w", err)
		}
		if refunded.Int64+r.CanceledAmount > pmt.TotalAmount {
			return ErrRefundAmountExceeded
		}
		now := time.Now().UnixMilli()
		r.Ctime, r.Utime = now, now
		return tx.Create(&r).Error
	})
	return r, err
}

func (g *PaymentGORMDAO) SumRefundedAmount(ctx context.Context, paymentID int64) (int64, error) {
	var refunded sql.NullInt64
	err := g.db.WithContext(ctx).Model(&Refund{}).
		Where("payment_id = ?", paymentID).
		Select("SUM(canceled_amount)").
		Scan(&refunded).Error
	return refunded.Int64, err
}

func (g *PaymentGORMDAO) FindRefundsByOrderID(ctx context.Context, orderID int64) ([]Refund, error) {
	var res []Refund
	err := g.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id DESC").
		Find(&res).Error
	return res, err
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Payment{}, &Refund{})
}

type Payment struct {
	Id            int64          `gorm:"primaryKey;autoIncrement;comment:支付自增ID"`
	SN            string         `gorm:"column:sn;type:varchar(255);not null;uniqueIndex:uniq_payment_sn;comment:支付序列号"`
	PayerId       int64          `gorm:"index:idx_payer_id;comment:支付者ID"`
	OrderId       int64          `gorm:"uniqueIndex:uniq_order_id;comment:订单自增ID"`
	OrderSn       string         `gorm:"type:varchar(255);not null;uniqueIndex:uniq_order_sn;comment:订单序列号"`
	Description   string         `gorm:"type:varchar(255);not null;comment:订单简要描述"`
	TotalAmount   int64          `gorm:"not null;comment:支付总金额, 单位韩元"`
	Tid           sql.NullString `gorm:"type:varchar(255);uniqueIndex:uniq_tid;comment:网关交易号, ready 成功后写入"`
	Aid           sql.NullString `gorm:"type:varchar(255);comment:网关批准号, approve 成功后写入"`
	PaymentMethod string         `gorm:"type:varchar(32);comment:支付方式 CARD/MONEY"`
	Status        uint8          `gorm:"type:tinyint unsigned;not null;default:1;comment:支付状态 1=未支付 2=支付中 3=已支付 4=已失败 5=已退款"`
	ApprovedAt    int64          `gorm:"comment:批准时间"`
	FailReason    string         `gorm:"type:varchar(512);comment:失败原因"`
	Ctime         int64
	Utime         int64
}

type Refund struct {
	Id              int64  `gorm:"primaryKey;autoIncrement;comment:退款自增ID"`
	SN              string `gorm:"column:sn;type:varchar(255);not null;uniqueIndex:uniq_refund_sn;comment:退款序列号"`
	PaymentId       int64  `gorm:"index:idx_payment_id;comment:支付自增ID"`
	OrderId         int64  `gorm:"index:idx_order_id;comment:订单自增ID"`
	Tid             string `gorm:"type:varchar(255);not null;comment:网关交易号"`
	CanceledAmount  int64  `gorm:"not null;comment:本次退款金额"`
	RemainingAmount int64  `gorm:"not null;comment:退款后可退余额"`
	CanceledAt      int64  `gorm:"comment:网关退款时间"`
	Ctime           int64
	Utime           int64
}
