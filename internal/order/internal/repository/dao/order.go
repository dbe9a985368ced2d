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
	"fmt"
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

type OrderDAO interface {
	Create(ctx context.Context, o Order, items []OrderItem) (int64, error)
	FindBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (Order, []OrderItem, error)
	ListByBuyerID(ctx context.Context, offset, limit int, buyerID int64) ([]Order, error)
	CountByBuyerID(ctx context.Context, buyerID int64) (int64, error)
	UpdatePaymentInfo(ctx context.Context, buyerID, orderID, paymentID int64, paymentSN string) error
	UpdateStatus(ctx context.Context, buyerID, orderID int64, status uint8, closedAt int64) error
	UpdatePaymentStatus(ctx context.Context, buyerID int64, sn string, paymentStatus uint8, status uint8) error
	FindExpiredUnpaid(ctx context.Context, offset, limit int, ctime int64) ([]Order, error)
	CloseOrders(ctx context.Context, ids []int64) error
}

func NewOrderGORMDAO(db *egorm.Component) OrderDAO {
	return &GORMOrderDAO{db: db}
}

type GORMOrderDAO struct {
	db *gorm.DB
}

func (g *GORMOrderDAO) Create(ctx context.Context, o Order, items []OrderItem) (int64, error) {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UnixMilli()
		o.Ctime, o.Utime = now, now
		if err := tx.Create(&o).Error; err != nil {
			return fmt.Errorf("创建订单主记录失败: %w", err)
		}
		for i := range items {
			items[i].OrderId = o.Id
			items[i].Ctime, items[i].Utime = now, now
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("创建订单条目失败: %w", err)
		}
		return nil
	})
	return o.Id, err
}

func (g *GORMOrderDAO) FindBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (Order, []OrderItem, error) {
	var o Order
	err := g.db.WithContext(ctx).
		Where("sn = ? AND buyer_id = ?", sn, buyerID).
		First(&o).Error
	if err != nil {
		return Order{}, nil, err
	}
	var items []OrderItem
	err = g.db.WithContext(ctx).Where("order_id = ?", o.Id).Find(&items).Error
	return o, items, err
}

func (g *GORMOrderDAO) ListByBuyerID(ctx context.Context, offset, limit int, buyerID int64) ([]Order, error) {
	var res []Order
	err := g.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (g *GORMOrderDAO) CountByBuyerID(ctx context.Context, buyerID int64) (int64, error) {
	var total int64
	err := g.db.WithContext(ctx).Model(&Order{}).
		Where("buyer_id = ?", buyerID).
		Count(&total).Error
	return total, err
}

func (g *GORMOrderDAO) UpdatePaymentInfo(ctx context.Context, buyerID, orderID, paymentID int64, paymentSN string) error {
	return g.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND buyer_id = ?", orderID, buyerID).
		Updates(map[string]any{
			"payment_id": paymentID,
			"payment_sn": paymentSN,
			"utime":      time.Now().UnixMilli(),
		}).Error
}

func (g *GORMOrderDAO) UpdateStatus(ctx context.Context, buyerID, orderID int64, status uint8, closedAt int64) error {
	updates := map[string]any{
		"status": status,
		"utime":  time.Now().UnixMilli(),
	}
	if closedAt > 0 {
		updates["closed_at"] = closedAt
	}
	return g.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND buyer_id = ?", orderID, buyerID).
		Updates(updates).Error
}

func (g *GORMOrderDAO) UpdatePaymentStatus(ctx context.Context, buyerID int64, sn string, paymentStatus uint8, status uint8) error {
	updates := map[string]any{
		"payment_status": paymentStatus,
		"utime":          time.Now().UnixMilli(),
	}
	if status > 0 {
		updates["status"] = status
	}
	return g.db.WithContext(ctx).Model(&Order{}).
		Where("sn = ? AND buyer_id = ?", sn, buyerID).
		Updates(updates).Error
}

func (g *GORMOrderDAO) FindExpiredUnpaid(ctx context.Context, offset, limit int, ctime int64) ([]Order, error) {
	var res []Order
	err := g.db.WithContext(ctx).
		Where("payment_status = ? AND status = ? AND ctime < ?", 1, 1, ctime).
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (g *GORMOrderDAO) CloseOrders(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return g.db.WithContext(ctx).Model(&Order{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"status":    5,
			"closed_at": time.Now().UnixMilli(),
			"utime":     time.Now().UnixMilli(),
		}).Error
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Order{}, &OrderItem{})
}

type Order struct {
	Id        int64          `gorm:"primaryKey;autoIncrement;comment:订单自增ID"`
	SN        string         `gorm:"type:varchar(255);not null;uniqueIndex:uniq_order_sn;comment:订单序列号"`
	BuyerId   int64          `gorm:"not null;index:idx_buyer_id,comment:买家ID"`
	PaymentId int64          `gorm:"comment:支付自增ID,冗余"`
	PaymentSn sql.NullString `gorm:"type:varchar(255);uniqueIndex:uniq_payment_sn;comment:支付序列号,冗余允许为NULL"`

	FulfillmentType uint8  `gorm:"type:tinyint unsigned;not null;comment:履约方式 1=配送 2=自提"`
	Recipient       string `gorm:"type:varchar(64);comment:收货人"`
	Phone           string `gorm:"type:varchar(32);comment:收货人电话"`
	PostalCode      string `gorm:"type:varchar(8);comment:邮编"`
	Address1        string `gorm:"type:varchar(512);comment:地址"`
	Address2        string `gorm:"type:varchar(512);comment:详细地址"`
	PickupStoreId   int64  `gorm:"comment:自提店铺ID"`

	Subtotal       int64 `gorm:"not null;comment:商品小计;单位为韩元"`
	FulfillmentFee int64 `gorm:"not null;default:0;comment:配送费;单位为韩元"`
	TotalAmount    int64 `gorm:"not null;comment:订单总价;单位为韩元"`

	Status        uint8 `gorm:"type:tinyint unsigned;not null;default:1;comment:订单状态 1=待确认 2=已确认 3=配送中 4=已送达 5=已取消"`
	PaymentStatus uint8 `gorm:"type:tinyint unsigned;not null;default:1;comment:支付状态 1=待支付 2=已支付 3=支付失败 4=已退款"`
	ClosedAt      int64 `gorm:"comment:订单关闭时间"`
	Ctime         int64
	Utime         int64
}

type OrderItem struct {
	Id              int64  `gorm:"primaryKey;autoIncrement;comment:订单条目自增ID"`
	OrderId         int64  `gorm:"not null;index:idx_order_id,comment:订单自增ID"`
	SPUId           int64  `gorm:"not null;comment:商品自增ID"`
	SPUName         string `gorm:"type:varchar(255);not null;comment:下单时商品名称快照"`
	OptionId        int64  `gorm:"not null;default:0;comment:规格ID, 0表示未选规格"`
	OptionSnapshot  string `gorm:"type:varchar(255);comment:下单时规格文字快照"`
	Quantity        int64  `gorm:"not null;comment:购买数量"`
	UnitPrice       int64  `gorm:"not null;comment:下单时单价;单位为韩元"`
	OptionSurcharge int64  `gorm:"not null;default:0;comment:下单时规格加价;单位为韩元"`
	Ctime           int64
	Utime           int64
}
