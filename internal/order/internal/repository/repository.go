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

	"github.com/ecodeclub/ekit/slice"
	"github.com/udonggeum/udonggeum/internal/order/internal/domain"
	"github.com/udonggeum/udonggeum/internal/order/internal/repository/dao"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (domain.Order, error)
	ListOrdersByUID(ctx context.Context, offset, limit int, uid int64) ([]domain.Order, error)
	TotalOrders(ctx context.Context, uid int64) (int64, error)
	UpdateOrderPaymentInfo(ctx context.Context, buyerID, orderID, paymentID int64, paymentSN string) error
	UpdateOrderStatus(ctx context.Context, buyerID, orderID int64, status domain.OrderStatus, closedAt int64) error
	UpdateOrderPaymentStatus(ctx context.Context, buyerID int64, sn string, paymentStatus domain.PaymentStatus, status domain.OrderStatus) error
	ListExpiredUnpaidOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, error)
	CloseOrders(ctx context.Context, orderIDs []int64) error
}

func NewRepository(d dao.OrderDAO) OrderRepository {
	return &orderRepository{dao: d}
}

type orderRepository struct {
	dao dao.OrderDAO
}

func (r *orderRepository) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	id, err := r.dao.Create(ctx, r.toEntity(order), slice.Map(order.Items, func(idx int, src domain.OrderItem) dao.OrderItem {
		return dao.OrderItem{
			SPUId:           src.SPUID,
			SPUName:         src.SPUName,
			OptionId:        src.OptionID,
			OptionSnapshot:  src.OptionSnapshot,
			Quantity:        src.Quantity,
			UnitPrice:       src.UnitPrice,
			OptionSurcharge: src.OptionSurcharge,
		}
	}))
	if err != nil {
		return domain.Order{}, err
	}
	order.ID = id
	return order, nil
}

func (r *orderRepository) FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (domain.Order, error) {
	o, items, err := r.dao.FindBySNAndBuyerID(ctx, sn, buyerID)
	if err != nil {
		return domain.Order{}, err
	}
	return r.toDomain(o, items), nil
}

func (r *orderRepository) ListOrdersByUID(ctx context.Context, offset, limit int, uid int64) ([]domain.Order, error) {
	os, err := r.dao.ListByBuyerID(ctx, offset, limit, uid)
	if err != nil {
		return nil, err
	}
	return slice.Map(os, func(idx int, src dao.Order) domain.Order {
		return r.toDomain(src, nil)
	}), nil
}

func (r *orderRepository) TotalOrders(ctx context.Context, uid int64) (int64, error) {
	return r.dao.CountByBuyerID(ctx, uid)
}

func (r *orderRepository) UpdateOrderPaymentInfo(ctx context.Context, buyerID, orderID, paymentID int64, paymentSN string) error {
	return r.dao.UpdatePaymentInfo(ctx, buyerID, orderID, paymentID, paymentSN)
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, buyerID, orderID int64, status domain.OrderStatus, closedAt int64) error {
	return r.dao.UpdateStatus(ctx, buyerID, orderID, status.ToUint8(), closedAt)
}

func (r *orderRepository) UpdateOrderPaymentStatus(ctx context.Context, buyerID int64, sn string, paymentStatus domain.PaymentStatus, status domain.OrderStatus) error {
	return r.dao.UpdatePaymentStatus(ctx, buyerID, sn, paymentStatus.ToUint8(), status.ToUint8())
}

func (r *orderRepository) ListExpiredUnpaidOrders(ctx context.Context, offset, limit int, ctime int64) ([]domain.Order, error) {
	os, err := r.dao.FindExpiredUnpaid(ctx, offset, limit, ctime)
	if err != nil {
		return nil, err
	}
	return slice.Map(os, func(idx int, src dao.Order) domain.Order {
		return r.toDomain(src, nil)
	}), nil
}

func (r *orderRepository) CloseOrders(ctx context.Context, orderIDs []int64) error {
	return r.dao.CloseOrders(ctx, orderIDs)
}

func (r *orderRepository) toEntity(order domain.Order) dao.Order {
	e := dao.Order{
		SN:              order.SN,
		BuyerId:         order.BuyerID,
		FulfillmentType: order.Fulfillment.Type.ToUint8(),
		Subtotal:        order.Subtotal,
		FulfillmentFee:  order.FulfillmentFee,
		TotalAmount:     order.TotalAmount,
		Status:          order.Status.ToUint8(),
		PaymentStatus:   order.PaymentStatus.ToUint8(),
	}
	if d := order.Fulfillment.Delivery; d != nil {
		e.Recipient = d.Recipient
		e.Phone = d.Phone
		e.PostalCode = d.PostalCode
		e.Address1 = d.Address1
		e.Address2 = d.Address2
	}
	if p := order.Fulfillment.Pickup; p != nil {
		e.PickupStoreId = p.StoreID
	}
	if order.PaymentSN != "" {
		e.PaymentSn = sql.NullString{String: order.PaymentSN, Valid: true}
		e.PaymentId = order.PaymentID
	}
	return e
}

func (r *orderRepository) toDomain(o dao.Order, items []dao.OrderItem) domain.Order {
	f := domain.Fulfillment{Type: domain.FulfillmentType(o.FulfillmentType)}
	switch f.Type {
	case domain.FulfillmentDelivery:
		f.Delivery = &domain.DeliveryInfo{
			Recipient:  o.Recipient,
			Phone:      o.Phone,
			PostalCode: o.PostalCode,
			Address1:   o.Address1,
			Address2:   o.Address2,
		}
	case domain.FulfillmentPickup:
		f.Pickup = &domain.PickupInfo{StoreID: o.PickupStoreId}
	}
	return domain.Order{
		ID:             o.Id,
		SN:             o.SN,
		BuyerID:        o.BuyerId,
		PaymentID:      o.PaymentId,
		PaymentSN:      o.PaymentSn.String,
		Fulfillment:    f,
		Subtotal:       o.Subtotal,
		FulfillmentFee: o.FulfillmentFee,
		TotalAmount:    o.TotalAmount,
		Status:         domain.OrderStatus(o.Status),
		PaymentStatus:  domain.PaymentStatus(o.PaymentStatus),
		ClosedAt:       o.ClosedAt,
		Items: slice.Map(items, func(idx int, src dao.OrderItem) domain.OrderItem {
			return domain.OrderItem{
				OrderID:         src.OrderId,
				SPUID:           src.SPUId,
				SPUName:         src.SPUName,
				OptionID:        src.OptionId,
				OptionSnapshot:  src.OptionSnapshot,
				Quantity:        src.Quantity,
				UnitPrice:       src.UnitPrice,
				OptionSurcharge: src.OptionSurcharge,
			}
		}),
		Ctime: o.Ctime,
		Utime: o.Utime,
	}
}
