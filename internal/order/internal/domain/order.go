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

package domain

// OrderStatus 订单状态。与支付状态是两条独立的轴,
// 订单可以同时处于 confirmed/待支付。
type OrderStatus uint8

const (
	OrderStatusPending   OrderStatus = iota + 1 // 已创建待确认
	OrderStatusConfirmed                        // 已确认
	OrderStatusShipping                         // 配送中
	OrderStatusDelivered                        // 已送达
	OrderStatusCanceled                         // 已取消
)

func (s OrderStatus) ToUint8() uint8 {
	return uint8(s)
}

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusPending:
		return "pending"
	case OrderStatusConfirmed:
		return "confirmed"
	case OrderStatusShipping:
		return "shipping"
	case OrderStatusDelivered:
		return "delivered"
	case OrderStatusCanceled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// PaymentStatus 订单上冗余的支付状态, 真实来源是支付模块,
// 通过 payment_events 同步到这里
type PaymentStatus uint8

const (
	PaymentStatusPending   PaymentStatus = iota + 1 // 待支付
	PaymentStatusCompleted                          // 已支付
	PaymentStatusFailed                             // 支付失败
	PaymentStatusRefunded                           // 已全额退款
)

func (s PaymentStatus) ToUint8() uint8 {
	return uint8(s)
}

func (s PaymentStatus) String() string {
	switch s {
	case PaymentStatusPending:
		return "pending"
	case PaymentStatusCompleted:
		return "completed"
	case PaymentStatusFailed:
		return "failed"
	case PaymentStatusRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

type Order struct {
	ID          int64
	SN          string
	BuyerID     int64
	PaymentID   int64
	PaymentSN   string
	Fulfillment Fulfillment
	Items       []OrderItem
	// TotalAmount = Subtotal + FulfillmentFee
	Subtotal       int64
	FulfillmentFee int64
	TotalAmount    int64
	Status         OrderStatus
	PaymentStatus  PaymentStatus
	ClosedAt       int64
	Ctime          int64
	Utime          int64
}

// OrderItem 下单时商品信息的冻结快照, 不随目录变更
type OrderItem struct {
	OrderID int64
	SPUID   int64
	SPUName string
	// OptionID 为 0 表示未选规格
	OptionID        int64
	OptionSnapshot  string
	Quantity        int64
	UnitPrice       int64
	OptionSurcharge int64
}

// SubAmount 该条目小计
func (i OrderItem) SubAmount() int64 {
	return (i.UnitPrice + i.OptionSurcharge) * i.Quantity
}
