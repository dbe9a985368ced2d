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

type PaymentStatus uint8

func (s PaymentStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	// PaymentStatusUnpaid 支付主记录已创建, 尚未发起网关 ready
	PaymentStatusUnpaid PaymentStatus = iota + 1
	// PaymentStatusProcessing 已获取 tid, 等待用户在网关侧完成认证
	PaymentStatusProcessing
	PaymentStatusPaidSuccess
	PaymentStatusPaidFailed
	PaymentStatusRefunded
)

func (s PaymentStatus) String() string {
	switch s {
	case PaymentStatusUnpaid:
		return "unpaid"
	case PaymentStatusProcessing:
		return "processing"
	case PaymentStatusPaidSuccess:
		return "paid"
	case PaymentStatusPaidFailed:
		return "failed"
	case PaymentStatusRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// Payment 支付主记录, 一个订单同一时刻只有一条有效支付
type Payment struct {
	ID          int64
	SN          string
	OrderID     int64
	OrderSN     string
	PayerID     int64
	// Description 订单简述, 透传给网关作为商品名
	Description string
	TotalAmount int64
	// TID 网关交易号, ready 成功后才有值
	TID string
	// AID 网关批准号, approve 成功后才有值
	AID        string
	Method     string
	Status     PaymentStatus
	ApprovedAt int64
	FailReason string
	Ctime      int64
	Utime      int64
}

// PaymentSession 一次 ready 产生的网关会话, 仅存于缓存,
// 同一订单再次 ready 会整体替换掉旧会话
type PaymentSession struct {
	OrderID               int64  `json:"orderId"`
	TID                   string `json:"tid"`
	NextRedirectPCURL     string `json:"nextRedirectPcUrl"`
	NextRedirectMobileURL string `json:"nextRedirectMobileUrl"`
	NextRedirectAppURL    string `json:"nextRedirectAppUrl"`
	AndroidAppScheme      string `json:"androidAppScheme"`
	IOSAppScheme          string `json:"iosAppScheme"`
	CreatedAt             int64  `json:"createdAt"`
}

// Refund 一次成功的部分或全额退款
type Refund struct {
	ID              int64
	SN              string
	PaymentID       int64
	OrderID         int64
	TID             string
	CanceledAmount  int64
	RemainingAmount int64
	CanceledAt      int64
	Ctime           int64
	Utime           int64
}
