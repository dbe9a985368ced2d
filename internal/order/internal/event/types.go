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

package event

const paymentEvents = "payment_events"

// PaymentEvent 支付模块发布的最终态事件, 订单侧据此同步冗余支付状态
type PaymentEvent struct {
	OrderSN string `json:"order_sn"`
	OrderID int64  `json:"order_id"`
	PayerID int64  `json:"payer_id"`
	// Status 取值 paid / failed / refunded
	Status string `json:"status"`
}

const (
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)
