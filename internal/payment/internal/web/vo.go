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

type ReadyReq struct {
	OrderSN string `json:"sn"`
}

// ReadyResp 网关跳转会话, 客户端按终端类型选择跳转地址
type ReadyResp struct {
	TID                   string `json:"tid"`
	NextRedirectPCURL     string `json:"nextRedirectPcUrl"`
	NextRedirectMobileURL string `json:"nextRedirectMobileUrl"`
	NextRedirectAppURL    string `json:"nextRedirectAppUrl"`
	AndroidAppScheme      string `json:"androidAppScheme"`
	IOSAppScheme          string `json:"iosAppScheme"`
	CreatedAt             int64  `json:"createdAt"`
}

type RetrievePaymentStatusReq struct {
	OrderSN string `json:"sn"`
}

type RetrievePaymentStatusResp struct {
	Status          string   `json:"status"`
	Provider        string   `json:"provider"`
	TID             string   `json:"tid,omitempty"`
	AID             string   `json:"aid,omitempty"`
	Method          string   `json:"method,omitempty"`
	TotalAmount     int64    `json:"totalAmount"`
	TotalAmountText string   `json:"totalAmountText"`
	ApprovedAt      int64    `json:"approvedAt,omitempty"`
	FailReason      string   `json:"failReason,omitempty"`
	Refunds         []Refund `json:"refunds,omitempty"`
}

type Refund struct {
	SN                  string `json:"sn"`
	TID                 string `json:"tid"`
	CanceledAmount      int64  `json:"canceledAmount"`
	CanceledAmountText  string `json:"canceledAmountText"`
	RemainingAmount     int64  `json:"remainingAmount"`
	RemainingAmountText string `json:"remainingAmountText"`
	CanceledAt          int64  `json:"canceledAt"`
}

type RefundReq struct {
	OrderSN string `json:"sn"`
	Amount  int64  `json:"amount"`
}

type RefundResp struct {
	Refund Refund `json:"refund"`
}

// CallbackResp 网关回调的统一响应, 前端据此决定落地页。
// 成功回调额外携带批准结果, 供结果页直接展示
type CallbackResp struct {
	OrderID         int64  `json:"orderID"`
	Status          string `json:"status"`
	AID             string `json:"aid,omitempty"`
	Method          string `json:"method,omitempty"`
	TotalAmount     int64  `json:"totalAmount,omitempty"`
	TotalAmountText string `json:"totalAmountText,omitempty"`
	ApprovedAt      int64  `json:"approvedAt,omitempty"`
	ErrMsg          string `json:"errMsg,omitempty"`
}
