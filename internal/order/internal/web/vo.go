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

// Fulfillment 履约方式, type 为 delivery 时读 delivery, 为 pickup 时读 pickup
type Fulfillment struct {
	Type     string    `json:"type"` // delivery | pickup
	Delivery *Delivery `json:"delivery,omitempty"`
	Pickup   *Pickup   `json:"pickup,omitempty"`
}

type Delivery struct {
	Recipient     string `json:"recipient"`
	Phone         string `json:"phone"`
	PostalCode    string `json:"postalCode"`
	Address1      string `json:"address1"`
	Address2      string `json:"address2,omitempty"`
	SaveAsDefault bool   `json:"saveAsDefault,omitempty"`
}

type Pickup struct {
	StoreID int64 `json:"storeID"`
}

type OrderItem struct {
	SPUID           int64  `json:"spuID"`
	Name            string `json:"name"`
	OptionSnapshot  string `json:"optionSnapshot,omitempty"`
	Quantity        int64  `json:"quantity"`
	UnitPrice       int64  `json:"unitPrice"`
	OptionSurcharge int64  `json:"optionSurcharge,omitempty"`
	SubAmount       int64  `json:"subAmount"`
	SubAmountText   string `json:"subAmountText"`
}

type Order struct {
	SN              string      `json:"sn"`
	Fulfillment     Fulfillment `json:"fulfillment"`
	Items           []OrderItem `json:"items,omitempty"`
	Subtotal        int64       `json:"subtotal"`
	FulfillmentFee  int64       `json:"fulfillmentFee"`
	TotalAmount     int64       `json:"totalAmount"`
	TotalAmountText string      `json:"totalAmountText"`
	Status          string      `json:"status"`
	PaymentStatus   string      `json:"paymentStatus"`
	Ctime           int64       `json:"ctime"`
	Utime           int64       `json:"utime"`
}

// PreviewOrderReq 预览订单草稿, 此时订单尚未创建
type PreviewOrderReq struct {
	Fulfillment Fulfillment `json:"fulfillment"`
}

type PreviewOrderResp struct {
	Items           []OrderItem `json:"items"`
	Subtotal        int64       `json:"subtotal"`
	FulfillmentFee  int64       `json:"fulfillmentFee"`
	TotalAmount     int64       `json:"totalAmount"`
	TotalAmountText string      `json:"totalAmountText"`
}

// CreateOrderReq 创建订单请求
type CreateOrderReq struct {
	// RequestID 请求去重, 防止订单重复提交
	RequestID   string      `json:"requestID"`
	Fulfillment Fulfillment `json:"fulfillment"`
}

type CreateOrderResp struct {
	OrderSN         string `json:"orderSN"`
	TotalAmount     int64  `json:"totalAmount"`
	TotalAmountText string `json:"totalAmountText"`
}

type RetrieveOrderStatusReq struct {
	OrderSN string `json:"sn"`
}

type RetrieveOrderStatusResp struct {
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

type ListOrdersReq struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

type ListOrdersResp struct {
	Total  int64   `json:"total,omitempty"`
	Orders []Order `json:"orders,omitempty"`
}

type RetrieveOrderDetailReq struct {
	OrderSN string `json:"sn"`
}

type RetrieveOrderDetailResp struct {
	Order Order `json:"order"`
}

type CancelOrderReq struct {
	OrderSN string `json:"sn"`
}
