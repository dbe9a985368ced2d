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

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

// DeliveryFee 全场统一配送费, 单位为韩元
const DeliveryFee int64 = 3000

type FulfillmentType uint8

const (
	FulfillmentDelivery FulfillmentType = iota + 1 // 配送到收货地址
	FulfillmentPickup                              // 到店自提
)

func (t FulfillmentType) ToUint8() uint8 {
	return uint8(t)
}

func (t FulfillmentType) String() string {
	switch t {
	case FulfillmentDelivery:
		return "delivery"
	case FulfillmentPickup:
		return "pickup"
	default:
		return "unknown"
	}
}

// Fulfillment 履约方式。Delivery 和 Pickup 有且仅有一个生效,
// 以 Type 为准做穷尽匹配, 不允许可选字段的模糊组合。
type Fulfillment struct {
	Type     FulfillmentType
	Delivery *DeliveryInfo
	Pickup   *PickupInfo
}

type DeliveryInfo struct {
	Recipient     string
	Phone         string
	PostalCode    string
	Address1      string
	Address2      string
	SaveAsDefault bool
}

type PickupInfo struct {
	StoreID int64
}

// OrderDraft 提交前的订单草稿, 校验失败不会产生任何提交
type OrderDraft struct {
	Items          []OrderItem
	Fulfillment    Fulfillment
	Subtotal       int64
	FulfillmentFee int64
	TotalAmount    int64
}

var (
	ErrEmptyCart             = errors.New("购物车勾选为空")
	ErrUnresolvedPickupStore = errors.New("自提店铺与所选商品不匹配")
	ErrInvalidFulfillment    = errors.New("履约方式非法")
)

// FieldErrors 字段级校验错误, 键为字段名
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for k := range f {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return "收货信息不完整: " + strings.Join(fields, ", ")
}

var (
	// 韩国手机号 01X-XXX(X)-XXXX, 连字符可省略
	phoneRegexp = regexp.MustCompile(`^01[016789]-?\d{3,4}-?\d{4}$`)
	// 邮编为5位数字
	postalRegexp = regexp.MustCompile(`^\d{5}$`)
)

// BuildDraft 把购物车勾选快照和履约方式组装成订单草稿。
// 纯计算, 无副作用; storeProductIDs 为自提店铺在售商品ID集合,
// 仅自提时使用。
func BuildDraft(items []OrderItem, f Fulfillment, storeProductIDs map[int64]struct{}) (OrderDraft, error) {
	if len(items) == 0 {
		return OrderDraft{}, ErrEmptyCart
	}

	switch f.Type {
	case FulfillmentDelivery:
		if err := validateDelivery(f.Delivery); err != nil {
			return OrderDraft{}, err
		}
	case FulfillmentPickup:
		if err := validatePickup(f.Pickup, items, storeProductIDs); err != nil {
			return OrderDraft{}, err
		}
	default:
		return OrderDraft{}, ErrInvalidFulfillment
	}

	var subtotal int64
	for _, it := range items {
		subtotal += it.SubAmount()
	}
	var fee int64
	if f.Type == FulfillmentDelivery {
		fee = DeliveryFee
	}
	total := subtotal + fee
	if total < 0 {
		total = 0
	}
	return OrderDraft{
		Items:          items,
		Fulfillment:    f,
		Subtotal:       subtotal,
		FulfillmentFee: fee,
		TotalAmount:    total,
	}, nil
}

func validateDelivery(d *DeliveryInfo) error {
	fe := FieldErrors{}
	if d == nil {
		d = &DeliveryInfo{}
	}
	if strings.TrimSpace(d.Recipient) == "" {
		fe["recipient"] = "收货人不能为空"
	}
	if strings.TrimSpace(d.Phone) == "" {
		fe["phone"] = "联系电话不能为空"
	} else if !phoneRegexp.MatchString(d.Phone) {
		fe["phone"] = "手机号格式非法"
	}
	if strings.TrimSpace(d.PostalCode) == "" {
		fe["postalCode"] = "邮编不能为空"
	} else if !postalRegexp.MatchString(d.PostalCode) {
		fe["postalCode"] = "邮编必须为5位数字"
	}
	if strings.TrimSpace(d.Address1) == "" {
		fe["address1"] = "地址不能为空"
	}
	if len(fe) > 0 {
		return fe
	}
	return nil
}

func validatePickup(p *PickupInfo, items []OrderItem, storeProductIDs map[int64]struct{}) error {
	if p == nil || p.StoreID <= 0 {
		return ErrUnresolvedPickupStore
	}
	// 店铺至少要拥有一件所选商品
	for _, it := range items {
		if _, ok := storeProductIDs[it.SPUID]; ok {
			return nil
		}
	}
	return ErrUnresolvedPickupStore
}
