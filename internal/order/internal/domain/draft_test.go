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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDelivery() Fulfillment {
	return Fulfillment{
		Type: FulfillmentDelivery,
		Delivery: &DeliveryInfo{
			Recipient:  "金多情",
			Phone:      "010-1234-5678",
			PostalCode: "06236",
			Address1:   "首尔特别市江南区",
			Address2:   "101栋202号",
		},
	}
}

func TestBuildDraft_Amounts(t *testing.T) {
	testCases := []struct {
		name            string
		items           []OrderItem
		fulfillment     Fulfillment
		storeProductIDs map[int64]struct{}
		wantSubtotal    int64
		wantFee         int64
		wantTotal       int64
	}{
		{
			// 单价50万, 数量2, 无规格, 到7号店自提
			name: "自提无配送费",
			items: []OrderItem{
				{SPUID: 11, Quantity: 2, UnitPrice: 500000},
			},
			fulfillment: Fulfillment{
				Type:   FulfillmentPickup,
				Pickup: &PickupInfo{StoreID: 7},
			},
			storeProductIDs: map[int64]struct{}{11: {}},
			wantSubtotal:    1000000,
			wantFee:         0,
			wantTotal:       1000000,
		},
		{
			name: "配送加收固定配送费",
			items: []OrderItem{
				{SPUID: 11, Quantity: 2, UnitPrice: 500000},
			},
			fulfillment:  validDelivery(),
			wantSubtotal: 1000000,
			wantFee:      DeliveryFee,
			wantTotal:    1000000 + DeliveryFee,
		},
		{
			name: "规格加价计入小计",
			items: []OrderItem{
				{SPUID: 11, Quantity: 2, UnitPrice: 480000, OptionSurcharge: 10000},
			},
			fulfillment:  validDelivery(),
			wantSubtotal: 980000,
			wantFee:      DeliveryFee,
			wantTotal:    983000,
		},
		{
			name: "多条目累加",
			items: []OrderItem{
				{SPUID: 11, Quantity: 1, UnitPrice: 300000},
				{SPUID: 12, Quantity: 3, UnitPrice: 50000, OptionSurcharge: 5000},
			},
			fulfillment:  validDelivery(),
			wantSubtotal: 465000,
			wantFee:      DeliveryFee,
			wantTotal:    468000,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			draft, err := BuildDraft(tc.items, tc.fulfillment, tc.storeProductIDs)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSubtotal, draft.Subtotal)
			assert.Equal(t, tc.wantFee, draft.FulfillmentFee)
			assert.Equal(t, tc.wantTotal, draft.TotalAmount)
			// 总价恒等式
			assert.Equal(t, draft.Subtotal+draft.FulfillmentFee, draft.TotalAmount)
		})
	}
}

func TestBuildDraft_EmptyCart(t *testing.T) {
	_, err := BuildDraft(nil, validDelivery(), nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBuildDraft_DeliveryValidation(t *testing.T) {
	items := []OrderItem{{SPUID: 11, Quantity: 1, UnitPrice: 10000}}

	testCases := []struct {
		name      string
		mutate    func(d *DeliveryInfo)
		wantField string
	}{
		{
			name:      "收货人为空",
			mutate:    func(d *DeliveryInfo) { d.Recipient = "" },
			wantField: "recipient",
		},
		{
			name:      "电话为空",
			mutate:    func(d *DeliveryInfo) { d.Phone = "" },
			wantField: "phone",
		},
		{
			name:      "电话格式非法",
			mutate:    func(d *DeliveryInfo) { d.Phone = "02-1234-5678" },
			wantField: "phone",
		},
		{
			name:      "邮编非5位",
			mutate:    func(d *DeliveryInfo) { d.PostalCode = "123" },
			wantField: "postalCode",
		},
		{
			name:      "地址为空",
			mutate:    func(d *DeliveryInfo) { d.Address1 = "   " },
			wantField: "address1",
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			f := validDelivery()
			tc.mutate(f.Delivery)

			_, err := BuildDraft(items, f, nil)

			var fe FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Contains(t, fe, tc.wantField)
		})
	}
}

func TestBuildDraft_PhoneHyphenOptional(t *testing.T) {
	items := []OrderItem{{SPUID: 11, Quantity: 1, UnitPrice: 10000}}
	f := validDelivery()
	f.Delivery.Phone = "01012345678"

	_, err := BuildDraft(items, f, nil)
	assert.NoError(t, err)
}

func TestBuildDraft_PickupValidation(t *testing.T) {
	items := []OrderItem{{SPUID: 11, Quantity: 1, UnitPrice: 10000}}

	testCases := []struct {
		name            string
		pickup          *PickupInfo
		storeProductIDs map[int64]struct{}
		wantErr         error
	}{
		{
			name:            "店铺未拥有任一所选商品",
			pickup:          &PickupInfo{StoreID: 7},
			storeProductIDs: map[int64]struct{}{99: {}},
			wantErr:         ErrUnresolvedPickupStore,
		},
		{
			name:    "店铺ID缺失",
			pickup:  nil,
			wantErr: ErrUnresolvedPickupStore,
		},
		{
			name:            "店铺拥有其中一件商品",
			pickup:          &PickupInfo{StoreID: 7},
			storeProductIDs: map[int64]struct{}{11: {}},
			wantErr:         nil,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildDraft(items, Fulfillment{
				Type:   FulfillmentPickup,
				Pickup: tc.pickup,
			}, tc.storeProductIDs)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBuildDraft_UnknownFulfillment(t *testing.T) {
	items := []OrderItem{{SPUID: 11, Quantity: 1, UnitPrice: 10000}}
	_, err := BuildDraft(items, Fulfillment{}, nil)
	assert.ErrorIs(t, err, ErrInvalidFulfillment)
}
