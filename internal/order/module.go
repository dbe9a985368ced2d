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

package order

import (
	"github.com/udonggeum/udonggeum/internal/order/internal/domain"
	"github.com/udonggeum/udonggeum/internal/order/internal/event"
	"github.com/udonggeum/udonggeum/internal/order/internal/job"
	"github.com/udonggeum/udonggeum/internal/order/internal/service"
	"github.com/udonggeum/udonggeum/internal/order/internal/web"
)

type (
	Handler               = web.Handler
	Order                 = domain.Order
	OrderItem             = domain.OrderItem
	OrderStatus           = domain.OrderStatus
	PaymentStatus         = domain.PaymentStatus
	Fulfillment           = domain.Fulfillment
	DeliveryInfo          = domain.DeliveryInfo
	PickupInfo            = domain.PickupInfo
	Service               = service.Service
	CloseExpiredOrdersJob = job.CloseExpiredOrdersJob
	PaymentEventConsumer  = event.PaymentEventConsumer
)

const (
	FulfillmentDelivery = domain.FulfillmentDelivery
	FulfillmentPickup   = domain.FulfillmentPickup

	StatusPending   = domain.OrderStatusPending
	StatusConfirmed = domain.OrderStatusConfirmed
	StatusCanceled  = domain.OrderStatusCanceled

	PaymentStatusPending   = domain.PaymentStatusPending
	PaymentStatusCompleted = domain.PaymentStatusCompleted
	PaymentStatusFailed    = domain.PaymentStatusFailed
	PaymentStatusRefunded  = domain.PaymentStatusRefunded
)

type Module struct {
	Hdl                   *Handler
	Svc                   Service
	CloseExpiredOrdersJob *CloseExpiredOrdersJob
	Consumer              *PaymentEventConsumer
}
