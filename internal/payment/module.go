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

package payment

import (
	"github.com/udonggeum/udonggeum/internal/payment/internal/domain"
	"github.com/udonggeum/udonggeum/internal/payment/internal/job"
	"github.com/udonggeum/udonggeum/internal/payment/internal/service"
	"github.com/udonggeum/udonggeum/internal/payment/internal/service/kakao"
	"github.com/udonggeum/udonggeum/internal/payment/internal/web"
)

type (
	Handler               = web.Handler
	Payment               = domain.Payment
	Session               = domain.PaymentSession
	Refund                = domain.Refund
	Service               = service.Service
	CallbackURLs          = service.CallbackURLs
	GatewayClient         = kakao.Client
	SyncPendingPaymentJob = job.SyncPendingPaymentJob
)

const (
	StatusUnpaid      = domain.PaymentStatusUnpaid
	StatusProcessing  = domain.PaymentStatusProcessing
	StatusPaidSuccess = domain.PaymentStatusPaidSuccess
	StatusPaidFailed  = domain.PaymentStatusPaidFailed
	StatusRefunded    = domain.PaymentStatusRefunded
)

// NewGatewayClient httpClient 需配置好网关 BaseURL 与 KakaoAK 授权头
var NewGatewayClient = kakao.NewClient

type Module struct {
	Hdl                   *Handler
	Svc                   Service
	SyncPendingPaymentJob *SyncPendingPaymentJob
}
