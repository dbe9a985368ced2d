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

import (
	"github.com/ecodeclub/ginx"
	"github.com/udonggeum/udonggeum/internal/payment/internal/errs"
)

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	invalidParamsResult = ginx.Result{
		Code: errs.InvalidParams.Code,
		Msg:  errs.InvalidParams.Msg,
	}
	paymentNotFoundResult = ginx.Result{
		Code: errs.PaymentNotFound.Code,
		Msg:  errs.PaymentNotFound.Msg,
	}
	sessionExpiredResult = ginx.Result{
		Code: errs.SessionExpired.Code,
		Msg:  errs.SessionExpired.Msg,
	}
	refundExceededResult = ginx.Result{
		Code: errs.RefundExceeded.Code,
		Msg:  errs.RefundExceeded.Msg,
	}
	paymentNotPayableResult = ginx.Result{
		Code: errs.PaymentNotPayable.Code,
		Msg:  errs.PaymentNotPayable.Msg,
	}
	refundNotAllowedResult = ginx.Result{
		Code: errs.RefundNotAllowed.Code,
		Msg:  errs.RefundNotAllowed.Msg,
	}
)
