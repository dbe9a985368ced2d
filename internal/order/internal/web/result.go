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
	"errors"

	"github.com/ecodeclub/ginx"
	"github.com/udonggeum/udonggeum/internal/order/internal/domain"
	"github.com/udonggeum/udonggeum/internal/order/internal/errs"
)

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	duplicateRequestResult = ginx.Result{
		Code: errs.DuplicateRequest.Code,
		Msg:  errs.DuplicateRequest.Msg,
	}
)

// draftErrorResult 把草稿校验错误转成带错误码的响应,
// 字段级错误随 Data 返回, 不会发起任何提交
func draftErrorResult(err error) ginx.Result {
	var fe domain.FieldErrors
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return ginx.Result{Code: errs.EmptyCart.Code, Msg: errs.EmptyCart.Msg}
	case errors.Is(err, domain.ErrUnresolvedPickupStore):
		return ginx.Result{Code: errs.UnresolvedStore.Code, Msg: errs.UnresolvedStore.Msg}
	case errors.As(err, &fe):
		return ginx.Result{Code: errs.MissingShipping.Code, Msg: errs.MissingShipping.Msg, Data: fe}
	default:
		return ginx.Result{Code: errs.InvalidInput.Code, Msg: errs.InvalidInput.Msg}
	}
}
