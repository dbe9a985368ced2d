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

package kakao

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
)

//go:generate mockgen -source=./client.go -package=kakaomocks -destination=./mocks/client.mock.go Client

// Client 网关开放平台客户端, 覆盖单次支付的四个接口:
// ready 预下单, approve 批准, cancel 退款, order 交易查询
type Client interface {
	Ready(ctx context.Context, req ReadyRequest) (ReadyResponse, error)
	Approve(ctx context.Context, req ApproveRequest) (ApproveResponse, error)
	Cancel(ctx context.Context, req CancelRequest) (CancelResponse, error)
	Order(ctx context.Context, tid string) (OrderResponse, error)
}

type ReadyRequest struct {
	PartnerOrderID string
	PartnerUserID  string
	ItemName       string
	Quantity       int64
	TotalAmount    int64
	TaxFreeAmount  int64
	ApprovalURL    string
	CancelURL      string
	FailURL        string
}

type ReadyResponse struct {
	TID                   string `json:"tid"`
	NextRedirectPCURL     string `json:"next_redirect_pc_url"`
	NextRedirectMobileURL string `json:"next_redirect_mobile_url"`
	NextRedirectAppURL    string `json:"next_redirect_app_url"`
	AndroidAppScheme      string `json:"android_app_scheme"`
	IOSAppScheme          string `json:"ios_app_scheme"`
	CreatedAt             string `json:"created_at"`
}

type ApproveRequest struct {
	TID            string
	PartnerOrderID string
	PartnerUserID  string
	PgToken        string
}

type ApproveResponse struct {
	AID               string `json:"aid"`
	TID               string `json:"tid"`
	PaymentMethodType string `json:"payment_method_type"`
	Amount            Amount `json:"amount"`
	ApprovedAt        string `json:"approved_at"`
}

type CancelRequest struct {
	TID                 string
	CancelAmount        int64
	CancelTaxFreeAmount int64
}

type CancelResponse struct {
	AID                   string `json:"aid"`
	TID                   string `json:"tid"`
	Status                string `json:"status"`
	CanceledAmount        Amount `json:"canceled_amount"`
	CancelAvailableAmount Amount `json:"cancel_available_amount"`
	CanceledAt            string `json:"canceled_at"`
}

type OrderResponse struct {
	TID               string `json:"tid"`
	Status            string `json:"status"`
	PaymentMethodType string `json:"payment_method_type"`
	Amount            Amount `json:"amount"`
	CanceledAmount    Amount `json:"canceled_amount"`
}

type Amount struct {
	Total   int64 `json:"total"`
	TaxFree int64 `json:"tax_free"`
}

// 网关交易状态
const (
	StatusReady             = "READY"
	StatusSuccessPayment    = "SUCCESS_PAYMENT"
	StatusPartCancelPayment = "PART_CANCEL_PAYMENT"
	StatusCancelPayment     = "CANCEL_PAYMENT"
	StatusQuitPayment       = "QUIT_PAYMENT"
	StatusFailPayment       = "FAIL_PAYMENT"
)

type errorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

type client struct {
	client *resty.Client
	cid    string
}

// NewClient httpClient 需预先配置好 BaseURL 及 KakaoAK 授权头
func NewClient(httpClient *resty.Client, cid string) Client {
	return &client{
		client: httpClient,
		cid:    cid,
	}
}

func (c *client) Ready(ctx context.Context, req ReadyRequest) (ReadyResponse, error) {
	var res ReadyResponse
	err := c.post(ctx, "/v1/payment/ready", map[string]string{
		"cid":              c.cid,
		"partner_order_id": req.PartnerOrderID,
		"partner_user_id":  req.PartnerUserID,
		"item_name":        req.ItemName,
		"quantity":         strconv.FormatInt(req.Quantity, 10),
		"total_amount":     strconv.FormatInt(req.TotalAmount, 10),
		"tax_free_amount":  strconv.FormatInt(req.TaxFreeAmount, 10),
		"approval_url":     req.ApprovalURL,
		"cancel_url":       req.CancelURL,
		"fail_url":         req.FailURL,
	}, &res)
	return res, err
}

func (c *client) Approve(ctx context.Context, req ApproveRequest) (ApproveResponse, error) {
	var res ApproveResponse
	err := c.post(ctx, "/v1/payment/approve", map[string]string{
		"cid":              c.cid,
		"tid":              req.TID,
		"partner_order_id": req.PartnerOrderID,
		"partner_user_id":  req.PartnerUserID,
		"pg_token":         req.PgToken,
	}, &res)
	return res, err
}

func (c *client) Cancel(ctx context.Context, req CancelRequest) (CancelResponse, error) {
	var res CancelResponse
	err := c.post(ctx, "/v1/payment/cancel", map[string]string{
		"cid":                    c.cid,
		"tid":                    req.TID,
		"cancel_amount":          strconv.FormatInt(req.CancelAmount, 10),
		"cancel_tax_free_amount": strconv.FormatInt(req.CancelTaxFreeAmount, 10),
	}, &res)
	return res, err
}

func (c *client) Order(ctx context.Context, tid string) (OrderResponse, error) {
	var res OrderResponse
	var errRes errorResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"cid": c.cid,
			"tid": tid,
		}).
		SetResult(&res).
		SetError(&errRes).
		Get("/v1/payment/order")
	if err != nil {
		return OrderResponse{}, fmt.Errorf("请求网关失败: %w", err)
	}
	if resp.IsError() {
		return OrderResponse{}, fmt.Errorf("网关返回错误: code=%d, msg=%s", errRes.Code, errRes.Msg)
	}
	return res, nil
}

func (c *client) post(ctx context.Context, path string, form map[string]string, result any) error {
	var errRes errorResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(result).
		SetError(&errRes).
		Post(path)
	if err != nil {
		return fmt.Errorf("请求网关失败: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("网关返回错误: code=%d, msg=%s", errRes.Code, errRes.Msg)
	}
	return nil
}
