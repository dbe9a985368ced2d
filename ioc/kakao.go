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

package ioc

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gotomicro/ego/core/econf"

	"github.com/udonggeum/udonggeum/internal/payment"
)

type kakaoConfig struct {
	BaseURL  string `yaml:"baseURL"`
	AdminKey string `yaml:"adminKey"`
	Cid      string `yaml:"cid"`
	// 支付会话的有效期, 单位分钟
	SessionTTLMinutes int `yaml:"sessionTTLMinutes"`
	Callback          struct {
		Approval string `yaml:"approval"`
		Cancel   string `yaml:"cancel"`
		Fail     string `yaml:"fail"`
	} `yaml:"callback"`
}

func loadKakaoConfig() kakaoConfig {
	var cfg kakaoConfig
	err := econf.UnmarshalKey("kakao", &cfg)
	if err != nil {
		panic(err)
	}
	return cfg
}

func initKakaoGateway() payment.GatewayClient {
	cfg := loadKakaoConfig()
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Authorization", "KakaoAK "+cfg.AdminKey)
	return payment.NewGatewayClient(httpClient, cfg.Cid)
}

func initCallbackURLs() payment.CallbackURLs {
	cfg := loadKakaoConfig()
	return payment.CallbackURLs{
		Approval: cfg.Callback.Approval,
		Cancel:   cfg.Callback.Cancel,
		Fail:     cfg.Callback.Fail,
	}
}

func initPaymentSessionTTL() time.Duration {
	cfg := loadKakaoConfig()
	if cfg.SessionTTLMinutes <= 0 {
		// 网关侧tid的有效期大约是一小时, 留一点余量
		return 45 * time.Minute
	}
	return time.Duration(cfg.SessionTTLMinutes) * time.Minute
}
