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
	"github.com/gotomicro/ego/core/econf"

	"github.com/udonggeum/udonggeum/internal/notification"
)

func initSMSClient() notification.SMSClient {
	type Config struct {
		Provider        string `yaml:"provider"`
		AccessKeyID     string `yaml:"accessKeyID"`
		AccessKeySecret string `yaml:"accessKeySecret"`
	}
	var cfg Config
	err := econf.UnmarshalKey("sms", &cfg)
	if err != nil {
		panic(err)
	}
	if cfg.Provider != "aliyun" {
		// 本地开发只打日志
		return notification.NewConsoleClient()
	}
	aliClient, err := notification.NewAliyunSMS(cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		panic(err)
	}
	return aliClient
}

func initSMSTemplateID() string {
	return econf.GetString("sms.templateID")
}
