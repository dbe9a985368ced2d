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

	"github.com/udonggeum/udonggeum/internal/pkg/snowflake"
)

func initSnowflakeGenerator() snowflake.Generator {
	nodeID := econf.GetInt("snowflake.nodeID")
	// 订单、支付、退款各占一个序列
	gen, err := snowflake.NewMultiAppGenerator(uint(nodeID), 3)
	if err != nil {
		panic(err)
	}
	return gen
}
