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

// Product 商品。目录的检索与管理由独立的catalog服务负责,
// 结算核心只需要商品与店铺的归属关系和基础快照信息。
type Product struct {
	ID      int64
	Name    string
	StoreID int64
	Price   int64
	Stock   int64
	Options []ProductOption
	Ctime   int64
	Utime   int64
}

type ProductOption struct {
	ID        int64
	ProductID int64
	Name      string
	Surcharge int64
}

// Store 线下金银店, 自提履约的取货点
type Store struct {
	ID      int64
	Name    string
	Phone   string
	Address string
}
