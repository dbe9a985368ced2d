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

// CartItem 购物车中被勾选的条目, 结算流程的只读输入
type CartItem struct {
	ID      int64
	UID     int64
	SPUID   int64
	SPUName string
	StoreID int64
	// OptionID 为 0 表示未选规格
	OptionID        int64
	OptionSnapshot  string
	Quantity        int64
	UnitPrice       int64
	OptionSurcharge int64
	Selected        bool
	Ctime           int64
	Utime           int64
}
