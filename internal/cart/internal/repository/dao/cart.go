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

package dao

import (
	"context"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

type CartDAO interface {
	FindSelectedByUID(ctx context.Context, uid int64) ([]CartItem, error)
	DeleteSelectedByUID(ctx context.Context, uid int64) error
}

func NewCartGORMDAO(db *egorm.Component) CartDAO {
	return &GORMCartDAO{db: db}
}

type GORMCartDAO struct {
	db *gorm.DB
}

func (g *GORMCartDAO) FindSelectedByUID(ctx context.Context, uid int64) ([]CartItem, error) {
	var res []CartItem
	err := g.db.WithContext(ctx).
		Where("uid = ? AND selected = ?", uid, true).
		Order("id ASC").
		Find(&res).Error
	return res, err
}

func (g *GORMCartDAO) DeleteSelectedByUID(ctx context.Context, uid int64) error {
	return g.db.WithContext(ctx).
		Where("uid = ? AND selected = ?", uid, true).
		Delete(&CartItem{}).Error
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&CartItem{})
}

type CartItem struct {
	Id              int64  `gorm:"primaryKey;autoIncrement;comment:购物车条目自增ID"`
	Uid             int64  `gorm:"not null;index:idx_uid,comment:买家ID"`
	SPUId           int64  `gorm:"not null;comment:商品自增ID"`
	SPUName         string `gorm:"type:varchar(255);not null;comment:商品名称"`
	StoreId         int64  `gorm:"not null;comment:商品所属店铺ID"`
	OptionId        int64  `gorm:"not null;default:0;comment:规格ID, 0表示未选规格"`
	OptionSnapshot  string `gorm:"type:varchar(255);comment:规格文字快照"`
	Quantity        int64  `gorm:"not null;comment:购买数量"`
	UnitPrice       int64  `gorm:"not null;comment:单价;单位为韩元"`
	OptionSurcharge int64  `gorm:"not null;default:0;comment:规格加价;单位为韩元"`
	Selected        bool   `gorm:"not null;default:true;comment:是否勾选结算"`
	Ctime           int64
	Utime           int64
}
