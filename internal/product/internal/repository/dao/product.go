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
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type ProductDAO interface {
	FindByID(ctx context.Context, id int64) (Product, []ProductOption, error)
	FindIDsByStoreID(ctx context.Context, storeID int64) ([]int64, error)
}

func NewProductGORMDAO(db *egorm.Component) ProductDAO {
	return &GORMProductDAO{db: db}
}

type GORMProductDAO struct {
	db *gorm.DB
}

func (g *GORMProductDAO) FindByID(ctx context.Context, id int64) (Product, []ProductOption, error) {
	var (
		eg      errgroup.Group
		p       Product
		options []ProductOption
	)
	eg.Go(func() error {
		return g.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	})
	eg.Go(func() error {
		return g.db.WithContext(ctx).Where("product_id = ?", id).Find(&options).Error
	})
	return p, options, eg.Wait()
}

func (g *GORMProductDAO) FindIDsByStoreID(ctx context.Context, storeID int64) ([]int64, error) {
	var ids []int64
	err := g.db.WithContext(ctx).Model(&Product{}).
		Where("store_id = ?", storeID).
		Pluck("id", &ids).Error
	return ids, err
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Product{}, &ProductOption{}, &Store{})
}

type Product struct {
	Id      int64  `gorm:"primaryKey;autoIncrement;comment:商品自增ID"`
	Name    string `gorm:"type:varchar(255);not null;comment:商品名称"`
	StoreId int64  `gorm:"not null;index:idx_store_id,comment:所属店铺ID"`
	Price   int64  `gorm:"not null;comment:单价;单位为韩元"`
	Stock   int64  `gorm:"not null;default:0;comment:库存数量"`
	Ctime   int64
	Utime   int64
}

type ProductOption struct {
	Id        int64  `gorm:"primaryKey;autoIncrement;comment:规格自增ID"`
	ProductId int64  `gorm:"not null;index:idx_product_id,comment:商品自增ID"`
	Name      string `gorm:"type:varchar(255);not null;comment:规格名称"`
	Surcharge int64  `gorm:"not null;default:0;comment:规格加价;单位为韩元"`
	Ctime     int64
	Utime     int64
}

type Store struct {
	Id      int64  `gorm:"primaryKey;autoIncrement;comment:店铺自增ID"`
	Name    string `gorm:"type:varchar(255);not null;comment:店铺名称"`
	Phone   string `gorm:"type:varchar(32);comment:联系电话"`
	Address string `gorm:"type:varchar(512);comment:店铺地址"`
	Ctime   int64
	Utime   int64
}
