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

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/udonggeum/udonggeum/internal/product/internal/domain"
	"github.com/udonggeum/udonggeum/internal/product/internal/repository/dao"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (domain.Product, error)
	FindIDsByStoreID(ctx context.Context, storeID int64) ([]int64, error)
}

func NewProductRepository(d dao.ProductDAO) ProductRepository {
	return &productRepository{dao: d}
}

type productRepository struct {
	dao dao.ProductDAO
}

func (p *productRepository) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	prod, options, err := p.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		ID:      prod.Id,
		Name:    prod.Name,
		StoreID: prod.StoreId,
		Price:   prod.Price,
		Stock:   prod.Stock,
		Options: slice.Map(options, func(idx int, src dao.ProductOption) domain.ProductOption {
			return domain.ProductOption{
				ID:        src.Id,
				ProductID: src.ProductId,
				Name:      src.Name,
				Surcharge: src.Surcharge,
			}
		}),
		Ctime: prod.Ctime,
		Utime: prod.Utime,
	}, nil
}

func (p *productRepository) FindIDsByStoreID(ctx context.Context, storeID int64) ([]int64, error) {
	return p.dao.FindIDsByStoreID(ctx, storeID)
}
