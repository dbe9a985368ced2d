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

package service

import (
	"context"

	"github.com/udonggeum/udonggeum/internal/product/internal/domain"
	"github.com/udonggeum/udonggeum/internal/product/internal/repository"
)

// Service 目录对结算核心暴露的最小能力
//
//go:generate mockgen -source=./service.go -destination=../../mocks/product.mock.go -package=productmocks -typed Service
type Service interface {
	FindByID(ctx context.Context, id int64) (domain.Product, error)
	// StoreProductIDs 返回店铺在售的全部商品ID, 用于自提店铺归属校验
	StoreProductIDs(ctx context.Context, storeID int64) (map[int64]struct{}, error)
}

func NewService(repo repository.ProductRepository) Service {
	return &service{repo: repo}
}

type service struct {
	repo repository.ProductRepository
}

func (s *service) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) StoreProductIDs(ctx context.Context, storeID int64) (map[int64]struct{}, error) {
	ids, err := s.repo.FindIDsByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	res := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		res[id] = struct{}{}
	}
	return res, nil
}
