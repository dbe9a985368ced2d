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

	"github.com/udonggeum/udonggeum/internal/cart/internal/domain"
	"github.com/udonggeum/udonggeum/internal/cart/internal/repository"
)

// Service 购物车对结算核心暴露的最小能力:
// 读取勾选快照, 以及下单成功后清空勾选
//
//go:generate mockgen -source=./service.go -destination=../../mocks/cart.mock.go -package=cartmocks -typed Service
type Service interface {
	SelectedItems(ctx context.Context, uid int64) ([]domain.CartItem, error)
	ClearSelected(ctx context.Context, uid int64) error
}

func NewService(repo repository.CartRepository) Service {
	return &service{repo: repo}
}

type service struct {
	repo repository.CartRepository
}

func (s *service) SelectedItems(ctx context.Context, uid int64) ([]domain.CartItem, error) {
	return s.repo.FindSelectedByUID(ctx, uid)
}

func (s *service) ClearSelected(ctx context.Context, uid int64) error {
	return s.repo.ClearSelectedByUID(ctx, uid)
}
