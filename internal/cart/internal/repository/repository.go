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
	"github.com/udonggeum/udonggeum/internal/cart/internal/domain"
	"github.com/udonggeum/udonggeum/internal/cart/internal/repository/dao"
)

type CartRepository interface {
	FindSelectedByUID(ctx context.Context, uid int64) ([]domain.CartItem, error)
	ClearSelectedByUID(ctx context.Context, uid int64) error
}

func NewCartRepository(d dao.CartDAO) CartRepository {
	return &cartRepository{dao: d}
}

type cartRepository struct {
	dao dao.CartDAO
}

func (c *cartRepository) FindSelectedByUID(ctx context.Context, uid int64) ([]domain.CartItem, error) {
	items, err := c.dao.FindSelectedByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return slice.Map(items, func(idx int, src dao.CartItem) domain.CartItem {
		return c.toDomain(src)
	}), nil
}

func (c *cartRepository) ClearSelectedByUID(ctx context.Context, uid int64) error {
	return c.dao.DeleteSelectedByUID(ctx, uid)
}

func (c *cartRepository) toDomain(item dao.CartItem) domain.CartItem {
	return domain.CartItem{
		ID:              item.Id,
		UID:             item.Uid,
		SPUID:           item.SPUId,
		SPUName:         item.SPUName,
		StoreID:         item.StoreId,
		OptionID:        item.OptionId,
		OptionSnapshot:  item.OptionSnapshot,
		Quantity:        item.Quantity,
		UnitPrice:       item.UnitPrice,
		OptionSurcharge: item.OptionSurcharge,
		Selected:        item.Selected,
		Ctime:           item.Ctime,
		Utime:           item.Utime,
	}
}
