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

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/pkg/errors"

	"github.com/udonggeum/udonggeum/internal/payment/internal/domain"
)

var ErrSessionNotFound = errors.New("支付会话没找到")

//go:generate mockgen -source=./session.go -package=cachemocks -destination=mocks/session.mock.go SessionCache

// SessionCache 网关支付会话只存缓存, 带 TTL。
// 同一订单重新 ready 时 Set 整体覆盖旧会话, 旧 tid 随之失效
type SessionCache interface {
	Set(ctx context.Context, s domain.PaymentSession) error
	Get(ctx context.Context, orderID int64) (domain.PaymentSession, error)
	Delete(ctx context.Context, orderID int64) error
}

type SessionECache struct {
	cache      ecache.Cache
	expiration time.Duration
}

func NewSessionECache(c ecache.Cache, expiration time.Duration) SessionCache {
	return &SessionECache{
		cache: &ecache.NamespaceCache{
			Namespace: "payment:",
			C:         c,
		},
		expiration: expiration,
	}
}

func (c *SessionECache) Set(ctx context.Context, s domain.PaymentSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "序列化支付会话失败")
	}
	return c.cache.Set(ctx, c.key(s.OrderID), string(data), c.expiration)
}

func (c *SessionECache) Get(ctx context.Context, orderID int64) (domain.PaymentSession, error) {
	val := c.cache.Get(ctx, c.key(orderID))
	if val.KeyNotFound() {
		return domain.PaymentSession{}, ErrSessionNotFound
	}
	if val.Err != nil {
		return domain.PaymentSession{}, errors.Wrap(val.Err, "查询缓存出错")
	}
	var s domain.PaymentSession
	if err := val.JSONScan(&s); err != nil {
		return domain.PaymentSession{}, errors.Wrap(err, "反序列化支付会话失败")
	}
	return s, nil
}

func (c *SessionECache) Delete(ctx context.Context, orderID int64) error {
	_, err := c.cache.Delete(ctx, c.key(orderID))
	return err
}

func (c *SessionECache) key(orderID int64) string {
	return fmt.Sprintf("session:%d", orderID)
}
