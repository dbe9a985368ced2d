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

//go:build wireinject

package payment

import (
	"sync"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
	"github.com/udonggeum/udonggeum/internal/payment/internal/events"
	"github.com/udonggeum/udonggeum/internal/payment/internal/job"
	"github.com/udonggeum/udonggeum/internal/payment/internal/repository"
	"github.com/udonggeum/udonggeum/internal/payment/internal/repository/cache"
	"github.com/udonggeum/udonggeum/internal/payment/internal/repository/dao"
	"github.com/udonggeum/udonggeum/internal/payment/internal/service"
	"github.com/udonggeum/udonggeum/internal/payment/internal/service/kakao"
	"github.com/udonggeum/udonggeum/internal/payment/internal/web"
	"github.com/udonggeum/udonggeum/internal/pkg/snowflake"
)

func InitModule(db *egorm.Component,
	c ecache.Cache,
	q mq.MQ,
	idGen snowflake.Generator,
	gateway kakao.Client,
	sessionTTL time.Duration,
	callback service.CallbackURLs) (*Module, error) {
	wire.Build(
		InitTablesOnce,
		cache.NewSessionECache,
		repository.NewRepository,
		events.NewPaymentEventProducer,
		service.NewService,
		web.NewHandler,
		initSyncPendingPaymentJob,
		wire.Struct(new(Module), "*"),
	)
	return new(Module), nil
}

var once = &sync.Once{}

func InitTablesOnce(db *egorm.Component) dao.PaymentDAO {
	once.Do(func() {
		_ = dao.InitTables(db)
	})
	return dao.NewPaymentGORMDAO(db)
}

func initSyncPendingPaymentJob(svc service.Service) *job.SyncPendingPaymentJob {
	// 停留在支付中超过30分钟才对账, 每轮最多100条
	return job.NewSyncPendingPaymentJob(svc, 30, 100)
}
