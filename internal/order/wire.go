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

package order

import (
	"sync"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
	"github.com/udonggeum/udonggeum/internal/cart"
	"github.com/udonggeum/udonggeum/internal/order/internal/event"
	"github.com/udonggeum/udonggeum/internal/order/internal/job"
	"github.com/udonggeum/udonggeum/internal/order/internal/repository"
	"github.com/udonggeum/udonggeum/internal/order/internal/repository/dao"
	"github.com/udonggeum/udonggeum/internal/order/internal/service"
	"github.com/udonggeum/udonggeum/internal/order/internal/web"
	"github.com/udonggeum/udonggeum/internal/payment"
	"github.com/udonggeum/udonggeum/internal/pkg/sequencenumber"
	"github.com/udonggeum/udonggeum/internal/product"
)

func InitModule(db *egorm.Component,
	c ecache.Cache,
	q mq.MQ,
	paymentSvc payment.Service,
	productSvc product.Service,
	cartSvc cart.Service) (*Module, error) {
	wire.Build(
		InitTablesOnce,
		repository.NewRepository,
		service.NewService,
		sequencenumber.NewGenerator,
		web.NewHandler,
		event.NewPaymentEventConsumer,
		initCloseExpiredOrdersJob,
		wire.Struct(new(Module), "*"),
	)
	return new(Module), nil
}

var once = &sync.Once{}

func InitTablesOnce(db *egorm.Component) dao.OrderDAO {
	once.Do(func() {
		_ = dao.InitTables(db)
	})
	return dao.NewOrderGORMDAO(db)
}

func initCloseExpiredOrdersJob(svc service.Service) *job.CloseExpiredOrdersJob {
	// 超过30分钟未支付的订单关闭, 每轮最多100条
	return job.NewCloseExpiredOrdersJob(svc, 30, 100)
}
