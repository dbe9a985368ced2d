//go:build wireinject

package ioc

import (
	"github.com/google/wire"

	"github.com/udonggeum/udonggeum/internal/cart"
	"github.com/udonggeum/udonggeum/internal/notification"
	"github.com/udonggeum/udonggeum/internal/order"
	"github.com/udonggeum/udonggeum/internal/payment"
	"github.com/udonggeum/udonggeum/internal/product"
)

var BaseSet = wire.NewSet(InitDB, InitCache, InitRedis, InitMQ)

func InitApp() (*App, error) {
	wire.Build(wire.Struct(new(App), "*"),
		BaseSet,
		InitSession,
		initSnowflakeGenerator,
		initKakaoGateway,
		initCallbackURLs,
		initPaymentSessionTTL,
		initSMSClient,
		initSMSTemplateID,
		cart.InitModule,
		product.InitModule,
		payment.InitModule,
		order.InitModule,
		notification.InitModule,
		wire.FieldsOf(new(*cart.Module), "Svc"),
		wire.FieldsOf(new(*product.Module), "Svc"),
		wire.FieldsOf(new(*payment.Module), "Hdl", "Svc", "SyncPendingPaymentJob"),
		wire.FieldsOf(new(*order.Module), "Hdl", "Svc", "CloseExpiredOrdersJob"),
		initConsumers,
		initCronJobs,
		initGinxServer)
	return new(App), nil
}
