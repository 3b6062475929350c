package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	adapterGateway "github.com/mxvel/topupmart/internal/adapter/gateway"
	adapterLookup "github.com/mxvel/topupmart/internal/adapter/lookup"
	adapterProvider "github.com/mxvel/topupmart/internal/adapter/provider"
	"github.com/mxvel/topupmart/internal/config"
	"github.com/mxvel/topupmart/internal/domain/repository"
	storageRedis "github.com/mxvel/topupmart/internal/storage/redis"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewOrderUseCase,
	NewBalanceUseCase,
	NewCatalogUseCase,
	newCheckoutUseCase,
)

type checkoutParams struct {
	fx.In

	Users    repository.UserRepository
	Products repository.ProductRepository
	Orders   repository.OrderRepository
	Balances repository.BalanceRepository
	Registry *adapterProvider.Registry
	Gateway  adapterGateway.Client
	Lookup   adapterLookup.Client
	Guard    storageRedis.Guard
	Config   *config.Config
	Logger   *slog.Logger
}

func newCheckoutUseCase(p checkoutParams) *CheckoutUseCase {
	return NewCheckoutUseCase(CheckoutDeps{
		Users:     p.Users,
		Products:  p.Products,
		Orders:    p.Orders,
		Balances:  p.Balances,
		Providers: p.Registry,
		Gateway:   p.Gateway,
		Lookup:    p.Lookup,
		Guard:     p.Guard,
		Window:    p.Config.PaymentWindow,
		Logger:    p.Logger,
	})
}
