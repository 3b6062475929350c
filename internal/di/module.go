package di

import (
	"github.com/mxvel/topupmart/internal/adapter/gateway"
	"github.com/mxvel/topupmart/internal/adapter/lookup"
	"github.com/mxvel/topupmart/internal/adapter/provider"
	"github.com/mxvel/topupmart/internal/app"
	"github.com/mxvel/topupmart/internal/config"
	"github.com/mxvel/topupmart/internal/logger"
	"github.com/mxvel/topupmart/internal/metrics"
	"github.com/mxvel/topupmart/internal/pkg/auth"
	"github.com/mxvel/topupmart/internal/server/http/handlers"
	"github.com/mxvel/topupmart/internal/server/http/router"
	"github.com/mxvel/topupmart/internal/storage/postgres"
	"github.com/mxvel/topupmart/internal/storage/redis"
	"github.com/mxvel/topupmart/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		redis.Module,
		provider.Module,
		gateway.Module,
		lookup.Module,
		metrics.Module,
		usecase.Module,
		fx.Provide(func(facade *app.TopupFacade) handlers.StoreFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
