package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mxvel/topupmart/internal/adapter/gateway"
	"github.com/mxvel/topupmart/internal/adapter/lookup"
	"github.com/mxvel/topupmart/internal/adapter/provider"
	"github.com/mxvel/topupmart/internal/app"
	"github.com/mxvel/topupmart/internal/config"
	"github.com/mxvel/topupmart/internal/domain/repository"
	"github.com/mxvel/topupmart/internal/storage/postgres"
	"github.com/mxvel/topupmart/internal/storage/redis"
	"github.com/mxvel/topupmart/internal/test"
	"go.uber.org/fx"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:      ":0",
		DatabaseURI:     "postgres://stub",
		GatewayAddress:  "http://localhost",
		GatewaySecret:   "secret",
		AuthSecret:      "secret",
		SessionTTL:      time.Minute,
		PaymentWindow:   time.Minute,
		ReconcileEvery:  time.Millisecond,
		ReconcileMinAge: time.Millisecond,
		StatusPushEvery: time.Millisecond,
		WorkerPoolSize:  1,
		MaxOrdersBatch:  1,
		ShutdownTimeout: time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	userRepo := test.NewUserRepositoryStub()
	productRepo := &test.ProductRepositoryStub{}
	orderRepo := test.NewOrderRepositoryStub()
	balanceRepo := test.NewBalanceRepositoryStub()

	var facade *app.TopupFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.UserRepository(userRepo)),
			fx.Replace(repository.ProductRepository(productRepo)),
			fx.Replace(repository.OrderRepository(orderRepo)),
			fx.Replace(repository.BalanceRepository(balanceRepo)),
			fx.Replace(redis.Guard(test.NewGuardStub())),
			fx.Replace(provider.NewRegistry(&test.ProviderAdapterStub{})),
			fx.Replace(gateway.Client(&test.GatewayClientStub{})),
			fx.Replace(lookup.Client(&test.LookupClientStub{})),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected topup facade instance")
	}
}
