package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/mxvel/topupmart/internal/domain/errors"
	"github.com/mxvel/topupmart/internal/domain/model"
	testhelpers "github.com/mxvel/topupmart/internal/test"
	"github.com/mxvel/topupmart/internal/usecase"
)

type facadeFixture struct {
	facade   *TopupFacade
	users    *testhelpers.UserRepositoryStub
	products *testhelpers.ProductRepositoryStub
	orders   *testhelpers.OrderRepositoryStub
	balances *testhelpers.BalanceRepositoryStub
	adapter  *testhelpers.ProviderAdapterStub
	gateway  *testhelpers.GatewayClientStub
}

func newFacadeFixture() *facadeFixture {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	users := testhelpers.NewUserRepositoryStub()
	strategy := testhelpers.StrategyStub{ParseFn: func(string) (int64, error) { return 99, nil }}
	authUC := usecase.NewAuthUseCase(users, testhelpers.HasherStub{}, strategy)

	products := &testhelpers.ProductRepositoryStub{Products: []model.Product{
		{ID: 3, SKU: "mlbb-86", Game: "mlbb", Item: "86 Diamonds", Provider: model.ProviderSmile, ProviderCode: "213", Price: decimal.NewFromInt(100), Active: true},
	}}
	catalogUC := usecase.NewCatalogUseCase(products)

	orders := testhelpers.NewOrderRepositoryStub()
	orderUC := usecase.NewOrderUseCase(orders)

	balances := testhelpers.NewBalanceRepositoryStub()
	balanceUC := usecase.NewBalanceUseCase(balances)

	adapter := &testhelpers.ProviderAdapterStub{Result: model.FulfillmentResult{Success: true, ExternalOrderID: "SM-1"}}
	gatewayStub := &testhelpers.GatewayClientStub{}
	lookupStub := &testhelpers.LookupClientStub{}

	checkoutUC := usecase.NewCheckoutUseCase(usecase.CheckoutDeps{
		Users:     users,
		Products:  products,
		Orders:    orders,
		Balances:  balances,
		Providers: &testhelpers.RegistryStub{Adapter: adapter},
		Gateway:   gatewayStub,
		Lookup:    lookupStub,
		Guard:     testhelpers.NewGuardStub(),
		Window:    10 * time.Minute,
		Logger:    logger,
	})

	facade := NewTopupFacade(authUC, catalogUC, orderUC, balanceUC, checkoutUC, lookupStub)
	return &facadeFixture{
		facade:   facade,
		users:    users,
		products: products,
		orders:   orders,
		balances: balances,
		adapter:  adapter,
		gateway:  gatewayStub,
	}
}

func (f *facadeFixture) seedUser(t *testing.T, balance int64) *model.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), "alice", "hash:pass", model.RoleCustomer)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	f.balances.Balances[user.ID] = decimal.NewFromInt(balance)
	return user
}

func TestTopupFacadeAuth(t *testing.T) {
	f := newFacadeFixture()
	token, err := f.facade.Register(context.Background(), "user", "pass")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}

	token, err = f.facade.Authenticate(context.Background(), "user", "pass")
	if err != nil {
		t.Fatalf("authenticate returned error: %v", err)
	}
	if token != "token" {
		t.Fatalf("unexpected token %q", token)
	}

	id, err := f.facade.ParseToken("anything")
	if err != nil {
		t.Fatalf("parse token returned error: %v", err)
	}
	if id != 99 {
		t.Fatalf("expected id 99, got %d", id)
	}
}

func TestTopupFacadeCatalog(t *testing.T) {
	f := newFacadeFixture()
	listed, err := f.facade.Products(context.Background(), "mlbb")
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one product, got %v err=%v", listed, err)
	}

	product, err := f.facade.Product(context.Background(), "mlbb-86")
	if err != nil || product.SKU != "mlbb-86" {
		t.Fatalf("unexpected product %v err=%v", product, err)
	}

	if _, err := f.facade.Product(context.Background(), "nope"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTopupFacadeCheckoutFlow(t *testing.T) {
	f := newFacadeFixture()
	user := f.seedUser(t, 500)

	order, err := f.facade.Checkout(context.Background(), model.CheckoutInput{
		UserID:     user.ID,
		SKU:        "mlbb-86",
		GameUserID: "123",
		ZoneID:     "4567",
		Payment:    "coin",
	})
	if err != nil {
		t.Fatalf("checkout returned error: %v", err)
	}
	if order.Status != model.OrderStatusCompleted {
		t.Fatalf("expected completed order, got %s", order.Status)
	}

	balance, err := f.facade.Balance(context.Background(), user.ID)
	if err != nil || !balance.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("expected balance 400, got %s err=%v", balance, err)
	}

	entries, err := f.facade.Ledger(context.Background(), user.ID)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one ledger entry, got %v err=%v", entries, err)
	}

	listed, err := f.facade.Orders(context.Background(), user.ID)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one order, got %v err=%v", listed, err)
	}

	fetched, err := f.facade.Order(context.Background(), user.ID, order.ID)
	if err != nil || fetched.ID != order.ID {
		t.Fatalf("unexpected order fetch %v err=%v", fetched, err)
	}
}

func TestTopupFacadeBalanceDefaultsToZero(t *testing.T) {
	f := newFacadeFixture()
	balance, err := f.facade.Balance(context.Background(), 404)
	if err != nil {
		t.Fatalf("expected missing wallet to read as zero, got %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", balance)
	}
}

func TestTopupFacadePaymentCallbacks(t *testing.T) {
	f := newFacadeFixture()
	user := f.seedUser(t, 0)

	order, err := f.facade.Topup(context.Background(), user.ID, decimal.NewFromInt(300), "")
	if err != nil {
		t.Fatalf("topup returned error: %v", err)
	}
	if order.Status != model.OrderStatusPending || order.PaymentURL == nil {
		t.Fatalf("expected pending order with payment url, got %+v", order)
	}

	settled, err := f.facade.ConfirmPayment(context.Background(), order.ID, "UTR42")
	if err != nil {
		t.Fatalf("confirm returned error: %v", err)
	}
	if settled.Status != model.OrderStatusCompleted {
		t.Fatalf("expected completed order, got %s", settled.Status)
	}

	balance, _ := f.facade.Balance(context.Background(), user.ID)
	if !balance.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected balance 300 after topup, got %s", balance)
	}
}

func TestTopupFacadeFailPayment(t *testing.T) {
	f := newFacadeFixture()
	user := f.seedUser(t, 0)

	order, err := f.facade.Topup(context.Background(), user.ID, decimal.NewFromInt(300), "")
	if err != nil {
		t.Fatalf("topup returned error: %v", err)
	}

	if err := f.facade.FailPayment(context.Background(), order.ID, "payment failed"); err != nil {
		t.Fatalf("fail payment returned error: %v", err)
	}

	failed, err := f.facade.Order(context.Background(), user.ID, order.ID)
	if err != nil || failed.Status != model.OrderStatusFailed {
		t.Fatalf("expected failed order, got %v err=%v", failed, err)
	}

	balance, _ := f.facade.Balance(context.Background(), user.ID)
	if !balance.IsZero() {
		t.Fatalf("expected untouched balance, got %s", balance)
	}
}

func TestTopupFacadeReconciliation(t *testing.T) {
	f := newFacadeFixture()
	user := f.seedUser(t, 0)

	order, err := f.facade.Topup(context.Background(), user.ID, decimal.NewFromInt(300), "")
	if err != nil {
		t.Fatalf("topup returned error: %v", err)
	}

	batch, err := f.facade.OrdersForReconciliation(context.Background(), 0, 10)
	if err != nil || len(batch) != 1 {
		t.Fatalf("expected batch of one, got %v err=%v", batch, err)
	}

	f.gateway.StatusFn = func(context.Context, string) (*model.GatewayResult, error) {
		return &model.GatewayResult{Status: model.GatewayStatusSuccess, UTR: "UTR42"}, nil
	}
	if err := f.facade.ReconcileOrder(context.Background(), batch[0]); err != nil {
		t.Fatalf("reconcile returned error: %v", err)
	}

	settled, err := f.facade.Order(context.Background(), user.ID, order.ID)
	if err != nil || settled.Status != model.OrderStatusCompleted {
		t.Fatalf("expected settled order, got %v err=%v", settled, err)
	}
}
