package trade_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	catalogapp "github.com/mercearia/backend/internal/application/catalog"
	financeapp "github.com/mercearia/backend/internal/application/finance"
	identityapp "github.com/mercearia/backend/internal/application/identity"
	inventoryapp "github.com/mercearia/backend/internal/application/inventory"
	partnerapp "github.com/mercearia/backend/internal/application/partner"
	tradeapp "github.com/mercearia/backend/internal/application/trade"
	"github.com/mercearia/backend/internal/domain/catalog"
	"github.com/mercearia/backend/internal/domain/inventory"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t      *testing.T
	ctx    context.Context
	env    *testutil.Env
	events *testutil.RecordingPublisher

	products  *catalogapp.ProductService
	pricing   *catalogapp.PricingService
	stock     *inventoryapp.StockService
	suppliers *partnerapp.SupplierService
	users     *identityapp.UserService
	sales     *tradeapp.SaleService
	purchases *tradeapp.PurchaseService
	finance   *financeapp.FinanceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := testutil.NewEnv(t)
	events := testutil.NewRecordingPublisher()
	engine := inventoryapp.NewStockEngine(env.Logger)
	resolver := catalog.DefaultPriceResolver()
	return &fixture{
		t:         t,
		ctx:       context.Background(),
		env:       env,
		events:    events,
		products:  catalogapp.NewProductService(env.Scope, env.Logger),
		pricing:   catalogapp.NewPricingService(env.Scope, resolver, env.Logger),
		stock:     inventoryapp.NewStockService(env.Scope, engine, events, env.Logger),
		suppliers: partnerapp.NewSupplierService(env.Scope, env.Logger),
		users:     identityapp.NewUserService(env.Scope, env.Logger),
		sales:     tradeapp.NewSaleService(env.Scope, engine, resolver, events, env.Logger),
		purchases: tradeapp.NewPurchaseService(env.Scope, engine, events, env.Logger),
		finance:   financeapp.NewFinanceService(env.Scope, env.Logger),
	}
}

func (f *fixture) admin() shared.Actor {
	return f.env.Admin()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) product(name, cost, price string) uuid.UUID {
	f.t.Helper()
	p, err := f.products.Create(f.ctx, catalogapp.CreateProductRequest{
		StoreID:   f.env.StoreID,
		Name:      name,
		CostPrice: dec(cost),
		SalePrice: dec(price),
		Actor:     f.admin(),
	})
	require.NoError(f.t, err)
	return p.ID
}

func (f *fixture) stockIn(productID uuid.UUID, qty string) {
	f.t.Helper()
	_, err := f.stock.AdjustStock(f.ctx, inventoryapp.AdjustStockRequest{
		StoreID:   f.env.StoreID,
		ProductID: productID,
		Type:      inventory.MoveTypeAdjustmentIn,
		Quantity:  dec(qty),
		Reason:    "saldo inicial",
		Actor:     f.admin(),
	})
	require.NoError(f.t, err)
}

func (f *fixture) quantity(productID uuid.UUID) decimal.Decimal {
	f.t.Helper()
	level, err := f.stock.GetStock(f.ctx, f.env.StoreID, productID)
	require.NoError(f.t, err)
	return level.Quantity
}

// moves counts the ledger of a product by move type
func (f *fixture) moves(productID uuid.UUID) map[string]int {
	f.t.Helper()
	page, err := f.stock.ListMoves(f.ctx, f.env.StoreID, productID, shared.Filter{Page: 1, PageSize: 100})
	require.NoError(f.t, err)
	counts := make(map[string]int, len(page.Items))
	for _, m := range page.Items {
		counts[m.Type]++
	}
	return counts
}

func (f *fixture) requireConsistent(productID uuid.UUID) {
	f.t.Helper()
	replay, err := f.stock.ReplayQuantity(f.ctx, f.env.StoreID, productID)
	require.NoError(f.t, err)
	require.True(f.t, replay.Consistent, "ledger %s, stock %s", replay.Ledger, replay.Materialized)
}

func (f *fixture) supplier(name string, termDays int) uuid.UUID {
	f.t.Helper()
	s, err := f.suppliers.Create(f.ctx, partnerapp.CreateSupplierRequest{
		StoreID:         f.env.StoreID,
		Name:            name,
		PaymentTermDays: termDays,
		Actor:           f.admin(),
	})
	require.NoError(f.t, err)
	return s.ID
}

func (f *fixture) user(email, role string) shared.Actor {
	f.t.Helper()
	u, err := f.users.Create(f.ctx, identityapp.CreateUserRequest{
		StoreID:  f.env.StoreID,
		Name:     "Funcionario " + role,
		Email:    email,
		Password: "senha123",
		Role:     role,
		Actor:    f.admin(),
	})
	require.NoError(f.t, err)
	return shared.Actor{UserID: u.ID}
}

func (f *fixture) openSale() *tradeapp.SaleResponse {
	f.t.Helper()
	sale, err := f.sales.OpenSale(f.ctx, tradeapp.OpenSaleRequest{StoreID: f.env.StoreID, Actor: f.admin()})
	require.NoError(f.t, err)
	return sale
}

func (f *fixture) addItem(saleID, productID uuid.UUID, qty string) (*tradeapp.SaleResponse, error) {
	return f.sales.AddSaleItem(f.ctx, tradeapp.AddSaleItemRequest{
		StoreID:   f.env.StoreID,
		SaleID:    saleID,
		ProductID: productID,
		Quantity:  dec(qty),
		Actor:     f.admin(),
	})
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	de, ok := shared.AsDomainError(err)
	require.True(t, ok, "expected a domain error, got %v", err)
	require.Equal(t, code, de.Code, de.Message)
}
