package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/mercearia/backend/internal/application/catalog"
	inventoryapp "github.com/mercearia/backend/internal/application/inventory"
	reportapp "github.com/mercearia/backend/internal/application/report"
	tradeapp "github.com/mercearia/backend/internal/application/trade"
	"github.com/mercearia/backend/internal/domain/catalog"
	"github.com/mercearia/backend/internal/domain/inventory"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/trade"
	"github.com/mercearia/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	t        *testing.T
	ctx      context.Context
	env      *testutil.Env
	products *catalogapp.ProductService
	stock    *inventoryapp.StockService
	sales    *tradeapp.SaleService
	reports  *reportapp.ReportService
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	env := testutil.NewEnv(t)
	engine := inventoryapp.NewStockEngine(env.Logger)
	events := testutil.NewRecordingPublisher()
	return &reportFixture{
		t:        t,
		ctx:      context.Background(),
		env:      env,
		products: catalogapp.NewProductService(env.Scope, env.Logger),
		stock:    inventoryapp.NewStockService(env.Scope, engine, events, env.Logger),
		sales:    tradeapp.NewSaleService(env.Scope, engine, catalog.DefaultPriceResolver(), events, env.Logger),
		reports:  reportapp.NewReportService(env.Scope),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *reportFixture) product(name, price, stock, reorderPoint string) uuid.UUID {
	f.t.Helper()
	p, err := f.products.Create(f.ctx, catalogapp.CreateProductRequest{
		StoreID:      f.env.StoreID,
		Name:         name,
		CostPrice:    dec("1.00"),
		SalePrice:    dec(price),
		ReorderPoint: dec(reorderPoint),
		Actor:        f.env.Admin(),
	})
	require.NoError(f.t, err)
	if stock != "0" {
		_, err = f.stock.AdjustStock(f.ctx, inventoryapp.AdjustStockRequest{
			StoreID:   f.env.StoreID,
			ProductID: p.ID,
			Type:      inventory.MoveTypeAdjustmentIn,
			Quantity:  dec(stock),
			Reason:    "saldo inicial",
			Actor:     f.env.Admin(),
		})
		require.NoError(f.t, err)
	}
	return p.ID
}

// sell rings up one line and pays it exactly; pay false leaves the sale open
func (f *reportFixture) sell(productID uuid.UUID, qty string, pay bool) {
	f.t.Helper()
	sale, err := f.sales.OpenSale(f.ctx, tradeapp.OpenSaleRequest{StoreID: f.env.StoreID, Actor: f.env.Admin()})
	require.NoError(f.t, err)
	sale, err = f.sales.AddSaleItem(f.ctx, tradeapp.AddSaleItemRequest{
		StoreID:   f.env.StoreID,
		SaleID:    sale.ID,
		ProductID: productID,
		Quantity:  dec(qty),
		Actor:     f.env.Admin(),
	})
	require.NoError(f.t, err)
	if !pay {
		return
	}
	_, err = f.sales.PaySale(f.ctx, tradeapp.PaySaleRequest{
		StoreID:    f.env.StoreID,
		SaleID:     sale.ID,
		Payment:    trade.PaymentCash,
		AmountPaid: sale.Total,
		Actor:      f.env.Admin(),
	})
	require.NoError(f.t, err)
}

func TestReportService_SalesByDay(t *testing.T) {
	f := newReportFixture(t)
	arroz := f.product("Arroz 5kg", "25.90", "10", "0")
	f.sell(arroz, "1", true)
	f.sell(arroz, "2", true)
	f.sell(arroz, "1", false)

	now := time.Now().UTC()
	days, err := f.reports.SalesByDay(f.ctx, f.env.StoreID, now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, days, 1, "open sales are not counted")
	assert.Equal(t, now.Format("2006-01-02"), days[0].Day)
	assert.Equal(t, int64(2), days[0].Count)
	assert.Equal(t, "77.70", days[0].Total.StringFixed(2))

	empty, err := f.reports.SalesByDay(f.ctx, f.env.StoreID, now.AddDate(0, 0, -10), now.AddDate(0, 0, -9))
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = f.reports.SalesByDay(f.ctx, f.env.StoreID, now, now.AddDate(0, 0, -1))
	de, ok := shared.AsDomainError(err)
	require.True(t, ok, err)
	assert.Equal(t, "INVALID_PERIOD", de.Code)
}

func TestReportService_StockTurnover(t *testing.T) {
	f := newReportFixture(t)
	cafe := f.product("Cafe 500g", "14.50", "20", "0")
	leite := f.product("Leite 1L", "4.99", "20", "0")
	pao := f.product("Pao de forma", "8.00", "20", "0")
	f.sell(cafe, "2", true)
	f.sell(leite, "3", true)
	f.sell(leite, "1", true)
	f.sell(pao, "9", false)

	ranking, err := f.reports.StockTurnover(f.ctx, f.env.StoreID, 0)
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	assert.Equal(t, leite, ranking[0].ProductID)
	assert.True(t, ranking[0].Quantity.Equal(dec("4")))
	assert.Equal(t, "19.96", ranking[0].Revenue.StringFixed(2))
	assert.Equal(t, "Cafe 500g", ranking[1].Name)

	top, err := f.reports.StockTurnover(f.ctx, f.env.StoreID, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, leite, top[0].ProductID)
}

func TestReportService_ReorderList(t *testing.T) {
	f := newReportFixture(t)
	f.product("Feijao 1kg", "8.50", "3", "5")
	f.product("Acucar 1kg", "4.20", "5", "5")
	f.product("Sal 1kg", "2.10", "0", "2")
	f.product("Farinha 1kg", "5.00", "9", "5")
	f.product("Vinagre", "3.00", "0", "0")

	lines, err := f.reports.ReorderList(f.ctx, f.env.StoreID)
	require.NoError(t, err)
	names := make([]string, 0, len(lines))
	for _, l := range lines {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"Acucar 1kg", "Feijao 1kg", "Sal 1kg"}, names, "at or below a positive point, by name")

	other, err := f.reports.ReorderList(f.ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}
