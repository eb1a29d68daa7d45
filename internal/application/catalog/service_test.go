package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/mercearia/backend/internal/application/catalog"
	"github.com/mercearia/backend/internal/domain/catalog"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	ctx        context.Context
	env        *testutil.Env
	products   *catalogapp.ProductService
	categories *catalogapp.CategoryService
	pricing    *catalogapp.PricingService
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	env := testutil.NewEnv(t)
	return &catalogFixture{
		ctx:        context.Background(),
		env:        env,
		products:   catalogapp.NewProductService(env.Scope, env.Logger),
		categories: catalogapp.NewCategoryService(env.Scope, env.Logger),
		pricing:    catalogapp.NewPricingService(env.Scope, catalog.DefaultPriceResolver(), env.Logger),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *catalogFixture) create(t *testing.T, req catalogapp.CreateProductRequest) *catalogapp.ProductResponse {
	t.Helper()
	req.StoreID = f.env.StoreID
	req.Actor = f.env.Admin()
	p, err := f.products.Create(f.ctx, req)
	require.NoError(t, err)
	return p
}

func requireField(t *testing.T, err error, code, field string) {
	t.Helper()
	de, ok := shared.AsDomainError(err)
	require.True(t, ok, "expected a domain error, got %v", err)
	assert.Equal(t, code, de.Code)
	assert.Equal(t, field, de.Field)
}

func TestProductService_Create(t *testing.T) {
	f := newCatalogFixture(t)

	p := f.create(t, catalogapp.CreateProductRequest{
		Name:      "  Biscoito Recheado 140g ",
		EAN:       "7 891000 055120",
		CostPrice: dec("1.999"),
		SalePrice: dec("3.49"),
	})
	assert.Equal(t, "Biscoito Recheado 140g", p.Name)
	require.NotNil(t, p.EAN)
	assert.Equal(t, "7891000055120", *p.EAN)
	assert.Equal(t, string(catalog.UnitPiece), p.Unit)
	assert.Equal(t, "2.00", p.CostPrice.StringFixed(2))
	assert.True(t, p.Active)

	found, err := f.products.GetByBarcode(f.ctx, f.env.StoreID, "789.1000.0551.20")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	noDigits := f.create(t, catalogapp.CreateProductRequest{Name: "Granel", EAN: "---"})
	assert.Nil(t, noDigits.EAN, "a barcode without digits is no barcode")

	_, err = f.products.GetByBarcode(f.ctx, f.env.StoreID, "sem codigo")
	requireField(t, err, "INVALID_EAN", "ean")
}

func TestProductService_CreateRejections(t *testing.T) {
	f := newCatalogFixture(t)
	f.create(t, catalogapp.CreateProductRequest{Name: "Achocolatado 400g", EAN: "7891000100103"})

	tests := []struct {
		name  string
		req   catalogapp.CreateProductRequest
		code  string
		field string
	}{
		{"eleven digit barcode", catalogapp.CreateProductRequest{Name: "Cha", EAN: "78910001001"}, "INVALID_EAN", "ean"},
		{"blank name", catalogapp.CreateProductRequest{Name: "   "}, "INVALID_NAME", "name"},
		{"unknown unit", catalogapp.CreateProductRequest{Name: "Cha", Unit: "CX"}, "INVALID_UNIT", "unit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.StoreID = f.env.StoreID
			req.Actor = f.env.Admin()
			_, err := f.products.Create(f.ctx, req)
			requireField(t, err, tt.code, tt.field)
		})
	}

	_, err := f.products.Create(f.ctx, catalogapp.CreateProductRequest{
		StoreID: f.env.StoreID,
		Name:    "Achocolatado 800g",
		EAN:     "789-1000-1001-03",
		Actor:   f.env.Admin(),
	})
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists), err)

	unknown := uuid.New()
	_, err = f.products.Create(f.ctx, catalogapp.CreateProductRequest{
		StoreID:    f.env.StoreID,
		Name:       "Cha mate",
		CategoryID: &unknown,
		Actor:      f.env.Admin(),
	})
	requireField(t, err, "INVALID_CATEGORY", "category_id")
}

func TestProductService_UpdateAndDelete(t *testing.T) {
	f := newCatalogFixture(t)
	p := f.create(t, catalogapp.CreateProductRequest{Name: "Gelatina", SalePrice: dec("1.99")})

	name := "Gelatina Morango"
	reorder := dec("12")
	updated, err := f.products.Update(f.ctx, catalogapp.UpdateProductRequest{
		StoreID:      f.env.StoreID,
		ProductID:    p.ID,
		Name:         &name,
		ReorderPoint: &reorder,
		Actor:        f.env.Admin(),
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.True(t, updated.ReorderPoint.Equal(reorder))
	assert.True(t, updated.SalePrice.Equal(dec("1.99")), "untouched fields keep their value")

	require.NoError(t, f.products.Delete(f.ctx, f.env.StoreID, p.ID, f.env.Admin()))
	_, err = f.products.GetByID(f.ctx, f.env.StoreID, p.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound), err)

	page, err := f.products.List(f.ctx, f.env.StoreID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestProductService_StoreIsolation(t *testing.T) {
	f := newCatalogFixture(t)
	p := f.create(t, catalogapp.CreateProductRequest{Name: "Fermento", EAN: "7891000100110"})

	other := uuid.New()
	_, err := f.products.GetByID(f.ctx, other, p.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound), err)
	_, err = f.products.GetByBarcode(f.ctx, other, "7891000100110")
	assert.True(t, errors.Is(err, shared.ErrNotFound), err)
}

func TestPricingService_SimulatePrice(t *testing.T) {
	f := newCatalogFixture(t)
	category, err := f.categories.Create(f.ctx, catalogapp.CreateCategoryRequest{
		StoreID:       f.env.StoreID,
		Name:          "Higiene",
		DefaultMarkup: dec("40"),
		Actor:         f.env.Admin(),
	})
	require.NoError(t, err)

	withCategory := f.create(t, catalogapp.CreateProductRequest{Name: "Sabonete", CategoryID: &category.ID, CostPrice: dec("2.50")})
	plain := f.create(t, catalogapp.CreateProductRequest{Name: "Escova", CostPrice: dec("4.00")})

	sim, err := f.pricing.SimulatePrice(f.ctx, f.env.StoreID, withCategory.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "3.50", sim.Price.StringFixed(2), "category markup applies by default")

	markup := dec("25")
	sim, err = f.pricing.SimulatePrice(f.ctx, f.env.StoreID, withCategory.ID, &markup)
	require.NoError(t, err)
	assert.Equal(t, "3.13", sim.Price.StringFixed(2))

	sim, err = f.pricing.SimulatePrice(f.ctx, f.env.StoreID, plain.ID, nil)
	require.NoError(t, err)
	assert.True(t, sim.Markup.IsZero())
	assert.Equal(t, "4.00", sim.Price.StringFixed(2))

	negative := dec("-5")
	_, err = f.pricing.SimulatePrice(f.ctx, f.env.StoreID, plain.ID, &negative)
	requireField(t, err, "INVALID_MARKUP", "markup")
}

func TestPricingService_PublishPriceAppendsHistory(t *testing.T) {
	f := newCatalogFixture(t)
	p := f.create(t, catalogapp.CreateProductRequest{Name: "Pasta de dente", SalePrice: dec("5.00")})

	publish := func(price, origin string) {
		_, err := f.pricing.PublishPrice(f.ctx, catalogapp.PublishPriceRequest{
			StoreID:   f.env.StoreID,
			ProductID: p.ID,
			Price:     dec(price),
			Origin:    origin,
			Actor:     f.env.Admin(),
		})
		require.NoError(t, err)
	}
	publish("5.49", "")
	publish("5.99", string(catalog.PriceOriginCategoryRule))

	history, err := f.pricing.PriceHistory(f.ctx, f.env.StoreID, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	prices := []string{history[0].Price.StringFixed(2), history[1].Price.StringFixed(2)}
	assert.ElementsMatch(t, []string{"5.49", "5.99"}, prices)
	for _, v := range history {
		if v.Price.Equal(dec("5.49")) {
			assert.Equal(t, string(catalog.PriceOriginManual), v.Origin)
		}
	}

	current, err := f.products.GetByID(f.ctx, f.env.StoreID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "5.99", current.SalePrice.StringFixed(2))

	_, err = f.pricing.PublishPrice(f.ctx, catalogapp.PublishPriceRequest{
		StoreID:   f.env.StoreID,
		ProductID: p.ID,
		Price:     dec("-1"),
		Actor:     f.env.Admin(),
	})
	requireField(t, err, "INVALID_PRICE", "price")

	history, err = f.pricing.PriceHistory(f.ctx, f.env.StoreID, p.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestPricingService_Promos(t *testing.T) {
	f := newCatalogFixture(t)
	p := f.create(t, catalogapp.CreateProductRequest{Name: "Shampoo", SalePrice: dec("12.00")})

	quote, err := f.pricing.Quote(f.ctx, f.env.StoreID, p.ID, dec("2"))
	require.NoError(t, err)
	assert.Equal(t, "24.00", quote.Total.StringFixed(2))
	assert.Nil(t, quote.PromoID)

	until := time.Now().Add(24 * time.Hour)
	promo, err := f.pricing.CreatePromo(f.ctx, catalogapp.CreatePromoRequest{
		StoreID:    f.env.StoreID,
		Name:       "Quinze off",
		Type:       string(catalog.PromoKindPercentOff),
		Value:      dec("15"),
		ValidUntil: &until,
		Actor:      f.env.Admin(),
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultPromoPriority, promo.Priority)
	assert.True(t, promo.Active)

	expired := time.Now().Add(-time.Hour)
	_, err = f.pricing.CreatePromo(f.ctx, catalogapp.CreatePromoRequest{
		StoreID:    f.env.StoreID,
		Name:       "Antiga",
		Type:       string(catalog.PromoKindPercentOff),
		Value:      dec("90"),
		ValidFrom:  time.Now().Add(-48 * time.Hour),
		ValidUntil: &expired,
		Priority:   new(int),
		Actor:      f.env.Admin(),
	})
	require.NoError(t, err)

	quote, err = f.pricing.Quote(f.ctx, f.env.StoreID, p.ID, dec("2"))
	require.NoError(t, err)
	require.NotNil(t, quote.PromoID)
	assert.Equal(t, promo.ID, *quote.PromoID, "expired promos never apply")
	assert.Equal(t, "3.60", quote.Discount.StringFixed(2))
	assert.Equal(t, "20.40", quote.Total.StringFixed(2))

	_, err = f.pricing.DeactivatePromo(f.ctx, f.env.StoreID, promo.ID, f.env.Admin())
	require.NoError(t, err)
	quote, err = f.pricing.Quote(f.ctx, f.env.StoreID, p.ID, dec("2"))
	require.NoError(t, err)
	assert.Nil(t, quote.PromoID)

	active, err := f.pricing.ListPromos(f.ctx, f.env.StoreID, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	all, err := f.pricing.ListPromos(f.ctx, f.env.StoreID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.pricing.Quote(f.ctx, f.env.StoreID, p.ID, decimal.Zero)
	requireField(t, err, "INVALID_QUANTITY", "quantity")
}

func TestCategoryService(t *testing.T) {
	f := newCatalogFixture(t)
	_, err := f.categories.Create(f.ctx, catalogapp.CreateCategoryRequest{StoreID: f.env.StoreID, Name: "Bebidas", Actor: f.env.Admin()})
	require.NoError(t, err)
	_, err = f.categories.Create(f.ctx, catalogapp.CreateCategoryRequest{
		StoreID:       f.env.StoreID,
		Name:          "Laticinios",
		DefaultMarkup: dec("-1"),
		Actor:         f.env.Admin(),
	})
	requireField(t, err, "INVALID_MARKUP", "markup")

	list, err := f.categories.List(f.ctx, f.env.StoreID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bebidas", list[0].Name)
}
