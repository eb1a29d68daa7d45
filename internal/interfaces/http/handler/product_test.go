package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/mercearia/backend/internal/application/catalog"
	"github.com/mercearia/backend/internal/domain/catalog"
	"github.com/mercearia/backend/internal/interfaces/http/dto"
	"github.com/mercearia/backend/internal/interfaces/http/middleware"
	"github.com/mercearia/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogEngine(t *testing.T) *gin.Engine {
	t.Helper()
	env := testutil.NewEnv(t)
	products := NewProductHandler(catalogapp.NewProductService(env.Scope, env.Logger))
	pricing := NewPricingHandler(catalogapp.NewPricingService(env.Scope, catalog.DefaultPriceResolver(), env.Logger))

	engine := gin.New()
	engine.Use(middleware.RequestID(), authenticated(env.StoreID, env.AdminID))
	g := engine.Group("/products")
	g.POST("", products.Create)
	g.GET("", products.List)
	g.GET("/barcode/:ean", products.GetByBarcode)
	g.GET("/:id", products.GetByID)
	g.PATCH("/:id", products.Update)
	g.DELETE("/:id", products.Delete)
	g.GET("/:id/price/simulate", pricing.Simulate)
	g.POST("/:id/prices", pricing.Publish)
	g.GET("/:id/quote", pricing.Quote)
	return engine
}

func createProduct(t *testing.T, engine *gin.Engine, body map[string]any) catalogapp.ProductResponse {
	t.Helper()
	w := testutil.Serve(engine, testutil.Request(t, http.MethodPost, "/products", body))
	return testutil.RequireData[catalogapp.ProductResponse](t, w, http.StatusCreated)
}

func TestProductHandler_CreateAndLookup(t *testing.T) {
	engine := newCatalogEngine(t)

	created := createProduct(t, engine, map[string]any{
		"name":       "Cafe Torrado 500g",
		"ean":        "789-1000-1001-03",
		"cost_price": "12.00",
		"sale_price": "18.90",
	})
	require.NotNil(t, created.EAN)
	assert.Equal(t, "7891000100103", *created.EAN, "barcode is stored normalized")
	assert.Equal(t, "UN", created.Unit)

	w := testutil.Serve(engine, testutil.Request(t, http.MethodGet, "/products/barcode/7891000100103", nil))
	found := testutil.RequireData[catalogapp.ProductResponse](t, w, http.StatusOK)
	assert.Equal(t, created.ID, found.ID)

	w = testutil.Serve(engine, testutil.Request(t, http.MethodGet, "/products/"+created.ID.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProductHandler_DuplicateBarcode(t *testing.T) {
	engine := newCatalogEngine(t)
	createProduct(t, engine, map[string]any{"name": "Leite Integral 1L", "ean": "7891000100103"})

	w := testutil.Serve(engine, testutil.Request(t, http.MethodPost, "/products", map[string]any{
		"name": "Leite Desnatado 1L",
		"ean":  "7891000100103",
	}))
	testutil.AssertErrorResponse(t, w, http.StatusConflict, dto.ErrCodeAlreadyExists)
}

func TestProductHandler_Validation(t *testing.T) {
	engine := newCatalogEngine(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"ean": "7891000100103"}},
		{"short barcode", map[string]any{"name": "Sal", "ean": "12345"}},
		{"unknown unit", map[string]any{"name": "Sal", "unit": "CX"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.Serve(engine, testutil.Request(t, http.MethodPost, "/products", tt.body))
			testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		})
	}
}

func TestProductHandler_ListSearchAndDelete(t *testing.T) {
	engine := newCatalogEngine(t)
	arroz := createProduct(t, engine, map[string]any{"name": "Arroz Branco 5kg"})
	createProduct(t, engine, map[string]any{"name": "Feijao Preto 1kg"})

	w := testutil.Serve(engine, testutil.Request(t, http.MethodGet, "/products?search=arroz", nil))
	env := testutil.Decode[[]catalogapp.ProductResponse](t, w)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.Data, 1)
	assert.Equal(t, arroz.ID, env.Data[0].ID)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)

	w = testutil.Serve(engine, testutil.Request(t, http.MethodGet, "/products?page_size=1000", nil))
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)

	w = testutil.Serve(engine, testutil.Request(t, http.MethodDelete, "/products/"+arroz.ID.String(), nil))
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = testutil.Serve(engine, testutil.Request(t, http.MethodGet, "/products/"+arroz.ID.String(), nil))
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
}

func TestProductHandler_Update(t *testing.T) {
	engine := newCatalogEngine(t)
	p := createProduct(t, engine, map[string]any{"name": "Acucar 1kg"})

	w := testutil.Serve(engine, testutil.Request(t, http.MethodPatch, "/products/"+p.ID.String(), map[string]any{
		"name":          "Acucar Refinado 1kg",
		"reorder_point": "5",
	}))
	updated := testutil.RequireData[catalogapp.ProductResponse](t, w, http.StatusOK)
	assert.Equal(t, "Acucar Refinado 1kg", updated.Name)
	assert.True(t, updated.ReorderPoint.Equal(decimal.NewFromInt(5)))
}

func TestPricingHandler_SimulateAndPublish(t *testing.T) {
	engine := newCatalogEngine(t)
	p := createProduct(t, engine, map[string]any{"name": "Oleo de Soja 900ml", "cost_price": "6.00"})
	base := "/products/" + p.ID.String()

	w := testutil.Serve(engine, testutil.Request(t, http.MethodGet, base+"/price/simulate?markup=50", nil))
	sim := testutil.RequireData[catalogapp.SimulatePriceResponse](t, w, http.StatusOK)
	assert.True(t, sim.Price.Equal(decimal.NewFromInt(9)), "price %s", sim.Price)

	w = testutil.Serve(engine, testutil.Request(t, http.MethodGet, base+"/price/simulate?markup=meio", nil))
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)

	w = testutil.Serve(engine, testutil.Request(t, http.MethodPost, base+"/prices", map[string]any{"price": "8.99"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = testutil.Serve(engine, testutil.Request(t, http.MethodGet, base+"/quote?quantity=2", nil))
	quote := testutil.RequireData[catalogapp.QuoteResponse](t, w, http.StatusOK)
	assert.True(t, quote.UnitPrice.Equal(decimal.RequireFromString("8.99")), "unit price %s", quote.UnitPrice)
}

type stubPhotoStorage struct{}

func (stubPhotoStorage) GenerateUploadURL(_ context.Context, key, _ string, d time.Duration) (string, time.Time, error) {
	return "https://bucket.test/" + key, time.Now().Add(d), nil
}

func (stubPhotoStorage) GenerateDownloadURL(_ context.Context, key string, d time.Duration) (string, time.Time, error) {
	return "https://bucket.test/" + key, time.Now().Add(d), nil
}

func TestProductHandler_Photo(t *testing.T) {
	env := testutil.NewEnv(t)
	products := catalogapp.NewProductService(env.Scope, env.Logger)
	engine := gin.New()
	engine.Use(middleware.RequestID(), authenticated(env.StoreID, env.AdminID))
	engine.POST("/products", NewProductHandler(products).Create)

	disabled := NewProductHandler(products)
	engine.GET("/off/:id/photo", disabled.Photo)

	enabled := NewProductHandler(products).WithPhotos(
		catalogapp.NewPhotoService(env.Scope, stubPhotoStorage{}, time.Minute, env.Logger))
	engine.POST("/products/:id/photo", enabled.UploadPhoto)
	engine.GET("/products/:id/photo", enabled.Photo)

	p := createProduct(t, engine, map[string]any{"name": "Pao de Forma"})
	base := "/products/" + p.ID.String() + "/photo"

	w := testutil.Serve(engine, testutil.Request(t, http.MethodGet, "/off/"+p.ID.String()+"/photo", nil))
	testutil.AssertErrorResponse(t, w, http.StatusServiceUnavailable, dto.ErrCodeUnavailable)

	w = testutil.Serve(engine, testutil.Request(t, http.MethodGet, base, nil))
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeNotFound)

	w = testutil.Serve(engine, testutil.Request(t, http.MethodPost, base, map[string]any{"content_type": "text/plain"}))
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = testutil.Serve(engine, testutil.Request(t, http.MethodPost, base, map[string]any{"content_type": "image/png"}))
	up := testutil.RequireData[catalogapp.PhotoURLResponse](t, w, http.StatusCreated)
	assert.True(t, strings.HasSuffix(up.Key, ".png"))

	w = testutil.Serve(engine, testutil.Request(t, http.MethodGet, base, nil))
	down := testutil.RequireData[catalogapp.PhotoURLResponse](t, w, http.StatusOK)
	assert.Equal(t, up.Key, down.Key)
}
