package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	storeID := uuid.New()

	t.Run("quantizes and normalizes input", func(t *testing.T) {
		p, err := NewProduct(storeID, NewProductInput{
			Name:         "  Arroz 5kg ",
			SKU:          " ARZ-5 ",
			EAN:          "789-12345-6785",
			CostPrice:    decimal.RequireFromString("12.345"),
			SalePrice:    decimal.RequireFromString("19.999"),
			MinStock:     decimal.RequireFromString("1.23456"),
			ReorderPoint: decimal.RequireFromString("2"),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Arroz 5kg", p.Name)
		require.NotNil(t, p.SKU)
		assert.Equal(t, "ARZ-5", *p.SKU)
		require.NotNil(t, p.EAN)
		assert.Equal(t, "789123456785", *p.EAN)
		assert.Equal(t, UnitPiece, p.Unit)
		assert.Equal(t, "12.35", p.CostPrice.StringFixed(2))
		assert.Equal(t, "20.00", p.SalePrice.StringFixed(2))
		assert.Equal(t, "1.2346", p.MinStock.StringFixed(4))
		assert.True(t, p.Active)
		assert.False(t, p.Deleted)
		assert.Equal(t, storeID, p.StoreID)
	})

	t.Run("empty barcode and sku become nil", func(t *testing.T) {
		p, err := NewProduct(storeID, NewProductInput{Name: "Sal", EAN: " - "}, nil)
		require.NoError(t, err)
		assert.Nil(t, p.EAN)
		assert.Nil(t, p.SKU)
	})

	t.Run("rejects eleven digit barcode", func(t *testing.T) {
		_, err := NewProduct(storeID, NewProductInput{Name: "Sal", EAN: "7891234567-8"}, nil)
		require.Error(t, err)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "ean", de.Field)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct(storeID, NewProductInput{Name: "Sal", SalePrice: decimal.NewFromInt(-1)}, nil)
		assert.Error(t, err)
	})

	t.Run("rejects unknown unit", func(t *testing.T) {
		_, err := NewProduct(storeID, NewProductInput{Name: "Sal", Unit: "CX"}, nil)
		assert.Error(t, err)
	})

	t.Run("requires name", func(t *testing.T) {
		_, err := NewProduct(storeID, NewProductInput{Name: "  "}, nil)
		assert.Error(t, err)
	})
}

func TestProduct_ApplyUpdate(t *testing.T) {
	p, err := NewProduct(uuid.New(), NewProductInput{Name: "Feijão", SalePrice: decimal.NewFromInt(8)}, nil)
	require.NoError(t, err)

	t.Run("returns only changed columns", func(t *testing.T) {
		name := "Feijão preto"
		ean := "7891234567895"
		active := false
		cols, err := p.ApplyUpdate(ProductUpdate{Name: &name, EAN: &ean, Active: &active})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"name", "ean", "active"}, cols)
		assert.Equal(t, "Feijão preto", p.Name)
		assert.Equal(t, "7891234567895", *p.EAN)
		assert.False(t, p.Active)
		assert.False(t, p.Sellable())
	})

	t.Run("invalid barcode is rejected", func(t *testing.T) {
		ean := "123"
		_, err := p.ApplyUpdate(ProductUpdate{EAN: &ean})
		assert.Error(t, err)
	})

	t.Run("negative reorder point is rejected", func(t *testing.T) {
		rp := decimal.NewFromInt(-2)
		_, err := p.ApplyUpdate(ProductUpdate{ReorderPoint: &rp})
		assert.Error(t, err)
	})

	t.Run("nil category id clears category", func(t *testing.T) {
		cat := uuid.New()
		_, err := p.ApplyUpdate(ProductUpdate{CategoryID: &cat})
		require.NoError(t, err)
		require.NotNil(t, p.CategoryID)

		none := uuid.Nil
		_, err = p.ApplyUpdate(ProductUpdate{CategoryID: &none})
		require.NoError(t, err)
		assert.Nil(t, p.CategoryID)
	})
}

func TestSimulatePrice(t *testing.T) {
	tests := []struct {
		cost, markup, want string
	}{
		{"10.00", "50", "15.00"},
		{"7.35", "30", "9.56"},
		{"4.999", "0", "5.00"},
	}
	for _, tt := range tests {
		t.Run(tt.cost+"+"+tt.markup, func(t *testing.T) {
			got := SimulatePrice(decimal.RequireFromString(tt.cost), decimal.RequireFromString(tt.markup))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestNewPriceVersion(t *testing.T) {
	pv, err := NewPriceVersion(uuid.New(), uuid.New(), decimal.RequireFromString("3.455"), "", nil)
	require.NoError(t, err)
	assert.Equal(t, PriceOriginManual, pv.Origin)
	assert.Equal(t, "3.46", pv.Price.StringFixed(2))
	assert.False(t, pv.ValidFrom.IsZero())

	_, err = NewPriceVersion(uuid.New(), uuid.New(), decimal.NewFromInt(-1), PriceOriginManual, nil)
	assert.Error(t, err)

	_, err = NewPriceVersion(uuid.New(), uuid.New(), decimal.NewFromInt(1), PriceOrigin("outro"), nil)
	assert.Error(t, err)
}
