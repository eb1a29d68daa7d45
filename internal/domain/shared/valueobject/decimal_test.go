package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantizeMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10", "10.00"},
		{"1.005", "1.01"},
		{"1.004", "1.00"},
		{"2.675", "2.68"},
		{"-1.005", "-1.01"},
		{"0.125", "0.13"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := QuantizeMoney(decimal.RequireFromString(tt.in))
			assert.Equal(t, tt.want, got.StringFixed(MoneyPlaces))
		})
	}
}

func TestQuantizeQty(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1.0000"},
		{"0.33335", "0.3334"},
		{"0.33334", "0.3333"},
		{"2.00005", "2.0001"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := QuantizeQty(decimal.RequireFromString(tt.in))
			assert.Equal(t, tt.want, got.StringFixed(QuantityPlaces))
		})
	}
}

func TestParseMoney(t *testing.T) {
	t.Run("dot separator", func(t *testing.T) {
		d, err := ParseMoney("12.345")
		require.NoError(t, err)
		assert.True(t, d.Equal(decimal.RequireFromString("12.35")))
	})

	t.Run("comma separator", func(t *testing.T) {
		d, err := ParseMoney("12,5")
		require.NoError(t, err)
		assert.True(t, d.Equal(decimal.RequireFromString("12.50")))
	})

	t.Run("empty is zero", func(t *testing.T) {
		d, err := ParseMoney("  ")
		require.NoError(t, err)
		assert.True(t, d.IsZero())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseMoney("abc")
		assert.Error(t, err)
	})
}

func TestApplyMarkup(t *testing.T) {
	got := ApplyMarkup(decimal.RequireFromString("10.00"), decimal.RequireFromString("35"))
	assert.Equal(t, "13.50", got.StringFixed(2))

	got = ApplyMarkup(decimal.RequireFromString("3.33"), decimal.Zero)
	assert.Equal(t, "3.33", got.StringFixed(2))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "inve", Truncate("inventário", 4))
}
