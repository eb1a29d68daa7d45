package trade

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSale_AddRemoveSymmetry(t *testing.T) {
	prices := []string{"0.01", "3.99", "10.00", "7.33", "1234.57"}
	quantities := []string{"1", "0.0001", "0.3333", "2.5", "17.0049"}
	discounts := []string{"0", "0.01", "0.05"}

	for _, price := range prices {
		for _, qty := range quantities {
			for _, disc := range discounts {
				t.Run(fmt.Sprintf("%s×%s-%s", price, qty, disc), func(t *testing.T) {
					s := NewSale(uuid.New(), nil, nil)
					_, err := s.AddItem(uuid.New(), dec("1.5"), dec("2.99"), dec("0.45"), nil)
					require.NoError(t, err)
					sub, dsc, tot := s.Subtotal, s.Discount, s.Total

					item, err := s.AddItem(uuid.New(), dec(qty), dec(price), dec(disc), nil)
					require.NoError(t, err)
					_, err = s.RemoveItem(item.ID)
					require.NoError(t, err)

					assert.True(t, s.Subtotal.Equal(sub), "subtotal %s != %s", s.Subtotal, sub)
					assert.True(t, s.Discount.Equal(dsc), "discount %s != %s", s.Discount, dsc)
					assert.True(t, s.Total.Equal(tot), "total %s != %s", s.Total, tot)
					assert.Len(t, s.Items, 1)
				})
			}
		}
	}
}

func TestSale_CheckoutScenario(t *testing.T) {
	s := NewSale(uuid.New(), nil, nil)
	_, err := s.AddItem(uuid.New(), dec("2"), dec("10.00"), decimal.Zero, nil)
	require.NoError(t, err)
	assert.Equal(t, "20.00", s.Subtotal.StringFixed(2))
	assert.Equal(t, "20.00", s.Total.StringFixed(2))

	require.NoError(t, s.Pay(PaymentCash, dec("20.00"), nil, nil))
	assert.Equal(t, SaleStatusCompleted, s.Status)
	assert.Equal(t, "0.00", s.Change.StringFixed(2))
	require.Len(t, s.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeSalePaid, s.GetDomainEvents()[0].EventType())

	_, err = s.AddItem(uuid.New(), dec("1"), dec("1"), decimal.Zero, nil)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}

func TestSale_Pay(t *testing.T) {
	t.Run("change", func(t *testing.T) {
		s := NewSale(uuid.New(), nil, nil)
		_, err := s.AddItem(uuid.New(), dec("3"), dec("4.99"), decimal.Zero, nil)
		require.NoError(t, err)
		require.NoError(t, s.Pay(PaymentPix, dec("20.004"), nil, nil))
		assert.Equal(t, "5.03", s.Change.StringFixed(2))
	})

	t.Run("underpaid yields zero change", func(t *testing.T) {
		s := NewSale(uuid.New(), nil, nil)
		_, err := s.AddItem(uuid.New(), dec("1"), dec("9.00"), decimal.Zero, nil)
		require.NoError(t, err)
		require.NoError(t, s.Pay(PaymentMixed, dec("5"), nil, nil))
		assert.True(t, s.Change.IsZero())
	})

	t.Run("empty sale", func(t *testing.T) {
		s := NewSale(uuid.New(), nil, nil)
		assert.True(t, errors.Is(s.Pay(PaymentCash, dec("1"), nil, nil), shared.ErrInvalidState))
	})

	t.Run("invalid method", func(t *testing.T) {
		s := NewSale(uuid.New(), nil, nil)
		_, err := s.AddItem(uuid.New(), dec("1"), dec("1"), decimal.Zero, nil)
		require.NoError(t, err)
		err = s.Pay(PaymentMethod("cheque"), dec("1"), nil, nil)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_PAYMENT_METHOD", de.Code)
		assert.Equal(t, SaleStatusOpen, s.Status)
	})
}

func TestSale_Cancel(t *testing.T) {
	t.Run("open sale with items returns stock", func(t *testing.T) {
		s := NewSale(uuid.New(), nil, nil)
		_, err := s.AddItem(uuid.New(), dec("1"), dec("5"), decimal.Zero, nil)
		require.NoError(t, err)
		returnStock, err := s.Cancel("", nil)
		require.NoError(t, err)
		assert.True(t, returnStock)
		assert.Equal(t, DefaultCancelReason, *s.CancelReason)
	})

	t.Run("empty sale", func(t *testing.T) {
		s := NewSale(uuid.New(), nil, nil)
		returnStock, err := s.Cancel("cliente desistiu", nil)
		require.NoError(t, err)
		assert.False(t, returnStock)
	})

	t.Run("free sale", func(t *testing.T) {
		s := NewSale(uuid.New(), nil, nil)
		_, err := s.AddItem(uuid.New(), dec("1"), decimal.Zero, decimal.Zero, nil)
		require.NoError(t, err)
		returnStock, err := s.Cancel("", nil)
		require.NoError(t, err)
		assert.False(t, returnStock)
	})

	t.Run("long reason truncated", func(t *testing.T) {
		s := NewSale(uuid.New(), nil, nil)
		_, err := s.Cancel(strings.Repeat("x", 300), nil)
		require.NoError(t, err)
		assert.Len(t, *s.CancelReason, 200)
	})

	t.Run("terminal", func(t *testing.T) {
		s := NewSale(uuid.New(), nil, nil)
		_, err := s.Cancel("", nil)
		require.NoError(t, err)
		_, err = s.Cancel("", nil)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})
}

func TestSale_RemoveUnknownItem(t *testing.T) {
	s := NewSale(uuid.New(), nil, nil)
	_, err := s.RemoveItem(uuid.New())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestCashRegister(t *testing.T) {
	r, err := NewCashRegister(uuid.New(), "Caixa 1")
	require.NoError(t, err)
	assert.False(t, r.Open)

	assert.Error(t, r.Close(dec("10")))
	require.NoError(t, r.OpenWith(dec("100")))
	assert.Error(t, r.OpenWith(dec("100")))
	require.NoError(t, r.Close(dec("350.25")))
	assert.Equal(t, "350.25", r.ClosingBalance.StringFixed(2))

	_, err = NewCashRegister(uuid.New(), " ")
	assert.Error(t, err)
}
