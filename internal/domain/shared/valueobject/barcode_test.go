package valueobject

import (
	"testing"

	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBarcode(t *testing.T) {
	t.Run("strips separators", func(t *testing.T) {
		got := NormalizeBarcode("789-12345-6785")
		require.NotNil(t, got)
		assert.Equal(t, "789123456785", *got)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, NormalizeBarcode(""))
		assert.Nil(t, NormalizeBarcode(" - / "))
	})
}

func TestValidateEAN(t *testing.T) {
	for _, raw := range []string{"12345670", "789123456785", "7891234567895", "17891234567892"} {
		t.Run(raw, func(t *testing.T) {
			assert.NoError(t, ValidateEAN(&raw))
		})
	}

	t.Run("nil is accepted", func(t *testing.T) {
		assert.NoError(t, ValidateEAN(nil))
	})

	t.Run("eleven digits rejected", func(t *testing.T) {
		_, err := ParseEAN("7891234567-8")
		require.Error(t, err)
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "ean", de.Field)
		assert.Equal(t, "INVALID_EAN", de.Code)
	})
}
