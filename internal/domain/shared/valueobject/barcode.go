package valueobject

import (
	"strings"

	"github.com/mercearia/backend/internal/domain/shared"
)

// validEANLengths covers EAN-8, UPC-A, EAN-13 and DUN-14
var validEANLengths = map[int]struct{}{8: {}, 12: {}, 13: {}, 14: {}}

// NormalizeBarcode strips every non-digit from s.
// It returns nil when nothing is left.
func NormalizeBarcode(s string) *string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return nil
	}
	out := b.String()
	return &out
}

// ValidateEAN checks the length of an already normalized barcode.
// Check digits are not verified.
func ValidateEAN(ean *string) error {
	if ean == nil {
		return nil
	}
	if _, ok := validEANLengths[len(*ean)]; !ok {
		return shared.NewFieldError("INVALID_EAN", "ean", "EAN must have 8, 12, 13 or 14 digits")
	}
	return nil
}

// ParseEAN normalizes and validates raw barcode input
func ParseEAN(raw string) (*string, error) {
	ean := NormalizeBarcode(raw)
	if err := ValidateEAN(ean); err != nil {
		return nil, err
	}
	return ean, nil
}
