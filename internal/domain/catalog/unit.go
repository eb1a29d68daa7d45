package catalog

// Unit is the unit of measure a product is sold in
type Unit string

const (
	UnitPiece Unit = "UN"
	UnitKilo  Unit = "KG"
	UnitLiter Unit = "L"
)

// IsValid checks if the unit is one of UN, KG or L
func (u Unit) IsValid() bool {
	switch u {
	case UnitPiece, UnitKilo, UnitLiter:
		return true
	}
	return false
}

// String returns the string representation of Unit
func (u Unit) String() string {
	return string(u)
}
