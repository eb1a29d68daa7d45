package finance

// Status is shared by payables and receivables
type Status string

const (
	StatusOpen      Status = "aberto"
	StatusPaid      Status = "pago"
	StatusCancelled Status = "cancelado"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if the document can no longer change
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// SourceType is the kind of document that generated a payable or receivable
type SourceType string

const (
	SourcePurchase SourceType = "purchase"
	SourceSale     SourceType = "sale"
)
