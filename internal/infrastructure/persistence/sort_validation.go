package persistence

import (
	"strings"

	"github.com/mercearia/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// applyPage orders and paginates a list query. A missing or unknown sort
// field falls back to defaultOrder; id breaks ties so pages are stable.
func applyPage(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool, defaultOrder string) *gorm.DB {
	if field := ValidateSortField(filter.OrderBy, allowedFields, ""); field != "" {
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order(defaultOrder)
	}
	return query.Order("id ASC").Offset(filter.Offset()).Limit(filter.Limit())
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"sku":           true,
	"ean":           true,
	"category_id":   true,
	"cost_price":    true,
	"sale_price":    true,
	"min_stock":     true,
	"reorder_point": true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"name":              true,
	"cnpj":              true,
	"payment_term_days": true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"cpf":        true,
	"points":     true,
}

// StockMoveSortFields contains allowed sort fields for the move ledger
var StockMoveSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"type":       true,
	"quantity":   true,
}

// PurchaseSortFields contains allowed sort fields for purchase orders
var PurchaseSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"status":         true,
	"expected_total": true,
	"received_total": true,
	"issued_at":      true,
	"received_at":    true,
}

// AuditLogSortFields contains allowed sort fields for audit entries
var AuditLogSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"action":     true,
}
