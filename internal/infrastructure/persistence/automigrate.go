package persistence

import (
	"fmt"

	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/catalog"
	"github.com/mercearia/backend/internal/domain/finance"
	"github.com/mercearia/backend/internal/domain/identity"
	"github.com/mercearia/backend/internal/domain/inventory"
	"github.com/mercearia/backend/internal/domain/partner"
	"github.com/mercearia/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order
func Models() []any {
	return []any{
		&identity.Store{},
		&identity.User{},
		&catalog.Category{},
		&catalog.Product{},
		&catalog.PriceVersion{},
		&catalog.Promo{},
		&partner.Supplier{},
		&partner.Customer{},
		&inventory.StockItem{},
		&inventory.StockMove{},
		&inventory.InventorySession{},
		&inventory.InventoryCount{},
		&trade.CashRegister{},
		&trade.Purchase{},
		&trade.PurchaseItem{},
		&trade.Sale{},
		&trade.SaleItem{},
		&finance.Payable{},
		&finance.Receivable{},
		&audit.AuditLog{},
	}
}

// compositeUniqueIndexes are the per-store uniqueness rules that gorm tags
// cannot express next to the single-column indexes
var compositeUniqueIndexes = []struct {
	name    string
	table   string
	columns string
}{
	{"uq_products_store_ean", "products", "store_id, ean"},
	{"uq_products_store_sku", "products", "store_id, sku"},
	{"uq_categories_store_name", "categories", "store_id, name"},
	{"uq_suppliers_store_name", "suppliers", "store_id, name"},
	{"uq_customers_store_cpf", "customers", "store_id, cpf"},
}

// AutoMigrate creates the schema from the models. It serves sqlite databases
// (tests, local development); postgres deployments run the SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, idx := range compositeUniqueIndexes {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}
