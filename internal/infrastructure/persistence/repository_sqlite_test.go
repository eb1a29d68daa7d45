package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/catalog"
	"github.com/mercearia/backend/internal/domain/inventory"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func mustProduct(t *testing.T, db *gorm.DB, storeID uuid.UUID, in catalog.NewProductInput) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(storeID, in, nil)
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Create(context.Background(), product))
	return product
}

func TestStockItemRepository_LockOrCreate_SQLite(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormStockItemRepository(db)
	ctx := context.Background()
	storeID, productID := uuid.New(), uuid.New()

	first, err := repo.LockOrCreate(ctx, storeID, productID)
	require.NoError(t, err)
	assert.True(t, first.Quantity.IsZero())

	first.Quantity = decimal.RequireFromString("3.5")
	require.NoError(t, repo.UpdateQuantity(ctx, first))

	second, err := repo.LockOrCreate(ctx, storeID, productID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Quantity.Equal(decimal.RequireFromString("3.5")))

	var rows int64
	require.NoError(t, db.Model(&inventory.StockItem{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestStockMoveRepository_SumQuantity_SQLite(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormStockMoveRepository(db)
	ctx := context.Background()
	storeID, productID, purchaseID := uuid.New(), uuid.New(), uuid.New()

	for _, qty := range []string{"1.2500", "2.5000"} {
		move, err := inventory.NewStockMove(storeID, productID, inventory.MoveTypePurchaseIn,
			decimal.RequireFromString(qty), decimal.NewFromInt(4), inventory.PurchaseOrigin(purchaseID), "", nil)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, move))
	}
	other, err := inventory.NewStockMove(storeID, productID, inventory.MoveTypePurchaseIn,
		decimal.NewFromInt(9), decimal.Zero, inventory.PurchaseOrigin(uuid.New()), "", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, other))

	sum, err := repo.SumQuantity(ctx, storeID, inventory.MoveTypePurchaseIn, inventory.PurchaseOrigin(purchaseID))
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.RequireFromString("3.75")), "got %s", sum)

	moves, err := repo.FindByOrigin(ctx, storeID, inventory.PurchaseOrigin(purchaseID))
	require.NoError(t, err)
	assert.Len(t, moves, 2)

	page, total, err := repo.FindByProduct(ctx, storeID, productID, shared.Filter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)
}

func TestPromoRepository_FindApplicable_SQLite(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormPromoRepository(db)
	ctx := context.Background()
	storeID := uuid.New()
	now := time.Now().UTC()
	rule := catalog.PromoRule{Type: catalog.PromoKindPercentOff, Value: decimal.NewFromInt(10)}

	save := func(name string, priority int, from time.Time, until *time.Time) *catalog.Promo {
		promo, err := catalog.NewPromo(storeID, name, rule, from, until, priority, nil)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, promo))
		return promo
	}

	expired := now.Add(-time.Hour)
	save("fallback", 50, now.Add(-48*time.Hour), nil)
	save("expired", 1, now.Add(-48*time.Hour), &expired)
	save("future", 1, now.Add(time.Hour), nil)
	winner := save("winner", 5, now.Add(-time.Hour), nil)
	disabled := save("disabled", 0, now.Add(-time.Hour), nil)
	disabled.Deactivate()
	require.NoError(t, repo.Save(ctx, disabled))

	got, err := repo.FindApplicable(ctx, storeID, now)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, winner.ID, got.ID)

	stored, err := repo.FindByIDForStore(ctx, storeID, disabled.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Priority)

	none, err := repo.FindApplicable(ctx, uuid.New(), now)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestProductUniqueness_SQLite(t *testing.T) {
	db := newSQLiteDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	storeID := uuid.New()
	in := catalog.NewProductInput{Name: "Arroz 5kg", EAN: "7891000100103", SalePrice: decimal.NewFromInt(25)}

	create := func(store uuid.UUID) error {
		return scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
			product, err := catalog.NewProduct(store, in, nil)
			if err != nil {
				return err
			}
			return repos.Products().Create(ctx, product)
		})
	}

	require.NoError(t, create(storeID))
	err := create(storeID)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	assert.NoError(t, create(uuid.New()), "another store may reuse the barcode")
}

func TestSaleRepository_ItemsAndStoreScope_SQLite(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()
	storeID := uuid.New()

	sale := trade.NewSale(storeID, nil, nil)
	require.NoError(t, repo.Create(ctx, sale))
	item, err := sale.AddItem(uuid.New(), decimal.NewFromInt(2), decimal.RequireFromString("3.10"), decimal.Zero, nil)
	require.NoError(t, err)
	require.NoError(t, repo.CreateItem(ctx, item))
	require.NoError(t, repo.Update(ctx, sale))

	loaded, err := repo.FindByIDForUpdate(ctx, storeID, sale.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.True(t, loaded.Total.Equal(decimal.RequireFromString("6.20")))

	found, err := repo.FindItemForStore(ctx, storeID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, found.SaleID)

	_, err = repo.FindItemForStore(ctx, uuid.New(), item.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = repo.FindByIDForStore(ctx, uuid.New(), sale.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, repo.DeleteItem(ctx, found))
	assert.ErrorIs(t, repo.DeleteItem(ctx, found), shared.ErrNotFound)
}

func TestPurchaseRepository_CreateAndUpdate_SQLite(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormPurchaseRepository(db)
	ctx := context.Background()
	storeID := uuid.New()

	purchase, err := trade.NewPurchase(storeID, uuid.New(), []trade.PurchaseLine{
		{ProductID: uuid.New(), Quantity: decimal.NewFromInt(10), Cost: decimal.NewFromInt(2)},
		{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1), Cost: decimal.RequireFromString("7.50")},
	}, "", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, purchase))
	require.NoError(t, purchase.Submit(nil))
	require.NoError(t, repo.Update(ctx, purchase))

	loaded, err := repo.FindByIDForStore(ctx, storeID, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.PurchaseStatusIssued, loaded.Status)
	assert.Len(t, loaded.Items, 2)
	assert.True(t, loaded.ExpectedTotal.Equal(decimal.RequireFromString("27.50")))

	issued, total, err := repo.FindAllForStore(ctx, storeID, trade.PurchaseStatusIssued, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, issued[0].Items, 2)

	_, total, err = repo.FindAllForStore(ctx, storeID, trade.PurchaseStatusDraft, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestReportRepository_SQLite(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	storeID := uuid.New()
	reports := NewGormReportRepository(db)

	coffee := mustProduct(t, db, storeID, catalog.NewProductInput{Name: "Café", SalePrice: decimal.NewFromInt(12), ReorderPoint: decimal.NewFromInt(5)})
	mustProduct(t, db, storeID, catalog.NewProductInput{Name: "Sal", SalePrice: decimal.NewFromInt(3)})

	sales := NewGormSaleRepository(db)
	paid := trade.NewSale(storeID, nil, nil)
	item, err := paid.AddItem(coffee.ID, decimal.NewFromInt(2), coffee.SalePrice, decimal.Zero, nil)
	require.NoError(t, err)
	require.NoError(t, sales.Create(ctx, paid))
	require.NoError(t, paid.Pay(trade.PaymentCash, decimal.NewFromInt(30), nil, nil))
	require.NoError(t, sales.Update(ctx, paid))
	assert.Equal(t, coffee.ID, item.ProductID)

	open := trade.NewSale(storeID, nil, nil)
	require.NoError(t, sales.Create(ctx, open))

	now := time.Now().UTC()
	totals, err := reports.ConcludedSaleTotals(ctx, storeID, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.True(t, totals[0].Total.Equal(decimal.NewFromInt(24)))

	lines, err := reports.ConcludedSaleLines(ctx, storeID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Café", lines[0].Name)

	reorder, err := reports.ReorderCandidates(ctx, storeID)
	require.NoError(t, err)
	require.Len(t, reorder, 1)
	assert.Equal(t, coffee.ID, reorder[0].ProductID)
	assert.True(t, reorder[0].Quantity.IsZero())
}
