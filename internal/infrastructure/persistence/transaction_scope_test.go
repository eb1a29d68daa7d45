package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope_Execute(t *testing.T) {
	t.Run("sets the lock timeout and commits", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		scope := NewGormTransactionScope(db, WithLockTimeout(2*time.Second))

		mock.ExpectBegin()
		mock.ExpectExec(`SET LOCAL lock_timeout = '2000ms'`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		called := false
		err := scope.Execute(context.Background(), func(repos unitofwork.TransactionalRepositories) error {
			called = true
			assert.NotNil(t, repos.Sales())
			return nil
		})

		require.NoError(t, err)
		assert.True(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and keeps domain errors", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		scope := NewGormTransactionScope(db)

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := scope.Execute(context.Background(), func(unitofwork.TransactionalRepositories) error {
			return shared.ErrInsufficientStock
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("translates a unique violation raised inside the transaction", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		scope := NewGormTransactionScope(db)

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := scope.Execute(context.Background(), func(unitofwork.TransactionalRepositories) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_products_store_ean"}
		})

		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "ALREADY_EXISTS", de.Code)
		assert.Equal(t, "uq_products_store_ean", de.Detail)
	})

	t.Run("cancelled context never opens a transaction", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		scope := NewGormTransactionScope(db)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := scope.Execute(ctx, func(unitofwork.TransactionalRepositories) error {
			t.Fatal("fn must not run")
			return nil
		})

		assert.ErrorIs(t, err, shared.ErrInternal)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSaleRepository_FindByIDForUpdate(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormSaleRepository(db)

	storeID, saleID := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "sales" WHERE store_id = \$1 AND id = \$2 AND deleted = \$3 ORDER BY .* LIMIT .* FOR UPDATE`).
		WithArgs(storeID, saleID, false, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "store_id", "status"}).AddRow(saleID, storeID, "aberta"))
	mock.ExpectQuery(`SELECT \* FROM "sale_items" WHERE "sale_items"."sale_id" = \$1 ORDER BY created_at ASC, id ASC`).
		WithArgs(saleID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sale_id"}))

	sale, err := repo.FindByIDForUpdate(context.Background(), storeID, saleID)

	require.NoError(t, err)
	assert.Equal(t, saleID, sale.ID)
	assert.Empty(t, sale.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStockItemRepository_LockOrCreate(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormStockItemRepository(db)

	storeID, productID, itemID := uuid.New(), uuid.New(), uuid.New()
	mock.ExpectExec(`INSERT INTO "stock_items" .* ON CONFLICT \("store_id","product_id"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "stock_items" WHERE store_id = \$1 AND product_id = \$2 ORDER BY .* LIMIT .* FOR UPDATE`).
		WithArgs(storeID, productID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "store_id", "product_id", "quantity"}).
			AddRow(itemID, storeID, productID, "12.5000"))

	item, err := repo.LockOrCreate(context.Background(), storeID, productID)

	require.NoError(t, err)
	assert.Equal(t, itemID, item.ID)
	assert.Equal(t, "12.5", item.Quantity.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
