package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/mercearia/backend/internal/infrastructure/persistence"
	"github.com/mercearia/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations_ArePaired(t *testing.T) {
	ups, err := fs.Glob(migrations.FS, "*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(migrations.FS, down)
		assert.NoError(t, err, "missing rollback for %s", up)
	}
}

// Every table the application maps must be created by the versioned schema
func TestEmbeddedMigrations_CoverModels(t *testing.T) {
	ups, err := fs.Glob(migrations.FS, "*.up.sql")
	require.NoError(t, err)

	var schema strings.Builder
	for _, up := range ups {
		b, err := fs.ReadFile(migrations.FS, up)
		require.NoError(t, err)
		schema.Write(b)
	}

	for _, model := range persistence.Models() {
		tabler, ok := model.(interface{ TableName() string })
		require.True(t, ok, "%T has no table name", model)
		assert.Contains(t, schema.String(), "CREATE TABLE "+tabler.TableName()+" (")
	}
}

func TestEmbeddedMigrations_LedgerGuards(t *testing.T) {
	b, err := fs.ReadFile(migrations.FS, "000001_init.up.sql")
	require.NoError(t, err)
	sql := string(b)

	assert.Contains(t, sql, "ck_stock_items_quantity CHECK (quantity >= 0)")
	assert.Contains(t, sql, "uq_payables_origin UNIQUE (origin, ref_id)")
	assert.Contains(t, sql, "uq_stock_items_store_product UNIQUE (store_id, product_id)")
}
