//go:build integration

// Package integration runs the services against a real PostgreSQL started
// with testcontainers, schema applied by the versioned migrations.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	appidentity "github.com/mercearia/backend/internal/application/identity"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/infrastructure/migration"
	"github.com/mercearia/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	sharedOnce      sync.Once
	sharedContainer *tcpostgres.PostgresContainer
	sharedDSN       string
	sharedErr       error
)

// TestDB is a connection to the shared container, migrated to the latest version
type TestDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	DSN   string
}

func startContainer() {
	ctx := context.Background()
	sharedContainer, sharedErr = tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("mercearia_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if sharedErr != nil {
		return
	}
	sharedDSN, sharedErr = sharedContainer.ConnectionString(ctx, "sslmode=disable")
	if sharedErr != nil {
		return
	}

	db, err := sql.Open("postgres", sharedDSN)
	if err != nil {
		sharedErr = err
		return
	}
	defer db.Close()
	m, err := migration.New(db, zap.NewNop())
	if err != nil {
		sharedErr = err
		return
	}
	sharedErr = m.Up()
}

// NewTestDB connects to the shared container, starting and migrating it on first use
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	sharedOnce.Do(startContainer)
	require.NoError(t, sharedErr, "failed to start postgres container")

	cfg := &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(gormpostgres.Open(sharedDSN), cfg)
	require.NoError(t, err, "failed to connect to database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return &TestDB{DB: db, SqlDB: sqlDB, DSN: sharedDSN}
}

// Env is a freshly seeded store on the shared database. Stores never see
// each other's rows, so tests share the schema without truncating.
type Env struct {
	DB      *TestDB
	Scope   *persistence.GormTransactionScope
	Logger  *zap.Logger
	StoreID uuid.UUID
	AdminID uuid.UUID
}

// NewEnv seeds a store with an administrator
func NewEnv(t *testing.T) *Env {
	t.Helper()
	tdb := NewTestDB(t)
	env := &Env{
		DB:     tdb,
		Scope:  persistence.NewGormTransactionScope(tdb.DB, persistence.WithLockTimeout(5*time.Second)),
		Logger: zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)),
	}
	suffix := uuid.NewString()[:8]
	created, err := appidentity.NewStoreService(env.Scope, env.Logger).CreateStoreWithAdmin(context.Background(),
		appidentity.CreateStoreRequest{
			StoreName:     "Mercearia " + suffix,
			AdminEmail:    fmt.Sprintf("admin-%s@mercearia.test", suffix),
			AdminPassword: "segredo123",
		})
	require.NoError(t, err)
	env.StoreID = created.Store.ID
	env.AdminID = created.Admin.ID
	return env
}

// Admin returns the administrator as an actor
func (e *Env) Admin() shared.Actor {
	return shared.Actor{UserID: e.AdminID, IP: "127.0.0.1"}
}

// TerminateContainer stops the shared container; TestMain calls it after m.Run
func TerminateContainer() {
	if sharedContainer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = sharedContainer.Terminate(ctx)
}
