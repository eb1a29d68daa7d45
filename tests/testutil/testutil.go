// Package testutil provides common test utilities for the mercearia backend:
// databases (sqlmock and in-memory sqlite), a seeded store fixture, HTTP
// helpers and event recorders.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appidentity "github.com/mercearia/backend/internal/application/identity"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Credentials of the administrator created by NewEnv
const (
	AdminEmail    = "admin@mercearia.test"
	AdminPassword = "segredo123"
)

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB opens gorm over sqlmock with the postgres dialect. The
// connection is closed when the test ends.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err, "Failed to open GORM connection")

	return &MockDB{DB: gormDB, Mock: mock, SqlDB: mockDB}
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// NewSQLiteDB opens a private in-memory sqlite database with the full schema
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, persistence.AutoMigrate(db))
	return db
}

// Env is a sqlite database holding one store and its administrator
type Env struct {
	DB      *gorm.DB
	Scope   *persistence.GormTransactionScope
	Logger  *zap.Logger
	StoreID uuid.UUID
	AdminID uuid.UUID
}

// NewEnv creates a database and seeds a store with an administrator
func NewEnv(t *testing.T) *Env {
	t.Helper()

	db := NewSQLiteDB(t)
	env := &Env{
		DB:     db,
		Scope:  persistence.NewGormTransactionScope(db),
		Logger: zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel)),
	}
	created, err := appidentity.NewStoreService(env.Scope, env.Logger).CreateStoreWithAdmin(context.Background(),
		appidentity.CreateStoreRequest{
			StoreName:     "Mercearia " + uuid.NewString()[:8],
			AdminEmail:    AdminEmail,
			AdminPassword: AdminPassword,
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

// NewTestUUID generates a deterministic UUID from a seed
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// ContextWithTimeout creates a context with a timeout for tests.
func ContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// RequireEventually retries condition until it holds or timeout elapses
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}
	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
