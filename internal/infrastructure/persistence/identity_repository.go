package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/identity"
	"github.com/mercearia/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a non-deleted store by its ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Store, error) {
	var store identity.Store
	if err := r.db.WithContext(ctx).
		Where("id = ? AND deleted = ?", id, false).
		First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &store, nil
}

// FindByName finds a store by its unique name
func (r *GormStoreRepository) FindByName(ctx context.Context, name string) (*identity.Store, error) {
	var store identity.Store
	if err := r.db.WithContext(ctx).
		Where("name = ?", strings.TrimSpace(name)).
		First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &store, nil
}

// FindAllActive lists the active, non-deleted stores by name
func (r *GormStoreRepository) FindAllActive(ctx context.Context) ([]identity.Store, error) {
	var stores []identity.Store
	if err := r.db.WithContext(ctx).
		Where("active = ? AND deleted = ?", true, false).
		Order("name ASC").
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Save creates or updates a store
func (r *GormStoreRepository) Save(ctx context.Context, store *identity.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByIDForStore finds a user of the store, deleted or not
func (r *GormUserRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email across stores; emails are globally unique
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var user identity.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindAllForStore lists the store's non-deleted users by name
func (r *GormUserRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, search string) ([]identity.User, error) {
	var users []identity.User
	query := r.db.WithContext(ctx).
		Where("store_id = ? AND deleted = ?", storeID, false)
	if search = strings.TrimSpace(search); search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if err := query.Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ExistsAdmin reports whether the store already has a non-deleted admin
func (r *GormUserRepository) ExistsAdmin(ctx context.Context, storeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.User{}).
		Where("store_id = ? AND role = ? AND deleted = ?", storeID, identity.RoleAdmin, false).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// likePattern lowercases a search term for a portable case-insensitive LIKE
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

// Ensure the repositories implement their interfaces
var (
	_ identity.StoreRepository = (*GormStoreRepository)(nil)
	_ identity.UserRepository  = (*GormUserRepository)(nil)
)
