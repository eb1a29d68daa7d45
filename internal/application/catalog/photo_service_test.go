package catalog_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/mercearia/backend/internal/application/catalog"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePhotoStorage struct {
	uploads   []string
	downloads []string
	expires   time.Duration
	err       error
}

func (f *fakePhotoStorage) GenerateUploadURL(_ context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	f.uploads = append(f.uploads, key)
	f.expires = expiresIn
	return "https://bucket.test/" + key + "?put&ct=" + contentType, time.Now().Add(expiresIn), nil
}

func (f *fakePhotoStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	f.downloads = append(f.downloads, key)
	return "https://bucket.test/" + key + "?get", time.Now().Add(expiresIn), nil
}

func TestPhotoService_UploadThenDownload(t *testing.T) {
	f := newCatalogFixture(t)
	storage := &fakePhotoStorage{}
	photos := catalogapp.NewPhotoService(f.env.Scope, storage, 5*time.Minute, f.env.Logger)
	p := f.create(t, catalogapp.CreateProductRequest{Name: "Queijo Minas 500g"})

	_, err := photos.DownloadURL(f.ctx, f.env.StoreID, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "no photo yet")

	up, err := photos.RequestUpload(f.ctx, catalogapp.PhotoUploadRequest{
		StoreID:     f.env.StoreID,
		ProductID:   p.ID,
		ContentType: "image/jpeg",
		Actor:       f.env.Admin(),
	})
	require.NoError(t, err)
	prefix := "stores/" + f.env.StoreID.String() + "/products/" + p.ID.String() + "/"
	assert.True(t, strings.HasPrefix(up.Key, prefix), up.Key)
	assert.True(t, strings.HasSuffix(up.Key, ".jpg"), up.Key)
	assert.Equal(t, 5*time.Minute, storage.expires)
	assert.Contains(t, up.URL, up.Key)

	stored, err := f.products.GetByID(f.ctx, f.env.StoreID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, up.Key, stored.PhotoURL)

	down, err := photos.DownloadURL(f.ctx, f.env.StoreID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, up.Key, down.Key)
	assert.Equal(t, []string{up.Key}, storage.downloads)

	again, err := photos.RequestUpload(f.ctx, catalogapp.PhotoUploadRequest{
		StoreID: f.env.StoreID, ProductID: p.ID, ContentType: "image/webp", Actor: f.env.Admin(),
	})
	require.NoError(t, err)
	assert.NotEqual(t, up.Key, again.Key, "each upload gets a fresh key")
}

func TestPhotoService_RequestUpload_Rejects(t *testing.T) {
	f := newCatalogFixture(t)
	storage := &fakePhotoStorage{}
	photos := catalogapp.NewPhotoService(f.env.Scope, storage, 0, f.env.Logger)
	p := f.create(t, catalogapp.CreateProductRequest{Name: "Manteiga 200g"})

	_, err := photos.RequestUpload(f.ctx, catalogapp.PhotoUploadRequest{
		StoreID: f.env.StoreID, ProductID: p.ID, ContentType: "image/gif", Actor: f.env.Admin(),
	})
	requireField(t, err, "INVALID_CONTENT_TYPE", "content_type")

	_, err = photos.RequestUpload(f.ctx, catalogapp.PhotoUploadRequest{
		StoreID: uuid.New(), ProductID: p.ID, ContentType: "image/png", Actor: f.env.Admin(),
	})
	assert.ErrorIs(t, err, shared.ErrNotFound, "other stores cannot see the product")
	assert.Empty(t, storage.uploads)

	storage.err = errors.New("bucket offline")
	_, err = photos.RequestUpload(f.ctx, catalogapp.PhotoUploadRequest{
		StoreID: f.env.StoreID, ProductID: p.ID, ContentType: "image/png", Actor: f.env.Admin(),
	})
	assert.ErrorIs(t, err, storage.err)
}
