package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/application/unitofwork"
	"github.com/mercearia/backend/internal/domain/audit"
	"github.com/mercearia/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PhotoStorage presigns object URLs so clients move image bytes directly
// to and from the bucket
type PhotoStorage interface {
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// photoExtensions maps the accepted content types to the key extension
var photoExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// PhotoUploadRequest asks for an upload slot for a product photo
type PhotoUploadRequest struct {
	StoreID     uuid.UUID    `json:"-"`
	ProductID   uuid.UUID    `json:"-"`
	ContentType string       `json:"content_type" binding:"required"`
	Actor       shared.Actor `json:"-"`
}

// PhotoURLResponse is a presigned URL and the object it points at
type PhotoURLResponse struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PhotoService issues presigned URLs for product photos
type PhotoService struct {
	scope     unitofwork.TransactionScope
	storage   PhotoStorage
	expiresIn time.Duration
	logger    *zap.Logger
}

// NewPhotoService creates a new PhotoService. A zero expiresIn lets the
// storage pick its default.
func NewPhotoService(scope unitofwork.TransactionScope, storage PhotoStorage, expiresIn time.Duration, logger *zap.Logger) *PhotoService {
	return &PhotoService{scope: scope, storage: storage, expiresIn: expiresIn, logger: logger}
}

// RequestUpload points the product at a fresh object key and returns a
// presigned PUT URL for it. The previous object is left in the bucket.
func (s *PhotoService) RequestUpload(ctx context.Context, req PhotoUploadRequest) (*PhotoURLResponse, error) {
	ext, ok := photoExtensions[req.ContentType]
	if !ok {
		return nil, shared.NewFieldError("INVALID_CONTENT_TYPE", "content_type", "Photo must be image/jpeg, image/png or image/webp")
	}
	key := fmt.Sprintf("stores/%s/products/%s/%s.%s", req.StoreID, req.ProductID, uuid.NewString(), ext)

	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForStore(ctx, req.StoreID, req.ProductID)
		if err != nil {
			return err
		}
		previous := product.PhotoURL
		product.PhotoURL = key
		product.MarkUpdatedBy(req.Actor.Ref())
		if err := repos.Products().UpdateColumns(ctx, product, "photo_url"); err != nil {
			return err
		}
		return unitofwork.Audit(ctx, repos, req.StoreID, "Product", unitofwork.IDRef(product.ID), audit.ActionUpdated,
			audit.Payload{"photo_url": map[string]string{"before": previous, "after": key}}, req.Actor)
	})
	if err != nil {
		return nil, err
	}

	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, s.expiresIn)
	if err != nil {
		return nil, fmt.Errorf("presign photo upload: %w", err)
	}
	s.logger.Info("product photo upload issued",
		zap.String("store_id", req.StoreID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.String("key", key),
	)
	return &PhotoURLResponse{URL: url, Key: key, ExpiresAt: expiresAt}, nil
}

// DownloadURL presigns a GET for the product's photo
func (s *PhotoService) DownloadURL(ctx context.Context, storeID, productID uuid.UUID) (*PhotoURLResponse, error) {
	var key string
	err := s.scope.Execute(ctx, func(repos unitofwork.TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForStore(ctx, storeID, productID)
		if err != nil {
			return err
		}
		key = product.PhotoURL
		return nil
	})
	if err != nil {
		return nil, err
	}
	if key == "" {
		return nil, shared.ErrNotFound.WithMessage("Product has no photo")
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.expiresIn)
	if err != nil {
		return nil, fmt.Errorf("presign photo download: %w", err)
	}
	return &PhotoURLResponse{URL: url, Key: key, ExpiresAt: expiresAt}, nil
}
