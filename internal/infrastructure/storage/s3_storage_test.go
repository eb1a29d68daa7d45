package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mercearia/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig() config.StorageConfig {
	return config.StorageConfig{
		Bucket:            "mercearia-photos",
		AccessKey:         "test-key",
		SecretKey:         "test-secret",
		Endpoint:          "localhost:9000",
		UsePathStyle:      true,
		PresignExpiration: 10 * time.Minute,
	}
}

func TestNewS3PhotoStorage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.StorageConfig)
		wantErr string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKey = "" }, "keys are required"},
		{"missing secret key", func(c *config.StorageConfig) { c.SecretKey = "" }, "keys are required"},
		{"bad endpoint", func(c *config.StorageConfig) { c.Endpoint = "http://" }, "invalid storage endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := NewS3PhotoStorage(cfg, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("defaults", func(t *testing.T) {
		cfg := testConfig()
		cfg.PresignExpiration = 0
		s, err := NewS3PhotoStorage(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, "mercearia-photos", s.Bucket())
		assert.Equal(t, 15*time.Minute, s.presignExpiration)
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		in     string
		useSSL bool
		want   string
	}{
		{"", false, "http://localhost:9000"},
		{"minio:9000", false, "http://minio:9000"},
		{"s3.example.com", true, "https://s3.example.com"},
		{"http://already:9000", true, "http://already:9000"},
	}
	for _, tt := range tests {
		got, err := normalizeEndpoint(tt.in, tt.useSSL)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestS3PhotoStorage_GenerateUploadURL(t *testing.T) {
	s, err := NewS3PhotoStorage(testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)
	ctx := context.Background()

	_, _, err = s.GenerateUploadURL(ctx, "", "image/png", time.Minute)
	assert.ErrorIs(t, err, ErrEmptyKey)

	key := "stores/s1/products/p1/abc.png"
	raw, expiresAt, err := s.GenerateUploadURL(ctx, key, "image/png", 5*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/mercearia-photos/"+key, u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
	assert.Contains(t, u.Query().Get("X-Amz-SignedHeaders"), "content-type")
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, 5*time.Second)

	raw, _, err = s.GenerateUploadURL(ctx, key, "image/png", 0)
	require.NoError(t, err)
	u, err = url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"), "falls back to the configured expiration")
}

func TestS3PhotoStorage_GenerateDownloadURL(t *testing.T) {
	s, err := NewS3PhotoStorage(testConfig(), nil)
	require.NoError(t, err)

	_, _, err = s.GenerateDownloadURL(context.Background(), "", time.Minute)
	assert.ErrorIs(t, err, ErrEmptyKey)

	raw, _, err := s.GenerateDownloadURL(context.Background(), "stores/s1/products/p1/abc.jpg", time.Hour)
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(u.Path, "/abc.jpg"))
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
}

// bucketServer answers HeadBucket with 404 until a CreateBucket arrives
type bucketServer struct {
	mu      sync.Mutex
	created bool
	creates int
}

func (b *bucketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch r.Method {
	case http.MethodHead:
		if !b.created {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		b.created = true
		b.creates++
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3PhotoStorage_EnsureBucket(t *testing.T) {
	backend := &bucketServer{}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	cfg := testConfig()
	cfg.Endpoint = srv.URL
	s, err := NewS3PhotoStorage(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, s.EnsureBucket(context.Background()))
	require.NoError(t, s.EnsureBucket(context.Background()), "existing bucket is left alone")
	assert.Equal(t, 1, backend.creates)
}
