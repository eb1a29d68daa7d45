package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/infrastructure/auth"
	"github.com/mercearia/backend/internal/interfaces/http/dto"
	"github.com/mercearia/backend/internal/interfaces/http/middleware"
	"github.com/mercearia/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// serveWith mounts fn on a fresh engine and runs one request through it
func serveWith(fn gin.HandlerFunc, req *http.Request, mw ...gin.HandlerFunc) *httptest.ResponseRecorder {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(mw...)
	engine.Handle(req.Method, "/t/:id", fn)
	return testutil.Serve(engine, req)
}

// authenticated puts claims for storeID and userID in the context
func authenticated(storeID, userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, &auth.Claims{StoreID: storeID.String(), UserID: userID.String(), Role: "admin"})
		c.Next()
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("load sale: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"insufficient stock", shared.ErrInsufficientStock.WithMessage("Insufficient stock: available 1, requested 3"), http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"concurrency conflict", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden},
		{"field error", shared.NewFieldError("INVALID_QUANTITY", "quantity", "Quantity must be positive"), http.StatusBadRequest, "INVALID_QUANTITY"},
		{"duplicate", shared.NewFieldError("DUPLICATE_EAN", "ean", "Barcode already in use"), http.StatusBadRequest, "DUPLICATE_EAN"},
		{"business rule", shared.NewDomainError("PRODUCT_NOT_SELLABLE", "Product has no sale price"), http.StatusUnprocessableEntity, "PRODUCT_NOT_SELLABLE"},
		{"internal", shared.ErrInternal, http.StatusInternalServerError, dto.ErrCodeInternal},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := serveWith(func(c *gin.Context) { h.HandleError(c, tt.err) },
				httptest.NewRequest(http.MethodGet, "/t/1", nil))
			testutil.AssertErrorResponse(t, w, tt.status, tt.code)
		})
	}
}

func TestHandleError_KeepsFieldAndHidesInternals(t *testing.T) {
	h := &BaseHandler{}

	w := serveWith(func(c *gin.Context) {
		h.HandleError(c, shared.NewFieldError("INVALID_EAN", "ean", "Barcode checksum mismatch"))
	}, httptest.NewRequest(http.MethodGet, "/t/1", nil))
	env := testutil.Decode[any](t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ean", env.Error.Field)
	assert.Equal(t, "Barcode checksum mismatch", env.Error.Message)
	assert.NotEmpty(t, env.Error.RequestID)

	w = serveWith(func(c *gin.Context) {
		h.HandleError(c, errors.New("pq: password authentication failed"))
	}, httptest.NewRequest(http.MethodGet, "/t/1", nil))
	assert.NotContains(t, w.Body.String(), "password")
}

type bindTarget struct {
	Name     string          `json:"name" binding:"required,max=10"`
	Quantity decimal.Decimal `json:"quantity"`
}

func TestBindJSON(t *testing.T) {
	h := &BaseHandler{}
	var got bindTarget
	fn := func(c *gin.Context) {
		if h.BindJSON(c, &got) {
			h.Success(c, got)
		}
	}

	t.Run("valid body", func(t *testing.T) {
		w := serveWith(fn, testutil.Request(t, http.MethodPost, "/t/1", map[string]string{"name": "arroz", "quantity": "1.5"}))
		data := testutil.RequireData[bindTarget](t, w, http.StatusOK)
		assert.Equal(t, "arroz", data.Name)
		assert.True(t, data.Quantity.Equal(decimal.RequireFromString("1.5")))
	})

	t.Run("validation error names the json field", func(t *testing.T) {
		w := serveWith(fn, testutil.Request(t, http.MethodPost, "/t/1", map[string]string{"name": "feijao carioca tipo 1"}))
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		env := testutil.Decode[any](t, w)
		require.NotEmpty(t, env.Error.Details)
		assert.Equal(t, "name", env.Error.Details[0].Field)
	})

	t.Run("empty body", func(t *testing.T) {
		w := serveWith(fn, httptest.NewRequest(http.MethodPost, "/t/1", nil))
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeInvalidJSON)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := serveWith(fn, httptest.NewRequest(http.MethodPost, "/t/1", bytes.NewBufferString(`{"name":`)))
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeInvalidJSON)
	})

	t.Run("body over limit", func(t *testing.T) {
		body := bytes.NewBufferString(`{"name":"` + string(bytes.Repeat([]byte("a"), 200)) + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/t/1", body)
		req.ContentLength = -1
		w := serveWith(fn, req, middleware.BodyLimit(64))
		testutil.AssertErrorResponse(t, w, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge)
	})
}

func TestIdentity(t *testing.T) {
	h := &BaseHandler{}
	storeID, userID := uuid.New(), uuid.New()
	fn := func(c *gin.Context) {
		s, actor, ok := h.Identity(c)
		if !ok {
			return
		}
		h.Success(c, gin.H{"store": s, "user": actor.UserID})
	}

	w := serveWith(fn, httptest.NewRequest(http.MethodGet, "/t/1", nil))
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)

	w = serveWith(fn, httptest.NewRequest(http.MethodGet, "/t/1", nil), authenticated(storeID, userID))
	data := testutil.RequireData[map[string]uuid.UUID](t, w, http.StatusOK)
	assert.Equal(t, storeID, data["store"])
	assert.Equal(t, userID, data["user"])
}

func TestPathUUID(t *testing.T) {
	h := &BaseHandler{}
	fn := func(c *gin.Context) {
		if id, ok := h.PathUUID(c, "id"); ok {
			h.Success(c, id)
		}
	}
	id := uuid.New()

	got := testutil.RequireData[uuid.UUID](t, serveWith(fn, httptest.NewRequest(http.MethodGet, "/t/"+id.String(), nil)), http.StatusOK)
	assert.Equal(t, id, got)

	w := serveWith(fn, httptest.NewRequest(http.MethodGet, "/t/abc", nil))
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
}

func TestQueryDecimal(t *testing.T) {
	h := &BaseHandler{}
	fn := func(c *gin.Context) {
		d, ok := h.QueryDecimal(c, "markup")
		if !ok {
			return
		}
		if d == nil {
			h.Success(c, "absent")
			return
		}
		h.Success(c, d.String())
	}

	assert.Equal(t, "absent", testutil.RequireData[string](t, serveWith(fn, httptest.NewRequest(http.MethodGet, "/t/1", nil)), http.StatusOK))
	assert.Equal(t, "0.35", testutil.RequireData[string](t, serveWith(fn, httptest.NewRequest(http.MethodGet, "/t/1?markup=0.35", nil)), http.StatusOK))

	w := serveWith(fn, httptest.NewRequest(http.MethodGet, "/t/1?markup=trinta", nil))
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
}

func TestBindRange(t *testing.T) {
	h := &BaseHandler{}
	var from, to time.Time
	fn := func(c *gin.Context) {
		var ok bool
		if from, to, ok = h.bindRange(c); ok {
			h.NoContent(c)
		}
	}

	w := serveWith(fn, httptest.NewRequest(http.MethodGet, "/t/1?from=2026-03-01&to=2026-03-31", nil))
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), to, "the last day is included")

	w = serveWith(fn, httptest.NewRequest(http.MethodGet, "/t/1?from=2026-03-05&to=2026-03-05", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 24*time.Hour, to.Sub(from))

	for _, query := range []string{"", "?from=2026-03-01", "?from=01/03/2026&to=2026-03-31", "?from=2026-03-31&to=2026-03-01"} {
		t.Run("rejects "+query, func(t *testing.T) {
			w := serveWith(fn, httptest.NewRequest(http.MethodGet, "/t/1"+query, nil))
			testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		})
	}
}

func TestPaginated(t *testing.T) {
	fn := func(c *gin.Context) {
		Paginated(c, shared.NewPaginated([]string{"a", "b"}, 5, 2, 2))
	}
	w := serveWith(fn, httptest.NewRequest(http.MethodGet, "/t/1", nil))

	env := testutil.Decode[[]string](t, w)
	assert.True(t, env.Success)
	assert.Equal(t, []string{"a", "b"}, env.Data)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(5), env.Meta.Total)
	assert.Equal(t, 3, env.Meta.TotalPages)
}
