package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	IdempotencyKeyHeader      = "Idempotency-Key"
	IdempotencyReplayedHeader = "Idempotent-Replayed"

	maxIdempotencyKeyLength = 255
)

// captureWriter keeps a copy of the response body
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency makes POST requests carrying an Idempotency-Key safe to retry.
// The first request with a key runs; later ones get its recorded response
// replayed, or 409 while it is still running. Keys are scoped to the store
// and route, so it must run after JWTAuthMiddleware. When the store fails
// the request runs without protection.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		storeID, _ := GetStoreID(c)
		scoped := "http:" + storeID.String() + ":" + c.FullPath() + ":" + key
		ctx := c.Request.Context()

		claimed, prior, err := store.Claim(ctx, scoped, ttl)
		if err != nil {
			log.Warn("idempotency store unavailable", zap.Error(err), zap.String("request_id", GetRequestID(c)))
			c.Next()
			return
		}
		if !claimed {
			if prior == nil {
				c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeRequestInFlight, "A request with this Idempotency-Key is still running", GetRequestID(c)))
				return
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(prior.Status, "application/json; charset=utf-8", prior.Body)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		status := w.Status()
		if !replayable(status) {
			if err := store.Release(ctx, scoped); err != nil {
				log.Warn("failed to release idempotency key", zap.Error(err))
			}
			return
		}
		if err := store.Complete(ctx, scoped, shared.IdempotentResult{Status: status, Body: w.body.Bytes()}, ttl); err != nil {
			log.Warn("failed to record idempotent response", zap.Error(err))
		}
	}
}

// replayable reports whether a response is final for its key. Conflicts,
// throttling and server errors may succeed on retry.
func replayable(status int) bool {
	switch {
	case status >= http.StatusInternalServerError:
		return false
	case status == http.StatusConflict, status == http.StatusTooManyRequests:
		return false
	}
	return true
}
