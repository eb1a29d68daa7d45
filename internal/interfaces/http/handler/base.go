// Package handler holds the gin handlers of the mercearia API. Handlers bind
// and validate requests, take the store and actor from the token and hand
// over to the application services.
package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/domain/shared"
	"github.com/mercearia/backend/internal/infrastructure/logger"
	"github.com/mercearia/backend/internal/interfaces/http/dto"
	"github.com/mercearia/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated sends a page of results with its meta
func Paginated[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// HandleError converts an error returned by a service into a response.
// Domain errors keep their code and field. Anything else is logged and
// reported as an internal error without details.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	domainErr, ok := shared.AsDomainError(err)
	if !ok {
		logger.GetGinLogger(c).Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeInternal, "An unexpected error occurred", requestID))
		return
	}

	code := dto.NormalizeErrorCode(domainErr.Code)
	status := dto.GetHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		logger.GetGinLogger(c).Error("request failed",
			zap.String("code", domainErr.Code),
			zap.String("detail", domainErr.Detail),
			zap.Error(errors.Unwrap(domainErr)),
		)
	}
	resp := dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID)
	resp.Error.Field = domainErr.Field
	_ = c.Error(err)
	c.JSON(status, resp)
}

// BindJSON binds and validates the body into req. On failure it writes the
// response and returns false.
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

// BindQuery binds and validates query parameters into req
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.bindError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) bindError(c *gin.Context, err error) {
	if details, ok := middleware.ValidationDetails(err); ok {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(details, middleware.GetRequestID(c)))
		return
	}
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Request body exceeds maximum allowed size")
		return
	}
	if errors.Is(err, io.EOF) {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body is empty")
		return
	}
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Malformed request: "+err.Error())
}

// Identity returns the store and actor of the authenticated request
func (h *BaseHandler) Identity(c *gin.Context) (uuid.UUID, shared.Actor, bool) {
	storeID, ok := middleware.GetStoreID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, shared.Actor{}, false
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, shared.Actor{}, false
	}
	return storeID, shared.Actor{UserID: userID, IP: c.ClientIP()}, true
}

// StoreID returns the store of the authenticated request
func (h *BaseHandler) StoreID(c *gin.Context) (uuid.UUID, bool) {
	storeID, _, ok := h.Identity(c)
	return storeID, ok
}

// PathUUID parses a uuid path parameter
func (h *BaseHandler) PathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			[]dto.ValidationDetail{{Field: name, Message: "Invalid UUID format"}}, middleware.GetRequestID(c)))
		return uuid.Nil, false
	}
	return id, true
}

// QueryDecimal parses an optional decimal query parameter. A missing
// parameter yields nil.
func (h *BaseHandler) QueryDecimal(c *gin.Context, name string) (*decimal.Decimal, bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			[]dto.ValidationDetail{{Field: name, Message: "Must be a decimal number"}}, middleware.GetRequestID(c)))
		return nil, false
	}
	return &d, true
}

// dateRange is a period of whole UTC days given as YYYY-MM-DD query
// parameters, both days included
type dateRange struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
}

// bounds returns the period as [from, to) instants
func (r dateRange) bounds() (time.Time, time.Time) {
	from, _ := time.Parse(time.DateOnly, r.From)
	to, _ := time.Parse(time.DateOnly, r.To)
	return from, to.AddDate(0, 0, 1)
}

// bindRange binds ?from=&to= and rejects a period that ends before it starts
func (h *BaseHandler) bindRange(c *gin.Context) (time.Time, time.Time, bool) {
	var r dateRange
	if !h.BindQuery(c, &r) {
		return time.Time{}, time.Time{}, false
	}
	from, to := r.bounds()
	if !from.Before(to) {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			[]dto.ValidationDetail{{Field: "to", Message: "Must not be before from"}}, middleware.GetRequestID(c)))
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
