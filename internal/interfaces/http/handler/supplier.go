package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/mercearia/backend/internal/application/partner"
	"github.com/mercearia/backend/internal/interfaces/http/dto"
)

// SupplierHandler handles supplier endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService *partnerapp.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *partnerapp.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// Create creates a supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	var req partnerapp.CreateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.Actor = storeID, actor

	supplier, err := h.supplierService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// Deactivate stops new purchase orders to a supplier
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	supplierID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.supplierService.Deactivate(c.Request.Context(), storeID, supplierID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// GetByID returns one supplier
func (h *SupplierHandler) GetByID(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	supplierID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.supplierService.GetByID(c.Request.Context(), storeID, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// List returns a page of suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	var q dto.ListRequest
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.supplierService.List(c.Request.Context(), storeID, q.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}
