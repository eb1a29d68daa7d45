package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/mercearia/backend/internal/application/trade"
)

// SaleHandler drives the checkout: open, add and remove lines, pay, cancel
type SaleHandler struct {
	BaseHandler
	saleService *tradeapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *tradeapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Open starts a sale, optionally on a cash register.
// POST /sales
func (h *SaleHandler) Open(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	var req tradeapp.OpenSaleRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.Actor = storeID, actor

	sale, err := h.saleService.OpenSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// AddItem adds a product line priced at the current sale price and promo.
// POST /sales/:id/items
func (h *SaleHandler) AddItem(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	saleID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.AddSaleItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.SaleID, req.Actor = storeID, saleID, actor

	sale, err := h.saleService.AddSaleItem(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// RemoveItem removes a line from an open sale.
// DELETE /sales/:id/items/:item_id
func (h *SaleHandler) RemoveItem(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	saleID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.PathUUID(c, "item_id")
	if !ok {
		return
	}
	sale, err := h.saleService.RemoveSaleItem(c.Request.Context(), tradeapp.RemoveSaleItemRequest{
		StoreID: storeID,
		SaleID:  saleID,
		ItemID:  itemID,
		Actor:   actor,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Pay concludes a sale and takes its items out of stock.
// POST /sales/:id/pay
func (h *SaleHandler) Pay(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	saleID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.PaySaleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.SaleID, req.Actor = storeID, saleID, actor

	sale, err := h.saleService.PaySale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Cancel cancels a sale. A concluded sale has its items returned to stock.
// POST /sales/:id/cancel
func (h *SaleHandler) Cancel(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	saleID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.CancelSaleRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.SaleID, req.Actor = storeID, saleID, actor

	sale, err := h.saleService.CancelSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// GetByID returns a sale with its lines.
// GET /sales/:id
func (h *SaleHandler) GetByID(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	saleID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	sale, err := h.saleService.GetSale(c.Request.Context(), storeID, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}
