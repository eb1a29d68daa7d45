package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/mercearia/backend/internal/application/catalog"
	"github.com/shopspring/decimal"
)

// PricingHandler exposes price simulation, publication, quotes and promos
type PricingHandler struct {
	BaseHandler
	pricingService *catalogapp.PricingService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(pricingService *catalogapp.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// Simulate suggests a sale price from the product cost. Without ?markup=
// the category default markup applies.
// GET /products/:id/price/simulate
func (h *PricingHandler) Simulate(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	productID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	markup, ok := h.QueryDecimal(c, "markup")
	if !ok {
		return
	}
	resp, err := h.pricingService.SimulatePrice(c.Request.Context(), storeID, productID, markup)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Publish appends a price version and makes it the sale price.
// POST /products/:id/prices
func (h *PricingHandler) Publish(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	productID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.PublishPriceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.ProductID, req.Actor = storeID, productID, actor

	version, err := h.pricingService.PublishPrice(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, version)
}

// History lists the price versions of a product, newest first.
// GET /products/:id/prices
func (h *PricingHandler) History(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	productID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	history, err := h.pricingService.PriceHistory(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}

// Quote returns what a sale line of ?quantity= units would cost now,
// promos included. Quantity defaults to one unit.
// GET /products/:id/quote
func (h *PricingHandler) Quote(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	productID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	qty, ok := h.QueryDecimal(c, "quantity")
	if !ok {
		return
	}
	if qty == nil {
		one := decimal.NewFromInt(1)
		qty = &one
	}
	quote, err := h.pricingService.Quote(c.Request.Context(), storeID, productID, *qty)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// CreatePromo creates a promo rule.
// POST /promos
func (h *PricingHandler) CreatePromo(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	var req catalogapp.CreatePromoRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.Actor = storeID, actor

	promo, err := h.pricingService.CreatePromo(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, promo)
}

// DeactivatePromo stops a promo from applying to new sale lines.
// POST /promos/:id/deactivate
func (h *PricingHandler) DeactivatePromo(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	promoID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	promo, err := h.pricingService.DeactivatePromo(c.Request.Context(), storeID, promoID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promo)
}

// ListPromos lists promos, only the active ones with ?active=true.
// GET /promos
func (h *PricingHandler) ListPromos(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	promos, err := h.pricingService.ListPromos(c.Request.Context(), storeID, c.Query("active") == "true")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promos)
}
