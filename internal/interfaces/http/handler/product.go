package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/mercearia/backend/internal/application/catalog"
	"github.com/mercearia/backend/internal/interfaces/http/dto"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	photos         *catalogapp.PhotoService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// WithPhotos enables the photo endpoints
func (h *ProductHandler) WithPhotos(photos *catalogapp.PhotoService) *ProductHandler {
	h.photos = photos
	return h
}

// Create creates a product and its zero stock item.
// POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	var req catalogapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.Actor = storeID, actor

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update changes the editable fields of a product. Prices are changed
// through the pricing endpoints.
// PATCH /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	productID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.ProductID, req.Actor = storeID, productID, actor

	product, err := h.productService.Update(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete soft deletes a product.
// DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	productID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), storeID, productID, actor); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetByID returns one product.
// GET /products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	productID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// GetByBarcode looks a product up by a scanned EAN. The code is normalized
// the same way it is on write.
// GET /products/barcode/:ean
func (h *ProductHandler) GetByBarcode(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	product, err := h.productService.GetByBarcode(c.Request.Context(), storeID, c.Param("ean"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List returns a page of products, searchable by name, SKU or EAN.
// GET /products
func (h *ProductHandler) List(c *gin.Context) {
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	var q dto.ListRequest
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.productService.List(c.Request.Context(), storeID, q.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// UploadPhoto returns a presigned URL the client PUTs the image to.
// POST /products/:id/photo
func (h *ProductHandler) UploadPhoto(c *gin.Context) {
	if !h.photosEnabled(c) {
		return
	}
	storeID, actor, ok := h.Identity(c)
	if !ok {
		return
	}
	productID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.PhotoUploadRequest
	if !h.BindJSON(c, &req) {
		return
	}
	req.StoreID, req.ProductID, req.Actor = storeID, productID, actor

	resp, err := h.photos.RequestUpload(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Photo returns a presigned download URL for the product photo.
// GET /products/:id/photo
func (h *ProductHandler) Photo(c *gin.Context) {
	if !h.photosEnabled(c) {
		return
	}
	storeID, ok := h.StoreID(c)
	if !ok {
		return
	}
	productID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.photos.DownloadURL(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *ProductHandler) photosEnabled(c *gin.Context) bool {
	if h.photos == nil {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "Photo storage is not configured")
		return false
	}
	return true
}
