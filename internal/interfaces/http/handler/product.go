package handler

import (
	catalogapp "github.com/civicconnect/backend/internal/application/catalog"
	"github.com/civicconnect/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler handles marketplace listings
type ProductHandler struct {
	BaseHandler
	products *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Create publishes a new listing owned by the authenticated user
func (h *ProductHandler) Create(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.products.Create(c.Request.Context(), sellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Get returns a single listing
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := h.parseID(c)
	if err != nil {
		return
	}

	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Search returns listings filtered by category, pincode and free text
func (h *ProductHandler) Search(c *gin.Context) {
	var req catalogapp.SearchProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.products.Search(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Products, result.Total, result.Page, result.PageSize)
}

// ListMine returns the authenticated user's own listings
func (h *ProductHandler) ListMine(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var page dto.ListRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	page.Normalize()

	result, err := h.products.ListBySeller(c.Request.Context(), sellerID, page.Page, page.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Products, result.Total, result.Page, result.PageSize)
}

// Update edits the title, description or price of an owned listing
func (h *ProductHandler) Update(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := h.parseID(c)
	if err != nil {
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.products.Update(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// MarkSold marks an owned listing as sold
func (h *ProductHandler) MarkSold(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := h.parseID(c)
	if err != nil {
		return
	}

	product, err := h.products.MarkSold(c.Request.Context(), actorID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete removes an owned listing
func (h *ProductHandler) Delete(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := h.parseID(c)
	if err != nil {
		return
	}

	if err := h.products.Delete(c.Request.Context(), actorID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Flag reports a listing for moderation
func (h *ProductHandler) Flag(c *gin.Context) {
	id, err := h.parseID(c)
	if err != nil {
		return
	}

	if err := h.products.Flag(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GenerateImageUpload returns a presigned upload slot for a listing image
func (h *ProductHandler) GenerateImageUpload(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req catalogapp.UploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.products.GenerateImageUpload(c.Request.Context(), sellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

func (h *ProductHandler) parseID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product id")
		return uuid.Nil, err
	}
	return id, nil
}
