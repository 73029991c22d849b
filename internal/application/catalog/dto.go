package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a new marketplace listing
type CreateProductRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category" binding:"required"`
	Condition   string          `json:"condition" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Pincode     string          `json:"pincode" binding:"required,pincode"`
	ImageKeys   []string        `json:"image_keys"`
}

// UpdateProductRequest carries listing changes
type UpdateProductRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

// SearchProductsRequest narrows a marketplace search
type SearchProductsRequest struct {
	Category string `form:"category"`
	Pincode  string `form:"pincode"`
	Search   string `form:"search"`
	Page     int    `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
}

// UploadImageRequest asks for a presigned upload slot
type UploadImageRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// UploadImageResult carries the presigned upload URL and the storage key the
// client must echo back when attaching the image to the listing
type UploadImageResult struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ProductDTO represents a marketplace listing with resolved image URLs
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Condition   string          `json:"condition"`
	Price       decimal.Decimal `json:"price"`
	Pincode     string          `json:"pincode"`
	ImageURLs   []string        `json:"image_urls"`
	IsSold      bool            `json:"is_sold"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductListResult represents a paginated product list
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}
