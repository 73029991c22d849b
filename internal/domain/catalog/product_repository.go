package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/civicconnect/backend/internal/domain/shared"
)

// ProductFilter narrows marketplace searches beyond the shared pagination filter
type ProductFilter struct {
	shared.Filter
	Category  ProductCategory
	Pincode   string
	SellerID  uuid.UUID
	ShowSold  bool
	MaxPrice  string
	MinPrice  string
}

// ProductRepository defines the marketplace listing data access interface
type ProductRepository interface {
	// Save persists a product (create or update)
	Save(ctx context.Context, product *Product) error

	// FindByID retrieves a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Search retrieves listings matching the filter. Hidden (over-flagged)
	// listings are excluded unless the filter targets a specific seller.
	Search(ctx context.Context, filter ProductFilter) (*shared.Paginated[*Product], error)

	// Delete removes a product by ID
	Delete(ctx context.Context, id uuid.UUID) error
}
