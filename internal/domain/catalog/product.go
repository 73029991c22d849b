package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/civicconnect/backend/internal/domain/shared"
)

// ProductCategory classifies a marketplace listing
type ProductCategory string

const (
	CategoryLivestock   ProductCategory = "livestock"
	CategoryProduce     ProductCategory = "produce"
	CategoryEquipment   ProductCategory = "equipment"
	CategorySeeds       ProductCategory = "seeds"
	CategoryHandicrafts ProductCategory = "handicrafts"
	CategoryOther       ProductCategory = "other"
)

// ProductCondition describes the wear state of a listed item
type ProductCondition string

const (
	ConditionNew  ProductCondition = "new"
	ConditionUsed ProductCondition = "used"
)

// moderation threshold; listings at or above it are hidden from search
const flagHideThreshold = 3

// Product is the aggregate root for a marketplace listing
type Product struct {
	shared.BaseAggregateRoot
	SellerID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	Title       string           `gorm:"type:varchar(200);not null"`
	Description string           `gorm:"type:text"`
	Category    ProductCategory  `gorm:"type:varchar(50);not null;index"`
	Condition   ProductCondition `gorm:"type:varchar(20);not null"`
	Price       decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Pincode     string           `gorm:"type:varchar(10);not null;index"`
	ImageKeys   ImageKeyList     `gorm:"type:jsonb;serializer:json"`
	IsSold      bool             `gorm:"not null;default:false"`
	FlagCount   int              `gorm:"not null;default:0"`
}

// ImageKeyList holds object storage keys for listing photos
type ImageKeyList []string

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new marketplace listing
func NewProduct(sellerID uuid.UUID, title, description string, category ProductCategory, condition ProductCondition, price decimal.Decimal, pincode string, imageKeys []string) (*Product, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID is required")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}
	if !condition.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONDITION", "Product condition must be new or used")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if strings.TrimSpace(pincode) == "" {
		return nil, shared.NewDomainError("INVALID_PINCODE", "Pincode cannot be empty")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerID:          sellerID,
		Title:             title,
		Description:       strings.TrimSpace(description),
		Category:          category,
		Condition:         condition,
		Price:             price,
		Pincode:           strings.TrimSpace(pincode),
		ImageKeys:         append(ImageKeyList{}, imageKeys...),
	}, nil
}

// IsValid reports whether the category is one of the known values
func (c ProductCategory) IsValid() bool {
	switch c {
	case CategoryLivestock, CategoryProduce, CategoryEquipment, CategorySeeds, CategoryHandicrafts, CategoryOther:
		return true
	}
	return false
}

// IsValid reports whether the condition is one of the known values
func (c ProductCondition) IsValid() bool {
	return c == ConditionNew || c == ConditionUsed
}

// UpdateListing updates the mutable listing fields
func (p *Product) UpdateListing(title, description string, price decimal.Decimal) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.Title = title
	p.Description = strings.TrimSpace(description)
	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// MarkSold marks the listing as sold. Selling is terminal.
func (p *Product) MarkSold() error {
	if p.IsSold {
		return shared.NewDomainError("ALREADY_SOLD", "Product is already marked as sold")
	}
	p.IsSold = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Flag records a community report against the listing
func (p *Product) Flag() {
	p.FlagCount++
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsHidden reports whether the listing has been flagged enough to hide it
func (p *Product) IsHidden() bool {
	return p.FlagCount >= flagHideThreshold
}
