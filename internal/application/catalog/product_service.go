package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civicconnect/backend/internal/domain/catalog"
	"github.com/civicconnect/backend/internal/domain/shared"
)

const (
	uploadURLTTL   = 15 * time.Minute
	downloadURLTTL = time.Hour
)

// ProductService handles marketplace listing operations
type ProductService struct {
	products catalog.ProductRepository
	storage  ObjectStorageService
	logger   *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(products catalog.ProductRepository, storage ObjectStorageService, logger *zap.Logger) *ProductService {
	return &ProductService{
		products: products,
		storage:  storage,
		logger:   logger,
	}
}

// Create publishes a new listing for the seller
func (s *ProductService) Create(ctx context.Context, sellerID uuid.UUID, req CreateProductRequest) (*ProductDTO, error) {
	product, err := catalog.NewProduct(
		sellerID,
		req.Title,
		req.Description,
		catalog.ProductCategory(strings.ToLower(req.Category)),
		catalog.ProductCondition(strings.ToLower(req.Condition)),
		req.Price,
		req.Pincode,
		req.ImageKeys,
	)
	if err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product listed",
		zap.String("product_id", product.GetID().String()),
		zap.String("category", string(product.Category)))

	return s.toDTO(ctx, product), nil
}

// Get retrieves a single listing
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, product), nil
}

// Search returns visible listings matching the request
func (s *ProductService) Search(ctx context.Context, req SearchProductsRequest) (*ProductListResult, error) {
	filter := catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			Search:   req.Search,
			OrderBy:  "created_at",
			OrderDir: "desc",
		},
		Category: catalog.ProductCategory(strings.ToLower(req.Category)),
		Pincode:  req.Pincode,
	}
	result, err := s.products.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.toListResult(ctx, result), nil
}

// ListBySeller returns a seller's own listings, sold ones included
func (s *ProductService) ListBySeller(ctx context.Context, sellerID uuid.UUID, page, pageSize int) (*ProductListResult, error) {
	filter := catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     page,
			PageSize: pageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
		},
		SellerID: sellerID,
		ShowSold: true,
	}
	result, err := s.products.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.toListResult(ctx, result), nil
}

// Update applies listing changes; only the seller may edit
func (s *ProductService) Update(ctx context.Context, actorID, id uuid.UUID, req UpdateProductRequest) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != actorID {
		return nil, shared.ErrForbidden
	}

	if err := product.UpdateListing(req.Title, req.Description, req.Price); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return s.toDTO(ctx, product), nil
}

// MarkSold marks a listing as sold; only the seller may do this
func (s *ProductService) MarkSold(ctx context.Context, actorID, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != actorID {
		return nil, shared.ErrForbidden
	}

	if err := product.MarkSold(); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return s.toDTO(ctx, product), nil
}

// Delete removes a listing and its stored images; only the seller may delete
func (s *ProductService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}
	if product.SellerID != actorID {
		return shared.ErrForbidden
	}

	for _, key := range product.ImageKeys {
		if err := s.storage.DeleteObject(ctx, key); err != nil {
			s.logger.Warn("failed to delete listing image", zap.String("key", key), zap.Error(err))
		}
	}
	return s.products.Delete(ctx, id)
}

// Flag records a community report; listings past the threshold disappear from search
func (s *ProductService) Flag(ctx context.Context, id uuid.UUID) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}
	product.Flag()
	if product.IsHidden() {
		s.logger.Warn("product hidden after repeated flags",
			zap.String("product_id", product.GetID().String()),
			zap.Int("flag_count", product.FlagCount))
	}
	return s.products.Save(ctx, product)
}

// GenerateImageUpload issues a presigned upload slot for a listing photo
func (s *ProductService) GenerateImageUpload(ctx context.Context, sellerID uuid.UUID, req UploadImageRequest) (*UploadImageResult, error) {
	if !strings.HasPrefix(req.ContentType, "image/") {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Only image uploads are allowed")
	}

	key := fmt.Sprintf("products/%s/%s", sellerID, uuid.NewString())
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, uploadURLTTL)
	if err != nil {
		return nil, err
	}
	return &UploadImageResult{
		StorageKey: key,
		UploadURL:  url,
		ExpiresAt:  expiresAt,
	}, nil
}

func (s *ProductService) findProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) toDTO(ctx context.Context, product *catalog.Product) *ProductDTO {
	urls := make([]string, 0, len(product.ImageKeys))
	for _, key := range product.ImageKeys {
		url, _, err := s.storage.GenerateDownloadURL(ctx, key, downloadURLTTL)
		if err != nil {
			s.logger.Warn("failed to sign image URL", zap.String("key", key), zap.Error(err))
			continue
		}
		urls = append(urls, url)
	}

	return &ProductDTO{
		ID:          product.GetID(),
		SellerID:    product.SellerID,
		Title:       product.Title,
		Description: product.Description,
		Category:    string(product.Category),
		Condition:   string(product.Condition),
		Price:       product.Price,
		Pincode:     product.Pincode,
		ImageURLs:   urls,
		IsSold:      product.IsSold,
		CreatedAt:   product.GetCreatedAt(),
	}
}

func (s *ProductService) toListResult(ctx context.Context, result *shared.Paginated[*catalog.Product]) *ProductListResult {
	products := make([]ProductDTO, 0, len(result.Items))
	for _, p := range result.Items {
		products = append(products, *s.toDTO(ctx, p))
	}
	return &ProductListResult{
		Products:   products,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}
