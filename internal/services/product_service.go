// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hadarhome/storefront/internal/models"
	"github.com/hadarhome/storefront/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

type CreateProductRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=100"`
	Description   string  `json:"description" validate:"required,min=10,max=1000"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	ImageURL      string  `json:"image_url" validate:"omitempty,url"`
	ImagePublicID string  `json:"image_public_id" validate:"omitempty,max=255"`
	Category      string  `json:"category" validate:"required"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	Featured      bool    `json:"featured"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Description   *string  `json:"description" validate:"omitempty,min=10,max=1000"`
	Price         *float64 `json:"price" validate:"omitempty,gt=0"`
	ImageURL      *string  `json:"image_url" validate:"omitempty,url"`
	ImagePublicID *string  `json:"image_public_id" validate:"omitempty,max=255"`
	Category      *string  `json:"category"`
	StockQuantity *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
	Featured      *bool    `json:"featured"`
}

type ProductFilters struct {
	Category string
	Search   string
	Featured *bool
	InStock  *bool
	MinPrice *float64
	MaxPrice *float64
}

type CategoryCount struct {
	Category models.ProductCategory `json:"category"`
	Count    int64                  `json:"count"`
	InStock  int64                  `json:"inStock"`
}

var productSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"price":          true,
	"stock_quantity": true,
}

func (s *ProductService) List(filters ProductFilters, params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Featured != nil {
		query = query.Where("featured = ?", *filters.Featured)
	}
	if filters.InStock != nil {
		query = query.Where("in_stock = ?", *filters.InStock)
	}
	if filters.MinPrice != nil {
		query = query.Where("price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("price <= ?", *filters.MaxPrice)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	query = utils.ApplySort(query, params, productSortFields)
	query = utils.ApplyPagination(query, params)
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) GetByID(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (s *ProductService) GetFeatured(limit int) ([]models.Product, error) {
	if limit < 1 || limit > 50 {
		limit = 8
	}

	var products []models.Product
	err := s.db.Where("featured = ? AND in_stock = ?", true, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}

	return products, nil
}

// Categories returns the distinct categories that currently have products,
// with a product count per category.
func (s *ProductService) Categories() ([]CategoryCount, error) {
	var counts []CategoryCount
	err := s.db.Model(&models.Product{}).
		Select("category, COUNT(*) as count, SUM(CASE WHEN in_stock THEN 1 ELSE 0 END) as in_stock").
		Group("category").
		Order("category").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return counts, nil
}

func (s *ProductService) Create(req CreateProductRequest) (*models.Product, error) {
	category := models.ProductCategory(req.Category)
	if !models.ValidCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, req.Category)
	}

	product := models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		ImagePublicID: req.ImagePublicID,
		Category:      category,
		StockQuantity: req.StockQuantity,
		InStock:       req.StockQuantity > 0,
		Featured:      req.Featured,
	}

	if err := s.db.Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &product, nil
}

func (s *ProductService) Update(id uuid.UUID, req UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.ImagePublicID != nil {
		updates["image_public_id"] = *req.ImagePublicID
	}
	if req.Category != nil {
		category := models.ProductCategory(*req.Category)
		if !models.ValidCategory(category) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, *req.Category)
		}
		updates["category"] = category
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
		updates["in_stock"] = *req.StockQuantity > 0
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}

	if len(updates) == 0 {
		return product, nil
	}

	if err := s.db.Model(product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return s.GetByID(id)
}

func (s *ProductService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// AdjustStock applies a manual inventory correction. Subtracting more
// than the current quantity floors at zero rather than failing, since
// the admin is reconciling against reality, not reserving units.
func (s *ProductService) AdjustStock(id uuid.UUID, operation string, quantity int) (*models.Product, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var result *gorm.DB
	switch operation {
	case "add":
		result = s.db.Model(&models.Product{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"stock_quantity": gorm.Expr("stock_quantity + ?", quantity),
				"in_stock":       true,
			})
	case "subtract":
		result = s.db.Model(&models.Product{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"stock_quantity": gorm.Expr("CASE WHEN stock_quantity > ? THEN stock_quantity - ? ELSE 0 END", quantity, quantity),
				"in_stock":       gorm.Expr("stock_quantity > ?", quantity),
			})
	default:
		return nil, fmt.Errorf("unknown stock operation %q", operation)
	}

	if result.Error != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrProductNotFound
	}

	return s.GetByID(id)
}
