package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/nutrilog/backend/internal/models"
	"github.com/pageza/nutrilog/backend/internal/types"
)

const defaultBaseAmount = 100

// ProductService handles the product catalog
type ProductService struct {
	db *gorm.DB
}

// NewProductService creates a new ProductService instance
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// CreateProduct adds a product to the user's catalog
func (s *ProductService) CreateProduct(ctx context.Context, userID uuid.UUID, req *types.ProductRequest) (*models.Product, error) {
	product := &models.Product{UserID: userID}
	if err := applyProductRequest(product, req); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	slog.Info("product created", "product_id", product.ID, "user_id", userID)
	return product, nil
}

// GetProduct returns a product owned by the user or shared
func (s *ProductService) GetProduct(ctx context.Context, userID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		Where("(user_id = ? OR is_shared = ?)", userID, true).
		First(&product).Error
	if err != nil {
		return nil, notFound(err, ErrProductNotFound, "get product")
	}
	return &product, nil
}

// UpdateProduct replaces the fields of a product owned by the user. Cached
// totals that depend on it are refreshed the next time they are read.
func (s *ProductService) UpdateProduct(ctx context.Context, userID, id uuid.UUID, req *types.ProductRequest) (*models.Product, error) {
	product, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := applyProductRequest(product, req); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct deletes a product owned by the user unless a recipe or a
// logged meal still uses it.
func (s *ProductService) DeleteProduct(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	used, err := isReferenced(ctx, s.db, "product_id", "product_id", id)
	if err != nil {
		return err
	}
	if used {
		return fmt.Errorf("%w: product is used by recipes or meals", ErrConflict)
	}
	if err := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// ListProducts lists the user's products and shared products by name
func (s *ProductService) ListProducts(ctx context.Context, userID uuid.UUID, q types.ListQuery) ([]models.Product, int64, error) {
	q.Normalize()
	query := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("(user_id = ? OR is_shared = ?)", userID, true)
	if q.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q.Search)+"%")
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	var products []models.Product
	if err := query.Order("name").Order("id").Offset(q.Offset()).Limit(q.PageSize).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

func (s *ProductService) owned(ctx context.Context, userID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, notFound(err, ErrProductNotFound, "get product")
	}
	return &product, nil
}

func applyProductRequest(p *models.Product, req *types.ProductRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return invalid("name", "is required")
	}
	unit := req.Unit
	if unit == "" {
		unit = models.UnitGram
	}
	if !models.ValidUnit(unit) {
		return invalid("unit", "must be one of g, ml, pcs")
	}
	base := req.BaseAmount
	if base == 0 {
		base = defaultBaseAmount
	}
	if !validNumber(base) || base < 0 {
		return invalid("base_amount", "must be greater than zero")
	}
	perBase := []struct {
		field string
		value float64
	}{
		{"calories_per_base", req.CaloriesPerBase},
		{"proteins_per_base", req.ProteinsPerBase},
		{"fats_per_base", req.FatsPerBase},
		{"carbs_per_base", req.CarbsPerBase},
		{"fiber_per_base", req.FiberPerBase},
		{"alcohol_per_base", req.AlcoholPerBase},
	}
	for _, pb := range perBase {
		if !validNumber(pb.value) || pb.value < 0 {
			return invalid(pb.field, "must be a non-negative number")
		}
	}

	p.Name = name
	p.Unit = unit
	p.BaseAmount = base
	p.CaloriesPerBase = req.CaloriesPerBase
	p.ProteinsPerBase = req.ProteinsPerBase
	p.FatsPerBase = req.FatsPerBase
	p.CarbsPerBase = req.CarbsPerBase
	p.FiberPerBase = req.FiberPerBase
	p.AlcoholPerBase = req.AlcoholPerBase
	p.IsShared = req.IsShared
	return nil
}

// isReferenced reports whether a live recipe ingredient or meal item points
// at id through the given columns.
func isReferenced(ctx context.Context, db *gorm.DB, ingredientColumn, itemColumn string, id uuid.UUID) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Table("recipe_ingredients AS ri").
		Joins("JOIN recipe_steps rs ON rs.id = ri.step_id").
		Joins("JOIN recipes r ON r.id = rs.recipe_id").
		Where("ri."+ingredientColumn+" = ? AND r.deleted_at IS NULL", id).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check recipe references: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	err = db.WithContext(ctx).Table("consumption_items AS ci").
		Joins("JOIN consumptions c ON c.id = ci.consumption_id").
		Where("ci."+itemColumn+" = ? AND c.deleted_at IS NULL", id).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check meal references: %w", err)
	}
	return n > 0, nil
}
