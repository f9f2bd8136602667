package repositories

import (
	"context"
	"strings"

	"github.com/expertwinding/storefront/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepositoryImpl interface {
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

// List returns products newest first. Products sharing a created_at value
// come back in reverse insertion order.
func (p *productRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	var products []models.Product

	query := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Category").
		Order("created_at DESC").
		Order("id DESC")

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if keyword := strings.TrimSpace(filter.Query); keyword != "" {
		searchKeyword := "%" + keyword + "%"
		query = query.Where("(LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?))", searchKeyword, searchKeyword)
	}

	if err := query.Find(&products).Error; err != nil {
		return nil, translateError("list products", err)
	}
	return products, nil
}

func (p *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Category").
		Where("id = ?", id).
		First(&product).Error; err != nil {
		return nil, translateError("get product", err)
	}
	return &product, nil
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	err := p.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
	return translateError("create product", err)
}

// Update writes every editable column. created_at is never part of the
// statement.
func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	// MySQL reports zero affected rows for unchanged values, so existence is
	// checked by the caller rather than through RowsAffected.
	result := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":           product.Name,
			"sku":            product.Sku,
			"description":    product.Description,
			"price":          product.Price,
			"stock":          product.Stock,
			"unit":           product.Unit,
			"specs":          product.Specs,
			"image_filename": product.ImageFilename,
			"category_id":    product.CategoryID,
		})
	return translateError("update product", result.Error)
}

func (p *productRepository) Delete(ctx context.Context, id uint) error {
	result := p.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return translateError("delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError("delete product", gorm.ErrRecordNotFound)
	}
	return nil
}

func (p *productRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := p.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, translateError("count products", err)
	}
	return total, nil
}
