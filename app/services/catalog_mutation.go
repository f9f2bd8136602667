package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/expertwinding/storefront/app/db/seeders"
	"github.com/expertwinding/storefront/app/models"
	"github.com/expertwinding/storefront/app/repositories"
	"github.com/expertwinding/storefront/app/utils/logger"
	"github.com/expertwinding/storefront/app/utils/uploads"
	"github.com/go-playground/validator/v10"
)

type ImageStorage interface {
	ValidateAndStore(rawFilename string, content io.Reader) (string, error)
	DeleteIfPresent(stored string) uploads.CleanupResult
	ResolveURL(stored *string) string
}

type DemoSeeder interface {
	Seed(ctx context.Context) (seeders.Result, error)
}

type CatalogMutationService struct {
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	images       ImageStorage
	seeder       DemoSeeder
	validator    *validator.Validate
	logger       *slog.Logger
	now          func() time.Time
}

func NewCatalogMutationService(
	productRepo repositories.ProductRepositoryImpl,
	categoryRepo repositories.CategoryRepositoryImpl,
	images ImageStorage,
	seeder DemoSeeder,
	validator *validator.Validate,
	logger *slog.Logger,
) *CatalogMutationService {
	return &CatalogMutationService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		images:       images,
		seeder:       seeder,
		validator:    validator,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateProduct stores the optional image and inserts the product. An
// unacceptable image aborts before anything is written.
func (s *CatalogMutationService) CreateProduct(ctx context.Context, auth Authorization, in ProductInput) (*models.Product, error) {
	if err := auth.require(); err != nil {
		return nil, err
	}

	parsed, err := parseProductInput(s.validator, in)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        parsed.name,
		Description: parsed.description,
		Price:       parsed.price,
		CategoryID:  parsed.categoryID,
		Sku:         parsed.sku,
		Stock:       parsed.stock,
		Unit:        parsed.unit,
		Specs:       parsed.specs,
		CreatedAt:   s.now().UTC(),
	}
	if product.Stock == nil {
		zero := 0
		product.Stock = &zero
	}

	if in.hasImage() {
		stored, err := s.images.ValidateAndStore(in.Image.Filename, in.Image.Content)
		if err != nil {
			return nil, err
		}
		product.ImageFilename = &stored
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if product.ImageFilename != nil {
			s.logCleanup(ctx, s.images.DeleteIfPresent(*product.ImageFilename))
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.WithRequestID(ctx, s.logger).Info("Product created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// UpdateProduct overwrites name, description, price and category from the
// input. Sku, stock, unit and specs change only when supplied. A new image
// replaces the stored filename and the previous file is left on disk.
func (s *CatalogMutationService) UpdateProduct(ctx context.Context, auth Authorization, id uint, in ProductInput) (*models.Product, error) {
	if err := auth.require(); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}

	parsed, err := parseProductInput(s.validator, in)
	if err != nil {
		return nil, err
	}

	if in.hasImage() {
		stored, err := s.images.ValidateAndStore(in.Image.Filename, in.Image.Content)
		if err != nil {
			return nil, err
		}
		product.ImageFilename = &stored
	}

	product.Name = parsed.name
	product.Description = parsed.description
	product.Price = parsed.price
	product.CategoryID = parsed.categoryID
	if parsed.sku != nil {
		product.Sku = parsed.sku
	}
	if parsed.stock != nil {
		product.Stock = parsed.stock
	}
	if parsed.unit != nil {
		product.Unit = parsed.unit
	}
	if parsed.specs != nil {
		product.Specs = parsed.specs
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}

	updated, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload product %d: %w", id, err)
	}

	logger.WithRequestID(ctx, s.logger).Info("Product updated", "product_id", id)
	return updated, nil
}

// DeleteProduct removes the product row. Image cleanup is best-effort and
// never fails the delete.
func (s *CatalogMutationService) DeleteProduct(ctx context.Context, auth Authorization, id uint) error {
	if err := auth.require(); err != nil {
		return err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get product %d: %w", id, err)
	}

	if product.ImageFilename != nil {
		s.logCleanup(ctx, s.images.DeleteIfPresent(*product.ImageFilename))
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}

	logger.WithRequestID(ctx, s.logger).Info("Product deleted", "product_id", id)
	return nil
}

// SeedDemoData fills an empty catalog with demo categories and products.
// Tables that already hold rows are left alone, so repeated calls are safe.
func (s *CatalogMutationService) SeedDemoData(ctx context.Context, auth Authorization) (seeders.Result, error) {
	if err := auth.require(); err != nil {
		return seeders.Result{}, err
	}

	result, err := s.seeder.Seed(ctx)
	if err != nil {
		return result, err
	}

	logger.WithRequestID(ctx, s.logger).Info("Demo data seeded",
		"categories_created", result.CategoriesCreated,
		"products_created", result.ProductsCreated,
	)
	return result, nil
}

func (s *CatalogMutationService) CreateCategory(ctx context.Context, auth Authorization, in CategoryInput) (*models.Category, error) {
	if err := auth.require(); err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Struct(&in); err != nil {
		return nil, toValidationError(err)
	}

	category := &models.Category{Name: in.Name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category %q: %w", in.Name, err)
	}

	logger.WithRequestID(ctx, s.logger).Info("Category created", "category_id", category.ID, "name", category.Name)
	return category, nil
}

// DeleteCategory removes the category together with all of its products.
// Product image files are not removed.
func (s *CatalogMutationService) DeleteCategory(ctx context.Context, auth Authorization, id uint) error {
	if err := auth.require(); err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}

	logger.WithRequestID(ctx, s.logger).Info("Category deleted", "category_id", id)
	return nil
}

func (s *CatalogMutationService) logCleanup(ctx context.Context, result uploads.CleanupResult) {
	if result.Err != nil {
		logger.WithRequestID(ctx, s.logger).Warn("Failed to remove image file",
			"filename", result.Filename,
			"error", result.Err,
		)
	}
}
