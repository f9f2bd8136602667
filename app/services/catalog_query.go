package services

import (
	"context"
	"fmt"

	"github.com/expertwinding/storefront/app/models"
	"github.com/expertwinding/storefront/app/repositories"
)

type CatalogQueryService struct {
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	images       ImageStorage
}

func NewCatalogQueryService(productRepo repositories.ProductRepositoryImpl, categoryRepo repositories.CategoryRepositoryImpl, images ImageStorage) *CatalogQueryService {
	return &CatalogQueryService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		images:       images,
	}
}

type CategoryRecord struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ProductRecord is the flattened product handed to templates and the JSON
// API. Unset optional fields serialize as null.
type ProductRecord struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Sku         *string         `json:"sku"`
	Description *string         `json:"description"`
	Price       *float64        `json:"price"`
	Stock       *int            `json:"stock"`
	Unit        *string         `json:"unit"`
	Specs       map[string]any  `json:"specs"`
	ImageURL    string          `json:"image_url"`
	Category    *CategoryRecord `json:"category"`
}

// ListProducts returns products newest first, narrowed by the filter's
// category and case-insensitive text query.
func (s *CatalogQueryService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *CatalogQueryService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return product, nil
}

func (s *CatalogQueryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogQueryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category %d: %w", id, err)
	}
	return category, nil
}

func (s *CatalogQueryService) Serialize(p models.Product) ProductRecord {
	record := ProductRecord{
		ID:          p.ID,
		Name:        p.Name,
		Sku:         p.Sku,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Unit:        p.Unit,
		Specs:       p.SpecsDict(),
		ImageURL:    s.images.ResolveURL(p.ImageFilename),
	}
	if p.Category != nil {
		category := s.SerializeCategory(*p.Category)
		record.Category = &category
	}
	return record
}

func (s *CatalogQueryService) SerializeAll(products []models.Product) []ProductRecord {
	records := make([]ProductRecord, 0, len(products))
	for _, p := range products {
		records = append(records, s.Serialize(p))
	}
	return records
}

func (s *CatalogQueryService) SerializeCategory(c models.Category) CategoryRecord {
	return CategoryRecord{ID: c.ID, Name: c.Name}
}

func (s *CatalogQueryService) SerializeCategories(categories []models.Category) []CategoryRecord {
	records := make([]CategoryRecord, 0, len(categories))
	for _, c := range categories {
		records = append(records, s.SerializeCategory(c))
	}
	return records
}
