package seeders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/expertwinding/storefront/app/models"
	"gorm.io/gorm"
)

type demoProduct struct {
	Name         string
	Description  string
	Price        float64
	Stock        int
	CategoryName string
}

var demoCategories = []string{"Transformers", "Batteries", "Stabilizers"}

var demoProducts = []demoProduct{
	{
		Name:         "5 KVA Transformer",
		Description:  "Oil-cooled 1-phase transformer — good for local stabilizer setups.",
		Price:        12000,
		Stock:        5,
		CategoryName: "Transformers",
	},
	{
		Name:         "150 Ah Tubular Battery",
		Description:  "High capacity battery for home inverters.",
		Price:        8500,
		Stock:        12,
		CategoryName: "Batteries",
	},
	{
		Name:         "60 KVA 3-phase Stabilizer",
		Description:  "Servo controlled 3-phase stabilizer for industrial use.",
		Price:        78000,
		Stock:        2,
		CategoryName: "Stabilizers",
	},
}

type Result struct {
	CategoriesCreated int
	ProductsCreated   int
}

type DemoSeeder struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDemoSeeder(db *gorm.DB) *DemoSeeder {
	return &DemoSeeder{db: db, now: time.Now}
}

// Seed inserts the demo categories when the categories table is empty and
// the demo products when the products table is empty. Each half commits on
// its own, so a catalog with categories but no products still gets products.
func (s *DemoSeeder) Seed(ctx context.Context) (Result, error) {
	var result Result

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&models.Category{}).Count(&total).Error; err != nil {
			return err
		}
		if total > 0 {
			return nil
		}

		categories := make([]models.Category, 0, len(demoCategories))
		for _, name := range demoCategories {
			categories = append(categories, models.Category{Name: name})
		}
		if err := tx.Create(&categories).Error; err != nil {
			return err
		}
		result.CategoriesCreated = len(categories)
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("failed to seed categories: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total int64
		if err := tx.Model(&models.Product{}).Count(&total).Error; err != nil {
			return err
		}
		if total > 0 {
			return nil
		}

		createdAt := s.now().UTC()
		products := make([]models.Product, 0, len(demoProducts))
		for _, demo := range demoProducts {
			categoryID, err := lookupCategoryID(tx, demo.CategoryName)
			if err != nil {
				return err
			}

			description := demo.Description
			price := demo.Price
			stock := demo.Stock
			products = append(products, models.Product{
				Name:        demo.Name,
				Description: &description,
				Price:       &price,
				Stock:       &stock,
				CategoryID:  categoryID,
				CreatedAt:   createdAt,
			})
		}
		if err := tx.Omit("Category").Create(&products).Error; err != nil {
			return err
		}
		result.ProductsCreated = len(products)
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("failed to seed products: %w", err)
	}

	return result, nil
}

// lookupCategoryID returns nil when the named category does not exist, which
// leaves the demo product uncategorized.
func lookupCategoryID(tx *gorm.DB, name string) (*uint, error) {
	var category models.Category
	err := tx.Where("name = ?", name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category.ID, nil
}
