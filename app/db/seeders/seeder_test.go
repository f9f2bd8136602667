package seeders_test

import (
	"context"
	"testing"

	"github.com/expertwinding/storefront/app/db/seeders"
	"github.com/expertwinding/storefront/app/models"
	"github.com/expertwinding/storefront/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	seeder := seeders.NewDemoSeeder(db)
	ctx := context.Background()

	first, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, seeders.Result{CategoriesCreated: 3, ProductsCreated: 3}, first)

	second, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, seeders.Result{}, second)

	var categories, products int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.EqualValues(t, 3, categories)
	assert.EqualValues(t, 3, products)
}

func TestSeedLinksProductsToCategoriesByName(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	_, err := seeders.NewDemoSeeder(db).Seed(context.Background())
	require.NoError(t, err)

	var product models.Product
	require.NoError(t, db.Preload("Category").Where("name = ?", "150 Ah Tubular Battery").First(&product).Error)
	require.NotNil(t, product.Category)
	assert.Equal(t, "Batteries", product.Category.Name)
	require.NotNil(t, product.Price)
	assert.Equal(t, 8500.0, *product.Price)
	require.NotNil(t, product.Stock)
	assert.Equal(t, 12, *product.Stock)
}

func TestSeedProductsIntoExistingCategories(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	require.NoError(t, db.Create(&models.Category{Name: "Stabilizers"}).Error)

	result, err := seeders.NewDemoSeeder(db).Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.CategoriesCreated)
	assert.Equal(t, 3, result.ProductsCreated)

	var stabilizer models.Product
	require.NoError(t, db.Where("name = ?", "60 KVA 3-phase Stabilizer").First(&stabilizer).Error)
	assert.NotNil(t, stabilizer.CategoryID)

	var transformer models.Product
	require.NoError(t, db.Where("name = ?", "5 KVA Transformer").First(&transformer).Error)
	assert.Nil(t, transformer.CategoryID, "products whose category is missing stay uncategorized")
}
