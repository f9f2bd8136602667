package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/expertwinding/storefront/app/models"
	"github.com/expertwinding/storefront/app/repositories"
	"github.com/expertwinding/storefront/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type CatalogRepositorySuite struct {
	suite.Suite
	db           *gorm.DB
	ctx          context.Context
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	clock        time.Time
}

func TestCatalogRepositorySuite(t *testing.T) {
	suite.Run(t, new(CatalogRepositorySuite))
}

func (s *CatalogRepositorySuite) SetupTest() {
	s.db = testhelpers.SetupTestDB(s.T())
	s.ctx = context.Background()
	s.productRepo = repositories.NewProductRepository(s.db)
	s.categoryRepo = repositories.NewCategoryRepository(s.db)
	s.clock = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *CatalogRepositorySuite) createCategory(name string) *models.Category {
	category := &models.Category{Name: name}
	s.Require().NoError(s.categoryRepo.Create(s.ctx, category))
	return category
}

// createProduct inserts products one second apart so ordering is deterministic.
func (s *CatalogRepositorySuite) createProduct(name, description string, categoryID *uint) *models.Product {
	s.clock = s.clock.Add(time.Second)
	product := &models.Product{
		Name:        name,
		Description: &description,
		CategoryID:  categoryID,
		CreatedAt:   s.clock,
	}
	s.Require().NoError(s.productRepo.Create(s.ctx, product))
	return product
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func (s *CatalogRepositorySuite) TestCategoryNamesAreUnique() {
	s.createCategory("Transformers")

	err := s.categoryRepo.Create(s.ctx, &models.Category{Name: "Transformers"})
	s.ErrorIs(err, models.ErrConstraintViolation)
}

func (s *CatalogRepositorySuite) TestCategoriesAreAlphabetical() {
	s.createCategory("Stabilizers")
	s.createCategory("Batteries")
	s.createCategory("Transformers")

	categories, err := s.categoryRepo.GetAll(s.ctx)
	s.Require().NoError(err)

	got := make([]string, 0, len(categories))
	for _, c := range categories {
		got = append(got, c.Name)
	}
	s.Equal([]string{"Batteries", "Stabilizers", "Transformers"}, got)
}

func (s *CatalogRepositorySuite) TestGetCategoryByName() {
	created := s.createCategory("Batteries")

	found, err := s.categoryRepo.GetByName(s.ctx, "Batteries")
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)

	_, err = s.categoryRepo.GetByName(s.ctx, "Inverters")
	s.ErrorIs(err, models.ErrNotFound)
}

func (s *CatalogRepositorySuite) TestProductWithUnknownCategoryIsRejected() {
	missing := uint(999)
	err := s.productRepo.Create(s.ctx, &models.Product{Name: "Orphan", CategoryID: &missing, CreatedAt: s.clock})
	s.ErrorIs(err, models.ErrConstraintViolation)
}

func (s *CatalogRepositorySuite) TestDeleteCategoryCascadesToProducts() {
	transformers := s.createCategory("Transformers")
	batteries := s.createCategory("Batteries")
	s.createProduct("5 KVA Transformer", "oil cooled", &transformers.ID)
	s.createProduct("10 KVA Transformer", "dry type", &transformers.ID)
	kept := s.createProduct("150 Ah Battery", "tubular", &batteries.ID)

	s.Require().NoError(s.categoryRepo.Delete(s.ctx, transformers.ID))

	products, err := s.productRepo.List(s.ctx, models.ProductFilter{})
	s.Require().NoError(err)
	s.Require().Len(products, 1)
	s.Equal(kept.ID, products[0].ID)

	_, err = s.categoryRepo.GetByID(s.ctx, transformers.ID)
	s.ErrorIs(err, models.ErrNotFound)
}

func (s *CatalogRepositorySuite) TestDeleteMissingCategory() {
	err := s.categoryRepo.Delete(s.ctx, 42)
	s.ErrorIs(err, models.ErrNotFound)
}

func (s *CatalogRepositorySuite) TestListIsNewestFirst() {
	s.createProduct("First", "", nil)
	s.createProduct("Second", "", nil)
	s.createProduct("Third", "", nil)

	products, err := s.productRepo.List(s.ctx, models.ProductFilter{})
	s.Require().NoError(err)
	s.Equal([]string{"Third", "Second", "First"}, names(products))
}

func (s *CatalogRepositorySuite) TestListBreaksCreatedAtTiesByID() {
	sameTime := s.clock
	for _, name := range []string{"A", "B"} {
		s.Require().NoError(s.productRepo.Create(s.ctx, &models.Product{Name: name, CreatedAt: sameTime}))
	}

	products, err := s.productRepo.List(s.ctx, models.ProductFilter{})
	s.Require().NoError(err)
	s.Equal([]string{"B", "A"}, names(products))
}

func (s *CatalogRepositorySuite) TestListQueryIsCaseInsensitiveOverNameAndDescription() {
	s.createProduct("Servo Stabilizer", "3-phase", nil)
	s.createProduct("Inverter Battery", "Works with any STABILIZER", nil)
	s.createProduct("Transformer", "oil cooled", nil)

	products, err := s.productRepo.List(s.ctx, models.ProductFilter{Query: "  stabilizer "})
	s.Require().NoError(err)
	s.Equal([]string{"Inverter Battery", "Servo Stabilizer"}, names(products))
}

func (s *CatalogRepositorySuite) TestListQueryMatchesNonASCIIName() {
	s.createProduct("ÜBERSPANNUNG Schutz", "", nil)
	s.createProduct("Servo Stabilizer", "", nil)

	for _, q := range []string{"ÜBER", "ÜBERSPANNUNG", "SCHUTZ", "schutz"} {
		products, err := s.productRepo.List(s.ctx, models.ProductFilter{Query: q})
		s.Require().NoError(err)
		s.Equal([]string{"ÜBERSPANNUNG Schutz"}, names(products), q)
	}
}

func (s *CatalogRepositorySuite) TestListFiltersCompose() {
	stabilizers := s.createCategory("Stabilizers")
	batteries := s.createCategory("Batteries")
	s.createProduct("Servo Stabilizer", "industrial", &stabilizers.ID)
	s.createProduct("Relay Stabilizer", "home use", &stabilizers.ID)
	s.createProduct("Industrial Battery", "industrial", &batteries.ID)

	products, err := s.productRepo.List(s.ctx, models.ProductFilter{CategoryID: &stabilizers.ID, Query: "INDUSTRIAL"})
	s.Require().NoError(err)
	s.Equal([]string{"Servo Stabilizer"}, names(products))

	products, err = s.productRepo.List(s.ctx, models.ProductFilter{CategoryID: &stabilizers.ID})
	s.Require().NoError(err)
	s.Equal([]string{"Relay Stabilizer", "Servo Stabilizer"}, names(products))
	for _, p := range products {
		s.Require().NotNil(p.Category)
		s.Equal("Stabilizers", p.Category.Name)
	}
}

func (s *CatalogRepositorySuite) TestUpdateKeepsCreatedAt() {
	product := s.createProduct("Old name", "desc", nil)
	price := 950.0

	product.Name = "New name"
	product.Price = &price
	product.Description = nil
	product.CreatedAt = s.clock.Add(time.Hour)
	s.Require().NoError(s.productRepo.Update(s.ctx, product))

	reloaded, err := s.productRepo.GetByID(s.ctx, product.ID)
	s.Require().NoError(err)
	s.Equal("New name", reloaded.Name)
	s.Require().NotNil(reloaded.Price)
	s.Equal(950.0, *reloaded.Price)
	s.Nil(reloaded.Description)
	s.True(s.clock.Equal(reloaded.CreatedAt), "created_at must not change")
}

func (s *CatalogRepositorySuite) TestDeleteProduct() {
	product := s.createProduct("Doomed", "", nil)

	s.Require().NoError(s.productRepo.Delete(s.ctx, product.ID))
	s.ErrorIs(s.productRepo.Delete(s.ctx, product.ID), models.ErrNotFound)

	_, err := s.productRepo.GetByID(s.ctx, product.ID)
	s.ErrorIs(err, models.ErrNotFound)
}

func TestCounts(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	ctx := context.Background()
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)

	require.NoError(t, categoryRepo.Create(ctx, &models.Category{Name: "Batteries"}))
	require.NoError(t, productRepo.Create(ctx, &models.Product{Name: "Battery", CreatedAt: time.Now()}))

	categories, err := categoryRepo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, categories)

	products, err := productRepo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, products)
}
