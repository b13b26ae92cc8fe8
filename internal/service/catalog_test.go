package service

import (
	"context"
	"testing"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogService(t *testing.T) CatalogService {
	t.Helper()

	db := newTestDB(t)
	return NewCatalogService(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
	)
}

func TestSeedIsIdempotent(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx))
	require.NoError(t, svc.Seed(ctx))

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 4)

	products, err := svc.ListProducts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, products, 5)
}

func TestGetProductBySlug(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()
	require.NoError(t, svc.Seed(ctx))

	product, err := svc.GetProductBySlug(ctx, "classic-cotton-tee")
	require.NoError(t, err)
	assert.Equal(t, "Classic Cotton Tee", product.Name)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("24.99")))
	assert.Equal(t, "Casual", product.Category.Name)
	assert.Contains(t, product.SizeList(), "XXL")

	_, err = svc.GetProductBySlug(ctx, "no-such-tee")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProductsHonorsLimit(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()
	require.NoError(t, svc.Seed(ctx))

	products, err := svc.ListProducts(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestListProductsHidesInactive(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
	)
	ctx := context.Background()
	require.NoError(t, svc.Seed(ctx))

	require.NoError(t, db.Model(&model.Product{}).
		Where("slug = ?", "classic-cotton-tee").
		Update("active", false).Error)

	products, err := svc.ListProducts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, products, 4)

	_, err = svc.GetProductBySlug(ctx, "classic-cotton-tee")
	assert.ErrorIs(t, err, ErrNotFound)

	// the back-office still sees retired products
	all, err := svc.ListAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestCreateProductValidation(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	err := svc.CreateProduct(ctx, &model.Product{Name: "No Slug"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = svc.CreateProduct(ctx, &model.Product{
		Slug:  "negative-tee",
		Name:  "Negative Tee",
		Price: decimal.RequireFromString("-1.00"),
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRetireProduct(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()
	require.NoError(t, svc.Seed(ctx))

	product, err := svc.GetProductBySlug(ctx, "retro-gaming-tee")
	require.NoError(t, err)

	require.NoError(t, svc.RetireProduct(ctx, product.ID))

	_, err = svc.GetProductBySlug(ctx, "retro-gaming-tee")
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.RetireProduct(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProductUnknownID(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	err := svc.UpdateProduct(ctx, &model.Product{
		ID:    9999,
		Slug:  "ghost-tee",
		Name:  "Ghost Tee",
		Price: decimal.RequireFromString("10.00"),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
