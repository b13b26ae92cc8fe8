package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CatalogService interface {
	ListProducts(ctx context.Context, limit int) ([]*model.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)

	// admin back-office
	ListAllProducts(ctx context.Context) ([]*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) error
	UpdateProduct(ctx context.Context, product *model.Product) error
	RetireProduct(ctx context.Context, productID uint) error
	Seed(ctx context.Context) error
}

type catalogServiceImpl struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) CatalogService {
	return &catalogServiceImpl{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, limit int) ([]*model.Product, error) {
	return s.productRepo.ListActive(ctx, limit)
}

func (s *catalogServiceImpl) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	product, err := s.productRepo.FindActiveBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %q: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("find product by slug: %w", err)
	}

	return product, nil
}

func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *catalogServiceImpl) ListAllProducts(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.ListAll(ctx)
}

func validateProduct(product *model.Product) error {
	if product.Slug == "" || product.Name == "" {
		return fmt.Errorf("product slug and name are required: %w", ErrInvalidArgument)
	}
	if product.Price.IsNegative() {
		return fmt.Errorf("product price must not be negative: %w", ErrInvalidArgument)
	}
	return nil
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, product *model.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.productRepo.Create(ctx, product)
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, product *model.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %d: %w", product.ID, ErrNotFound)
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// RetireProduct deactivates a product instead of deleting it; existing order
// items keep referencing the row.
func (s *catalogServiceImpl) RetireProduct(ctx context.Context, productID uint) error {
	if err := s.productRepo.SetActive(ctx, productID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return fmt.Errorf("retire product: %w", err)
	}
	return nil
}

// Seed inserts the sample catalog, skipping rows that already exist.
func (s *catalogServiceImpl) Seed(ctx context.Context) error {
	categories := []*model.Category{
		{Name: "Casual", Slug: "casual", Description: "Comfortable everyday t-shirts"},
		{Name: "Sports", Slug: "sports", Description: "Athletic and sports-themed t-shirts"},
		{Name: "Graphic", Slug: "graphic", Description: "T-shirts with creative graphics and designs"},
		{Name: "Vintage", Slug: "vintage", Description: "Retro and vintage-style t-shirts"},
	}

	for _, category := range categories {
		if err := s.categoryRepo.Upsert(ctx, category); err != nil {
			return fmt.Errorf("seed category %s: %w", category.Slug, err)
		}
	}

	type sample struct {
		name, slug, description, category, sizes string
		price                                    string
		stock                                    int
	}
	products := []sample{
		{"Classic Cotton Tee", "classic-cotton-tee", "Ultra-soft 100% cotton t-shirt perfect for everyday wear.", "casual", "XS,S,M,L,XL,XXL", "24.99", 50},
		{"Athletic Performance Shirt", "athletic-performance-shirt", "Moisture-wicking performance tee ideal for workouts and sports.", "sports", "S,M,L,XL,XXL", "34.99", 30},
		{"Retro Gaming Tee", "retro-gaming-tee", "Cool vintage gaming graphics on premium cotton blend.", "graphic", "XS,S,M,L,XL", "29.99", 25},
		{"Classic Band Tee", "classic-band-tee", "Vintage-inspired band t-shirt with distressed graphics.", "vintage", "S,M,L,XL", "32.99", 20},
		{"Organic Cotton Basic", "organic-cotton-basic", "Eco-friendly organic cotton t-shirt in various colors.", "casual", "XS,S,M,L,XL,XXL", "27.99", 40},
	}

	for _, p := range products {
		category, err := s.categoryRepo.FindBySlug(ctx, p.category)
		if err != nil {
			return fmt.Errorf("seed: category %s: %w", p.category, err)
		}

		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return fmt.Errorf("seed: price for %s: %w", p.slug, err)
		}

		if _, err := s.productRepo.FindActiveBySlug(ctx, p.slug); err == nil {
			continue
		}

		err = s.productRepo.Create(ctx, &model.Product{
			CategoryID:     category.ID,
			Slug:           p.slug,
			Name:           p.name,
			Description:    p.description,
			Price:          price,
			Stock:          p.stock,
			AvailableSizes: p.sizes,
			Active:         true,
		})
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.slug, err)
		}
	}

	return nil
}
