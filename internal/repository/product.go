package repository

import (
	"context"

	"storefront/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	FindByID(ctx context.Context, productID uint) (*model.Product, error)
	FindActiveByID(ctx context.Context, productID uint) (*model.Product, error)
	FindActiveBySlug(ctx context.Context, slug string) (*model.Product, error)
	ListActive(ctx context.Context, limit int) ([]*model.Product, error)
	ListAll(ctx context.Context) ([]*model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	SetActive(ctx context.Context, productID uint, active bool) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindActiveByID(ctx context.Context, productID uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", productID, true).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindActiveBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("slug = ? AND active = ?", slug, true).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) ListActive(ctx context.Context, limit int) ([]*model.Product, error) {
	var products []*model.Product
	q := r.db.WithContext(ctx).
		Preload("Category").
		Where("active = ?", true).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) ListAll(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC").
		Find(&products).Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) SetActive(ctx context.Context, productID uint, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update("active", active)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	result := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"category_id":     product.CategoryID,
			"slug":            product.Slug,
			"name":            product.Name,
			"description":     product.Description,
			"price":           product.Price,
			"stock":           product.Stock,
			"available_sizes": product.AvailableSizes,
			"active":          product.Active,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
