package repository

import (
	"context"

	"storefront/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	FindBySessionToken(ctx context.Context, sessionToken string) (*model.Cart, error)
	Create(ctx context.Context, cart *model.Cart) error
	FindItem(ctx context.Context, cartID, itemID uint) (*model.CartItem, error)
	FindItemByKey(ctx context.Context, cartID, productID uint, size string) (*model.CartItem, error)
	CreateItem(ctx context.Context, item *model.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error
	DeleteItem(ctx context.Context, itemID uint) error
	ItemsForUpdate(ctx context.Context, tx *gorm.DB, cartID uint) ([]*model.CartItem, error)
	ClearItems(ctx context.Context, tx *gorm.DB, cartID uint) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) FindBySessionToken(ctx context.Context, sessionToken string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Product").
		Where("session_token = ?", sessionToken).
		First(&cart).Error

	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) Create(ctx context.Context, cart *model.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *cartRepoImpl) FindItem(ctx context.Context, cartID, itemID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error

	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *cartRepoImpl) FindItemByKey(ctx context.Context, cartID, productID uint, size string) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND size = ?", cartID, productID, size).
		First(&item).Error

	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *cartRepoImpl) CreateItem(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartRepoImpl) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *cartRepoImpl) DeleteItem(ctx context.Context, itemID uint) error {
	return r.db.WithContext(ctx).Delete(&model.CartItem{}, itemID).Error
}

// ItemsForUpdate loads the cart's lines under a row lock so that a concurrent
// confirmation of the same cart blocks until this transaction finishes.
func (r *cartRepoImpl) ItemsForUpdate(ctx context.Context, tx *gorm.DB, cartID uint) ([]*model.CartItem, error) {
	var items []*model.CartItem
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Product").
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&items).Error

	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *cartRepoImpl) ClearItems(ctx context.Context, tx *gorm.DB, cartID uint) error {
	return tx.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItem{}).Error
}
