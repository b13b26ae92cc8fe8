package repository

import (
	"context"
	"time"

	"storefront/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByID(ctx context.Context, orderID uint) (*model.Order, error)
	FindByIntentID(ctx context.Context, intentID string) (*model.Order, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error)
	FindByIntentIDForUpdate(ctx context.Context, tx *gorm.DB, intentID string) (*model.Order, error)
	UpdateStatuses(ctx context.Context, tx *gorm.DB, orderID uint, fulfillment model.FulfillmentStatus, payment model.PaymentStatus) error
	UpdateFulfillment(ctx context.Context, tx *gorm.DB, orderID uint, fulfillment model.FulfillmentStatus, trackingNumber, trackingURL string) error
	UpdatePayment(ctx context.Context, tx *gorm.DB, orderID uint, payment model.PaymentStatus) error
	ListByCustomer(ctx context.Context, customerID uint) ([]*model.Order, error)
	ListAll(ctx context.Context) ([]*model.Order, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Omit("Items", "Customer").Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Omit("Product").Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Items.Product").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByIntentID(ctx context.Context, intentID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("payment_intent_id = ?", intentID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, orderID uint) (*model.Order, error) {
	var order model.Order
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByIntentIDForUpdate(ctx context.Context, tx *gorm.DB, intentID string) (*model.Order, error) {
	var order model.Order
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("payment_intent_id = ?", intentID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) UpdateStatuses(ctx context.Context, tx *gorm.DB, orderID uint, fulfillment model.FulfillmentStatus, payment model.PaymentStatus) error {
	result := tx.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"fulfillment_status": fulfillment,
			"payment_status":     payment,
			"updated_at":         time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *orderRepoImpl) UpdateFulfillment(ctx context.Context, tx *gorm.DB, orderID uint, fulfillment model.FulfillmentStatus, trackingNumber, trackingURL string) error {
	updates := map[string]interface{}{
		"fulfillment_status": fulfillment,
		"updated_at":         time.Now(),
	}
	if trackingNumber != "" {
		updates["tracking_number"] = trackingNumber
	}
	if trackingURL != "" {
		updates["tracking_url"] = trackingURL
	}

	result := tx.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *orderRepoImpl) UpdatePayment(ctx context.Context, tx *gorm.DB, orderID uint, payment model.PaymentStatus) error {
	result := tx.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"payment_status": payment,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *orderRepoImpl) ListByCustomer(ctx context.Context, customerID uint) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) ListAll(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}
