package repository

import (
	"context"

	"storefront/internal/model"

	"gorm.io/gorm"
)

type CustomerRepository interface {
	FindByID(ctx context.Context, customerID uint) (*model.Customer, error)
	FindByEmail(ctx context.Context, email string) (*model.Customer, error)
	GetOrCreate(ctx context.Context, email, name string) (*model.Customer, error)
	List(ctx context.Context) ([]*model.Customer, error)
}

type customerRepoImpl struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepoImpl{
		db: db,
	}
}

func (r *customerRepoImpl) FindByID(ctx context.Context, customerID uint) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where("id = ?", customerID).
		First(&customer).Error

	if err != nil {
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepoImpl) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&customer).Error

	if err != nil {
		return nil, err
	}

	return &customer, nil
}

// GetOrCreate creates the customer profile lazily on first checkout.
func (r *customerRepoImpl) GetOrCreate(ctx context.Context, email, name string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Where(model.Customer{Email: email}).
		Attrs(model.Customer{Name: name}).
		FirstOrCreate(&customer).Error

	if err != nil {
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepoImpl) List(ctx context.Context) ([]*model.Customer, error) {
	var customers []*model.Customer
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&customers).Error

	if err != nil {
		return nil, err
	}

	return customers, nil
}
