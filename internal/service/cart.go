package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"

	"gorm.io/gorm"
)

type CartService interface {
	// GetCart returns the session's cart, creating it lazily on first use.
	GetCart(ctx context.Context, sessionToken string) (*model.Cart, error)
	AddItem(ctx context.Context, sessionToken string, productID uint, size string, quantity int) (*model.Cart, error)
	UpdateItem(ctx context.Context, sessionToken string, itemID uint, quantity int) (*model.Cart, error)
	RemoveItem(ctx context.Context, sessionToken string, itemID uint) (*model.Cart, error)
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, sessionToken string) (*model.Cart, error) {
	cart, err := s.cartRepo.FindBySessionToken(ctx, sessionToken)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find cart: %w", err)
	}

	cart = &model.Cart{SessionToken: sessionToken}
	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}

	return cart, nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, sessionToken string, productID uint, size string, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrInvalidArgument)
	}

	product, err := s.productRepo.FindActiveByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	if !product.HasSize(size) {
		return nil, fmt.Errorf("size %q not available for %s: %w", size, product.Slug, ErrInvalidArgument)
	}

	cart, err := s.GetCart(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	// same (product, size) line merges by summing quantities
	existing, err := s.cartRepo.FindItemByKey(ctx, cart.ID, product.ID, size)
	switch {
	case err == nil:
		if err := s.cartRepo.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
			return nil, fmt.Errorf("merge cart line: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &model.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Size:      size,
			Quantity:  quantity,
		}
		if err := s.cartRepo.CreateItem(ctx, item); err != nil {
			return nil, fmt.Errorf("add cart line: %w", err)
		}
	default:
		return nil, fmt.Errorf("find cart line: %w", err)
	}

	return s.cartRepo.FindBySessionToken(ctx, sessionToken)
}

func (s *cartServiceImpl) UpdateItem(ctx context.Context, sessionToken string, itemID uint, quantity int) (*model.Cart, error) {
	cart, err := s.GetCart(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.FindItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("find cart item: %w", err)
	}

	// quantity <= 0 removes the line, anything else overwrites it
	if quantity <= 0 {
		if err := s.cartRepo.DeleteItem(ctx, item.ID); err != nil {
			return nil, fmt.Errorf("delete cart item: %w", err)
		}
	} else {
		if err := s.cartRepo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
			return nil, fmt.Errorf("update cart item: %w", err)
		}
	}

	return s.cartRepo.FindBySessionToken(ctx, sessionToken)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, sessionToken string, itemID uint) (*model.Cart, error) {
	cart, err := s.GetCart(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.FindItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item %d: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("find cart item: %w", err)
	}

	if err := s.cartRepo.DeleteItem(ctx, item.ID); err != nil {
		return nil, fmt.Errorf("delete cart item: %w", err)
	}

	return s.cartRepo.FindBySessionToken(ctx, sessionToken)
}
