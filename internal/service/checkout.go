package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"storefront/internal/client"
	"storefront/internal/dto"
	"storefront/internal/model"
	"storefront/internal/notify"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	Email string
	Name  string
	Admin bool
}

// Notifier dispatches a transactional message for an order. Failures are
// always treated as non-fatal by callers.
type Notifier interface {
	Send(kind notify.Kind, order *model.Order) error
}

const currency = "usd"

type CheckoutService interface {
	// BeginCheckout authorizes the cart's current total with the payment
	// gateway and returns the client-facing handle.
	BeginCheckout(ctx context.Context, sessionToken string, actor Actor) (*dto.CheckoutResponse, error)
	// Confirm re-verifies the authorization with the gateway and, on success,
	// materializes the order from the server-side cart in one transaction.
	Confirm(ctx context.Context, intentID, sessionToken string, actor Actor, shippingAddress string) (uint, error)
}

type checkoutServiceImpl struct {
	db             *gorm.DB
	paymentClient  client.PaymentClient
	cartRepo       repository.CartRepository
	customerRepo   repository.CustomerRepository
	orderRepo      repository.OrderRepository
	notifier       Notifier
	publishableKey string
	logger         zerolog.Logger
}

func NewCheckoutService(
	db *gorm.DB,
	paymentClient client.PaymentClient,
	cartRepo repository.CartRepository,
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	notifier Notifier,
	publishableKey string,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		db:             db,
		paymentClient:  paymentClient,
		cartRepo:       cartRepo,
		customerRepo:   customerRepo,
		orderRepo:      orderRepo,
		notifier:       notifier,
		publishableKey: publishableKey,
		logger:         logger,
	}
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Round(2).Mul(decimal.NewFromInt(100)).IntPart()
}

func (s *checkoutServiceImpl) BeginCheckout(ctx context.Context, sessionToken string, actor Actor) (*dto.CheckoutResponse, error) {
	cart, err := s.cartRepo.FindBySessionToken(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart is empty: %w", ErrInvalidState)
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("cart is empty: %w", ErrInvalidState)
	}

	customer, err := s.customerRepo.GetOrCreate(ctx, actor.Email, actor.Name)
	if err != nil {
		return nil, fmt.Errorf("get or create customer: %w", err)
	}

	total := cart.TotalPrice()
	amountCents := toCents(total)
	if amountCents <= 0 {
		return nil, fmt.Errorf("cart total must be positive: %w", ErrInvalidArgument)
	}

	intent, err := s.paymentClient.CreateIntent(ctx, amountCents, currency, map[string]string{
		"customer_id": strconv.FormatUint(uint64(customer.ID), 10),
	})
	if err != nil {
		return nil, &GatewayError{Op: "create authorization", Err: err}
	}

	amount, _ := total.Float64()
	return &dto.CheckoutResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		PublishableKey:  s.publishableKey,
		Amount:          amount,
	}, nil
}

func (s *checkoutServiceImpl) Confirm(ctx context.Context, intentID, sessionToken string, actor Actor, shippingAddress string) (uint, error) {
	// a retried confirmation for an already-materialized authorization
	// returns the existing order instead of creating a second one
	if existing, err := s.orderRepo.FindByIntentID(ctx, intentID); err == nil {
		return existing.ID, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("lookup order by authorization: %w", err)
	}

	// never trust a client-supplied success flag; re-verify with the gateway
	intent, err := s.paymentClient.RetrieveIntent(ctx, intentID)
	if err != nil {
		return 0, &GatewayError{Op: "retrieve authorization", Err: err}
	}
	if intent.Status != client.IntentSucceeded {
		return 0, fmt.Errorf("authorization status is %q: %w", intent.Status, ErrPaymentNotConfirmed)
	}

	customer, err := s.customerRepo.GetOrCreate(ctx, actor.Email, actor.Name)
	if err != nil {
		return 0, fmt.Errorf("get or create customer: %w", err)
	}

	// the order is built from the server-side cart, not client-supplied lines
	cart, err := s.cartRepo.FindBySessionToken(ctx, sessionToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("cart is empty: %w", ErrInvalidState)
		}
		return 0, fmt.Errorf("find cart: %w", err)
	}

	var orderID uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, err := s.cartRepo.ItemsForUpdate(ctx, tx, cart.ID)
		if err != nil {
			return fmt.Errorf("lock cart lines: %w", err)
		}
		if len(items) == 0 {
			return fmt.Errorf("cart is empty: %w", ErrInvalidState)
		}

		total := decimal.Zero
		for _, item := range items {
			total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		// reject when the cart drifted from the authorized amount, e.g. a
		// price change between authorization and confirmation
		if toCents(total) != intent.Amount {
			return fmt.Errorf("cart total %s no longer matches authorized amount: %w", total, ErrInvalidState)
		}

		order := &model.Order{
			CustomerID:        customer.ID,
			FulfillmentStatus: model.FulfillmentProcessing,
			PaymentStatus:     model.PaymentCompleted,
			TotalAmount:       total,
			ShippingAddress:   shippingAddress,
			PaymentIntentID:   intent.ID,
			ChargeID:          intent.ChargeID,
		}
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}

		orderItems := make([]*model.OrderItem, len(items))
		for i, item := range items {
			orderItems[i] = &model.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Size:      item.Size,
				Quantity:  item.Quantity,
				Price:     item.Product.Price, // frozen at materialization
			}
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}

		if err := s.cartRepo.ClearItems(ctx, tx, cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		// a concurrent confirmation may have won the race on the unique
		// authorization id; report the order it created
		if existing, lookupErr := s.orderRepo.FindByIntentID(ctx, intentID); lookupErr == nil {
			return existing.ID, nil
		}
		return 0, err
	}

	// confirmation mail is best effort and never fails the checkout
	if order, err := s.orderRepo.FindByID(ctx, orderID); err == nil {
		if err := s.notifier.Send(notify.KindConfirmation, order); err != nil {
			s.logger.Warn().Err(err).Uint("order_id", orderID).Msg("order confirmation notification failed")
		}
	}

	return orderID, nil
}
