package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/client"
	"storefront/internal/model"
	"storefront/internal/notify"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// NextFulfillment is the explicit transition table for the fulfillment
// dimension. It returns the resulting status and the notification to fire, if
// any. Cancellation is reachable from every non-cancelled state; the refund
// path sends its own mail, so cancelling fires none here.
func NextFulfillment(current, requested model.FulfillmentStatus) (model.FulfillmentStatus, notify.Kind, error) {
	if requested == current {
		return "", "", fmt.Errorf("order already %s: %w", current, ErrInvalidState)
	}

	switch requested {
	case model.FulfillmentProcessing:
		if current == model.FulfillmentPending {
			return model.FulfillmentProcessing, "", nil
		}
	case model.FulfillmentShipped:
		if current == model.FulfillmentProcessing {
			return model.FulfillmentShipped, notify.KindShipped, nil
		}
	case model.FulfillmentDelivered:
		if current == model.FulfillmentShipped {
			return model.FulfillmentDelivered, notify.KindDelivered, nil
		}
	case model.FulfillmentCancelled:
		if current != model.FulfillmentCancelled {
			return model.FulfillmentCancelled, "", nil
		}
	}

	return "", "", fmt.Errorf("cannot transition order from %s to %s: %w", current, requested, ErrInvalidState)
}

type OrderService interface {
	Get(ctx context.Context, orderID uint, actor Actor) (*model.Order, error)
	ListByActor(ctx context.Context, actor Actor) ([]*model.Order, error)
	ListAll(ctx context.Context) ([]*model.Order, error)
	ListCustomers(ctx context.Context) ([]*model.Customer, error)
	// UpdateStatus applies an operator-requested fulfillment transition and
	// fires the matching notification best-effort.
	UpdateStatus(ctx context.Context, orderID uint, requested model.FulfillmentStatus, trackingNumber, trackingURL string) error
	// Refund issues a gateway refund and marks the order refunded+cancelled.
	Refund(ctx context.Context, orderID uint, actor Actor) error
}

type orderServiceImpl struct {
	db            *gorm.DB
	paymentClient client.PaymentClient
	orderRepo     repository.OrderRepository
	customerRepo  repository.CustomerRepository
	notifier      Notifier
	logger        zerolog.Logger
}

func NewOrderService(
	db *gorm.DB,
	paymentClient client.PaymentClient,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	notifier Notifier,
	logger zerolog.Logger,
) OrderService {
	return &orderServiceImpl{
		db:            db,
		paymentClient: paymentClient,
		orderRepo:     orderRepo,
		customerRepo:  customerRepo,
		notifier:      notifier,
		logger:        logger,
	}
}

func (s *orderServiceImpl) Get(ctx context.Context, orderID uint, actor Actor) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	if !actor.Admin && order.Customer.Email != actor.Email {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrPermissionDenied)
	}

	return order, nil
}

func (s *orderServiceImpl) ListByActor(ctx context.Context, actor Actor) ([]*model.Order, error) {
	customer, err := s.customerRepo.FindByEmail(ctx, actor.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []*model.Order{}, nil
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}

	return s.orderRepo.ListByCustomer(ctx, customer.ID)
}

func (s *orderServiceImpl) ListAll(ctx context.Context) ([]*model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

func (s *orderServiceImpl) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	return s.customerRepo.List(ctx)
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID uint, requested model.FulfillmentStatus, trackingNumber, trackingURL string) error {
	var kind notify.Kind

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
			}
			return fmt.Errorf("find order: %w", err)
		}

		next, notification, err := NextFulfillment(order.FulfillmentStatus, requested)
		if err != nil {
			return err
		}
		kind = notification

		return s.orderRepo.UpdateFulfillment(ctx, tx, orderID, next, trackingNumber, trackingURL)
	})
	if err != nil {
		return err
	}

	// notification failure never reverts the committed transition
	if kind != "" {
		if order, err := s.orderRepo.FindByID(ctx, orderID); err == nil {
			if err := s.notifier.Send(kind, order); err != nil {
				s.logger.Warn().Err(err).Uint("order_id", orderID).Str("kind", string(kind)).Msg("status notification failed")
			}
		}
	}

	return nil
}

func (s *orderServiceImpl) Refund(ctx context.Context, orderID uint, actor Actor) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return fmt.Errorf("find order: %w", err)
	}

	// only an administrator or the order's owner may refund
	if !actor.Admin && order.Customer.Email != actor.Email {
		return fmt.Errorf("refund order %d: %w", orderID, ErrPermissionDenied)
	}

	if order.PaymentStatus == model.PaymentRefunded {
		return fmt.Errorf("order %d already refunded: %w", orderID, ErrInvalidState)
	}
	if order.PaymentStatus != model.PaymentCompleted {
		return fmt.Errorf("order %d payment status is %s, cannot refund: %w", orderID, order.PaymentStatus, ErrInvalidState)
	}

	// gateway failure leaves the order untouched
	if _, err := s.paymentClient.CreateRefund(ctx, order.PaymentIntentID, "requested_by_customer"); err != nil {
		return &GatewayError{Op: "create refund", Err: err}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID); err != nil {
			return fmt.Errorf("find order: %w", err)
		}
		return s.orderRepo.UpdateStatuses(ctx, tx, orderID, model.FulfillmentCancelled, model.PaymentRefunded)
	})
	if err != nil {
		return fmt.Errorf("mark order refunded: %w", err)
	}

	if updated, err := s.orderRepo.FindByID(ctx, orderID); err == nil {
		if err := s.notifier.Send(notify.KindRefunded, updated); err != nil {
			s.logger.Warn().Err(err).Uint("order_id", orderID).Msg("refund notification failed")
		}
	}

	return nil
}
