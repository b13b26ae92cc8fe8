package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/client"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type WebhookService interface {
	// HandleEvent verifies and dispatches an inbound payment event. An
	// ErrInvalidArgument result means the sender gets a 400; any nil return
	// is acknowledged with 200 so the processor does not retry-storm events
	// we have no order for.
	HandleEvent(ctx context.Context, payload []byte, signature string) error
}

type webhookServiceImpl struct {
	db            *gorm.DB
	paymentClient client.PaymentClient
	orderRepo     repository.OrderRepository
	logger        zerolog.Logger
}

func NewWebhookService(
	db *gorm.DB,
	paymentClient client.PaymentClient,
	orderRepo repository.OrderRepository,
	logger zerolog.Logger,
) WebhookService {
	return &webhookServiceImpl{
		db:            db,
		paymentClient: paymentClient,
		orderRepo:     orderRepo,
		logger:        logger,
	}
}

func (s *webhookServiceImpl) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := s.paymentClient.VerifyWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		return s.handlePaymentSucceeded(ctx, event)
	case "payment_intent.payment_failed":
		return s.handlePaymentFailed(ctx, event)
	}

	// all other event types are ignored
	return nil
}

func (s *webhookServiceImpl) handlePaymentSucceeded(ctx context.Context, event *client.WebhookEvent) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIntentIDForUpdate(ctx, tx, event.IntentID)
		if err != nil {
			return err
		}
		return s.orderRepo.UpdateStatuses(ctx, tx, order.ID, model.FulfillmentProcessing, model.PaymentCompleted)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// the webhook can race ahead of the synchronous confirmation;
		// discard and let the confirmation path materialize the order
		s.logger.Warn().
			Str("event_id", event.ID).
			Str("intent_id", event.IntentID).
			Msg("no order for succeeded payment, discarding event")
		return nil
	}
	return err
}

func (s *webhookServiceImpl) handlePaymentFailed(ctx context.Context, event *client.WebhookEvent) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIntentIDForUpdate(ctx, tx, event.IntentID)
		if err != nil {
			return err
		}
		return s.orderRepo.UpdatePayment(ctx, tx, order.ID, model.PaymentFailed)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
