package client

import (
	"context"
	"fmt"

	"storefront/internal/config"

	"github.com/stripe/stripe-go/v78"
	stripeclient "github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
)

// PaymentIntent is the subset of the gateway's authorization object the
// storefront cares about.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
	ChargeID     string
}

// IntentSucceeded is the gateway status the checkout flow requires before an
// order may be materialized.
const IntentSucceeded = "succeeded"

type Refund struct {
	ID string
}

// WebhookEvent is a verified asynchronous payment event.
type WebhookEvent struct {
	ID       string
	Type     string
	IntentID string
}

// PaymentClient wraps the external payment processor: authorize an amount,
// re-verify an authorization, refund it, and verify inbound webhooks.
type PaymentClient interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*PaymentIntent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*PaymentIntent, error)
	CreateRefund(ctx context.Context, intentID, reason string) (*Refund, error)
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

type stripeClientImpl struct {
	api           *stripeclient.API
	webhookSecret string
}

func NewStripeClient(cfg *config.Stripe) PaymentClient {
	return &stripeClientImpl{
		api:           stripeclient.New(cfg.SecretKey, nil),
		webhookSecret: cfg.WebhookSecret,
	}
}

func (c *stripeClientImpl) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}

	return toPaymentIntent(intent), nil
}

func (c *stripeClientImpl) RetrieveIntent(ctx context.Context, intentID string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := c.api.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe retrieve payment intent: %w", err)
	}

	return toPaymentIntent(intent), nil
}

func (c *stripeClientImpl) CreateRefund(ctx context.Context, intentID, reason string) (*Refund, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
	}
	params.Context = ctx
	if reason != "" {
		params.Reason = stripe.String(reason)
	}

	refund, err := c.api.Refunds.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create refund: %w", err)
	}

	return &Refund{ID: refund.ID}, nil
}

func (c *stripeClientImpl) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, c.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}

	// payment_intent.* events carry the intent as the event object
	intentID, _ := event.Data.Object["id"].(string)

	return &WebhookEvent{
		ID:       event.ID,
		Type:     string(event.Type),
		IntentID: intentID,
	}, nil
}

func toPaymentIntent(intent *stripe.PaymentIntent) *PaymentIntent {
	out := &PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
		Amount:       intent.Amount,
		Currency:     string(intent.Currency),
	}
	if intent.LatestCharge != nil {
		out.ChargeID = intent.LatestCharge.ID
	}
	return out
}
