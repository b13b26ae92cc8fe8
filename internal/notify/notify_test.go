package notify

import (
	"testing"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingMailer struct {
	to       string
	subject  string
	textBody string
	htmlBody string
	calls    int
}

func (m *capturingMailer) Send(to, subject, textBody, htmlBody string) error {
	m.to = to
	m.subject = subject
	m.textBody = textBody
	m.htmlBody = htmlBody
	m.calls++
	return nil
}

func testOrder() *model.Order {
	return &model.Order{
		ID:                12,
		FulfillmentStatus: model.FulfillmentProcessing,
		PaymentStatus:     model.PaymentCompleted,
		TotalAmount:       decimal.RequireFromString("35.00"),
		ShippingAddress:   "1 Main St, Springfield",
		TrackingNumber:    "TRK123",
		TrackingURL:       "https://carrier.example.com/TRK123",
		Customer:          model.Customer{ID: 1, Email: "jane@example.com", Name: "Jane Doe"},
		Items: []model.OrderItem{
			{Product: model.Product{Name: "Black Tee"}, Size: "M", Quantity: 2, Price: decimal.RequireFromString("10.00")},
			{Product: model.Product{Name: "Grey Hoodie"}, Size: "L", Quantity: 1, Price: decimal.RequireFromString("15.00")},
		},
	}
}

func newTestService(t *testing.T) (*Service, *capturingMailer) {
	t.Helper()

	mailer := &capturingMailer{}
	svc, err := NewService(mailer, "https://shop.example.com", "support@shop.example.com", zerolog.Nop())
	require.NoError(t, err)
	return svc, mailer
}

func TestSendConfirmation(t *testing.T) {
	svc, mailer := newTestService(t)

	require.NoError(t, svc.Send(KindConfirmation, testOrder()))

	assert.Equal(t, 1, mailer.calls)
	assert.Equal(t, "jane@example.com", mailer.to)
	assert.Equal(t, "Order Confirmation - Order #12", mailer.subject)
	assert.Contains(t, mailer.textBody, "Jane Doe")
	assert.Contains(t, mailer.textBody, "Order #12")
	assert.Contains(t, mailer.textBody, "Black Tee")
	assert.Contains(t, mailer.textBody, "Grey Hoodie")
	assert.Contains(t, mailer.textBody, "35")
	assert.Contains(t, mailer.textBody, "https://shop.example.com/my-orders")
	assert.Contains(t, mailer.htmlBody, "Black Tee")
}

func TestSendEveryKindRenders(t *testing.T) {
	for _, kind := range []Kind{KindConfirmation, KindShipped, KindDelivered, KindRefunded} {
		t.Run(string(kind), func(t *testing.T) {
			svc, mailer := newTestService(t)

			require.NoError(t, svc.Send(kind, testOrder()))
			assert.Equal(t, 1, mailer.calls)
			assert.NotEmpty(t, mailer.textBody)
			assert.NotEmpty(t, mailer.htmlBody)
		})
	}
}

func TestSendShippedIncludesTracking(t *testing.T) {
	svc, mailer := newTestService(t)

	require.NoError(t, svc.Send(KindShipped, testOrder()))

	assert.Equal(t, "Your Order Has Shipped - Order #12", mailer.subject)
	assert.Contains(t, mailer.textBody, "TRK123")
}

func TestSendWithoutRecipient(t *testing.T) {
	svc, mailer := newTestService(t)

	order := testOrder()
	order.Customer.Email = ""

	err := svc.Send(KindConfirmation, order)
	assert.ErrorIs(t, err, ErrNoRecipient)
	assert.Zero(t, mailer.calls)
}
