package handler

import (
	"errors"
	"io"
	"net/http"

	"storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	webhookService service.WebhookService
}

func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// StripeWebhook verifies and processes asynchronous payment events. Signature
// or payload problems get a 400; everything else is acknowledged with a 200
// so the processor does not keep retrying events we will never match.
func (h *WebhookHandler) StripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	signature := c.Request().Header.Get("Stripe-Signature")
	if err := h.webhookService.HandleEvent(ctx, body, signature); err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			return c.NoContent(http.StatusBadRequest)
		}
		return err
	}

	return c.NoContent(http.StatusOK)
}
