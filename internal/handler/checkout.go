package handler

import (
	"fmt"
	"net/http"

	"storefront/internal/dto"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

func actorFrom(c echo.Context) (service.Actor, error) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return service.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return service.Actor{Email: ident.Email, Name: ident.Name, Admin: ident.Admin}, nil
}

func (h *CheckoutHandler) BeginCheckout(c echo.Context) error {
	ctx := c.Request().Context()

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	resp, err := h.checkoutService.BeginCheckout(ctx, middleware.CartSessionFrom(c), actor)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *CheckoutHandler) Confirm(c echo.Context) error {
	ctx := c.Request().Context()

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req dto.ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.PaymentIntentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "payment_intent_id is required")
	}

	orderID, err := h.checkoutService.Confirm(ctx, req.PaymentIntentID, middleware.CartSessionFrom(c), actor, req.ShippingAddress)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ConfirmResponse{
		Success: true,
		OrderID: orderID,
		Message: fmt.Sprintf("Order #%d placed successfully!", orderID),
	})
}
