package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/dto"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func cartEnvelope(cart *model.Cart, message string) dto.CartResponse {
	price, _ := cart.TotalPrice().Float64()
	return dto.CartResponse{
		Success:   true,
		Message:   message,
		CartTotal: cart.TotalItems(),
		CartPrice: price,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.GetCart(ctx, middleware.CartSessionFrom(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewCartView(cart))
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.cartService.AddItem(ctx, middleware.CartSessionFrom(c), req.ProductID, req.Size, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, cartEnvelope(cart, "added to cart"))
}

func itemIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	return uint(id), nil
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := itemIDParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	cart, err := h.cartService.UpdateItem(ctx, middleware.CartSessionFrom(c), itemID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, cartEnvelope(cart, ""))
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	itemID, err := itemIDParam(c)
	if err != nil {
		return err
	}

	cart, err := h.cartService.RemoveItem(ctx, middleware.CartSessionFrom(c), itemID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, cartEnvelope(cart, ""))
}
