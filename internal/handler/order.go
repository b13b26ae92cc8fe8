package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/dto"
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func orderIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	return uint(id), nil
}

func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	orders, err := h.orderService.ListByActor(ctx, actor)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]dto.OrderView, len(orders))
	for i, order := range orders {
		views[i] = dto.NewOrderView(order)
	}

	return c.JSON(http.StatusOK, views)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.Get(ctx, orderID, actor)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewOrderView(order))
}

func (h *OrderHandler) RefundOrder(c echo.Context) error {
	ctx := c.Request().Context()

	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	if err := h.orderService.Refund(ctx, orderID, actor); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"order_id": orderID,
		"message":  "refund processed",
	})
}
