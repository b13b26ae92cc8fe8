package handler

import (
	"net/http"

	"storefront/internal/dto"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// AdminHandler is the back-office surface: product management, order
// oversight and customer lookup. All routes require an administrator token.
type AdminHandler struct {
	catalogService service.CatalogService
	orderService   service.OrderService
}

func NewAdminHandler(catalogService service.CatalogService, orderService service.OrderService) *AdminHandler {
	return &AdminHandler{
		catalogService: catalogService,
		orderService:   orderService,
	}
}

func (h *AdminHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.catalogService.ListAllProducts(ctx)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]dto.ProductView, len(products))
	for i, p := range products {
		views[i] = dto.NewProductView(p)
	}

	return c.JSON(http.StatusOK, views)
}

func productFromRequest(req *dto.ProductRequest) *model.Product {
	return &model.Product{
		CategoryID:     req.CategoryID,
		Slug:           req.Slug,
		Name:           req.Name,
		Description:    req.Description,
		Price:          decimal.NewFromFloat(req.Price).Round(2),
		Stock:          req.Stock,
		AvailableSizes: req.AvailableSizes,
		Active:         req.Active,
	}
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	product := productFromRequest(&req)
	if err := h.catalogService.CreateProduct(ctx, product); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.NewProductView(product))
}

func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := itemIDParam(c)
	if err != nil {
		return err
	}

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	product := productFromRequest(&req)
	product.ID = productID
	if err := h.catalogService.UpdateProduct(ctx, product); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewProductView(product))
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := itemIDParam(c)
	if err != nil {
		return err
	}

	if err := h.catalogService.RetireProduct(ctx, productID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"product_id": productID,
	})
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.ListAll(ctx)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]dto.OrderView, len(orders))
	for i, order := range orders {
		views[i] = dto.NewOrderView(order)
	}

	return c.JSON(http.StatusOK, views)
}

func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := orderIDParam(c)
	if err != nil {
		return err
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err = h.orderService.UpdateStatus(ctx, orderID, model.FulfillmentStatus(req.Status), req.TrackingNumber, req.TrackingURL)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"order_id": orderID,
		"status":   req.Status,
	})
}

func (h *AdminHandler) ListCustomers(c echo.Context) error {
	ctx := c.Request().Context()

	customers, err := h.orderService.ListCustomers(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, customers)
}
