package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/dto"
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
)

const defaultProductLimit = 12

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	limit := defaultProductLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	products, err := h.catalogService.ListProducts(ctx, limit)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]dto.ProductView, len(products))
	for i, p := range products {
		views[i] = dto.NewProductView(p)
	}

	return c.JSON(http.StatusOK, views)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.catalogService.GetProductBySlug(ctx, c.Param("slug"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewProductView(product))
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.catalogService.ListCategories(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, categories)
}
