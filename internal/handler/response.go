package handler

import (
	"errors"
	"net/http"

	"storefront/internal/service"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// respondError maps the service error taxonomy onto status codes. Unknown
// errors are bubbled up to echo's error handler as a 500.
func respondError(c echo.Context, err error) error {
	var gatewayErr *service.GatewayError

	status := 0
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, service.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrPaymentNotConfirmed):
		status = http.StatusPaymentRequired
	case errors.As(err, &gatewayErr):
		status = http.StatusBadGateway
	default:
		return err
	}

	return c.JSON(status, errorResponse{Success: false, Message: err.Error()})
}
