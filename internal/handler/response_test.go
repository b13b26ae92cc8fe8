package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: fmt.Errorf("order 1: %w", service.ErrNotFound), status: http.StatusNotFound},
		{name: "invalid argument", err: fmt.Errorf("bad size: %w", service.ErrInvalidArgument), status: http.StatusBadRequest},
		{name: "invalid state", err: fmt.Errorf("cart is empty: %w", service.ErrInvalidState), status: http.StatusConflict},
		{name: "permission denied", err: fmt.Errorf("order 1: %w", service.ErrPermissionDenied), status: http.StatusForbidden},
		{name: "payment not confirmed", err: fmt.Errorf("status pending: %w", service.ErrPaymentNotConfirmed), status: http.StatusPaymentRequired},
		{name: "gateway", err: &service.GatewayError{Op: "create refund", Err: errors.New("down")}, status: http.StatusBadGateway},
	}

	e := echo.New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, respondError(c, tc.err))
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestRespondErrorUnknownBubblesUp(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := errors.New("something internal")
	assert.Equal(t, err, respondError(c, err))
	assert.Zero(t, rec.Body.Len())
}
