package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject, name string, admin bool) string {
	t.Helper()

	claims := sessionClaims{
		Name:  name,
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func runAuth(t *testing.T, mw echo.MiddlewareFunc, authorization string) (*httptest.ResponseRecorder, Identity, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var ident Identity
	var seen bool
	handler := mw(func(c echo.Context) error {
		ident, seen = IdentityFrom(c)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, ident, seen
}

func TestAuthValidToken(t *testing.T) {
	token := signToken(t, testSecret, "jane@example.com", "Jane Doe", false)

	rec, ident, seen := runAuth(t, Auth(testSecret), "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, seen)
	assert.Equal(t, "jane@example.com", ident.Email)
	assert.Equal(t, "Jane Doe", ident.Name)
	assert.False(t, ident.Admin)
}

func TestAuthMissingToken(t *testing.T) {
	rec, _, seen := runAuth(t, Auth(testSecret), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, seen)
}

func TestAuthWrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", "jane@example.com", "Jane Doe", false)

	rec, _, seen := runAuth(t, Auth(testSecret), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, seen)
}

func TestAuthMissingSubject(t *testing.T) {
	token := signToken(t, testSecret, "", "Jane Doe", false)

	rec, _, seen := runAuth(t, Auth(testSecret), "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, seen)
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()

	run := func(ident *Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if ident != nil {
			c.Set(identityKey, *ident)
		}
		handler := RequireAdmin()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		if err := handler(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec
	}

	assert.Equal(t, http.StatusOK, run(&Identity{Email: "ops@example.com", Admin: true}).Code)
	assert.Equal(t, http.StatusForbidden, run(&Identity{Email: "jane@example.com"}).Code)
	assert.Equal(t, http.StatusForbidden, run(nil).Code)
}

func TestCartSessionAllocatesToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var token string
	handler := CartSession()(func(c echo.Context) error {
		token = CartSessionFrom(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	assert.NotEmpty(t, token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "cart_session", cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCartSessionReusesCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "cart_session", Value: "existing-token"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var token string
	handler := CartSession()(func(c echo.Context) error {
		token = CartSessionFrom(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	assert.Equal(t, "existing-token", token)
	assert.Empty(t, rec.Result().Cookies())
}
