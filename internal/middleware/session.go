package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	cartCookieName  = "cart_session"
	cartSessionKey  = "cart_session"
	cookieMaxAgeSec = 60 * 60 * 24 * 14
)

// CartSession guarantees every request carries an opaque cart session token,
// allocating one on first contact.
func CartSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cartCookieName)
			if err != nil || cookie.Value == "" {
				token := uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cartCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   cookieMaxAgeSec,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				c.Set(cartSessionKey, token)
			} else {
				c.Set(cartSessionKey, cookie.Value)
			}
			return next(c)
		}
	}
}

func CartSessionFrom(c echo.Context) string {
	token, _ := c.Get(cartSessionKey).(string)
	return token
}
