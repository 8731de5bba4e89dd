package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/bus-ticket-booking/internal/utils"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the token's id and email claims into the request context.  A
// missing header or empty token is answered with 401; a token that fails
// verification (bad signature, wrong algorithm, expired) with 403.
// Handlers read the caller via `c.Get("user_id")` (uint64) and
// `c.Get("email")` (string).
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Authentication required"})
			}
			if !authenticate(c, secret, raw) {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid token"})
			}
			return next(c)
		}
	}
}

// OptionalJWT attaches the caller's identity when a bearer token is present
// and lets anonymous requests through untouched.  A token that is present
// but invalid is still rejected with 403.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") == "" {
				return next(c)
			}
			raw, ok := bearerToken(c)
			if !ok || !authenticate(c, secret, raw) {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid token"})
			}
			return next(c)
		}
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}

func authenticate(c echo.Context, secret, raw string) bool {
	claims, err := utils.ParseAccessToken(secret, raw)
	if err != nil {
		return false
	}
	c.Set(CtxUserID, claims.ID)
	c.Set(CtxEmail, claims.Email)
	return true
}
