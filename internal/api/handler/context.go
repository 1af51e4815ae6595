package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxPrincipal extracts the principal claims injected by the Auth middleware
// and performs a fast-fail check before any service call: a present user_id
// proves the middleware ran and resolved the account.
func ctxPrincipal(c echo.Context) (userID, subject, role string, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	subject, _ = c.Get("subject").(string)
	role, _ = c.Get("role").(string)
	return userID, subject, role, nil
}
