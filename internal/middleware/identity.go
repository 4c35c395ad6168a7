package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// identityKey returns a stable identifier for the requester, used to
// build rate-limit and cache keys. Authenticated requests use the
// "user_id" context value set by JWTAuth; anonymous ones are "guest".
func identityKey(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "guest"
	}
	switch id := v.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return fmt.Sprintf("%.0f", id)
	case uint64:
		return fmt.Sprintf("%d", id)
	}
	return "guest"
}
