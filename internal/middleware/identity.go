package middleware

// identity.go holds helpers shared across middleware files.  The rate
// limiter keys buckets per user when possible, so it needs a best-effort
// way to name the caller without re-parsing the token.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID extracts a caller identifier from the Echo context.  It
// returns "anon" when no user is authenticated.  JWTAuth stores the raw
// "sub" claim, which may decode as string or number depending on the
// issuer, so both are handled.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return "anon"
}
