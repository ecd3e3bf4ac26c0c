package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "bearer "

// BearerToken returns the token carried in the Authorization header. Both
// "Bearer <token>" and a bare token are accepted.
func BearerToken(c echo.Context) string {
	h := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	if len(h) >= len(bearerPrefix) && strings.EqualFold(h[:len(bearerPrefix)], bearerPrefix) {
		h = strings.TrimSpace(h[len(bearerPrefix):])
	}
	return h
}

// subject identifies the caller for rate limiting without putting the raw
// token into Redis keys. Anonymous callers share "anon".
func subject(c echo.Context) string {
	tok := BearerToken(c)
	if tok == "" {
		return "anon"
	}
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:8])
}
