package middlewares

import (
	"net/http"
	"strings"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/common"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/responses"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/tokens"
	"github.com/labstack/echo/v4"
)

// CallAuth reads the bearer call token and exposes the caller identity and
// logical clock under the Caller and Clock context keys.
func CallAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
			}

			claims, err := tokens.ParseCallToken(secret, raw)
			if err != nil {
				c.Logger().Debugf("Rejected call token: %v", err)
				return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
			}

			c.Set(common.ContextKeyCaller, claims.Identity)
			c.Set(common.ContextKeyClock, claims.Clock)

			return next(c)
		}
	}
}
