// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guanl20/Blocktrust/internal/i18n"
	"github.com/guanl20/Blocktrust/internal/utils"
)

// AuthRequired resolves the bearer token to a caller account. Role checks
// are not done here; the services consult the registry on every call.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
			c.Abort()
			return
		}

		claims, ok := parseBearer(authHeader)
		if !ok {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			c.Abort()
			return
		}

		c.Set("account", claims.Account)
		c.Next()
	}
}

// Extract token from "Bearer <token>"
func parseBearer(header string) (*utils.JWTClaims, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}

	claims, err := utils.ValidateJWT(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, false
	}
	return claims, true
}
