// internal/middleware/billing_auth.go
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"sokohub-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// BillingAuthMiddleware authenticates calls from the billing collaborator
// with a shared-secret HMAC token. Only the billing boundary endpoints use
// it; vendor identity itself is handled outside this service.
type BillingAuthMiddleware struct {
	secret []byte
	issuer string
}

func NewBillingAuthMiddleware(secret, issuer string) *BillingAuthMiddleware {
	return &BillingAuthMiddleware{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Auth validates the bearer token on billing webhook requests.
func (m *BillingAuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(m.secret) == 0 {
			// No secret configured: local/dev mode, requests pass through.
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}

		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())

		if err != nil || !parsed.Valid {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", err)
			return
		}

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
