package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// apiClaims are the claims carried by platform-issued API tokens. The
// subject is the tenant ID the token is scoped to; admin tokens carry
// Role="admin" and may act on any tenant.
type apiClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// TenantAuth returns a Gin middleware that requires a bearer token signed
// with the platform's shared secret (HS256) and scoped to the tenant in
// the request path.
func TenantAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims := &apiClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims,
			func(tok *jwt.Token) (any, error) {
				if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
				}
				return secret, nil
			},
			jwt.WithExpirationRequired(),
		)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if claims.Role == "admin" {
			c.Next()
			return
		}
		if tenant := c.Param("tenant_id"); tenant != "" && claims.Subject != tenant {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token not scoped to this tenant"})
			return
		}
		c.Next()
	}
}

// IssueAPIToken signs a tenant-scoped API token. Used by the platform's
// provisioning tooling and by tests.
func IssueAPIToken(secret []byte, tenantID, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := apiClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tenantID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign api token: %w", err)
	}
	return signed, nil
}
