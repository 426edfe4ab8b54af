package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"teamtrack/internal/obs"
	"teamtrack/internal/repositories"
	"teamtrack/internal/services"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// AuthMiddleware is the access gate. Order matters: the revocation
// lookup runs before any signature parsing, so a revoked token is
// rejected without paying the validation cost.
func AuthMiddleware(tokens services.TokenService, ledger repositories.RevocationLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		tokenStr, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		revoked, err := ledger.IsRevoked(c.Request.Context(), tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if revoked {
			obs.TokenRejectionsTotal.WithLabelValues("revoked").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "This token has been revoked."})
			return
		}

		claims, err := tokens.Validate(tokenStr)
		if err != nil {
			obs.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// bearerToken pulls the raw token out of the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tokenStr := strings.TrimSpace(parts[1])
	if tokenStr == "" {
		return "", false
	}
	return tokenStr, true
}

// BearerToken is the exported variant for handlers that need the raw
// token (logout stores it in the revocation ledger).
func BearerToken(c *gin.Context) (string, bool) {
	return bearerToken(c)
}
