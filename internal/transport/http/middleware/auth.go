package middleware

import (
	"net/http"
	"strings"

	"github.com/ErlanBelekov/travel-buddy/internal/reqctx"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const errUnauthorized = "Unauthorized"

// AccountIDKey is the gin context key holding the authenticated account ID.
const AccountIDKey = "accountID"

// Auth validates a Bearer HS256 session token and stores the subject as the
// account ID in both the gin context and the request context.
func Auth(jwtKey []byte) gin.HandlerFunc {
	keyFunc := func(*jwt.Token) (any, error) { return jwtKey, nil }

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(rawToken, claims, keyFunc,
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		)
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		accountID, err := claims.GetSubject()
		if err != nil || accountID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set(AccountIDKey, accountID)
		c.Request = c.Request.WithContext(reqctx.WithAccountID(c.Request.Context(), accountID))
		c.Next()
	}
}
