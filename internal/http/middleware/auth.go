package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"eventadmin/internal/domain"
)

const callerKey = "caller"

// Auth validates the Bearer token and attaches the caller identity to the
// context. Everything behind it trusts that identity without re-verifying.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}

		userID, _ := claims["user_id"].(float64)
		role, _ := claims["role"].(string)
		email, _ := claims["email"].(string)
		name, _ := claims["name"].(string)
		if userID <= 0 || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}

		SetCaller(c, domain.Caller{ID: int64(userID), Role: role, Email: email, Name: name})
		c.Next()
	}
}

// SetCaller stores the authenticated identity on the context. Exposed for
// handler tests.
func SetCaller(c *gin.Context, caller domain.Caller) {
	c.Set(callerKey, caller)
}

// GetCaller returns the authenticated identity attached by Auth.
func GetCaller(c *gin.Context) (domain.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return domain.Caller{}, false
	}
	caller, ok := v.(domain.Caller)
	return caller, ok
}
