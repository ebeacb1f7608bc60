package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AccessTokenParser resolves an access token to the user id it was issued for.
type AccessTokenParser interface {
	ParseAccess(token string) (string, error)
}

type AuthMiddleware struct {
	parser AccessTokenParser
}

func NewAuthMiddleware(parser AccessTokenParser) *AuthMiddleware {
	return &AuthMiddleware{parser: parser}
}

// Handle rejects requests without a valid "Bearer <access token>" header
// and puts the token subject into the context under "user_id".
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		userID, err := m.parser.ParseAccess(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
