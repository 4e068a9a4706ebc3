package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fleet/internal/service"
)

// actorKey is the gin context key the authenticated principal is stored
// under. Handlers read it back via their own accessor.
const actorKey = "actor"

// AuthMiddleware returns middleware that authenticates requests with a
// bearer access token and stores the resulting actor in the context.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		actor, err := authService.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidToken.Error()})
			return
		}

		c.Set(actorKey, *actor)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
