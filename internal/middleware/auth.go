package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/safeyatra/safety-backend-go/internal/models"
	"github.com/safeyatra/safety-backend-go/internal/service"
)

// Context keys set by RequireSession
const (
	ContextSession = "session"
)

// RequireSession guards protected routes. It checks the bearer token against
// the authoritative session store; a valid request also counts as activity
// and resets the inactivity countdown.
func RequireSession(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "missing bearer token",
			})
			return
		}

		session, err := auth.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "session expired",
			})
			return
		}

		c.Set(ContextSession, session)
		c.Next()
	}
}

// SessionFrom extracts the session stored by RequireSession
func SessionFrom(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(ContextSession)
	if !ok {
		return models.Session{}, false
	}
	session, ok := v.(models.Session)
	return session, ok
}

// RequireRole restricts a route to the given roles, after RequireSession
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		session, ok := SessionFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "missing session",
			})
			return
		}
		if _, ok := allowed[session.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    http.StatusForbidden,
				"message": "insufficient role",
			})
			return
		}
		c.Next()
	}
}
