package middlewares

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireRole admits any of roles. It must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	want := strings.Join(roles, " or ")

	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)
		if !ok || role == "" {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "Missing identity context")
			return
		}
		if !slices.Contains(roles, role) {
			abortJSON(c, http.StatusForbidden, "forbidden", want+" role required")
			return
		}
		c.Next()
	}
}
