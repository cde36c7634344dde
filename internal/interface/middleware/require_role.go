package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/domain/entity"
	"github.com/storelane/storelane-api/pkg/response"
)

// RequireRole allows the request through only when the authenticated role
// is in the allowed set. Routes declare their permission set here instead
// of comparing role strings inline. Must run after Auth.
func RequireRole(allowed ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := RoleFromCtx(c)
		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}
		response.AbortError(c, http.StatusForbidden, "insufficient role", nil)
	}
}

// RequireSelfOrRole admits the user whose id matches the given route
// parameter, or anyone holding one of the allowed roles.
func RequireSelfOrRole(idParam string, allowed ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserIDKey) == c.Param(idParam) {
			c.Next()
			return
		}
		role := RoleFromCtx(c)
		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}
		response.AbortError(c, http.StatusForbidden, "insufficient role", nil)
	}
}
