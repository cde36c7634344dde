package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/domain/entity"
	"github.com/storelane/storelane-api/pkg/helpers"
	"github.com/storelane/storelane-api/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxRoleKey   = "role"
)

// Auth extracts the bearer token from the Authorization header, verifies
// it and sets the user id and role in the Gin context. A missing or
// malformed header is unauthenticated (401); a token that fails
// verification is a bad request (400).
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		claims, err := jwt.Parse(parts[1])
		if err != nil {
			response.AbortError(c, http.StatusBadRequest, "invalid token", err.Error())
			return
		}
		role := entity.Role(claims.Role)
		if !role.Valid() {
			response.AbortError(c, http.StatusBadRequest, "invalid token", "unknown role")
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxRoleKey, string(role))
		c.Next()
	}
}

// RoleFromCtx returns the role set by Auth, or "" when unauthenticated.
func RoleFromCtx(c *gin.Context) entity.Role {
	return entity.Role(c.GetString(CtxRoleKey))
}
