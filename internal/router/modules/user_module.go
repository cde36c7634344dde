package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/domain/entity"
	handlers "github.com/storelane/storelane-api/internal/interface/http"
	"github.com/storelane/storelane-api/internal/interface/middleware"
	"github.com/storelane/storelane-api/pkg/helpers"
)

// UserModule wires user administration routes. Every route requires
// authentication; listing and deletion are admin only, while a user may
// read and update their own record.

type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.Auth(m.JWT))
	{
		users.GET("", middleware.RequireRole(entity.RoleAdmin), m.Handler.List)
		users.GET("/:id", middleware.RequireSelfOrRole("id", entity.RoleAdmin), m.Handler.Get)
		users.PUT("/:id", middleware.RequireSelfOrRole("id", entity.RoleAdmin), m.Handler.Update)
		users.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), m.Handler.Delete)
	}
}
