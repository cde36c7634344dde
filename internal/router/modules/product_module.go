package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/container"
	"github.com/storelane/storelane-api/internal/domain/entity"
	handlers "github.com/storelane/storelane-api/internal/interface/http"
	"github.com/storelane/storelane-api/internal/interface/middleware"
	"github.com/storelane/storelane-api/pkg/helpers"
)

// ProductModule wires the catalog routes.
// Public: listing, search, get by id.
// Admin only: create, update, delete (all catalog mutations carry the
// same auth and role gates).

type ProductModule struct {
	Handler *handlers.ProductHandler
	JWT     *helpers.JWTManager
}

func NewProductModule(h *handlers.ProductHandler, jwt *helpers.JWTManager) *ProductModule {
	return &ProductModule{Handler: h, JWT: jwt}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	rg.GET("/products", m.Handler.List)
	rg.GET("/products/search", m.Handler.Search)
	rg.GET("/products/:id", m.Handler.Get)

	admin := rg.Group("/products")
	admin.Use(middleware.Auth(m.JWT), middleware.RequireRole(entity.RoleAdmin))
	admin.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		admin.POST("", m.Handler.Create)
		admin.PUT("/:id", m.Handler.Update)
		admin.DELETE("/:id", m.Handler.Delete)
	}
}
