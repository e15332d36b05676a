package cart

import (
	"course_mall/internal/domain/cart/handler"
	"course_mall/internal/domain/cart/repository"
	"course_mall/internal/domain/cart/service"
	catalogRepo "course_mall/internal/domain/catalog/repository"
	"course_mall/internal/pkg/config"
	"course_mall/internal/pkg/middleware"
	"course_mall/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// CartModule 购物车模块
type CartModule struct{}

func init() {
	registry.Register(&CartModule{})
}

func (m *CartModule) Name() string {
	return "cart"
}

func (m *CartModule) Priority() int {
	return 20
}

func (m *CartModule) Init(ctx *registry.ModuleContext) error {
	cService := service.NewCartService(
		repository.NewCartRepository(ctx.DB),
		catalogRepo.NewCatalogRepository(ctx.DB),
		config.GlobalConfig.App.DefaultCountry,
	)
	setupRoutes(ctx.Router, handler.NewCartHandler(cService))
	return nil
}

// 购物车支持匿名用户
func setupRoutes(r *gin.Engine, h *handler.CartHandler) {
	g := r.Group("/cart", middleware.OptionalAuthMiddleware())
	{
		g.POST("/items", h.AddItem)
		g.GET("/:cart_id/items", h.List)
		g.GET("/:cart_id/count", h.Count)
		g.GET("/:cart_id/stats", h.Stats)
		g.DELETE("/:cart_id/items/:item_id", h.DeleteItem)
	}
}
