package order

import (
	cartRepo "course_mall/internal/domain/cart/repository"
	"course_mall/internal/domain/order/handler"
	"course_mall/internal/domain/order/repository"
	"course_mall/internal/domain/order/service"
	userRepo "course_mall/internal/domain/user/repository"
	"course_mall/internal/pkg/middleware"
	"course_mall/internal/pkg/registry"
	"course_mall/pkg/database"

	"github.com/gin-gonic/gin"
)

// OrderModule 订单模块
type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	return 20
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	oService := service.NewOrderService(
		repository.NewOrderRepository(ctx.DB),
		cartRepo.NewCartRepository(ctx.DB),
		userRepo.NewUserRepository(ctx.DB),
		database.NewTransactor(ctx.DB),
		ctx.Metrics,
		ctx.Logger.Named("order"),
	)
	setupRoutes(ctx.Router, handler.NewOrderHandler(oService))
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	g := r.Group("/orders", middleware.OptionalAuthMiddleware())
	{
		g.POST("", h.CreateOrder)
		g.GET("/:order_no/checkout", h.Checkout)
	}
}
