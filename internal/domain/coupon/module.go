package coupon

import (
	"course_mall/internal/domain/coupon/handler"
	"course_mall/internal/domain/coupon/repository"
	"course_mall/internal/domain/coupon/service"
	orderRepo "course_mall/internal/domain/order/repository"
	userRepo "course_mall/internal/domain/user/repository"
	userService "course_mall/internal/domain/user/service"
	"course_mall/internal/pkg/middleware"
	"course_mall/internal/pkg/registry"
	"course_mall/pkg/database"

	"github.com/gin-gonic/gin"
)

// CouponModule 优惠券模块
type CouponModule struct{}

func init() {
	registry.Register(&CouponModule{})
}

func (m *CouponModule) Name() string {
	return "coupon"
}

func (m *CouponModule) Priority() int {
	return 30
}

func (m *CouponModule) Init(ctx *registry.ModuleContext) error {
	tx := database.NewTransactor(ctx.DB)
	cService := service.NewCouponService(
		repository.NewCouponRepository(ctx.DB),
		orderRepo.NewOrderRepository(ctx.DB),
		tx,
		ctx.Metrics,
		ctx.Logger.Named("coupon"),
	)
	h := handler.NewCouponHandler(cService)

	uService := userService.NewUserService(userRepo.NewUserRepository(ctx.DB), tx)
	setupRoutes(ctx.Router, h, middleware.TeacherMiddleware(uService.TeacherIDByUserID))
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CouponHandler, teacherOnly gin.HandlerFunc) {
	// 匿名订单同样可以用券
	r.POST("/coupons/apply", h.Apply)

	teacher := r.Group("/teacher/coupons", middleware.AuthMiddleware(), teacherOnly)
	{
		teacher.GET("", h.List)
		teacher.POST("", h.Create)
		teacher.GET("/:id", h.Get)
		teacher.PUT("/:id", h.Update)
		teacher.DELETE("/:id", h.Delete)
	}
}
