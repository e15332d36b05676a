package dashboard

import (
	"course_mall/internal/domain/dashboard/handler"
	"course_mall/internal/domain/dashboard/repository"
	"course_mall/internal/domain/dashboard/service"
	userRepo "course_mall/internal/domain/user/repository"
	userService "course_mall/internal/domain/user/service"
	"course_mall/internal/pkg/middleware"
	"course_mall/internal/pkg/registry"
	"course_mall/pkg/cache"
	"course_mall/pkg/database"

	"github.com/gin-gonic/gin"
)

// DashboardModule 讲师数据看板
type DashboardModule struct{}

func init() {
	registry.Register(&DashboardModule{})
}

func (m *DashboardModule) Name() string {
	return "dashboard"
}

func (m *DashboardModule) Priority() int {
	return 50
}

func (m *DashboardModule) Init(ctx *registry.ModuleContext) error {
	if ctx.ReportDB == nil {
		ctx.Logger.Warn("report db not configured, dashboard disabled")
		return nil
	}

	var c cache.CacheService
	if ctx.Redis != nil {
		c = cache.NewRedisCache(ctx.Redis, "course_mall:", ctx.Metrics)
	}
	dService := service.NewDashboardService(repository.NewDashboardRepository(ctx.ReportDB), c, ctx.Logger)
	h := handler.NewDashboardHandler(dService)

	uService := userService.NewUserService(userRepo.NewUserRepository(ctx.DB), database.NewTransactor(ctx.DB))
	setupRoutes(ctx.Router, h, middleware.TeacherMiddleware(uService.TeacherIDByUserID))
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.DashboardHandler, teacherOnly gin.HandlerFunc) {
	g := r.Group("/teacher/dashboard", middleware.AuthMiddleware(), teacherOnly)
	{
		g.GET("/summary", h.Summary)
		g.GET("/earnings", h.MonthlyEarnings)
		g.GET("/best-sellers", h.BestSellers)
		g.GET("/orders", h.CourseOrders)
	}
}
