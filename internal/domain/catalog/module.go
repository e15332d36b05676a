package catalog

import (
	"course_mall/internal/domain/catalog/handler"
	"course_mall/internal/domain/catalog/repository"
	"course_mall/internal/domain/catalog/service"
	notificationRepo "course_mall/internal/domain/notification/repository"
	userRepo "course_mall/internal/domain/user/repository"
	userService "course_mall/internal/domain/user/service"
	"course_mall/internal/pkg/config"
	"course_mall/internal/pkg/middleware"
	"course_mall/internal/pkg/registry"
	"course_mall/internal/pkg/uploader"
	"course_mall/pkg/database"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogModule 课程目录模块
type CatalogModule struct{}

func init() {
	registry.Register(&CatalogModule{})
}

func (m *CatalogModule) Name() string {
	return "catalog"
}

func (m *CatalogModule) Priority() int {
	return 10
}

func (m *CatalogModule) Init(ctx *registry.ModuleContext) error {
	tx := database.NewTransactor(ctx.DB)

	// OSS 未配置时不提供上传
	var up uploader.Uploader
	if config.GlobalConfig.OSS.AccessKeyID != "" {
		ossUploader, err := uploader.NewAliyunOSSUploader(config.GlobalConfig.OSS)
		if err != nil {
			ctx.Logger.Error("init oss uploader failed", zap.Error(err))
		} else {
			up = ossUploader
		}
	}

	cService := service.NewCatalogService(
		repository.NewCatalogRepository(ctx.DB),
		notificationRepo.NewNotificationRepository(ctx.DB),
		tx,
		up,
		ctx.Logger.Named("catalog"),
	)
	h := handler.NewCatalogHandler(cService)

	uService := userService.NewUserService(userRepo.NewUserRepository(ctx.DB), tx)
	setupRoutes(ctx.Router, h, middleware.TeacherMiddleware(uService.TeacherIDByUserID))
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.CatalogHandler, teacherOnly gin.HandlerFunc) {
	r.GET("/categories", h.ListCategories)

	courses := r.Group("/courses")
	{
		courses.GET("", h.ListCourses)
		courses.GET("/search", h.Search)
		courses.GET("/:slug", h.GetCourse)
		courses.GET("/:slug/reviews", h.ListReviews)
	}

	student := r.Group("/student", middleware.AuthMiddleware())
	{
		student.POST("/reviews", h.CreateReview)
	}

	teacher := r.Group("/teacher", middleware.AuthMiddleware(), teacherOnly)
	{
		teacher.GET("/courses", h.TeacherCourses)
		teacher.POST("/courses", h.CreateCourse)
		teacher.PATCH("/courses/:course_id", h.UpdateCourse)
		teacher.POST("/courses/:course_id/image", h.UploadImage)
	}

	admin := r.Group("/admin", middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/countries", h.UpsertCountry)
		admin.POST("/categories", h.CreateCategory)
	}
}
