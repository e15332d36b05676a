package enrollment

import (
	catalogRepo "course_mall/internal/domain/catalog/repository"
	"course_mall/internal/domain/enrollment/handler"
	"course_mall/internal/domain/enrollment/repository"
	"course_mall/internal/domain/enrollment/service"
	"course_mall/internal/pkg/middleware"
	"course_mall/internal/pkg/registry"
	"course_mall/pkg/database"

	"github.com/gin-gonic/gin"
)

// EnrollmentModule 选课与学习进度
type EnrollmentModule struct{}

func init() {
	registry.Register(&EnrollmentModule{})
}

func (m *EnrollmentModule) Name() string {
	return "enrollment"
}

func (m *EnrollmentModule) Priority() int {
	return 30
}

func (m *EnrollmentModule) Init(ctx *registry.ModuleContext) error {
	eService := service.NewEnrollmentService(
		repository.NewEnrollmentRepository(ctx.DB),
		catalogRepo.NewCatalogRepository(ctx.DB),
		database.NewTransactor(ctx.DB),
	)
	setupRoutes(ctx.Router, handler.NewEnrollmentHandler(eService))
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.EnrollmentHandler) {
	student := r.Group("/student", middleware.AuthMiddleware())
	{
		student.GET("/courses", h.ListCourses)
		student.GET("/courses/:enrollment_id", h.GetCourse)
		student.POST("/lessons/toggle", h.ToggleLesson)
		student.POST("/lessons/sync", h.SyncLessons)
		student.GET("/summary", h.Summary)
	}
}
