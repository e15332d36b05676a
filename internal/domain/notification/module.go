package notification

import (
	"course_mall/internal/domain/notification/handler"
	"course_mall/internal/domain/notification/repository"
	"course_mall/internal/domain/notification/service"
	userRepo "course_mall/internal/domain/user/repository"
	userService "course_mall/internal/domain/user/service"
	"course_mall/internal/pkg/middleware"
	"course_mall/internal/pkg/registry"
	"course_mall/pkg/database"

	"github.com/gin-gonic/gin"
)

// NotificationModule 通知模块
type NotificationModule struct{}

func init() {
	registry.Register(&NotificationModule{})
}

func (m *NotificationModule) Name() string {
	return "notification"
}

func (m *NotificationModule) Priority() int {
	return 5
}

func (m *NotificationModule) Init(ctx *registry.ModuleContext) error {
	nService := service.NewNotificationService(repository.NewNotificationRepository(ctx.DB))
	h := handler.NewNotificationHandler(nService)

	uService := userService.NewUserService(userRepo.NewUserRepository(ctx.DB), database.NewTransactor(ctx.DB))
	setupRoutes(ctx.Router, h, middleware.TeacherMiddleware(uService.TeacherIDByUserID))
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.NotificationHandler, teacherOnly gin.HandlerFunc) {
	teacher := r.Group("/teacher", middleware.AuthMiddleware(), teacherOnly)
	{
		teacher.GET("/notifications", h.TeacherUnseen)
		teacher.PATCH("/notifications/:id/seen", h.MarkSeen)
	}

	student := r.Group("/student", middleware.AuthMiddleware())
	{
		student.GET("/notifications", h.StudentList)
	}
}
