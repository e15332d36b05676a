package handler

import (
	"course_mall/internal/domain/notification/service"
	"course_mall/internal/pkg/middleware"
	"course_mall/pkg/response"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service service.NotificationService
}

func NewNotificationHandler(s service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: s}
}

// TeacherUnseen 讲师未读通知
// @Summary 讲师未读通知
// @Tags Teacher
// @Security BearerAuth
// @Router /teacher/notifications [get]
func (h *NotificationHandler) TeacherUnseen(c *gin.Context) {
	list, err := h.service.ListTeacherUnseen(c.Request.Context(), middleware.GetTeacherID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}

// MarkSeen 标记已读
// @Summary 标记通知已读
// @Tags Teacher
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Router /teacher/notifications/{id}/seen [patch]
func (h *NotificationHandler) MarkSeen(c *gin.Context) {
	if err := h.service.MarkSeen(c.Request.Context(), middleware.GetTeacherID(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Notification marked as seen", nil)
}

// StudentList 学生通知
// @Summary 学生通知列表
// @Tags Student
// @Security BearerAuth
// @Router /student/notifications [get]
func (h *NotificationHandler) StudentList(c *gin.Context) {
	list, err := h.service.ListStudent(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}
