package handler

import (
	"net/http"
	"course_mall/internal/domain/enrollment/service"
	"course_mall/internal/pkg/middleware"
	"course_mall/pkg/response"

	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	service service.EnrollmentService
}

func NewEnrollmentHandler(s service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: s}
}

type ToggleInput struct {
	CourseID      string `json:"course_id" binding:"required"`
	VariantItemID string `json:"variant_item_id" binding:"required"`
}

type SyncInput struct {
	CourseID            string   `json:"course_id" binding:"required"`
	CompletedVariantIDs []string `json:"completed_variant_ids"`
}

// ListCourses 我的课程
// @Summary 学生已购课程
// @Tags Student
// @Security BearerAuth
// @Router /student/courses [get]
func (h *EnrollmentHandler) ListCourses(c *gin.Context) {
	list, err := h.service.ListStudentCourses(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}

// GetCourse 已购课程详情
// @Summary 学生课程详情
// @Tags Student
// @Security BearerAuth
// @Param enrollment_id path string true "Enrollment ID"
// @Router /student/courses/{enrollment_id} [get]
func (h *EnrollmentHandler) GetCourse(c *gin.Context) {
	detail, err := h.service.GetStudentCourse(c.Request.Context(), middleware.GetUserID(c), c.Param("enrollment_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, detail)
}

// ToggleLesson 标记/取消课时完成
// @Summary 切换课时完成状态
// @Tags Student
// @Security BearerAuth
// @Param input body ToggleInput true "Lesson"
// @Router /student/lessons/toggle [post]
func (h *EnrollmentHandler) ToggleLesson(c *gin.Context) {
	var input ToggleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	done, err := h.service.ToggleCompletedLesson(c.Request.Context(), middleware.GetUserID(c), input.CourseID, input.VariantItemID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	msg := "Lesson marked as not completed"
	if done {
		msg = "Lesson marked as completed"
	}
	response.Message(c, msg, gin.H{"completed": done})
}

// SyncLessons 批量同步完成状态
// @Summary 同步课时完成状态
// @Tags Student
// @Security BearerAuth
// @Param input body SyncInput true "Completed lessons"
// @Router /student/lessons/sync [post]
func (h *EnrollmentHandler) SyncLessons(c *gin.Context) {
	var input SyncInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	result, err := h.service.SyncCompletedLessons(c.Request.Context(), middleware.GetUserID(c), input.CourseID, input.CompletedVariantIDs)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}

// Summary 学习概览
// @Summary 学生学习概览
// @Tags Student
// @Security BearerAuth
// @Router /student/summary [get]
func (h *EnrollmentHandler) Summary(c *gin.Context) {
	summary, err := h.service.StudentSummary(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, summary)
}
