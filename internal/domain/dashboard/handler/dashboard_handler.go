package handler

import (
	"net/http"
	"course_mall/internal/domain/dashboard/service"
	"course_mall/internal/pkg/middleware"
	"course_mall/pkg/response"
	"course_mall/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// Summary 讲师概览
// @Summary 讲师概览
// @Tags Teacher
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /teacher/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	sum, err := h.service.Summary(c.Request.Context(), middleware.GetTeacherID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, sum)
}

// MonthlyEarnings 月度收入
// @Summary 月度收入
// @Tags Teacher
// @Security BearerAuth
// @Router /teacher/dashboard/earnings [get]
func (h *DashboardHandler) MonthlyEarnings(c *gin.Context) {
	list, err := h.service.MonthlyEarnings(c.Request.Context(), middleware.GetTeacherID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}

// BestSellers 畅销课程
// @Summary 畅销课程
// @Tags Teacher
// @Security BearerAuth
// @Router /teacher/dashboard/best-sellers [get]
func (h *DashboardHandler) BestSellers(c *gin.Context) {
	list, err := h.service.BestSellers(c.Request.Context(), middleware.GetTeacherID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}

// CourseOrders 课程订单
// @Summary 课程订单
// @Tags Teacher
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Router /teacher/dashboard/orders [get]
func (h *DashboardHandler) CourseOrders(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	result, err := h.service.CourseOrders(c.Request.Context(), middleware.GetTeacherID(c), page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}
