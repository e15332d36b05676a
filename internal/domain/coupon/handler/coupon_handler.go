package handler

import (
	"net/http"
	"course_mall/internal/domain/coupon/model"
	"course_mall/internal/domain/coupon/service"
	"course_mall/internal/pkg/middleware"
	"course_mall/pkg/response"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	service service.CouponService
}

func NewCouponHandler(s service.CouponService) *CouponHandler {
	return &CouponHandler{service: s}
}

type ApplyInput struct {
	OrderNo    string `json:"order_no" binding:"required"`
	CouponCode string `json:"coupon_code" binding:"required"`
}

type CouponInput struct {
	Code     string `json:"code" binding:"required,coupon_code"`
	Discount int    `json:"discount" binding:"min=0,max=100"`
	Active   *bool  `json:"active"`
}

var applyMessages = map[model.ApplyOutcome]string{
	model.OutcomeApplied:        "Coupon Found and Activated.",
	model.OutcomeAlreadyApplied: "Coupon Already Applied.",
	model.OutcomeNotApplicable:  "Coupon does not apply to any course in this order.",
}

// Apply 订单使用优惠券
// @Summary 使用优惠券
// @Tags Coupon
// @Accept json
// @Produce json
// @Param input body ApplyInput true "Order and coupon"
// @Success 201 {object} response.Response{data=model.ApplyResult}
// @Router /coupons/apply [post]
func (h *CouponHandler) Apply(c *gin.Context) {
	var input ApplyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	result, err := h.service.Apply(c.Request.Context(), input.OrderNo, input.CouponCode)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if result.Outcome == model.OutcomeApplied {
		response.Created(c, applyMessages[result.Outcome], result)
		return
	}
	response.Message(c, applyMessages[result.Outcome], result)
}

// List 讲师优惠券
// @Summary 讲师优惠券列表
// @Tags Teacher
// @Security BearerAuth
// @Router /teacher/coupons [get]
func (h *CouponHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), middleware.GetTeacherID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}

// Get 优惠券详情
// @Summary 优惠券详情
// @Tags Teacher
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Router /teacher/coupons/{id} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	coupon, err := h.service.Get(c.Request.Context(), middleware.GetTeacherID(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, coupon)
}

// Create 新建优惠券
// @Summary 新建优惠券
// @Tags Teacher
// @Security BearerAuth
// @Param input body CouponInput true "Coupon"
// @Router /teacher/coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	var input CouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	coupon, err := h.service.Create(c.Request.Context(), middleware.GetTeacherID(c), toServiceInput(input))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Coupon created", coupon)
}

// Update 修改优惠券
// @Summary 修改优惠券
// @Tags Teacher
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Param input body CouponInput true "Coupon"
// @Router /teacher/coupons/{id} [put]
func (h *CouponHandler) Update(c *gin.Context) {
	var input CouponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	coupon, err := h.service.Update(c.Request.Context(), middleware.GetTeacherID(c), c.Param("id"), toServiceInput(input))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Coupon updated", coupon)
}

// Delete 删除优惠券
// @Summary 删除优惠券
// @Tags Teacher
// @Security BearerAuth
// @Param id path string true "Coupon ID"
// @Router /teacher/coupons/{id} [delete]
func (h *CouponHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.GetTeacherID(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Coupon deleted", nil)
}

func toServiceInput(in CouponInput) service.CouponInput {
	return service.CouponInput{Code: in.Code, Discount: in.Discount, Active: in.Active}
}
