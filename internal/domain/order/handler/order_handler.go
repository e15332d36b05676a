package handler

import (
	"net/http"
	"course_mall/internal/domain/order/service"
	"course_mall/internal/pkg/middleware"
	"course_mall/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

type CreateOrderInput struct {
	FullName string `json:"full_name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Country  string `json:"country"`
	CartID   string `json:"cart_id" binding:"required"`
	UserID   string `json:"user_id"`
}

// CreateOrder 购物车下单
// @Summary 创建订单
// @Tags Order
// @Accept json
// @Produce json
// @Param input body CreateOrderInput true "Buyer info"
// @Success 201 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	userID := input.UserID
	if uid := middleware.GetUserID(c); uid != "" {
		userID = uid
	}

	order, err := h.service.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		FullName: input.FullName,
		Email:    input.Email,
		Country:  input.Country,
		CartID:   input.CartID,
		UserID:   userID,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Order Created Successfully!", gin.H{"order_no": order.OrderNo})
}

// Checkout 结算页
// @Summary 订单结算信息
// @Tags Order
// @Param order_no path string true "Order No"
// @Router /orders/{order_no}/checkout [get]
func (h *OrderHandler) Checkout(c *gin.Context) {
	order, err := h.service.GetCheckout(c.Request.Context(), c.Param("order_no"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, order)
}
