package handler

import (
	"net/http"
	"course_mall/internal/domain/cart/service"
	"course_mall/internal/pkg/middleware"
	"course_mall/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CartHandler struct {
	service service.CartService
}

func NewCartHandler(s service.CartService) *CartHandler {
	return &CartHandler{service: s}
}

type AddItemInput struct {
	CartID      string          `json:"cart_id" binding:"required,max=64"`
	CourseID    string          `json:"course_id" binding:"required"`
	UserID      string          `json:"user_id"`
	Price       decimal.Decimal `json:"price" binding:"money"`
	CountryName string          `json:"country_name"`
}

// AddItem 加入购物车
// @Summary 加入购物车
// @Tags Cart
// @Accept json
// @Produce json
// @Param input body AddItemInput true "Cart item"
// @Success 201 {object} response.Response
// @Success 200 {object} response.Response
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var input AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	// 已登录时以 token 中的用户为准
	userID := input.UserID
	if uid := middleware.GetUserID(c); uid != "" {
		userID = uid
	}

	item, created, err := h.service.AddItem(c.Request.Context(), service.AddItemInput{
		CartID:   input.CartID,
		CourseID: input.CourseID,
		UserID:   userID,
		Price:    input.Price,
		Country:  input.CountryName,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	if created {
		response.Created(c, "Cart Created Successfully!", item)
		return
	}
	response.Message(c, "Cart Updated Successfully!", item)
}

// List 购物车列表
// @Summary 购物车列表
// @Tags Cart
// @Param cart_id path string true "Cart ID"
// @Router /cart/{cart_id}/items [get]
func (h *CartHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.Param("cart_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, items)
}

// Count 购物车数量
// @Summary 购物车数量
// @Tags Cart
// @Param cart_id path string true "Cart ID"
// @Router /cart/{cart_id}/count [get]
func (h *CartHandler) Count(c *gin.Context) {
	n, err := h.service.Count(c.Request.Context(), c.Param("cart_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"count": n})
}

// Stats 购物车汇总
// @Summary 购物车汇总
// @Tags Cart
// @Param cart_id path string true "Cart ID"
// @Router /cart/{cart_id}/stats [get]
func (h *CartHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), c.Param("cart_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, stats)
}

// DeleteItem 删除购物车条目
// @Summary 删除购物车条目
// @Tags Cart
// @Param cart_id path string true "Cart ID"
// @Param item_id path string true "Item ID"
// @Router /cart/{cart_id}/items/{item_id} [delete]
func (h *CartHandler) DeleteItem(c *gin.Context) {
	if err := h.service.DeleteItem(c.Request.Context(), c.Param("cart_id"), c.Param("item_id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Cart item deleted", nil)
}
