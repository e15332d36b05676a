package handler

import (
	"net/http"
	"course_mall/internal/domain/user/service"
	"course_mall/internal/pkg/middleware"
	"course_mall/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建处理器
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterInput 注册输入
type RegisterInput struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Password2 string `json:"password2" binding:"required"`
}

// LoginInput 登录输入
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TeacherInput 申请成为讲师
type TeacherInput struct {
	FullName string `json:"full_name"`
	Bio      string `json:"bio"`
	About    string `json:"about"`
	Country  string `json:"country"`
}

// Register 处理注册请求
// @Summary 注册
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body RegisterInput true "Register Info"
// @Success 201 {object} response.Response
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), service.RegisterInput{
		FullName:  input.FullName,
		Email:     input.Email,
		Password:  input.Password,
		Password2: input.Password2,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, "Registration successful", user)
}

// Login 处理登录请求
// @Summary 登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body LoginInput true "Login Info"
// @Success 200 {object} response.Response{data=service.LoginResult}
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}

// Me 当前用户
// @Summary 当前用户
// @Tags Auth
// @Security BearerAuth
// @Router /auth/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, user)
}

// BecomeTeacher 申请讲师
// @Summary 创建讲师资料
// @Tags Auth
// @Security BearerAuth
// @Param input body TeacherInput true "Teacher Profile"
// @Router /auth/teacher [post]
func (h *UserHandler) BecomeTeacher(c *gin.Context) {
	var input TeacherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	teacher, err := h.service.BecomeTeacher(c.Request.Context(), middleware.GetUserID(c), service.TeacherInput{
		FullName: input.FullName,
		Bio:      input.Bio,
		About:    input.About,
		Country:  input.Country,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Teacher profile created", teacher)
}
