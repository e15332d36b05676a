package response

import (
	"net/http"
	"course_mall/pkg/bizerr"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`    // 业务码
	Message string      `json:"message"` // 提示信息
	Data    interface{} `json:"data"`    // 数据
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功 (HTTP 201)
func Created(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: msg,
		Data:    data,
	})
}

// Message 带提示信息的成功响应
func Message(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: msg,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// Fail 业务失败响应 (HTTP 200, 业务码非 0)
func Fail(c *gin.Context, errCode int, msg string) {
	c.JSON(http.StatusOK, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// FromError 根据业务错误分类输出响应，非业务错误一律 500
func FromError(c *gin.Context, err error) {
	if be, ok := bizerr.As(err); ok {
		code := be.Code
		if code == 0 {
			code = CodeError
		}
		Error(c, be.Kind.HTTPStatus(), code, be.Error())
		return
	}
	Error(c, http.StatusInternalServerError, ErrServerInternal, err.Error())
}
