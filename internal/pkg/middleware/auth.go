package middleware

import (
	"context"
	"net/http"
	"strings"
	"course_mall/internal/domain/user/model"
	"course_mall/pkg/response"
	"course_mall/pkg/utils"

	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	ContextUserID    = "userID"
	ContextRole      = "role"
	ContextTeacherID = "teacherID"
)

// AuthMiddleware JWT认证中间件
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid or expired token")
			c.Abort()
			return
		}

		// 将 userID 和 role 存入上下文
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// OptionalAuthMiddleware 有 token 就解析，没有也放行（匿名购物车/订单）
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(c); ok {
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextRole, claims.Role)
		}
		c.Next()
	}
}

func parseBearer(c *gin.Context) (*utils.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	// 检查格式 "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := utils.ParseToken(parts[1])
	if err != nil || claims.UserID == "" {
		return nil, false
	}
	return claims, true
}

// AdminMiddleware 管理员权限中间件
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetInt(ContextRole) != model.RoleAdmin {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Admin permission required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// TeacherLookup 根据用户ID查讲师ID
type TeacherLookup func(ctx context.Context, userID string) (string, error)

// TeacherMiddleware 讲师权限中间件，需放在 AuthMiddleware 之后
func TeacherMiddleware(lookup TeacherLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == "" {
			response.Error(c, http.StatusUnauthorized, response.ErrNoPermission, "Unauthorized")
			c.Abort()
			return
		}

		teacherID, err := lookup(c.Request.Context(), userID)
		if err != nil || teacherID == "" {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Teacher profile required")
			c.Abort()
			return
		}

		c.Set(ContextTeacherID, teacherID)
		c.Next()
	}
}

// GetUserID 当前登录用户ID，未登录为空串
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// GetTeacherID 当前讲师ID
func GetTeacherID(c *gin.Context) string {
	return c.GetString(ContextTeacherID)
}
