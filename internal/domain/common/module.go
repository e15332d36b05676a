package common

import (
	userRepo "course_mall/internal/domain/user/repository"
	userService "course_mall/internal/domain/user/service"
	commonHandler "course_mall/internal/pkg/common"
	"course_mall/internal/pkg/config"
	"course_mall/internal/pkg/middleware"
	"course_mall/internal/pkg/registry"
	"course_mall/internal/pkg/uploader"
	"course_mall/pkg/database"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CommonModule 通用功能模块
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	return 100 // 最后初始化
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	var up uploader.Uploader
	if cfg := config.GlobalConfig.OSS; cfg.AccessKeyID != "" {
		oss, err := uploader.NewAliyunOSSUploader(cfg)
		if err != nil {
			ctx.Logger.Error("Failed to init OSS uploader", zap.Error(err))
		} else {
			up = oss
		}
	}

	uService := userService.NewUserService(userRepo.NewUserRepository(ctx.DB), database.NewTransactor(ctx.DB))
	setupRoutes(ctx.Router, commonHandler.NewUploadHandler(up), middleware.TeacherMiddleware(uService.TeacherIDByUserID))
	return nil
}

func setupRoutes(r *gin.Engine, h *commonHandler.UploadHandler, teacherOnly gin.HandlerFunc) {
	// 课时资料上传
	r.POST("/teacher/uploads", middleware.AuthMiddleware(), teacherOnly, h.UploadLessonFiles)
}
