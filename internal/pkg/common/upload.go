package common

import (
	"mime/multipart"
	"net/http"
	"course_mall/internal/pkg/uploader"
	"course_mall/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	maxBatchFiles    = 20
	uploadConcurrent = 5
	lessonDir        = "lessons"
)

type UploadHandler struct {
	uploader uploader.Uploader // 未配置 OSS 时为 nil
}

func NewUploadHandler(u uploader.Uploader) *UploadHandler {
	return &UploadHandler{uploader: u}
}

// UploadLessonFiles 批量上传课时资料，返回地址顺序与上传顺序一致
// @Summary 批量上传课时资料到 OSS
// @Tags Teacher
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files"
// @Success 200 {object} response.Response{data=[]string} "URLs"
// @Router /teacher/uploads [post]
func (h *UploadHandler) UploadLessonFiles(c *gin.Context) {
	if h.uploader == nil {
		response.Error(c, http.StatusServiceUnavailable, response.ErrUploadDisabled, "file storage is not configured")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid form data")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "No files uploaded")
		return
	}
	if len(files) > maxBatchFiles {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Too many files")
		return
	}

	urls, err := h.uploadAll(c, files)
	if err != nil {
		response.Error(c, http.StatusBadGateway, response.ErrServerInternal, "Upload failed: "+err.Error())
		return
	}
	response.Success(c, urls)
}

func (h *UploadHandler) uploadAll(c *gin.Context, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, len(files))
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(uploadConcurrent)

	for i, file := range files {
		g.Go(func() error {
			// 已有失败就不再继续上传
			if ctx.Err() != nil {
				return ctx.Err()
			}
			url, err := h.uploader.UploadFile(lessonDir, file)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
