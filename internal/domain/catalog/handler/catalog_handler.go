package handler

import (
	"net/http"
	"course_mall/internal/domain/catalog/service"
	"course_mall/internal/pkg/middleware"
	"course_mall/pkg/response"
	"course_mall/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

type CreateCourseInput struct {
	service.CourseBasics
	Price   decimal.Decimal `json:"price" binding:"money"`
	Image   string          `json:"image"`
	Publish bool            `json:"publish"`
}

type ReviewInput struct {
	CourseID string `json:"course_id" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Review   string `json:"review" binding:"required"`
}

type CountryInput struct {
	Name    string `json:"name" binding:"required"`
	TaxRate int    `json:"tax_rate" binding:"min=0,max=100"`
	Active  *bool  `json:"active"`
}

type CategoryInput struct {
	Title string `json:"title" binding:"required"`
}

// ListCourses 已发布课程
// @Summary 课程列表
// @Tags Course
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /courses [get]
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	result, err := h.service.ListCourses(c.Request.Context(), page)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}

// Search 搜索课程
// @Summary 搜索课程
// @Tags Course
// @Param q query string true "keyword"
// @Router /courses/search [get]
func (h *CatalogHandler) Search(c *gin.Context) {
	list, err := h.service.SearchCourses(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}

// GetCourse 课程详情
// @Summary 课程详情
// @Tags Course
// @Param slug path string true "Course slug"
// @Router /courses/{slug} [get]
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	course, err := h.service.GetCourse(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, course)
}

// ListReviews 课程评价
// @Summary 课程评价
// @Tags Course
// @Param slug path string true "Course slug"
// @Router /courses/{slug}/reviews [get]
func (h *CatalogHandler) ListReviews(c *gin.Context) {
	list, err := h.service.ListReviews(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}

// ListCategories 分类
// @Summary 分类列表
// @Tags Course
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	list, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}

// CreateReview 学生评价
// @Summary 发表评价
// @Tags Student
// @Security BearerAuth
// @Param input body ReviewInput true "Review"
// @Router /student/reviews [post]
func (h *CatalogHandler) CreateReview(c *gin.Context) {
	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	review, err := h.service.CreateReview(c.Request.Context(), middleware.GetUserID(c), service.ReviewInput{
		CourseID: input.CourseID,
		Rating:   input.Rating,
		Review:   input.Review,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Review created", review)
}

// TeacherCourses 讲师课程
// @Summary 讲师课程列表
// @Tags Teacher
// @Security BearerAuth
// @Router /teacher/courses [get]
func (h *CatalogHandler) TeacherCourses(c *gin.Context) {
	list, err := h.service.TeacherCourses(c.Request.Context(), middleware.GetTeacherID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}

// CreateCourse 新建课程
// @Summary 新建课程
// @Tags Teacher
// @Security BearerAuth
// @Param input body CreateCourseInput true "Course"
// @Router /teacher/courses [post]
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var input CreateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	course, err := h.service.CreateCourse(c.Request.Context(), middleware.GetTeacherID(c), service.CreateCourseInput{
		Basics:  input.CourseBasics,
		Price:   input.Price,
		Image:   input.Image,
		Publish: input.Publish,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Course created", course)
}

// UpdateCourse 按字段组更新课程
// @Summary 更新课程
// @Tags Teacher
// @Security BearerAuth
// @Param course_id path string true "Course ID"
// @Param input body service.CourseUpdateRequest true "Update groups"
// @Router /teacher/courses/{course_id} [patch]
func (h *CatalogHandler) UpdateCourse(c *gin.Context) {
	var req service.CourseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	course, err := h.service.UpdateCourse(c.Request.Context(), middleware.GetTeacherID(c), c.Param("course_id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Message(c, "Course updated", course)
}

// UploadImage 上传课程封面
// @Summary 上传课程封面
// @Tags Teacher
// @Security BearerAuth
// @Accept multipart/form-data
// @Param course_id path string true "Course ID"
// @Param file formData file true "Image"
// @Router /teacher/courses/{course_id}/image [post]
func (h *CatalogHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "file is required")
		return
	}
	url, err := h.service.UploadCourseImage(c.Request.Context(), middleware.GetTeacherID(c), c.Param("course_id"), file)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"url": url})
}

// UpsertCountry 维护国家税率
// @Summary 新增/更新国家税率
// @Tags Admin
// @Security BearerAuth
// @Router /admin/countries [post]
func (h *CatalogHandler) UpsertCountry(c *gin.Context) {
	var input CountryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	active := true
	if input.Active != nil {
		active = *input.Active
	}
	country, err := h.service.UpsertCountry(c.Request.Context(), input.Name, input.TaxRate, active)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, country)
}

// CreateCategory 新建分类
// @Summary 新建分类
// @Tags Admin
// @Security BearerAuth
// @Router /admin/categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	category, err := h.service.CreateCategory(c.Request.Context(), input.Title)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Category created", category)
}
