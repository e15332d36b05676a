package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"unicode"
	"course_mall/internal/domain/catalog/model"
	"course_mall/internal/domain/catalog/repository"
	notificationModel "course_mall/internal/domain/notification/model"
	notificationRepo "course_mall/internal/domain/notification/repository"
	"course_mall/internal/pkg/uploader"
	"course_mall/pkg/bizerr"
	"course_mall/pkg/database"
	"course_mall/pkg/response"
	"course_mall/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const searchLimit = 50

// CreateCourseInput 新建课程
type CreateCourseInput struct {
	Basics  CourseBasics
	Price   decimal.Decimal
	Image   string
	Publish bool
}

// ReviewInput 学生评价
type ReviewInput struct {
	CourseID string
	Rating   int
	Review   string
}

// CatalogService 课程目录服务
type CatalogService interface {
	ListCourses(ctx context.Context, page utils.Pagination) (*utils.PageResult, error)
	SearchCourses(ctx context.Context, query string) ([]model.Course, error)
	GetCourse(ctx context.Context, slug string) (*model.Course, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, title string) (*model.Category, error)
	UpsertCountry(ctx context.Context, name string, taxRate int, active bool) (*model.Country, error)

	TeacherCourses(ctx context.Context, teacherID string) ([]model.Course, error)
	CreateCourse(ctx context.Context, teacherID string, in CreateCourseInput) (*model.Course, error)
	UpdateCourse(ctx context.Context, teacherID, courseID string, req CourseUpdateRequest) (*model.Course, error)
	UploadCourseImage(ctx context.Context, teacherID, courseID string, file *multipart.FileHeader) (string, error)

	CreateReview(ctx context.Context, userID string, in ReviewInput) (*model.Review, error)
	ListReviews(ctx context.Context, slug string) ([]model.Review, error)
}

type catalogService struct {
	repo     repository.CatalogRepository
	notiRepo notificationRepo.NotificationRepository
	tx       database.TxRunner
	uploader uploader.Uploader
	log      *zap.Logger
}

// NewCatalogService up 可为 nil（未配置 OSS）
func NewCatalogService(
	repo repository.CatalogRepository,
	notiRepo notificationRepo.NotificationRepository,
	tx database.TxRunner,
	up uploader.Uploader,
	log *zap.Logger,
) CatalogService {
	return &catalogService{repo: repo, notiRepo: notiRepo, tx: tx, uploader: up, log: log}
}

func (s *catalogService) ListCourses(ctx context.Context, page utils.Pagination) (*utils.PageResult, error) {
	page = page.Normalize()
	courses, total, err := s.repo.ListPublished(ctx, page.Offset(), page.Limit)
	if err != nil {
		return nil, err
	}
	return utils.NewPageResult(courses, total, page), nil
}

func (s *catalogService) SearchCourses(ctx context.Context, query string) ([]model.Course, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []model.Course{}, nil
	}
	return s.repo.Search(ctx, query, searchLimit)
}

// GetCourse 只返回已发布课程
func (s *catalogService) GetCourse(ctx context.Context, slug string) (*model.Course, error) {
	course, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, response.ErrCourseNotFound, "course not found")
	}
	if !course.IsPublished() {
		return nil, bizerr.NotFound(response.ErrCourseNotFound, "course not found")
	}
	return course, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *catalogService) CreateCategory(ctx context.Context, title string) (*model.Category, error) {
	c := &model.Category{Title: title, Slug: slugify(title), Active: true}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (s *catalogService) UpsertCountry(ctx context.Context, name string, taxRate int, active bool) (*model.Country, error) {
	if taxRate < 0 || taxRate > 100 {
		return nil, bizerr.Validation(response.ErrInvalidParam, "tax rate must be between 0 and 100")
	}
	c := &model.Country{Name: strings.TrimSpace(name), TaxRate: taxRate, Active: active}
	if err := s.repo.UpsertCountry(ctx, c); err != nil {
		return nil, fmt.Errorf("upsert country: %w", err)
	}
	return c, nil
}

func (s *catalogService) TeacherCourses(ctx context.Context, teacherID string) ([]model.Course, error) {
	return s.repo.ListByTeacher(ctx, teacherID)
}

// CreateCourse 讲师新建课程，平台侧默认已审核
func (s *catalogService) CreateCourse(ctx context.Context, teacherID string, in CreateCourseInput) (*model.Course, error) {
	if in.Price.IsNegative() {
		return nil, bizerr.Validation(response.ErrInvalidParam, "price must not be negative")
	}

	teacherStatus := model.TeacherDraft
	if in.Publish {
		teacherStatus = model.TeacherPublished
	}
	course := &model.Course{
		CategoryID:     in.Basics.CategoryID,
		TeacherID:      teacherID,
		Title:          in.Basics.Title,
		Description:    in.Basics.Description,
		File:           in.Basics.File,
		Image:          in.Image,
		Price:          in.Price,
		Language:       in.Basics.Language,
		Level:          in.Basics.Level,
		PlatformStatus: model.PlatformPublished,
		TeacherStatus:  teacherStatus,
		Slug:           slugify(in.Basics.Title) + "-" + uuid.New().String()[:8],
	}
	if err := s.repo.CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return course, nil
}

// UpdateCourse 在一个事务里按字段组更新课程和大纲
func (s *catalogService) UpdateCourse(ctx context.Context, teacherID, courseID string, req CourseUpdateRequest) (*model.Course, error) {
	if req.IsEmpty() {
		return nil, bizerr.Validation(response.ErrInvalidParam, "nothing to update")
	}
	if req.Pricing != nil && req.Pricing.Price.IsNegative() {
		return nil, bizerr.Validation(response.ErrInvalidParam, "price must not be negative")
	}

	var slug string
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		course, err := repo.GetByIDForUpdate(ctx, courseID)
		if err != nil {
			return notFoundOr(err, response.ErrCourseNotFound, "course not found")
		}
		// 不属于该讲师同样视为不存在
		if course.TeacherID != teacherID {
			return bizerr.NotFound(response.ErrCourseNotFound, "course not found")
		}
		slug = course.Slug

		fields := make(map[string]interface{})
		if req.Basics != nil {
			for k, v := range req.Basics.fields() {
				fields[k] = v
			}
		}
		if req.Pricing != nil {
			fields["price"] = req.Pricing.Price
		}
		publishing := false
		if req.Status != nil {
			fields["teacher_status"] = req.Status.TeacherStatus
			publishing = req.Status.TeacherStatus == model.TeacherPublished && course.TeacherStatus != model.TeacherPublished
		}
		if err := repo.UpdateCourseFields(ctx, course.ID, fields); err != nil {
			return fmt.Errorf("update course: %w", err)
		}

		if err := s.applyCurriculum(ctx, repo, course.ID, req.Curriculum); err != nil {
			return err
		}

		if publishing {
			return s.notiRepo.WithTx(tx).Create(ctx, &notificationModel.Notification{
				TeacherID: &teacherID,
				Type:      notificationModel.TypeCoursePublished,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetBySlug(ctx, slug)
}

func (s *catalogService) applyCurriculum(ctx context.Context, repo repository.CatalogRepository, courseID string, variants []CurriculumVariant) error {
	for _, in := range variants {
		variant := &model.Variant{CourseID: courseID}
		if in.ID != "" {
			existing, err := repo.GetVariant(ctx, courseID, in.ID)
			if err != nil {
				return notFoundOr(err, response.ErrVariantNotFound, "variant not found")
			}
			variant = existing
		}
		variant.Title = in.Title
		if err := repo.SaveVariant(ctx, variant); err != nil {
			return fmt.Errorf("save variant: %w", err)
		}

		for _, itemIn := range in.Items {
			item := &model.VariantItem{VariantID: variant.ID}
			if itemIn.ID != "" {
				existing, err := repo.GetVariantItem(ctx, variant.ID, itemIn.ID)
				if err != nil {
					return notFoundOr(err, response.ErrLessonNotFound, "lesson not found")
				}
				item = existing
			}
			item.Title = itemIn.Title
			item.Description = itemIn.Description
			item.File = itemIn.File
			item.Duration = itemIn.Duration
			item.Preview = itemIn.Preview
			if err := repo.SaveVariantItem(ctx, item); err != nil {
				return fmt.Errorf("save variant item: %w", err)
			}
		}
	}
	return nil
}

func (s *catalogService) UploadCourseImage(ctx context.Context, teacherID, courseID string, file *multipart.FileHeader) (string, error) {
	if s.uploader == nil {
		return "", bizerr.Validation(response.ErrUploadDisabled, "file upload is not configured")
	}

	course, err := s.repo.GetByID(ctx, courseID)
	if err != nil {
		return "", notFoundOr(err, response.ErrCourseNotFound, "course not found")
	}
	if course.TeacherID != teacherID {
		return "", bizerr.NotFound(response.ErrCourseNotFound, "course not found")
	}

	url, err := s.uploader.UploadFile("course-images", file)
	if err != nil {
		return "", fmt.Errorf("upload course image: %w", err)
	}
	if err := s.repo.UpdateCourseFields(ctx, course.ID, map[string]interface{}{"image": url}); err != nil {
		return "", err
	}
	return url, nil
}

// CreateReview 写评价并通知讲师
func (s *catalogService) CreateReview(ctx context.Context, userID string, in ReviewInput) (*model.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, bizerr.Validation(response.ErrInvalidParam, "rating must be between 1 and 5")
	}

	var review *model.Review
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		course, err := repo.GetByID(ctx, in.CourseID)
		if err != nil {
			return notFoundOr(err, response.ErrCourseNotFound, "course not found")
		}

		exists, err := repo.ReviewExists(ctx, course.ID, userID)
		if err != nil {
			return err
		}
		if exists {
			return bizerr.New(bizerr.KindConflict, response.ErrReviewExists, "course already reviewed")
		}

		review = &model.Review{
			CourseID: course.ID,
			UserID:   userID,
			Review:   in.Review,
			Rating:   in.Rating,
			Active:   true,
		}
		if err := repo.CreateReview(ctx, review); err != nil {
			return fmt.Errorf("create review: %w", err)
		}

		return s.notiRepo.WithTx(tx).Create(ctx, &notificationModel.Notification{
			UserID:    &userID,
			TeacherID: &course.TeacherID,
			ReviewID:  &review.ID,
			Type:      notificationModel.TypeNewReview,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("review created", zap.String("course_id", review.CourseID), zap.Int("rating", review.Rating))
	return review, nil
}

func (s *catalogService) ListReviews(ctx context.Context, slug string) ([]model.Review, error) {
	course, err := s.GetCourse(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.repo.ListReviews(ctx, course.ID)
}

func notFoundOr(err error, code int, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return bizerr.NotFound(code, msg)
	}
	return err
}

// slugify 标题转 URL 片段，非字母数字折叠为单个 "-"
func slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
