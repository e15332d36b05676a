package repository

import (
	"context"
	"course_mall/internal/domain/catalog/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository 课程目录仓库
type CatalogRepository interface {
	WithTx(tx *gorm.DB) CatalogRepository

	ListPublished(ctx context.Context, offset, limit int) ([]model.Course, int64, error)
	Search(ctx context.Context, query string, limit int) ([]model.Course, error)
	GetBySlug(ctx context.Context, slug string) (*model.Course, error)
	GetByID(ctx context.Context, id string) (*model.Course, error)
	GetByIDForUpdate(ctx context.Context, id string) (*model.Course, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]model.Course, error)
	CreateCourse(ctx context.Context, course *model.Course) error
	UpdateCourseFields(ctx context.Context, id string, fields map[string]interface{}) error
	SaveVariant(ctx context.Context, v *model.Variant) error
	SaveVariantItem(ctx context.Context, item *model.VariantItem) error
	GetVariant(ctx context.Context, courseID, variantID string) (*model.Variant, error)
	GetVariantItem(ctx context.Context, variantID, itemID string) (*model.VariantItem, error)
	CourseLessonIDs(ctx context.Context, courseID string) ([]string, error)

	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, c *model.Category) error

	GetActiveCountry(ctx context.Context, name string) (*model.Country, error)
	UpsertCountry(ctx context.Context, c *model.Country) error

	CreateReview(ctx context.Context, r *model.Review) error
	ReviewExists(ctx context.Context, courseID, userID string) (bool, error)
	ListReviews(ctx context.Context, courseID string) ([]model.Review, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) WithTx(tx *gorm.DB) CatalogRepository {
	return &catalogRepository{db: tx}
}

func (r *catalogRepository) published(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Course{}).
		Where("platform_status = ? AND teacher_status = ?", model.PlatformPublished, model.TeacherPublished)
}

func (r *catalogRepository) ListPublished(ctx context.Context, offset, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	if err := r.published(ctx).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.published(ctx).
		Preload("Teacher").Preload("Category").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&courses).Error
	return courses, total, err
}

// Search 按标题模糊搜索已发布课程
func (r *catalogRepository) Search(ctx context.Context, query string, limit int) ([]model.Course, error) {
	var courses []model.Course
	err := r.published(ctx).
		Where("LOWER(title) LIKE ?", "%"+query+"%").
		Preload("Teacher").
		Order("title").
		Limit(limit).
		Find(&courses).Error
	return courses, err
}

func (r *catalogRepository) GetBySlug(ctx context.Context, slug string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Teacher").Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Variants.Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Where("slug = ?", slug).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *catalogRepository) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// GetByIDForUpdate 事务内加行锁
func (r *catalogRepository) GetByIDForUpdate(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *catalogRepository) ListByTeacher(ctx context.Context, teacherID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).Where("teacher_id = ?", teacherID).Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *catalogRepository) CreateCourse(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(course).Error
}

func (r *catalogRepository) UpdateCourseFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Course{}).Where("id = ?", id).Updates(fields).Error
}

func (r *catalogRepository) SaveVariant(ctx context.Context, v *model.Variant) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(v).Error
}

func (r *catalogRepository) SaveVariantItem(ctx context.Context, item *model.VariantItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *catalogRepository) GetVariant(ctx context.Context, courseID, variantID string) (*model.Variant, error) {
	var v model.Variant
	if err := r.db.WithContext(ctx).Where("id = ? AND course_id = ?", variantID, courseID).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *catalogRepository) GetVariantItem(ctx context.Context, variantID, itemID string) (*model.VariantItem, error) {
	var item model.VariantItem
	if err := r.db.WithContext(ctx).Where("id = ? AND variant_id = ?", itemID, variantID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// CourseLessonIDs 课程下所有课时ID
func (r *catalogRepository) CourseLessonIDs(ctx context.Context, courseID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.VariantItem{}).
		Joins("JOIN variants ON variants.id = variant_items.variant_id").
		Where("variants.course_id = ? AND variants.deleted_at IS NULL", courseID).
		Pluck("variant_items.id", &ids).Error
	return ids, err
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	var list []model.Category
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("title").Find(&list).Error
	return list, err
}

func (r *catalogRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *catalogRepository) GetActiveCountry(ctx context.Context, name string) (*model.Country, error) {
	var country model.Country
	if err := r.db.WithContext(ctx).Where("name = ? AND active = ?", name, true).First(&country).Error; err != nil {
		return nil, err
	}
	return &country, nil
}

// UpsertCountry 按名称新增或更新税率
func (r *catalogRepository) UpsertCountry(ctx context.Context, c *model.Country) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"tax_rate", "active", "updated_at"}),
	}).Create(c).Error
}

func (r *catalogRepository) CreateReview(ctx context.Context, rv *model.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *catalogRepository) ReviewExists(ctx context.Context, courseID, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *catalogRepository) ListReviews(ctx context.Context, courseID string) ([]model.Review, error) {
	var list []model.Review
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND active = ?", courseID, true).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
