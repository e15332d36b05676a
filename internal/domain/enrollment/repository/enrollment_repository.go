package repository

import (
	"context"
	"course_mall/internal/domain/enrollment/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository interface {
	WithTx(tx *gorm.DB) EnrollmentRepository

	Exists(ctx context.Context, courseID, userID, orderItemID string) (bool, error)
	Create(ctx context.Context, e *model.Enrollment) error
	ListByUser(ctx context.Context, userID string) ([]model.Enrollment, error)
	GetForUser(ctx context.Context, userID, id string) (*model.Enrollment, error)
	IsEnrolled(ctx context.Context, userID, courseID string) (bool, error)

	FindCompleted(ctx context.Context, userID, itemID string) (*model.CompletedLesson, error)
	CreateCompleted(ctx context.Context, lessons []*model.CompletedLesson) error
	DeleteCompleted(ctx context.Context, userID, courseID string, itemIDs []string) error
	CompletedItemIDs(ctx context.Context, userID, courseID string) ([]string, error)

	HasCertificate(ctx context.Context, userID, courseID string) (bool, error)
	CreateCertificate(ctx context.Context, cert *model.Certificate) error

	Summary(ctx context.Context, userID string) (*model.Summary, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) WithTx(tx *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: tx}
}

func (r *enrollmentRepository) Exists(ctx context.Context, courseID, userID, orderItemID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("course_id = ? AND user_id = ? AND order_item_id = ?", courseID, userID, orderItemID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *enrollmentRepository) ListByUser(ctx context.Context, userID string) ([]model.Enrollment, error) {
	var list []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *enrollmentRepository) GetForUser(ctx context.Context, userID, id string) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Variants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Course.Variants.Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Where("id = ? AND user_id = ?", id, userID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepository) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepository) FindCompleted(ctx context.Context, userID, itemID string) (*model.CompletedLesson, error) {
	var lesson model.CompletedLesson
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND variant_item_id = ?", userID, itemID).
		First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *enrollmentRepository) CreateCompleted(ctx context.Context, lessons []*model.CompletedLesson) error {
	if len(lessons) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&lessons).Error
}

func (r *enrollmentRepository) DeleteCompleted(ctx context.Context, userID, courseID string, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND variant_item_id IN ?", userID, courseID, itemIDs).
		Delete(&model.CompletedLesson{}).Error
}

func (r *enrollmentRepository) CompletedItemIDs(ctx context.Context, userID, courseID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.CompletedLesson{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Pluck("variant_item_id", &ids).Error
	return ids, err
}

func (r *enrollmentRepository) HasCertificate(ctx context.Context, userID, courseID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Certificate{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepository) CreateCertificate(ctx context.Context, cert *model.Certificate) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(cert).Error
}

func (r *enrollmentRepository) Summary(ctx context.Context, userID string) (*model.Summary, error) {
	var s model.Summary
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Enrollment{}).Where("user_id = ?", userID).Count(&s.TotalCourses).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.CompletedLesson{}).Where("user_id = ?", userID).Count(&s.CompletedLessons).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Certificate{}).Where("user_id = ?", userID).Count(&s.Certificates).Error; err != nil {
		return nil, err
	}
	return &s, nil
}
