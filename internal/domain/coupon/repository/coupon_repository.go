package repository

import (
	"context"
	"course_mall/internal/domain/coupon/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CouponRepository interface {
	WithTx(tx *gorm.DB) CouponRepository
	Create(ctx context.Context, coupon *model.Coupon) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	GetForTeacher(ctx context.Context, teacherID, id string) (*model.Coupon, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]model.Coupon, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, teacherID, id string) (int64, error)
	CodeTaken(ctx context.Context, code, exceptID string) (bool, error)
	AddUsedBy(ctx context.Context, couponID, userID string) error
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) WithTx(tx *gorm.DB) CouponRepository {
	return &couponRepository{db: tx}
}

func (r *couponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(coupon).Error
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) GetForTeacher(ctx context.Context, teacherID, id string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.WithContext(ctx).
		Preload("UsedBy").
		Where("id = ? AND teacher_id = ?", id, teacherID).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) ListByTeacher(ctx context.Context, teacherID string) ([]model.Coupon, error) {
	var coupons []model.Coupon
	err := r.db.WithContext(ctx).
		Preload("UsedBy").
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&coupons).Error
	return coupons, err
}

func (r *couponRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Coupon{}).Where("id = ?", id).Updates(fields).Error
}

func (r *couponRepository) Delete(ctx context.Context, teacherID, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND teacher_id = ?", id, teacherID).Delete(&model.Coupon{})
	return result.RowsAffected, result.Error
}

// CodeTaken 包含软删除的券，code 唯一索引不区分删除状态
func (r *couponRepository) CodeTaken(ctx context.Context, code, exceptID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Unscoped().Model(&model.Coupon{}).Where("code = ?", code)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *couponRepository) AddUsedBy(ctx context.Context, couponID, userID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.CouponUser{CouponID: couponID, UserID: userID}).Error
}
