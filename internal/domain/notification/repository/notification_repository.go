package repository

import (
	"context"
	"course_mall/internal/domain/notification/model"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	WithTx(tx *gorm.DB) NotificationRepository
	Create(ctx context.Context, n *model.Notification) error
	CreateBatch(ctx context.Context, list []*model.Notification) error
	ListUnseenByTeacher(ctx context.Context, teacherID string) ([]model.Notification, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]model.Notification, error)
	MarkSeen(ctx context.Context, teacherID, id string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	return &notificationRepository{db: tx}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) CreateBatch(ctx context.Context, list []*model.Notification) error {
	if len(list) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&list).Error
}

func (r *notificationRepository) ListUnseenByTeacher(ctx context.Context, teacherID string) ([]model.Notification, error) {
	var list []model.Notification
	err := r.db.WithContext(ctx).
		Where("teacher_id = ? AND seen = ?", teacherID, false).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.Notification, error) {
	var list []model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// MarkSeen 返回受影响行数，0 表示不存在或不属于该讲师
func (r *notificationRepository) MarkSeen(ctx context.Context, teacherID, id string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND teacher_id = ?", id, teacherID).
		Update("seen", true)
	return res.RowsAffected, res.Error
}
