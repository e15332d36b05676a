package repository

import (
	"context"
	"course_mall/internal/domain/payment/model"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	WithTx(tx *gorm.DB) PaymentRepository
	RecordAttempt(ctx context.Context, a *model.Attempt) error
	ListAttempts(ctx context.Context, orderNo string) ([]model.Attempt, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) WithTx(tx *gorm.DB) PaymentRepository {
	return &paymentRepository{db: tx}
}

func (r *paymentRepository) RecordAttempt(ctx context.Context, a *model.Attempt) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *paymentRepository) ListAttempts(ctx context.Context, orderNo string) ([]model.Attempt, error) {
	var list []model.Attempt
	err := r.db.WithContext(ctx).
		Where("order_no = ?", orderNo).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}
