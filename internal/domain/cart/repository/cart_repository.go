package repository

import (
	"context"
	"course_mall/internal/domain/cart/model"

	"gorm.io/gorm"
)

type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindItem(ctx context.Context, cartID, courseID string) (*model.CartItem, error)
	Save(ctx context.Context, item *model.CartItem) error
	ListByCart(ctx context.Context, cartID string) ([]model.CartItem, error)
	CountByCart(ctx context.Context, cartID string) (int64, error)
	DeleteItem(ctx context.Context, cartID, itemID string) (int64, error)
	DeleteByCart(ctx context.Context, cartID string) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) WithTx(tx *gorm.DB) CartRepository {
	return &cartRepository{db: tx}
}

func (r *cartRepository) FindItem(ctx context.Context, cartID, courseID string) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND course_id = ?", cartID, courseID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Save ID 为空时插入，否则更新
func (r *cartRepository) Save(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Omit("Course").Save(item).Error
}

// ListByCart 带课程信息，下单时需要课程的讲师
func (r *cartRepository) ListByCart(ctx context.Context, cartID string) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("cart_id = ?", cartID).
		Order("created_at").
		Find(&items).Error
	return items, err
}

func (r *cartRepository) CountByCart(ctx context.Context, cartID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CartItem{}).Where("cart_id = ?", cartID).Count(&count).Error
	return count, err
}

// 购物车行直接物理删除，否则 (cart_id, course_id) 唯一索引会挡住重新加入
func (r *cartRepository) DeleteItem(ctx context.Context, cartID, itemID string) (int64, error) {
	result := r.db.WithContext(ctx).Unscoped().
		Where("cart_id = ? AND id = ?", cartID, itemID).
		Delete(&model.CartItem{})
	return result.RowsAffected, result.Error
}

func (r *cartRepository) DeleteByCart(ctx context.Context, cartID string) error {
	return r.db.WithContext(ctx).Unscoped().Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error
}
