package repository

import (
	"context"
	"time"
	"course_mall/internal/domain/order/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	WithTx(tx *gorm.DB) OrderRepository

	Create(ctx context.Context, order *model.Order) error
	CreateItem(ctx context.Context, item *model.OrderItem) error
	AddTeacher(ctx context.Context, orderID, teacherID string) error
	UpdateTotals(ctx context.Context, order *model.Order) error

	GetByOrderNo(ctx context.Context, orderNo string) (*model.Order, error)
	GetByOrderNoForUpdate(ctx context.Context, orderNo string) (*model.Order, error)
	GetByPaypalOrder(ctx context.Context, paypalOrderID string) (*model.Order, error)
	GetCheckout(ctx context.Context, orderNo string) (*model.Order, error)
	ListItems(ctx context.Context, orderID string) ([]model.OrderItem, error)
	ListItemsByTeacher(ctx context.Context, orderID, teacherID string) ([]model.OrderItem, error)

	UpdateItemAmounts(ctx context.Context, item *model.OrderItem) error
	ItemHasCoupon(ctx context.Context, itemID, couponID string) (bool, error)
	AddItemCoupon(ctx context.Context, itemID, couponID string) error
	AddOrderCoupon(ctx context.Context, orderID, couponID string) error

	SetCheckoutChannel(ctx context.Context, orderID, channel string) error
	SetStripeSession(ctx context.Context, orderID, sessionID string) error
	BindPaypalOrder(ctx context.Context, orderID, paypalOrderID string) (bool, error)
	TransitionStatus(ctx context.Context, orderID, from, to string, paidAt *time.Time) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	return &orderRepository{db: tx}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *orderRepository) CreateItem(ctx context.Context, item *model.OrderItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

// AddTeacher 讲师集合，重复添加忽略
func (r *orderRepository) AddTeacher(ctx context.Context, orderID, teacherID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.OrderTeacher{OrderID: orderID, TeacherID: teacherID}).Error
}

func (r *orderRepository) UpdateTotals(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"sub_total":     order.SubTotal,
		"tax_fee":       order.TaxFee,
		"initial_total": order.InitialTotal,
		"total":         order.Total,
		"saved":         order.Saved,
	}).Error
}

func (r *orderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByOrderNoForUpdate 事务内锁住订单行，优惠券和支付都靠它串行化
func (r *orderRepository) GetByOrderNoForUpdate(ctx context.Context, orderNo string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_no = ?", orderNo).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByPaypalOrder(ctx context.Context, paypalOrderID string) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Where("paypal_order_id = ?", paypalOrderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetCheckout(ctx context.Context, orderNo string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Items.Course").
		Preload("Items.Coupons").
		Preload("Coupons").
		Preload("Teachers").
		Where("order_no = ?", orderNo).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at").Find(&items).Error
	return items, err
}

func (r *orderRepository) ListItemsByTeacher(ctx context.Context, orderID, teacherID string) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND teacher_id = ?", orderID, teacherID).
		Order("created_at").
		Find(&items).Error
	return items, err
}

func (r *orderRepository) UpdateItemAmounts(ctx context.Context, item *model.OrderItem) error {
	return r.db.WithContext(ctx).Model(&model.OrderItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
		"price":          item.Price,
		"total":          item.Total,
		"saved":          item.Saved,
		"applied_coupon": item.AppliedCoupon,
	}).Error
}

func (r *orderRepository) ItemHasCoupon(ctx context.Context, itemID, couponID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OrderItemCoupon{}).
		Where("order_item_id = ? AND coupon_id = ?", itemID, couponID).
		Count(&count).Error
	return count > 0, err
}

// AddItemCoupon 不忽略冲突，主键冲突说明并发重复使用
func (r *orderRepository) AddItemCoupon(ctx context.Context, itemID, couponID string) error {
	return r.db.WithContext(ctx).Create(&model.OrderItemCoupon{OrderItemID: itemID, CouponID: couponID}).Error
}

func (r *orderRepository) AddOrderCoupon(ctx context.Context, orderID, couponID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.OrderCoupon{OrderID: orderID, CouponID: couponID}).Error
}

func (r *orderRepository) SetStripeSession(ctx context.Context, orderID, sessionID string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", orderID).
		Update("stripe_session_id", sessionID).Error
}

func (r *orderRepository) SetCheckoutChannel(ctx context.Context, orderID, channel string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", orderID).
		Update("checkout_channel", channel).Error
}

// BindPaypalOrder 只在订单还没绑定钱包订单时写入，返回是否写入。
// 同一钱包订单绑到第二个订单会撞唯一索引，返回 gorm.ErrDuplicatedKey
func (r *orderRepository) BindPaypalOrder(ctx context.Context, orderID, paypalOrderID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND (paypal_order_id = '' OR paypal_order_id IS NULL)", orderID).
		Update("paypal_order_id", paypalOrderID)
	return result.RowsAffected > 0, result.Error
}

// TransitionStatus 带原状态条件的更新，返回受影响行数
func (r *orderRepository) TransitionStatus(ctx context.Context, orderID, from, to string, paidAt *time.Time) (int64, error) {
	updates := map[string]interface{}{"payment_status": to}
	if paidAt != nil {
		updates["paid_at"] = paidAt
	}
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", orderID, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}
