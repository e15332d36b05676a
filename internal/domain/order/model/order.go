package model

import (
	"time"
	catalogModel "course_mall/internal/domain/catalog/model"
	couponModel "course_mall/internal/domain/coupon/model"
	userModel "course_mall/internal/domain/user/model"
	baseModel "course_mall/pkg/model"

	"github.com/shopspring/decimal"
)

// 支付状态只能向前：Processing -> Paid | Failed
const (
	PaymentProcessing = "Processing"
	PaymentPaid       = "Paid"
	PaymentFailed     = "Failed"
)

// Order 订单，创建后只有状态、优惠券和金额字段会变
type Order struct {
	baseModel.BaseModel
	OrderNo         string               `gorm:"size:64;uniqueIndex;not null" json:"orderNo"`
	StudentID       *string              `gorm:"type:uuid;index" json:"studentId"`
	FullName        string               `gorm:"size:100" json:"fullName"`
	Email           string               `gorm:"size:255" json:"email"`
	Country         string               `gorm:"size:100" json:"country"`
	SubTotal        decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0" json:"subTotal"`
	TaxFee          decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0" json:"taxFee"`
	Total           decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0" json:"total"`
	InitialTotal    decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0" json:"initialTotal"`
	Saved           decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0" json:"saved"`
	PaymentStatus   string               `gorm:"size:20;not null;index" json:"paymentStatus"`
	CheckoutChannel string               `gorm:"size:20" json:"checkoutChannel"` // 非空后金额锁定，不能再用券
	StripeSessionID string               `gorm:"size:255;index" json:"stripeSessionId"`
	PaypalOrderID   string               `gorm:"size:255;uniqueIndex:idx_orders_paypal_order_id,where:paypal_order_id <> ''" json:"paypalOrderId"`
	PaidAt          *time.Time           `json:"paidAt,omitempty"`
	Items           []OrderItem          `json:"items,omitempty"`
	Coupons         []couponModel.Coupon `gorm:"many2many:order_coupons" json:"coupons,omitempty"`
	Teachers        []userModel.Teacher  `gorm:"many2many:order_teachers" json:"teachers,omitempty"`
}

// AmountLocked 已发起过支付，渠道侧金额已定
func (o *Order) AmountLocked() bool {
	return o.CheckoutChannel != ""
}

// IsProcessing 只有处理中的订单能改金额和状态
func (o *Order) IsProcessing() bool {
	return o.PaymentStatus == PaymentProcessing
}

// OrderItem 订单项，讲师在下单时从课程上快照
type OrderItem struct {
	baseModel.BaseModel
	OrderID       string               `gorm:"type:uuid;index;not null" json:"orderId"`
	CourseID      string               `gorm:"type:uuid;index;not null" json:"courseId"`
	Course        *catalogModel.Course `json:"course,omitempty"`
	TeacherID     string               `gorm:"type:uuid;index;not null" json:"teacherId"`
	Price         decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	TaxFee        decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0" json:"taxFee"`
	Total         decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0" json:"total"`
	InitialTotal  decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0" json:"initialTotal"`
	Saved         decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0" json:"saved"`
	AppliedCoupon bool                 `gorm:"not null" json:"appliedCoupon"`
	Coupons       []couponModel.Coupon `gorm:"many2many:order_item_coupons" json:"coupons,omitempty"`
}

// OrderTeacher order_teachers 关联表
type OrderTeacher struct {
	OrderID   string `gorm:"type:uuid;primaryKey"`
	TeacherID string `gorm:"type:uuid;primaryKey"`
}

func (OrderTeacher) TableName() string { return "order_teachers" }

// OrderCoupon order_coupons 关联表
type OrderCoupon struct {
	OrderID  string `gorm:"type:uuid;primaryKey"`
	CouponID string `gorm:"type:uuid;primaryKey"`
}

func (OrderCoupon) TableName() string { return "order_coupons" }

// OrderItemCoupon order_item_coupons 关联表，联合主键保证同一券对同一订单项最多一次
type OrderItemCoupon struct {
	OrderItemID string `gorm:"type:uuid;primaryKey"`
	CouponID    string `gorm:"type:uuid;primaryKey"`
}

func (OrderItemCoupon) TableName() string { return "order_item_coupons" }
