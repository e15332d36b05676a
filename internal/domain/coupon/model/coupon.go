package model

import (
	userModel "course_mall/internal/domain/user/model"
	baseModel "course_mall/pkg/model"
)

// Coupon 讲师发放的百分比折扣券，只对该讲师的课程生效
type Coupon struct {
	baseModel.BaseModel
	TeacherID string           `gorm:"type:uuid;index;not null" json:"teacherId"`
	Code      string           `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Discount  int              `gorm:"not null" json:"discount"` // 百分比 0-100
	Active    bool             `gorm:"not null" json:"active"`
	UsedBy    []userModel.User `gorm:"many2many:coupon_users" json:"usedBy,omitempty"`
}

// CouponUser coupon_users 关联表
type CouponUser struct {
	CouponID string `gorm:"type:uuid;primaryKey"`
	UserID   string `gorm:"type:uuid;primaryKey"`
}

func (CouponUser) TableName() string {
	return "coupon_users"
}

// ApplyOutcome 使用优惠券的结果，均不是错误
type ApplyOutcome string

const (
	OutcomeApplied        ApplyOutcome = "applied"
	OutcomeAlreadyApplied ApplyOutcome = "already_applied"
	OutcomeNotApplicable  ApplyOutcome = "not_applicable"
)

// ApplyResult 使用结果，Discount 为本次合计优惠
type ApplyResult struct {
	Outcome      ApplyOutcome `json:"outcome"`
	ItemsApplied int          `json:"itemsApplied"`
	Discount     string       `json:"discount"`
	OrderTotal   string       `json:"orderTotal"`
}
