package model

import (
	catalogModel "course_mall/internal/domain/catalog/model"
	baseModel "course_mall/pkg/model"

	"github.com/shopspring/decimal"
)

// CartItem 购物车条目，同一 cart_id 下每门课程只有一条
type CartItem struct {
	baseModel.BaseModel
	CartID   string               `gorm:"size:64;not null;uniqueIndex:idx_cart_course" json:"cartId"`
	CourseID string               `gorm:"type:uuid;not null;uniqueIndex:idx_cart_course" json:"courseId"`
	Course   *catalogModel.Course `json:"course,omitempty"`
	UserID   *string              `gorm:"type:uuid;index" json:"userId"`
	Price    decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	TaxFee   decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0" json:"taxFee"`
	Total    decimal.Decimal      `gorm:"type:numeric(12,2);not null;default:0" json:"total"`
	Country  string               `gorm:"size:100" json:"country"`
}

// Stats 购物车汇总
type Stats struct {
	Price decimal.Decimal `json:"price"`
	Tax   decimal.Decimal `json:"tax"`
	Total decimal.Decimal `json:"total"`
}
