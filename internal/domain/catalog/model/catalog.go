package model

import (
	userModel "course_mall/internal/domain/user/model"
	baseModel "course_mall/pkg/model"

	"github.com/shopspring/decimal"
)

// 平台审核状态
const (
	PlatformReview    = "Review"
	PlatformDisabled  = "Disabled"
	PlatformRejected  = "Rejected"
	PlatformDraft     = "Draft"
	PlatformPublished = "Published"
)

// 讲师自己控制的状态
const (
	TeacherDraft     = "Draft"
	TeacherDisabled  = "Disabled"
	TeacherPublished = "Published"
)

// Category 课程分类
type Category struct {
	baseModel.BaseModel
	Title  string `gorm:"size:100;not null" json:"title"`
	Image  string `json:"image"`
	Slug   string `gorm:"uniqueIndex;size:120" json:"slug"`
	Active bool   `gorm:"not null" json:"active"`
}

// Course 课程
type Course struct {
	baseModel.BaseModel
	CategoryID     *string            `gorm:"type:uuid;index" json:"categoryId"`
	Category       *Category          `json:"category,omitempty"`
	TeacherID      string             `gorm:"type:uuid;index;not null" json:"teacherId"`
	Teacher        *userModel.Teacher `json:"teacher,omitempty"`
	File           string             `json:"file"`
	Image          string             `json:"image"`
	Title          string             `gorm:"size:200;uniqueIndex;not null" json:"title"`
	Description    string             `gorm:"type:text" json:"description"`
	Price          decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	Language       string             `gorm:"size:100;default:'English'" json:"language"`
	Level          string             `gorm:"size:100;default:'Beginner'" json:"level"`
	PlatformStatus string             `gorm:"size:100;default:'Draft'" json:"platformStatus"`
	TeacherStatus  string             `gorm:"size:100;default:'Draft'" json:"teacherStatus"`
	Featured       bool               `gorm:"default:false" json:"featured"`
	Slug           string             `gorm:"uniqueIndex;size:255" json:"slug"`
	Variants       []Variant          `json:"curriculum,omitempty"`
}

// IsPublished 平台和讲师都发布才对外可见
func (c *Course) IsPublished() bool {
	return c.PlatformStatus == PlatformPublished && c.TeacherStatus == TeacherPublished
}

// Variant 章节
type Variant struct {
	baseModel.BaseModel
	CourseID string        `gorm:"type:uuid;index;not null" json:"courseId"`
	Title    string        `gorm:"size:1000" json:"title"`
	Items    []VariantItem `json:"items,omitempty"`
}

// VariantItem 课时
type VariantItem struct {
	baseModel.BaseModel
	VariantID   string `gorm:"type:uuid;index;not null" json:"variantId"`
	Title       string `gorm:"size:1000" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	File        string `json:"file"`
	Duration    int64  `json:"duration"` // 秒
	Preview     bool   `gorm:"default:false" json:"preview"`
}

// Country 国家税率
type Country struct {
	baseModel.BaseModel
	Name    string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	TaxRate int    `gorm:"not null;default:0" json:"taxRate"` // 百分比
	Active  bool   `gorm:"not null" json:"active"`
}

// Review 课程评价
type Review struct {
	baseModel.BaseModel
	CourseID string `gorm:"type:uuid;index;not null" json:"courseId"`
	UserID   string `gorm:"type:uuid;index;not null" json:"userId"`
	Review   string `gorm:"type:text" json:"review"`
	Rating   int    `gorm:"not null" json:"rating"`
	Reply    string `gorm:"size:1000" json:"reply"`
	Active   bool   `gorm:"not null" json:"active"`
}
