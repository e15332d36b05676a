package service

import (
	"github.com/shopspring/decimal"
)

// CourseUpdateRequest 课程更新请求，按字段组拆分，组为空表示不修改
type CourseUpdateRequest struct {
	Basics     *CourseBasics       `json:"basics"`
	Pricing    *CoursePricing      `json:"pricing"`
	Status     *CourseStatus       `json:"status"`
	Curriculum []CurriculumVariant `json:"curriculum" binding:"dive"`
}

// CourseBasics 基本信息
type CourseBasics struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description"`
	CategoryID  *string `json:"category_id"`
	Language    string  `json:"language"`
	Level       string  `json:"level"`
	File        string  `json:"file"`
}

// CoursePricing 定价
type CoursePricing struct {
	Price decimal.Decimal `json:"price" binding:"money"`
}

// CourseStatus 讲师侧状态
type CourseStatus struct {
	TeacherStatus string `json:"teacher_status" binding:"required,oneof=Draft Disabled Published"`
}

// CurriculumVariant 章节，ID 为空表示新建
type CurriculumVariant struct {
	ID    string           `json:"id"`
	Title string           `json:"title" binding:"required"`
	Items []CurriculumItem `json:"items" binding:"dive"`
}

// CurriculumItem 课时，ID 为空表示新建
type CurriculumItem struct {
	ID          string `json:"id"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	File        string `json:"file"`
	Duration    int64  `json:"duration"`
	Preview     bool   `json:"preview"`
}

func (b *CourseBasics) fields() map[string]interface{} {
	f := map[string]interface{}{
		"title":       b.Title,
		"description": b.Description,
		"category_id": b.CategoryID,
	}
	if b.Language != "" {
		f["language"] = b.Language
	}
	if b.Level != "" {
		f["level"] = b.Level
	}
	if b.File != "" {
		f["file"] = b.File
	}
	return f
}

// IsEmpty 没有任何字段组
func (r *CourseUpdateRequest) IsEmpty() bool {
	return r.Basics == nil && r.Pricing == nil && r.Status == nil && len(r.Curriculum) == 0
}
