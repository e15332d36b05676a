package model

import baseModel "course_mall/pkg/model"

// 通知类型
const (
	TypeNewOrder            = "New Order"
	TypeNewReview           = "New Review"
	TypeNewQuestion         = "New Course Question"
	TypeDraft               = "Draft"
	TypeCoursePublished     = "Course Published"
	TypeEnrollmentCompleted = "Course Enrollment Completed"
)

// Notification 通知，只追加，除 seen 外不修改
type Notification struct {
	baseModel.Record
	UserID      *string `gorm:"type:uuid;index" json:"userId,omitempty"`
	TeacherID   *string `gorm:"type:uuid;index" json:"teacherId,omitempty"`
	OrderID     *string `gorm:"type:uuid;index" json:"orderId,omitempty"`
	OrderItemID *string `gorm:"type:uuid" json:"orderItemId,omitempty"`
	ReviewID    *string `gorm:"type:uuid" json:"reviewId,omitempty"`
	Type        string  `gorm:"size:100;not null;default:'Draft'" json:"type"`
	Seen        bool    `gorm:"default:false" json:"seen"`
}
