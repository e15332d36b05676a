package model

import (
	catalogModel "course_mall/internal/domain/catalog/model"
	baseModel "course_mall/pkg/model"
)

// Enrollment 支付成功后的选课记录，(course, user, order item) 唯一
type Enrollment struct {
	baseModel.Record
	CourseID    string               `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_once" json:"courseId"`
	Course      *catalogModel.Course `json:"course,omitempty"`
	UserID      string               `gorm:"type:uuid;not null;index;uniqueIndex:idx_enrollment_once" json:"userId"`
	TeacherID   string               `gorm:"type:uuid;index" json:"teacherId"`
	OrderItemID string               `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_once" json:"orderItemId"`
}

// CompletedLesson 已完成课时
type CompletedLesson struct {
	baseModel.Record
	CourseID      string `gorm:"type:uuid;not null;index" json:"courseId"`
	UserID        string `gorm:"type:uuid;not null;uniqueIndex:idx_completed_lesson" json:"userId"`
	VariantItemID string `gorm:"type:uuid;not null;uniqueIndex:idx_completed_lesson" json:"variantItemId"`
}

// Certificate 学完全部课时后颁发
type Certificate struct {
	baseModel.Record
	CourseID string `gorm:"type:uuid;not null;uniqueIndex:idx_certificate" json:"courseId"`
	UserID   string `gorm:"type:uuid;not null;uniqueIndex:idx_certificate" json:"userId"`
}

// StudentCourse 学生课程详情，附带已完成课时
type StudentCourse struct {
	Enrollment
	CompletedLessonIDs []string `json:"completedLessonIds"`
	Certified          bool     `json:"certified"`
}

// Summary 学生概览
type Summary struct {
	TotalCourses     int64 `json:"totalCourses"`
	CompletedLessons int64 `json:"completedLessons"`
	Certificates     int64 `json:"certificates"`
}

// SyncResult 批量同步完成状态的结果
type SyncResult struct {
	TotalCompleted int  `json:"totalCompleted"`
	Deleted        int  `json:"deletedCount"`
	Created        int  `json:"createdCount"`
	Certified      bool `json:"certified"`
}
