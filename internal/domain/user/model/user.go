package model

import baseModel "course_mall/pkg/model"

const (
	RoleStudent = 0
	RoleTeacher = 1
	RoleAdmin   = 2
)

// User 用户模型
type User struct {
	baseModel.BaseModel
	FullName string `gorm:"size:100" json:"fullName"`
	Email    string `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // 密码不返回给前端
	Role     int    `gorm:"default:0" json:"role"`
}

// Teacher 讲师资料，一个用户最多一个
type Teacher struct {
	baseModel.BaseModel
	UserID   string `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	FullName string `gorm:"size:100" json:"fullName"`
	Avatar   string `json:"avatar"`
	Bio      string `gorm:"size:100" json:"bio"`
	About    string `gorm:"type:text" json:"about"`
	Country  string `gorm:"size:100" json:"country"`
}
