package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary 讲师概览，收入只统计已支付订单
type Summary struct {
	TotalCourses   int64           `db:"total_courses" json:"totalCourses"`
	TotalRevenue   decimal.Decimal `db:"total_revenue" json:"totalRevenue"`
	MonthlyRevenue decimal.Decimal `db:"monthly_revenue" json:"monthlyRevenue"`
	TotalStudents  int64           `db:"total_students" json:"totalStudents"`
}

// MonthlyEarning 按年月汇总的收入
type MonthlyEarning struct {
	Year      int             `db:"year" json:"year"`
	Month     int             `db:"month" json:"month"`
	MonthName string          `db:"-" json:"monthName"`
	Total     decimal.Decimal `db:"total" json:"totalEarning"`
}

// BestSeller 课程销量与收入
type BestSeller struct {
	CourseID string          `db:"course_id" json:"courseId"`
	Title    string          `db:"title" json:"title"`
	Image    string          `db:"image" json:"image"`
	Sales    int64           `db:"sales" json:"sales"`
	Revenue  decimal.Decimal `db:"revenue" json:"revenue"`
}

// CourseOrder 讲师名下的订单项
type CourseOrder struct {
	OrderItemID   string          `db:"order_item_id" json:"orderItemId"`
	OrderNo       string          `db:"order_no" json:"orderNo"`
	CourseID      string          `db:"course_id" json:"courseId"`
	CourseTitle   string          `db:"course_title" json:"courseTitle"`
	Price         decimal.Decimal `db:"price" json:"price"`
	PaymentStatus string          `db:"payment_status" json:"paymentStatus"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
}
