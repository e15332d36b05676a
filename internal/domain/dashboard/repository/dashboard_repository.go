package repository

import (
	"context"
	"time"
	"course_mall/internal/domain/dashboard/model"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// 已支付才计入收入
const paidStatus = "Paid"

const (
	countCoursesSQL = `SELECT COUNT(*) FROM courses WHERE teacher_id = $1 AND deleted_at IS NULL`

	revenueSinceSQL = `
SELECT COALESCE(SUM(oi.price), 0)
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE oi.teacher_id = $1 AND o.payment_status = $2 AND oi.created_at >= $3`

	countStudentsSQL = `SELECT COUNT(DISTINCT user_id) FROM enrollments WHERE teacher_id = $1`

	monthlyEarningsSQL = `
SELECT EXTRACT(YEAR FROM oi.created_at)::int AS year,
       EXTRACT(MONTH FROM oi.created_at)::int AS month,
       COALESCE(SUM(oi.price), 0) AS total
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE oi.teacher_id = $1 AND o.payment_status = $2
GROUP BY year, month
ORDER BY year, month`

	bestSellersSQL = `
SELECT c.id AS course_id, c.title, c.image,
       COUNT(oi.id) AS sales,
       COALESCE(SUM(oi.price), 0) AS revenue
FROM courses c
JOIN order_items oi ON oi.course_id = c.id
JOIN orders o ON o.id = oi.order_id
WHERE c.teacher_id = $1 AND o.payment_status = $2
GROUP BY c.id, c.title, c.image
ORDER BY revenue DESC, sales DESC
LIMIT $3`

	courseOrdersSQL = `
SELECT oi.id AS order_item_id, o.order_no, c.id AS course_id, c.title AS course_title,
       oi.price, o.payment_status, oi.created_at
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
JOIN courses c ON c.id = oi.course_id
WHERE oi.teacher_id = $1 AND o.payment_status = $2
ORDER BY oi.created_at DESC
LIMIT $3 OFFSET $4`
)

type DashboardRepository interface {
	CountCourses(ctx context.Context, teacherID string) (int64, error)
	RevenueSince(ctx context.Context, teacherID string, since time.Time) (decimal.Decimal, error)
	CountStudents(ctx context.Context, teacherID string) (int64, error)
	MonthlyEarnings(ctx context.Context, teacherID string) ([]model.MonthlyEarning, error)
	BestSellers(ctx context.Context, teacherID string, limit int) ([]model.BestSeller, error)
	CourseOrders(ctx context.Context, teacherID string, limit, offset int) ([]model.CourseOrder, error)
}

type dashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountCourses(ctx context.Context, teacherID string) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, countCoursesSQL, teacherID)
	return n, err
}

// RevenueSince 零时间表示全部历史
func (r *dashboardRepository) RevenueSince(ctx context.Context, teacherID string, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, revenueSinceSQL, teacherID, paidStatus, since)
	return total, err
}

func (r *dashboardRepository) CountStudents(ctx context.Context, teacherID string) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, countStudentsSQL, teacherID)
	return n, err
}

func (r *dashboardRepository) MonthlyEarnings(ctx context.Context, teacherID string) ([]model.MonthlyEarning, error) {
	list := []model.MonthlyEarning{}
	err := r.db.SelectContext(ctx, &list, monthlyEarningsSQL, teacherID, paidStatus)
	return list, err
}

func (r *dashboardRepository) BestSellers(ctx context.Context, teacherID string, limit int) ([]model.BestSeller, error) {
	list := []model.BestSeller{}
	err := r.db.SelectContext(ctx, &list, bestSellersSQL, teacherID, paidStatus, limit)
	return list, err
}

func (r *dashboardRepository) CourseOrders(ctx context.Context, teacherID string, limit, offset int) ([]model.CourseOrder, error) {
	list := []model.CourseOrder{}
	err := r.db.SelectContext(ctx, &list, courseOrdersSQL, teacherID, paidStatus, limit, offset)
	return list, err
}
