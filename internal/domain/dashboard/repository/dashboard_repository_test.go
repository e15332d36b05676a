package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (DashboardRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewDashboardRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestCountsAndRevenue(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	since := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(countCoursesSQL).WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(revenueSinceSQL).WithArgs("t1", paidStatus, since).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("250.50"))
	mock.ExpectQuery(countStudentsSQL).WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	courses, err := repo.CountCourses(ctx, "t1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, courses)

	revenue, err := repo.RevenueSince(ctx, "t1", since)
	require.NoError(t, err)
	assert.Equal(t, "250.50", revenue.StringFixed(2))

	students, err := repo.CountStudents(ctx, "t1")
	require.NoError(t, err)
	assert.EqualValues(t, 7, students)
}

func TestMonthlyEarnings(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(monthlyEarningsSQL).WithArgs("t1", paidStatus).
		WillReturnRows(sqlmock.NewRows([]string{"year", "month", "total"}).
			AddRow(2026, 8, "100.00").
			AddRow(2026, 9, "40.25"))

	list, err := repo.MonthlyEarnings(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 9, list[1].Month)
	assert.Equal(t, "40.25", list[1].Total.StringFixed(2))
}

func TestBestSellersAndCourseOrders(t *testing.T) {
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(bestSellersSQL).WithArgs("t1", paidStatus, 5).
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "title", "image", "sales", "revenue"}).
			AddRow("c1", "Go Basics", "", 4, "199.96"))
	mock.ExpectQuery(courseOrdersSQL).WithArgs("t1", paidStatus, 10, 20).
		WillReturnRows(sqlmock.NewRows([]string{"order_item_id", "order_no", "course_id", "course_title", "price", "payment_status", "created_at"}).
			AddRow("i1", "ORD-1", "c1", "Go Basics", "49.99", "Paid", created))

	best, err := repo.BestSellers(ctx, "t1", 5)
	require.NoError(t, err)
	require.Len(t, best, 1)
	assert.EqualValues(t, 4, best[0].Sales)
	assert.Equal(t, "199.96", best[0].Revenue.StringFixed(2))

	orders, err := repo.CourseOrders(ctx, "t1", 10, 20)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-1", orders[0].OrderNo)
	assert.True(t, created.Equal(orders[0].CreatedAt))
}
