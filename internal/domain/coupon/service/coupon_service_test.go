package service

import (
	"context"
	"testing"
	"course_mall/internal/domain/coupon/model"
	"course_mall/internal/domain/coupon/repository"
	orderModel "course_mall/internal/domain/order/model"
	orderRepo "course_mall/internal/domain/order/repository"
	"course_mall/pkg/bizerr"
	"course_mall/pkg/database"
	"course_mall/pkg/metrics"
	"course_mall/pkg/testutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type couponFixture struct {
	db     *gorm.DB
	svc    CouponService
	orders orderRepo.OrderRepository
}

func newCouponFixture(t *testing.T) *couponFixture {
	db := testutil.NewSQLiteDB(t, &model.Coupon{}, &orderModel.Order{}, &orderModel.OrderItem{})
	orders := orderRepo.NewOrderRepository(db)
	svc := NewCouponService(
		repository.NewCouponRepository(db),
		orders,
		database.NewTransactor(db),
		metrics.NewMetricsCollector(prometheus.NewRegistry()),
		zap.NewNop(),
	)
	return &couponFixture{db: db, svc: svc, orders: orders}
}

// seedOrder 每个 total 对应一个订单项
func (f *couponFixture) seedOrder(t *testing.T, orderNo string, student *string, teacherIDs []string, totals []string) *orderModel.Order {
	ctx := context.Background()
	order := &orderModel.Order{OrderNo: orderNo, StudentID: student, PaymentStatus: orderModel.PaymentProcessing}
	require.NoError(t, f.orders.Create(ctx, order))

	sum := decimal.Zero
	for i, raw := range totals {
		total := decimal.RequireFromString(raw)
		require.NoError(t, f.orders.CreateItem(ctx, &orderModel.OrderItem{
			OrderID: order.ID, CourseID: "course", TeacherID: teacherIDs[i],
			Price: total, Total: total, InitialTotal: total,
		}))
		sum = sum.Add(total)
	}
	order.SubTotal, order.Total, order.InitialTotal = sum, sum, sum
	require.NoError(t, f.orders.UpdateTotals(ctx, order))
	return order
}

func (f *couponFixture) reload(t *testing.T, orderNo string) *orderModel.Order {
	order, err := f.orders.GetCheckout(context.Background(), orderNo)
	require.NoError(t, err)
	return order
}

func assertTotalsConsistent(t *testing.T, order *orderModel.Order) {
	t.Helper()
	sum := decimal.Zero
	for _, item := range order.Items {
		sum = sum.Add(item.Total)
	}
	assert.True(t, order.Total.Equal(sum), "order total %s != item sum %s", order.Total, sum)
}

func TestApplyCoupon(t *testing.T) {
	f := newCouponFixture(t)
	ctx := context.Background()
	student := "student-1"

	coupon, err := f.svc.Create(ctx, "t1", CouponInput{Code: "SAVE20", Discount: 20})
	require.NoError(t, err)
	assert.True(t, coupon.Active)

	f.seedOrder(t, "o1", &student, []string{"t1"}, []string{"100.00"})

	t.Run("twenty percent off one item", func(t *testing.T) {
		res, err := f.svc.Apply(ctx, "o1", "SAVE20")
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeApplied, res.Outcome)
		assert.Equal(t, "20.00", res.Discount)

		order := f.reload(t, "o1")
		require.Len(t, order.Items, 1)
		item := order.Items[0]
		assert.Equal(t, "80.00", item.Total.StringFixed(2))
		assert.Equal(t, "80.00", item.Price.StringFixed(2))
		assert.Equal(t, "20.00", item.Saved.StringFixed(2))
		assert.True(t, item.AppliedCoupon)
		assert.Equal(t, "80.00", order.Total.StringFixed(2))
		assert.Equal(t, "20.00", order.Saved.StringFixed(2))
		assert.Equal(t, "100.00", order.InitialTotal.StringFixed(2))
		require.Len(t, item.Coupons, 1)
		require.Len(t, order.Coupons, 1)
		assert.Equal(t, coupon.ID, order.Coupons[0].ID)
		assertTotalsConsistent(t, order)

		var used []model.CouponUser
		require.NoError(t, f.db.Find(&used).Error)
		require.Len(t, used, 1)
		assert.Equal(t, student, used[0].UserID)
	})

	t.Run("second apply is a no-op", func(t *testing.T) {
		res, err := f.svc.Apply(ctx, "o1", "SAVE20")
		require.NoError(t, err)
		assert.Equal(t, model.OutcomeAlreadyApplied, res.Outcome)

		order := f.reload(t, "o1")
		assert.Equal(t, "80.00", order.Total.StringFixed(2))
		assert.Equal(t, "80.00", order.Items[0].Total.StringFixed(2))
		assert.Len(t, order.Coupons, 1)
	})
}

func TestApplyCouponAllMatchingItems(t *testing.T) {
	f := newCouponFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "t1", CouponInput{Code: "TEN", Discount: 10})
	require.NoError(t, err)
	f.seedOrder(t, "o2", nil, []string{"t1", "t2", "t1"}, []string{"50.00", "30.00", "33.33"})

	res, err := f.svc.Apply(ctx, "o2", "TEN")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeApplied, res.Outcome)
	assert.Equal(t, 2, res.ItemsApplied)
	assert.Equal(t, "8.33", res.Discount)

	order := f.reload(t, "o2")
	assert.Equal(t, "105.00", order.Total.StringFixed(2))
	assertTotalsConsistent(t, order)

	var used int64
	require.NoError(t, f.db.Model(&model.CouponUser{}).Count(&used).Error)
	assert.Zero(t, used, "anonymous order does not record a coupon user")
}

func TestApplyCouponOtherTeacher(t *testing.T) {
	f := newCouponFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "t9", CouponInput{Code: "OTHER", Discount: 50})
	require.NoError(t, err)
	f.seedOrder(t, "o3", nil, []string{"t1"}, []string{"100.00"})

	res, err := f.svc.Apply(ctx, "o3", "OTHER")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeNotApplicable, res.Outcome)

	order := f.reload(t, "o3")
	assert.Equal(t, "100.00", order.Total.StringFixed(2))
	assert.True(t, order.Saved.IsZero())
	assert.Empty(t, order.Coupons)
}

func TestApplyCouponErrors(t *testing.T) {
	f := newCouponFixture(t)
	ctx := context.Background()

	inactive := false
	_, err := f.svc.Create(ctx, "t1", CouponInput{Code: "OFF", Discount: 10, Active: &inactive})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "t1", CouponInput{Code: "ON", Discount: 10})
	require.NoError(t, err)
	paid := f.seedOrder(t, "paid", nil, []string{"t1"}, []string{"10.00"})
	_, err = f.orders.TransitionStatus(ctx, paid.ID, orderModel.PaymentProcessing, orderModel.PaymentPaid, nil)
	require.NoError(t, err)
	f.seedOrder(t, "open", nil, []string{"t1"}, []string{"10.00"})

	_, err = f.svc.Apply(ctx, "missing", "ON")
	assert.True(t, bizerr.IsKind(err, bizerr.KindNotFound))
	_, err = f.svc.Apply(ctx, "open", "NOPE")
	assert.True(t, bizerr.IsKind(err, bizerr.KindNotFound))
	_, err = f.svc.Apply(ctx, "open", "OFF")
	assert.True(t, bizerr.IsKind(err, bizerr.KindNotFound))
	_, err = f.svc.Apply(ctx, "paid", "ON")
	assert.True(t, bizerr.IsKind(err, bizerr.KindValidation))
}

func TestApplyCouponAfterCheckoutStarted(t *testing.T) {
	f := newCouponFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "t1", CouponInput{Code: "SAVE10", Discount: 10})
	require.NoError(t, err)
	order := f.seedOrder(t, "locked", nil, []string{"t1"}, []string{"100.00"})
	require.NoError(t, f.orders.SetCheckoutChannel(ctx, order.ID, "alipay"))

	_, err = f.svc.Apply(ctx, "locked", "SAVE10")
	require.Error(t, err)
	assert.True(t, bizerr.IsKind(err, bizerr.KindValidation))

	// 渠道侧的金额仍等于订单总额
	got := f.reload(t, "locked")
	assert.Equal(t, "100.00", got.Total.StringFixed(2))
	assert.True(t, got.Saved.IsZero())
	assert.Empty(t, got.Coupons)
}

func TestCouponCRUDIsTeacherScoped(t *testing.T) {
	f := newCouponFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, "t1", CouponInput{Code: "MINE", Discount: 15})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, "t2", CouponInput{Code: "MINE", Discount: 5})
	assert.True(t, bizerr.IsKind(err, bizerr.KindConflict))
	_, err = f.svc.Create(ctx, "t1", CouponInput{Code: "BIG", Discount: 101})
	assert.True(t, bizerr.IsKind(err, bizerr.KindValidation))

	_, err = f.svc.Get(ctx, "t2", c.ID)
	assert.True(t, bizerr.IsKind(err, bizerr.KindNotFound))

	off := false
	updated, err := f.svc.Update(ctx, "t1", c.ID, CouponInput{Code: "MINE2", Discount: 30, Active: &off})
	require.NoError(t, err)
	assert.Equal(t, "MINE2", updated.Code)
	assert.Equal(t, 30, updated.Discount)
	assert.False(t, updated.Active)

	list, err := f.svc.List(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.True(t, bizerr.IsKind(f.svc.Delete(ctx, "t2", c.ID), bizerr.KindNotFound))
	require.NoError(t, f.svc.Delete(ctx, "t1", c.ID))
	list, err = f.svc.List(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
