package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"course_mall/internal/domain/coupon/model"
	"course_mall/internal/domain/coupon/repository"
	orderRepo "course_mall/internal/domain/order/repository"
	"course_mall/pkg/bizerr"
	"course_mall/pkg/database"
	"course_mall/pkg/metrics"
	"course_mall/pkg/response"
	"course_mall/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CouponInput 讲师新建/修改优惠券
type CouponInput struct {
	Code     string
	Discount int
	Active   *bool
}

type CouponService interface {
	Apply(ctx context.Context, orderNo, code string) (*model.ApplyResult, error)

	List(ctx context.Context, teacherID string) ([]model.Coupon, error)
	Get(ctx context.Context, teacherID, id string) (*model.Coupon, error)
	Create(ctx context.Context, teacherID string, in CouponInput) (*model.Coupon, error)
	Update(ctx context.Context, teacherID, id string, in CouponInput) (*model.Coupon, error)
	Delete(ctx context.Context, teacherID, id string) error
}

type couponService struct {
	repo    repository.CouponRepository
	orders  orderRepo.OrderRepository
	tx      database.TxRunner
	metrics *metrics.MetricsCollector
	log     *zap.Logger
}

func NewCouponService(
	repo repository.CouponRepository,
	orders orderRepo.OrderRepository,
	tx database.TxRunner,
	collector *metrics.MetricsCollector,
	log *zap.Logger,
) CouponService {
	return &couponService{repo: repo, orders: orders, tx: tx, metrics: collector, log: log}
}

// Apply 把优惠券用到订单中所有属于该讲师的订单项上。
// 整个检查和修改过程持有订单行锁，已带此券的订单项跳过。
func (s *couponService) Apply(ctx context.Context, orderNo, code string) (*model.ApplyResult, error) {
	result := &model.ApplyResult{}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		coupons := s.repo.WithTx(tx)

		order, err := orders.GetByOrderNoForUpdate(ctx, orderNo)
		if err != nil {
			return notFoundOr(err, response.ErrOrderNotFound, "order not found")
		}
		coupon, err := coupons.GetByCode(ctx, strings.TrimSpace(code))
		if err != nil {
			return notFoundOr(err, response.ErrCouponNotFound, "coupon not found")
		}
		if !coupon.Active {
			return bizerr.NotFound(response.ErrCouponInactive, "coupon not found")
		}
		if !order.IsProcessing() {
			return bizerr.Validation(response.ErrCouponOrderLocked, "order is no longer awaiting payment")
		}
		// 渠道侧已按原金额建单，再改总额会对不上账
		if order.AmountLocked() {
			return bizerr.Validation(response.ErrCouponOrderLocked, "payment has already been started for this order")
		}

		items, err := orders.ListItemsByTeacher(ctx, order.ID, coupon.TeacherID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			result.Outcome = model.OutcomeNotApplicable
			result.Discount = utils.Money(decimal.Zero)
			result.OrderTotal = utils.Money(order.Total)
			return nil
		}

		discounted := decimal.Zero
		for i := range items {
			item := &items[i]
			has, err := orders.ItemHasCoupon(ctx, item.ID, coupon.ID)
			if err != nil {
				return err
			}
			if has {
				continue
			}

			// 按分取整，保证订单总额始终等于各项之和
			d := utils.PercentOf(item.Total, int64(coupon.Discount)).Round(2)
			item.Total = item.Total.Sub(d)
			item.Price = item.Price.Sub(d)
			item.Saved = item.Saved.Add(d)
			item.AppliedCoupon = true
			if err := orders.UpdateItemAmounts(ctx, item); err != nil {
				return fmt.Errorf("update order item: %w", err)
			}
			if err := orders.AddItemCoupon(ctx, item.ID, coupon.ID); err != nil {
				return fmt.Errorf("link coupon to item: %w", err)
			}
			discounted = discounted.Add(d)
			result.ItemsApplied++
		}

		if result.ItemsApplied == 0 {
			result.Outcome = model.OutcomeAlreadyApplied
			result.Discount = utils.Money(decimal.Zero)
			result.OrderTotal = utils.Money(order.Total)
			return nil
		}

		if err := orders.AddOrderCoupon(ctx, order.ID, coupon.ID); err != nil {
			return fmt.Errorf("link coupon to order: %w", err)
		}
		order.Total = order.Total.Sub(discounted)
		order.Saved = order.Saved.Add(discounted)
		if err := orders.UpdateTotals(ctx, order); err != nil {
			return fmt.Errorf("update order totals: %w", err)
		}
		// 匿名订单没有可记录的用户
		if order.StudentID != nil {
			if err := coupons.AddUsedBy(ctx, coupon.ID, *order.StudentID); err != nil {
				return fmt.Errorf("record coupon user: %w", err)
			}
		}

		result.Outcome = model.OutcomeApplied
		result.Discount = utils.Money(discounted)
		result.OrderTotal = utils.Money(order.Total)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCouponApply(string(result.Outcome))
	s.log.Info("coupon applied",
		zap.String("order_no", orderNo),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("items", result.ItemsApplied),
	)
	return result, nil
}

func (s *couponService) List(ctx context.Context, teacherID string) ([]model.Coupon, error) {
	return s.repo.ListByTeacher(ctx, teacherID)
}

func (s *couponService) Get(ctx context.Context, teacherID, id string) (*model.Coupon, error) {
	coupon, err := s.repo.GetForTeacher(ctx, teacherID, id)
	if err != nil {
		return nil, notFoundOr(err, response.ErrCouponNotFound, "coupon not found")
	}
	return coupon, nil
}

func (s *couponService) Create(ctx context.Context, teacherID string, in CouponInput) (*model.Coupon, error) {
	if err := validateDiscount(in.Discount); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.Code)
	taken, err := s.repo.CodeTaken(ctx, code, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, bizerr.New(bizerr.KindConflict, response.ErrCouponCodeExists, "coupon code already exists")
	}

	coupon := &model.Coupon{
		TeacherID: teacherID,
		Code:      code,
		Discount:  in.Discount,
		Active:    in.Active == nil || *in.Active,
	}
	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("create coupon: %w", err)
	}
	return coupon, nil
}

func (s *couponService) Update(ctx context.Context, teacherID, id string, in CouponInput) (*model.Coupon, error) {
	if err := validateDiscount(in.Discount); err != nil {
		return nil, err
	}
	coupon, err := s.Get(ctx, teacherID, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"discount": in.Discount}
	if code := strings.TrimSpace(in.Code); code != "" && code != coupon.Code {
		taken, err := s.repo.CodeTaken(ctx, code, coupon.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, bizerr.New(bizerr.KindConflict, response.ErrCouponCodeExists, "coupon code already exists")
		}
		fields["code"] = code
	}
	if in.Active != nil {
		fields["active"] = *in.Active
	}
	if err := s.repo.Update(ctx, coupon.ID, fields); err != nil {
		return nil, fmt.Errorf("update coupon: %w", err)
	}
	return s.Get(ctx, teacherID, id)
}

func (s *couponService) Delete(ctx context.Context, teacherID, id string) error {
	n, err := s.repo.Delete(ctx, teacherID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return bizerr.NotFound(response.ErrCouponNotFound, "coupon not found")
	}
	return nil
}

func validateDiscount(discount int) error {
	if discount < 0 || discount > 100 {
		return bizerr.Validation(response.ErrInvalidParam, "discount must be between 0 and 100")
	}
	return nil
}

func notFoundOr(err error, code int, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return bizerr.NotFound(code, msg)
	}
	return err
}
