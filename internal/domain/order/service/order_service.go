package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	cartRepo "course_mall/internal/domain/cart/repository"
	"course_mall/internal/domain/order/model"
	"course_mall/internal/domain/order/repository"
	userRepo "course_mall/internal/domain/user/repository"
	"course_mall/pkg/bizerr"
	"course_mall/pkg/database"
	"course_mall/pkg/metrics"
	"course_mall/pkg/response"
	"course_mall/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateOrderInput 下单参数，UserID 为空或 "0" 表示匿名
type CreateOrderInput struct {
	FullName string
	Email    string
	Country  string
	CartID   string
	UserID   string
}

type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*model.Order, error)
	GetCheckout(ctx context.Context, orderNo string) (*model.Order, error)
}

type orderService struct {
	repo    repository.OrderRepository
	cart    cartRepo.CartRepository
	users   userRepo.UserRepository
	tx      database.TxRunner
	metrics *metrics.MetricsCollector
	log     *zap.Logger
}

func NewOrderService(
	repo repository.OrderRepository,
	cart cartRepo.CartRepository,
	users userRepo.UserRepository,
	tx database.TxRunner,
	collector *metrics.MetricsCollector,
	log *zap.Logger,
) OrderService {
	return &orderService{repo: repo, cart: cart, users: users, tx: tx, metrics: collector, log: log}
}

// NewOrderNo 时间前缀 + 随机串
func NewOrderNo() string {
	return fmt.Sprintf("%s%s", time.Now().Format("20060102150405"), uuid.New().String()[:8])
}

// CreateOrder 购物车转订单。
// 订单头先以零金额写入，逐条生成订单项并快照购物车上的价格，循环结束后一次性写回汇总金额，
// 最后在同一事务里清空购物车。
func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	studentID := utils.OptionalID(in.UserID)
	if studentID != nil {
		if _, err := s.users.GetByID(ctx, *studentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, bizerr.NotFound(response.ErrUserNotFound, "user not found")
			}
			return nil, err
		}
	}

	order := &model.Order{
		OrderNo:       NewOrderNo(),
		StudentID:     studentID,
		FullName:      in.FullName,
		Email:         in.Email,
		Country:       in.Country,
		PaymentStatus: model.PaymentProcessing,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart := s.cart.WithTx(tx)

		if err := repo.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		lines, err := cart.ListByCart(ctx, in.CartID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}

		subTotal, taxFee, total := decimal.Zero, decimal.Zero, decimal.Zero
		for _, line := range lines {
			if line.Course == nil {
				return bizerr.NotFound(response.ErrCourseNotFound, "course not found")
			}
			item := &model.OrderItem{
				OrderID:      order.ID,
				CourseID:     line.CourseID,
				TeacherID:    line.Course.TeacherID,
				Price:        line.Price,
				TaxFee:       line.TaxFee,
				Total:        line.Total,
				InitialTotal: line.Total,
				Saved:        decimal.Zero,
			}
			if err := repo.CreateItem(ctx, item); err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
			if err := repo.AddTeacher(ctx, order.ID, item.TeacherID); err != nil {
				return fmt.Errorf("add order teacher: %w", err)
			}

			subTotal = subTotal.Add(line.Price)
			taxFee = taxFee.Add(line.TaxFee)
			total = total.Add(line.Total)
		}

		order.SubTotal = subTotal
		order.TaxFee = taxFee
		order.InitialTotal = total
		order.Total = total
		order.Saved = decimal.Zero
		if err := repo.UpdateTotals(ctx, order); err != nil {
			return fmt.Errorf("update order totals: %w", err)
		}

		return cart.DeleteByCart(ctx, in.CartID)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordOrderCreated()
	s.log.Info("order created",
		zap.String("order_no", order.OrderNo),
		zap.String("total", order.Total.StringFixed(2)),
	)
	return order, nil
}

func (s *orderService) GetCheckout(ctx context.Context, orderNo string) (*model.Order, error) {
	order, err := s.repo.GetCheckout(ctx, orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizerr.NotFound(response.ErrOrderNotFound, "order not found")
		}
		return nil, err
	}
	return order, nil
}
