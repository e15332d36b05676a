package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"
	enrollmentModel "course_mall/internal/domain/enrollment/model"
	enrollmentRepo "course_mall/internal/domain/enrollment/repository"
	notificationModel "course_mall/internal/domain/notification/model"
	notificationRepo "course_mall/internal/domain/notification/repository"
	orderModel "course_mall/internal/domain/order/model"
	orderRepo "course_mall/internal/domain/order/repository"
	"course_mall/internal/domain/payment/model"
	"course_mall/internal/domain/payment/repository"
	"course_mall/internal/domain/payment/strategy"
	"course_mall/internal/pkg/worker"
	"course_mall/pkg/bizerr"
	"course_mall/pkg/database"
	"course_mall/pkg/metrics"
	"course_mall/pkg/response"
	"course_mall/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReconcileInput 前端支付完成后回传的信息，两个ID只会有一个有效
type ReconcileInput struct {
	OrderNo       string
	SessionID     string
	PaypalOrderID string
}

// Pusher 异步推送队列，满了返回 false
type Pusher interface {
	AddTask(task worker.PushTask) bool
}

type PaymentService interface {
	RegisterStrategy(s strategy.PaymentStrategy)
	CreateCheckout(ctx context.Context, channel, orderNo string) (*strategy.Checkout, error)
	Reconcile(ctx context.Context, in ReconcileInput) (*model.Result, error)
	ProcessPaymentSuccess(ctx context.Context, channel, orderNo string) (*model.Result, error)
	MarkFailed(ctx context.Context, channel, orderNo string) (*model.Result, error)
	HandleNotify(ctx context.Context, channel string, values url.Values) (*model.Result, error)
}

type paymentService struct {
	repo          repository.PaymentRepository
	orders        orderRepo.OrderRepository
	enrollments   enrollmentRepo.EnrollmentRepository
	notifications notificationRepo.NotificationRepository
	tx            database.TxRunner
	strategies    map[string]strategy.PaymentStrategy
	currency      string
	pusher        Pusher
	metrics       *metrics.MetricsCollector
	log           *zap.Logger
}

// Deps 支付服务依赖，Pusher 可为空
type Deps struct {
	Repo          repository.PaymentRepository
	Orders        orderRepo.OrderRepository
	Enrollments   enrollmentRepo.EnrollmentRepository
	Notifications notificationRepo.NotificationRepository
	Tx            database.TxRunner
	Currency      string
	Pusher        Pusher
	Metrics       *metrics.MetricsCollector
	Log           *zap.Logger
}

func NewPaymentService(d Deps) PaymentService {
	return &paymentService{
		repo:          d.Repo,
		orders:        d.Orders,
		enrollments:   d.Enrollments,
		notifications: d.Notifications,
		tx:            d.Tx,
		strategies:    make(map[string]strategy.PaymentStrategy),
		currency:      d.Currency,
		pusher:        d.Pusher,
		metrics:       d.Metrics,
		log:           d.Log,
	}
}

// RegisterStrategy 注册支付策略
func (s *paymentService) RegisterStrategy(st strategy.PaymentStrategy) {
	s.strategies[st.Channel()] = st
}

// CreateCheckout 为处理中的订单创建支付会话，会话ID先落库再返回跳转地址。
// 发起前在行锁内标记订单已进入支付，之后优惠券不能再改金额
func (s *paymentService) CreateCheckout(ctx context.Context, channel, orderNo string) (*strategy.Checkout, error) {
	creator, ok := s.strategies[channel].(strategy.CheckoutCreator)
	if !ok {
		return nil, bizerr.Validation(response.ErrPaymentChannel, fmt.Sprintf("unsupported payment channel: %s", channel))
	}

	var order *orderModel.Order
	var locked bool
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		o, err := orders.GetByOrderNoForUpdate(ctx, orderNo)
		if err != nil {
			return notFoundOr(err, response.ErrOrderNotFound, "order not found")
		}
		if !o.IsProcessing() {
			return bizerr.Validation(response.ErrOrderNotPayable, "order is no longer awaiting payment")
		}
		if !o.AmountLocked() {
			if err := orders.SetCheckoutChannel(ctx, o.ID, channel); err != nil {
				return fmt.Errorf("lock order amount: %w", err)
			}
			locked = true
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	tracker := s.metrics.TrackProvider(channel, "checkout")
	checkout, err := creator.Pay(ctx, strategy.CheckoutRequest{
		OrderNo:   order.OrderNo,
		Email:     order.Email,
		BuyerName: order.FullName,
		Amount:    order.Total,
		Currency:  s.currency,
	})
	tracker.Finish(err)
	if err != nil {
		s.log.Error("create checkout failed", zap.String("channel", channel), zap.String("order_no", orderNo), zap.Error(err))
		// 渠道没建成单，放开金额
		if locked {
			if rerr := s.orders.SetCheckoutChannel(ctx, order.ID, ""); rerr != nil {
				s.log.Warn("unlock order amount failed", zap.String("order_no", orderNo), zap.Error(rerr))
			}
		}
		return nil, bizerr.Provider(response.ErrPaymentProvider, err, "Something went wrong when trying to make payment.")
	}

	if channel == strategy.ChannelStripe {
		if err := s.orders.SetStripeSession(ctx, order.ID, checkout.SessionID); err != nil {
			return nil, fmt.Errorf("save stripe session: %w", err)
		}
	}
	s.recordAttempt(ctx, order.OrderNo, channel, checkout.SessionID, "checkout", nil)
	return checkout, nil
}

// Reconcile 向渠道查询支付结果并推进订单状态。
// 钱包订单ID优先，其次卡支付会话ID，都没有则是参数错误。
// 渠道凭据必须属于该订单：会话ID要与下单时保存的一致，钱包订单只能绑定一个订单
func (s *paymentService) Reconcile(ctx context.Context, in ReconcileInput) (*model.Result, error) {
	order, err := s.orders.GetByOrderNo(ctx, in.OrderNo)
	if err != nil {
		return nil, notFoundOr(err, response.ErrOrderNotFound, "order not found")
	}

	var channel, ref string
	if id := utils.OptionalID(in.PaypalOrderID); id != nil {
		channel, ref = strategy.ChannelPaypal, *id
		if err := s.checkPaypalOwner(ctx, order, ref); err != nil {
			return nil, err
		}
	} else if id := utils.OptionalID(in.SessionID); id != nil {
		channel, ref = strategy.ChannelStripe, *id
		if order.StripeSessionID == "" || order.StripeSessionID != ref {
			return nil, s.mismatch(order, channel, ref, "session does not belong to this order")
		}
	} else {
		return nil, bizerr.Validation(response.ErrPaymentInfoMissing, "Payment information missing")
	}

	querier, ok := s.strategies[channel].(strategy.StatusQuerier)
	if !ok {
		return nil, bizerr.Validation(response.ErrPaymentChannel, fmt.Sprintf("unsupported payment channel: %s", channel))
	}

	tracker := s.metrics.TrackProvider(channel, "query")
	state, err := querier.QueryStatus(ctx, ref)
	tracker.Finish(err)
	if err != nil {
		s.log.Error("query payment status failed", zap.String("channel", channel), zap.String("order_no", order.OrderNo), zap.Error(err))
		return nil, bizerr.Provider(response.ErrPaymentProvider, err, "An error occurred while verifying the payment")
	}
	s.recordAttempt(ctx, order.OrderNo, channel, ref, string(state.Status), map[string]string{
		"session_id":      in.SessionID,
		"paypal_order_id": in.PaypalOrderID,
		"order_ref":       state.OrderRef,
	})

	if state.OrderRef != "" && state.OrderRef != order.OrderNo {
		return nil, s.mismatch(order, channel, ref, "payment belongs to another order")
	}
	// 多付不拦，少付不认
	if state.Status == strategy.StatusPaid && state.Amount != nil && state.Amount.LessThan(order.Total) {
		return nil, s.mismatch(order, channel, ref, "paid amount is less than the order total")
	}

	if channel == strategy.ChannelPaypal {
		if err := s.bindPaypalOrder(ctx, order, ref); err != nil {
			return nil, err
		}
	}
	return s.apply(ctx, channel, order.OrderNo, state.Status)
}

// checkPaypalOwner 订单已绑定别的钱包订单，或钱包订单已绑在别的订单上，都拒绝
func (s *paymentService) checkPaypalOwner(ctx context.Context, order *orderModel.Order, ref string) error {
	if order.PaypalOrderID != "" {
		if order.PaypalOrderID != ref {
			return s.mismatch(order, strategy.ChannelPaypal, ref, "paypal order does not belong to this order")
		}
		return nil
	}
	owner, err := s.orders.GetByPaypalOrder(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("query order by paypal order: %w", err)
	}
	if owner.ID != order.ID {
		return s.mismatch(order, strategy.ChannelPaypal, ref, "paypal order already settled another order")
	}
	return nil
}

// bindPaypalOrder 并发下另一个请求可能先绑定，靠条件更新和唯一索引兜底
func (s *paymentService) bindPaypalOrder(ctx context.Context, order *orderModel.Order, ref string) error {
	if order.PaypalOrderID == ref {
		return nil
	}
	bound, err := s.orders.BindPaypalOrder(ctx, order.ID, ref)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return s.mismatch(order, strategy.ChannelPaypal, ref, "paypal order already settled another order")
	}
	if err != nil {
		return fmt.Errorf("save paypal order: %w", err)
	}
	if bound {
		return nil
	}
	current, err := s.orders.GetByOrderNo(ctx, order.OrderNo)
	if err != nil {
		return err
	}
	if current.PaypalOrderID != ref {
		return s.mismatch(order, strategy.ChannelPaypal, ref, "paypal order does not belong to this order")
	}
	return nil
}

func (s *paymentService) mismatch(order *orderModel.Order, channel, ref, msg string) error {
	s.log.Warn("payment reference rejected",
		zap.String("order_no", order.OrderNo),
		zap.String("channel", channel),
		zap.String("ref", ref),
		zap.String("reason", msg))
	return bizerr.Validation(response.ErrPaymentMismatch, msg)
}

// HandleNotify 处理渠道异步通知，金额与订单不符直接拒绝
func (s *paymentService) HandleNotify(ctx context.Context, channel string, values url.Values) (*model.Result, error) {
	decoder, ok := s.strategies[channel].(strategy.NotifyDecoder)
	if !ok {
		return nil, bizerr.Validation(response.ErrPaymentChannel, fmt.Sprintf("unsupported payment channel: %s", channel))
	}

	n, err := decoder.Notify(values)
	if err != nil {
		return nil, bizerr.Wrap(bizerr.KindValidation, response.ErrPaymentNotification, err, "invalid payment notification")
	}

	order, err := s.orders.GetByOrderNo(ctx, n.OrderNo)
	if err != nil {
		return nil, notFoundOr(err, response.ErrOrderNotFound, "order not found")
	}
	if !n.Amount.Equal(order.Total) {
		s.log.Warn("notification amount mismatch",
			zap.String("order_no", order.OrderNo),
			zap.String("expected", utils.Money(order.Total)),
			zap.String("got", utils.Money(n.Amount)))
		return nil, bizerr.Validation(response.ErrPaymentNotification, "notification amount does not match order")
	}

	s.recordAttempt(ctx, order.OrderNo, channel, order.OrderNo, string(n.Status), values)
	return s.apply(ctx, channel, order.OrderNo, n.Status)
}

func (s *paymentService) apply(ctx context.Context, channel, orderNo string, status strategy.Status) (*model.Result, error) {
	switch status {
	case strategy.StatusPaid:
		return s.ProcessPaymentSuccess(ctx, channel, orderNo)
	case strategy.StatusFailed:
		return s.MarkFailed(ctx, channel, orderNo)
	default:
		s.metrics.RecordPaymentResult(channel, model.OutcomePending)
		return &model.Result{OrderNo: orderNo, Outcome: model.OutcomePending, PaymentStatus: orderModel.PaymentProcessing}, nil
	}
}

// ProcessPaymentSuccess 在订单行锁内把订单置为已支付，并一次性写入通知和选课。
// 订单已不在处理中时没有任何副作用。
func (s *paymentService) ProcessPaymentSuccess(ctx context.Context, channel, orderNo string) (*model.Result, error) {
	result := &model.Result{OrderNo: orderNo}
	var paid *orderModel.Order

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)

		order, err := orders.GetByOrderNoForUpdate(ctx, orderNo)
		if err != nil {
			return notFoundOr(err, response.ErrOrderNotFound, "order not found")
		}
		result.PaymentStatus = order.PaymentStatus
		if !order.IsProcessing() {
			result.Outcome = terminalOutcome(order.PaymentStatus)
			return nil
		}

		now := time.Now()
		n, err := orders.TransitionStatus(ctx, order.ID, orderModel.PaymentProcessing, orderModel.PaymentPaid, &now)
		if err != nil {
			return fmt.Errorf("mark order paid: %w", err)
		}
		if n == 0 {
			result.Outcome = model.OutcomeAlreadyPaid
			return nil
		}

		items, err := orders.ListItems(ctx, order.ID)
		if err != nil {
			return err
		}

		notes := make([]*notificationModel.Notification, 0, len(items)+1)
		if order.StudentID != nil {
			notes = append(notes, &notificationModel.Notification{
				UserID:  order.StudentID,
				OrderID: &order.ID,
				Type:    notificationModel.TypeEnrollmentCompleted,
			})
		}
		for i := range items {
			item := &items[i]
			notes = append(notes, &notificationModel.Notification{
				TeacherID:   &item.TeacherID,
				OrderID:     &order.ID,
				OrderItemID: &item.ID,
				Type:        notificationModel.TypeNewOrder,
			})
		}
		if err := s.notifications.WithTx(tx).CreateBatch(ctx, notes); err != nil {
			return fmt.Errorf("create notifications: %w", err)
		}

		// 匿名订单没有可选课的学生
		if order.StudentID != nil {
			enrollments := s.enrollments.WithTx(tx)
			for _, item := range items {
				exists, err := enrollments.Exists(ctx, item.CourseID, *order.StudentID, item.ID)
				if err != nil {
					return err
				}
				if exists {
					continue
				}
				if err := enrollments.Create(ctx, &enrollmentModel.Enrollment{
					CourseID:    item.CourseID,
					UserID:      *order.StudentID,
					TeacherID:   item.TeacherID,
					OrderItemID: item.ID,
				}); err != nil {
					return fmt.Errorf("create enrollment: %w", err)
				}
				result.Enrollments++
			}
		}

		result.Outcome = model.OutcomePaid
		result.PaymentStatus = orderModel.PaymentPaid
		paid = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPaymentResult(channel, result.Outcome)
	if paid == nil {
		return result, nil
	}

	s.metrics.RecordEnrollments(result.Enrollments)
	s.log.Info("order paid",
		zap.String("order_no", orderNo),
		zap.String("channel", channel),
		zap.Int("enrollments", result.Enrollments))
	s.pushPaid(paid)
	return result, nil
}

// MarkFailed 只允许 Processing -> Failed，终态订单原样返回
func (s *paymentService) MarkFailed(ctx context.Context, channel, orderNo string) (*model.Result, error) {
	result := &model.Result{OrderNo: orderNo}
	var transitioned bool

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		order, err := orders.GetByOrderNoForUpdate(ctx, orderNo)
		if err != nil {
			return notFoundOr(err, response.ErrOrderNotFound, "order not found")
		}
		result.PaymentStatus = order.PaymentStatus
		if !order.IsProcessing() {
			result.Outcome = terminalOutcome(order.PaymentStatus)
			return nil
		}
		n, err := orders.TransitionStatus(ctx, order.ID, orderModel.PaymentProcessing, orderModel.PaymentFailed, nil)
		if err != nil {
			return fmt.Errorf("mark order failed: %w", err)
		}
		result.Outcome = model.OutcomeFailed
		result.PaymentStatus = orderModel.PaymentFailed
		transitioned = n > 0
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPaymentResult(channel, result.Outcome)
	if transitioned {
		s.log.Info("payment failed", zap.String("order_no", orderNo), zap.String("channel", channel))
	}
	return result, nil
}

// terminalOutcome 订单已是终态时的对账结果
func terminalOutcome(status string) string {
	if status == orderModel.PaymentFailed {
		return model.OutcomeAlreadyFailed
	}
	return model.OutcomeAlreadyPaid
}

func (s *paymentService) pushPaid(order *orderModel.Order) {
	if s.pusher == nil || order.StudentID == nil {
		return
	}
	ok := s.pusher.AddTask(worker.PushTask{
		AccountID: *order.StudentID,
		Title:     "支付成功",
		Body:      fmt.Sprintf("您的订单 %s 已支付成功，课程已开通。", order.OrderNo),
		Ext:       map[string]string{"order_no": order.OrderNo},
	})
	if !ok {
		s.log.Warn("push queue full, dropping payment push", zap.String("order_no", order.OrderNo))
	}
}

// recordAttempt 流水写失败只记日志，不影响支付流程
func (s *paymentService) recordAttempt(ctx context.Context, orderNo, channel, ref, result string, extra interface{}) {
	attempt := &model.Attempt{OrderNo: orderNo, Channel: channel, Reference: ref, Result: result}
	if extra != nil {
		if raw, err := json.Marshal(extra); err == nil {
			attempt.ExtraParams = raw
		}
	}
	if err := s.repo.RecordAttempt(ctx, attempt); err != nil {
		s.log.Warn("record payment attempt failed", zap.String("order_no", orderNo), zap.Error(err))
	}
}

func notFoundOr(err error, code int, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return bizerr.NotFound(code, msg)
	}
	return err
}
