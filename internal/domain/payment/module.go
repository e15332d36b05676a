package payment

import (
	enrollmentRepo "course_mall/internal/domain/enrollment/repository"
	notificationRepo "course_mall/internal/domain/notification/repository"
	orderRepo "course_mall/internal/domain/order/repository"
	"course_mall/internal/domain/payment/handler"
	"course_mall/internal/domain/payment/repository"
	"course_mall/internal/domain/payment/service"
	"course_mall/internal/domain/payment/strategy"
	"course_mall/internal/pkg/config"
	"course_mall/internal/pkg/push"
	"course_mall/internal/pkg/registry"
	"course_mall/internal/pkg/worker"
	"course_mall/pkg/database"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentModule 支付模块
type PaymentModule struct{}

func init() {
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	// 依赖订单、选课、通知的表
	return 40
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	cfg := config.GlobalConfig

	// 1. 推送协程池
	pool := worker.NewWorkerPool(push.New(cfg.Push, ctx.Logger), ctx.Logger, 4, 256)
	pool.Start()
	ctx.OnShutdown(pool.Stop)

	// 2. 依赖注入
	pService := service.NewPaymentService(service.Deps{
		Repo:          repository.NewPaymentRepository(ctx.DB),
		Orders:        orderRepo.NewOrderRepository(ctx.DB),
		Enrollments:   enrollmentRepo.NewEnrollmentRepository(ctx.DB),
		Notifications: notificationRepo.NewNotificationRepository(ctx.DB),
		Tx:            database.NewTransactor(ctx.DB),
		Currency:      cfg.App.Currency,
		Pusher:        pool,
		Metrics:       ctx.Metrics,
		Log:           ctx.Logger,
	})

	// 3. 注册支付策略，未配置的渠道跳过
	if cfg.Stripe.SecretKey != "" {
		st, err := strategy.NewStripeStrategy(strategy.NewStripeSessionAPI(cfg.Stripe.SecretKey), cfg.Frontend.SiteURL)
		if err != nil {
			ctx.Logger.Error("Failed to init Stripe strategy", zap.Error(err))
		} else {
			pService.RegisterStrategy(st)
		}
	}

	if cfg.Paypal.ClientID != "" {
		pp, err := strategy.NewPaypalStrategy(cfg.Paypal.BaseURL, cfg.Paypal.ClientID, cfg.Paypal.ClientSecret, cfg.Paypal.Timeout)
		if err != nil {
			ctx.Logger.Error("Failed to init PayPal strategy", zap.Error(err))
		} else {
			pService.RegisterStrategy(pp)
		}
	}

	if cfg.Alipay.AppID != "" {
		ali, err := strategy.NewAlipayStrategy(cfg.Alipay)
		if err != nil {
			ctx.Logger.Error("Failed to init Alipay strategy", zap.Error(err))
		} else {
			pService.RegisterStrategy(ali)
		}
	}

	pHandler := handler.NewPaymentHandler(pService)

	// 4. 路由注册
	setupRoutes(ctx.Router, pHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PaymentHandler) {
	g := r.Group("/payment")

	g.POST("/checkout/stripe", h.StripeCheckout)
	g.POST("/checkout/alipay", h.AlipayCheckout)
	g.POST("/success", h.PaymentSuccess)

	// 支付回调 (无需鉴权，但需验签)
	g.POST("/notify/alipay", h.AlipayNotify)
}
