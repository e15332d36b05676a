package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	"course_mall/docs"
	_ "course_mall/internal/domain/cart"
	_ "course_mall/internal/domain/catalog"
	_ "course_mall/internal/domain/common"
	_ "course_mall/internal/domain/coupon"
	_ "course_mall/internal/domain/dashboard"
	_ "course_mall/internal/domain/enrollment"
	_ "course_mall/internal/domain/notification"
	_ "course_mall/internal/domain/order"
	_ "course_mall/internal/domain/payment"
	_ "course_mall/internal/domain/user"
	"course_mall/internal/pkg/config"
	"course_mall/internal/pkg/middleware"
	"course_mall/internal/pkg/registry"
	"course_mall/pkg/database"
	"course_mall/pkg/logger"
	"course_mall/pkg/metrics"
	"course_mall/pkg/response"
	"course_mall/pkg/validate"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// @title Course Mall API
// @version 1.0
// @description 课程商城后端：购物车、订单、优惠券、支付、选课
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, relying on environment")
	}

	config.LoadConfig()
	cfg := config.GlobalConfig

	if err := logger.InitLogger(cfg.App.Env, cfg.App.Debug); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	appLog := logger.Log

	db, err := database.InitDatabase(cfg.Database, cfg.App.Debug)
	if err != nil {
		appLog.Fatal("init database", zap.Error(err))
	}

	rdb, err := database.InitRedis(cfg.Redis)
	if err != nil {
		// 缓存不可用时看板直接查库
		appLog.Warn("redis unavailable", zap.Error(err))
		rdb = nil
	}

	reportDB, err := database.InitReportDB(cfg.Database)
	if err != nil {
		appLog.Warn("report db unavailable", zap.Error(err))
		reportDB = nil
	}

	if err := validate.Register(); err != nil {
		appLog.Fatal("register validators", zap.Error(err))
	}

	gin.SetMode(cfg.Server.Mode)
	collector := metrics.GetGlobalCollector()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Frontend.SiteURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.LoggerMiddleware(appLog))
	r.Use(middleware.MetricsMiddleware(collector))
	r.Use(middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(rate.Limit(20), 40)))

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			response.Error(c, http.StatusServiceUnavailable, response.ErrServerInternal, err.Error())
			return
		}
		response.Success(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	moduleCtx := &registry.ModuleContext{
		DB:       db,
		ReportDB: reportDB,
		Redis:    rdb,
		Router:   r,
		Logger:   appLog,
		Metrics:  collector,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		appLog.Fatal("init modules", zap.Error(err))
	}
	defer moduleCtx.Shutdown()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		appLog.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("server stopped unexpectedly", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server shutdown", zap.Error(err))
	}
}
