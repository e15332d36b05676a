package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 缓存指标
	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal *prometheus.CounterVec

	// 业务指标
	ordersCreatedTotal  prometheus.Counter
	couponApplyTotal    *prometheus.CounterVec
	paymentResultsTotal *prometheus.CounterVec
	providerDuration    *prometheus.HistogramVec
	enrollmentsTotal    prometheus.Counter
}

// NewMetricsCollector 创建指标收集器，reg 为 nil 时注册到默认 Registerer
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &MetricsCollector{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		cacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_prefix"},
		),

		cacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_prefix"},
		),

		ordersCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "orders_created_total",
				Help: "Total number of orders created from carts",
			},
		),

		couponApplyTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coupon_apply_total",
				Help: "Coupon apply attempts by outcome",
			},
			[]string{"outcome"},
		),

		paymentResultsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_results_total",
				Help: "Payment reconciliation results by channel",
			},
			[]string{"channel", "result"},
		),

		providerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_provider_duration_seconds",
				Help:    "Latency of outbound payment provider calls",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"channel", "operation", "status"},
		),

		enrollmentsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "enrollments_created_total",
				Help: "Total number of enrollments created by payment success",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, getStatusCategory(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCacheOperation 记录缓存命中情况
func (m *MetricsCollector) RecordCacheOperation(keyPrefix string, hit bool) {
	if hit {
		m.cacheHitsTotal.WithLabelValues(keyPrefix).Inc()
		return
	}
	m.cacheMissesTotal.WithLabelValues(keyPrefix).Inc()
}

// RecordOrderCreated 订单创建
func (m *MetricsCollector) RecordOrderCreated() {
	m.ordersCreatedTotal.Inc()
}

// RecordCouponApply 优惠券使用结果
func (m *MetricsCollector) RecordCouponApply(outcome string) {
	m.couponApplyTotal.WithLabelValues(outcome).Inc()
}

// RecordPaymentResult 支付对账结果
func (m *MetricsCollector) RecordPaymentResult(channel, result string) {
	m.paymentResultsTotal.WithLabelValues(channel, result).Inc()
}

// RecordEnrollments 新增选课数
func (m *MetricsCollector) RecordEnrollments(n int) {
	m.enrollmentsTotal.Add(float64(n))
}

// PerformanceTracker 外部调用耗时追踪器
type PerformanceTracker struct {
	collector *MetricsCollector
	channel   string
	operation string
	startTime time.Time
}

// TrackProvider 开始追踪一次支付渠道调用
func (m *MetricsCollector) TrackProvider(channel, operation string) *PerformanceTracker {
	return &PerformanceTracker{
		collector: m,
		channel:   channel,
		operation: operation,
		startTime: time.Now(),
	}
}

// Finish 结束追踪
func (pt *PerformanceTracker) Finish(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	pt.collector.providerDuration.
		WithLabelValues(pt.channel, pt.operation, status).
		Observe(time.Since(pt.startTime).Seconds())
}

func getStatusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return strconv.Itoa(status)
	}
}

// 全局指标收集器
var (
	globalCollector *MetricsCollector
	once            sync.Once
)

// GetGlobalCollector 获取全局指标收集器
func GetGlobalCollector() *MetricsCollector {
	once.Do(func() {
		globalCollector = NewMetricsCollector(nil)
	})
	return globalCollector
}
