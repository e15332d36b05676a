package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCollector(t *testing.T) {
	m := NewMetricsCollector(prometheus.NewRegistry())

	m.RecordHTTPRequest("GET", "/cart/:cart_id/items", 200, 10*time.Millisecond)
	m.RecordHTTPRequest("POST", "/orders", 404, 10*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/orders", "4xx")))

	m.RecordCouponApply("applied")
	m.RecordCouponApply("applied")
	m.RecordCouponApply("already_applied")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.couponApplyTotal.WithLabelValues("applied")))

	m.RecordPaymentResult("stripe", "paid")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentResultsTotal.WithLabelValues("stripe", "paid")))

	m.RecordOrderCreated()
	m.RecordEnrollments(3)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersCreatedTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.enrollmentsTotal))

	m.RecordCacheOperation("dashboard", false)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheMissesTotal.WithLabelValues("dashboard")))

	m.TrackProvider("paypal", "get_order").Finish(errors.New("timeout"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.providerDuration))
}

func TestGetStatusCategory(t *testing.T) {
	assert.Equal(t, "2xx", getStatusCategory(201))
	assert.Equal(t, "3xx", getStatusCategory(303))
	assert.Equal(t, "5xx", getStatusCategory(502))
	assert.Equal(t, "0", getStatusCategory(0))
}

func TestGetGlobalCollectorSingleton(t *testing.T) {
	assert.Same(t, GetGlobalCollector(), GetGlobalCollector())
}
