package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"course_mall/internal/domain/payment/model"
	"course_mall/internal/domain/payment/service"
	"course_mall/internal/domain/payment/strategy"
	"course_mall/pkg/bizerr"
	"course_mall/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	service.PaymentService

	checkout  *strategy.Checkout
	result    *model.Result
	err       error
	reconcile service.ReconcileInput
	channel   string
}

func (f *fakeService) CreateCheckout(_ context.Context, channel, _ string) (*strategy.Checkout, error) {
	f.channel = channel
	return f.checkout, f.err
}

func (f *fakeService) Reconcile(_ context.Context, in service.ReconcileInput) (*model.Result, error) {
	f.reconcile = in
	return f.result, f.err
}

func (f *fakeService) HandleNotify(_ context.Context, channel string, _ url.Values) (*model.Result, error) {
	f.channel = channel
	return f.result, f.err
}

func newRouter(svc service.PaymentService) *gin.Engine {
	r := gin.New()
	h := NewPaymentHandler(svc)
	r.POST("/payment/checkout/stripe", h.StripeCheckout)
	r.POST("/payment/checkout/alipay", h.AlipayCheckout)
	r.POST("/payment/success", h.PaymentSuccess)
	r.POST("/payment/notify/alipay", h.AlipayNotify)
	return r
}

func doJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestStripeCheckout(t *testing.T) {
	t.Run("redirects", func(t *testing.T) {
		svc := &fakeService{checkout: &strategy.Checkout{SessionID: "cs_1", RedirectURL: "https://checkout.stripe.com/c/cs_1"}}
		w := doJSON(newRouter(svc), "/payment/checkout/stripe", `{"order_no":"ORD-1"}`)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "https://checkout.stripe.com/c/cs_1", w.Header().Get("Location"))
		assert.Equal(t, strategy.ChannelStripe, svc.channel)
	})

	t.Run("missing order_no", func(t *testing.T) {
		w := doJSON(newRouter(&fakeService{}), "/payment/checkout/stripe", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("order not found", func(t *testing.T) {
		svc := &fakeService{err: bizerr.NotFound(response.ErrOrderNotFound, "order not found")}
		w := doJSON(newRouter(svc), "/payment/checkout/stripe", `{"order_no":"nope"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, response.ErrOrderNotFound, decode(t, w).Code)
	})

	t.Run("provider failure", func(t *testing.T) {
		svc := &fakeService{err: bizerr.Provider(response.ErrPaymentProvider, errors.New("down"), "Something went wrong when trying to make payment.")}
		w := doJSON(newRouter(svc), "/payment/checkout/stripe", `{"order_no":"ORD-1"}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestAlipayCheckout(t *testing.T) {
	svc := &fakeService{checkout: &strategy.Checkout{SessionID: "ORD-1", RedirectURL: "https://openapi.alipay.com/gateway.do?x=1"}}
	w := doJSON(newRouter(svc), "/payment/checkout/alipay", `{"order_no":"ORD-1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, strategy.ChannelAlipay, svc.channel)
	assert.Contains(t, w.Body.String(), "openapi.alipay.com")
}

func TestPaymentSuccess(t *testing.T) {
	t.Run("paid", func(t *testing.T) {
		svc := &fakeService{result: &model.Result{OrderNo: "ORD-1", Outcome: model.OutcomePaid}}
		w := doJSON(newRouter(svc), "/payment/success", `{"order_no":"ORD-1","session_id":"cs_1","paypal_order_id":"null"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Payment Successful", decode(t, w).Message)
		assert.Equal(t, service.ReconcileInput{OrderNo: "ORD-1", SessionID: "cs_1", PaypalOrderID: "null"}, svc.reconcile)
	})

	t.Run("informational outcomes", func(t *testing.T) {
		for outcome, msg := range map[string]string{
			model.OutcomeAlreadyPaid:   "Already Paid",
			model.OutcomePending:       "Payment Not Completed",
			model.OutcomeFailed:        "Payment Failed",
			model.OutcomeAlreadyFailed: "Payment Failed",
		} {
			svc := &fakeService{result: &model.Result{OrderNo: "ORD-1", Outcome: outcome}}
			w := doJSON(newRouter(svc), "/payment/success", `{"order_no":"ORD-1","session_id":"cs_1"}`)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, msg, decode(t, w).Message)
		}
	})

	t.Run("missing payment info", func(t *testing.T) {
		svc := &fakeService{err: bizerr.Validation(response.ErrPaymentInfoMissing, "Payment information missing")}
		w := doJSON(newRouter(svc), "/payment/success", `{"order_no":"ORD-1","session_id":"null","paypal_order_id":"null"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrPaymentInfoMissing, decode(t, w).Code)
	})

	t.Run("reference of another order", func(t *testing.T) {
		svc := &fakeService{err: bizerr.Validation(response.ErrPaymentMismatch, "session does not belong to this order")}
		w := doJSON(newRouter(svc), "/payment/success", `{"order_no":"ORD-2","session_id":"cs_1","paypal_order_id":"null"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrPaymentMismatch, decode(t, w).Code)
	})
}

func TestAlipayNotify(t *testing.T) {
	post := func(svc *fakeService) string {
		req := httptest.NewRequest(http.MethodPost, "/payment/notify/alipay", strings.NewReader("out_trade_no=ORD-1&trade_status=TRADE_SUCCESS"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		return w.Body.String()
	}

	assert.Equal(t, "success", post(&fakeService{result: &model.Result{Outcome: model.OutcomePaid}}))
	assert.Equal(t, "fail", post(&fakeService{err: errors.New("bad sign")}))
}
