package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smartwalle/alipay/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"
)

type fakeSessionAPI struct {
	params  *stripe.CheckoutSessionParams
	session *stripe.CheckoutSession
	err     error
}

func (f *fakeSessionAPI) New(_ context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.params = params
	return f.session, f.err
}

func (f *fakeSessionAPI) Get(_ context.Context, _ string) (*stripe.CheckoutSession, error) {
	return f.session, f.err
}

func TestStripeStrategy_Pay(t *testing.T) {
	api := &fakeSessionAPI{session: &stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/c/cs_1"}}
	s, err := NewStripeStrategy(api, "https://mall.example.com/")
	require.NoError(t, err)

	checkout, err := s.Pay(context.Background(), CheckoutRequest{
		OrderNo:   "ORD-1",
		Email:     "ann@example.com",
		BuyerName: "Ann",
		Amount:    decimal.RequireFromString("166.54"),
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_1", checkout.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_1", checkout.RedirectURL)

	p := api.params
	require.Len(t, p.LineItems, 1)
	assert.Equal(t, int64(16654), *p.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, "usd", *p.LineItems[0].PriceData.Currency)
	assert.Equal(t, "Ann", *p.LineItems[0].PriceData.ProductData.Name)
	assert.Equal(t, "ann@example.com", *p.CustomerEmail)
	assert.Equal(t, "https://mall.example.com/payment-success/ORD-1?session_id={CHECKOUT_SESSION_ID}", *p.SuccessURL)
	assert.Equal(t, "https://mall.example.com/payment-failed/", *p.CancelURL)
	assert.Equal(t, "ORD-1", *p.ClientReferenceID)
}

func TestStripeStrategy_QueryStatus(t *testing.T) {
	cases := []struct {
		name    string
		session *stripe.CheckoutSession
		want    Status
	}{
		{"paid", &stripe.CheckoutSession{PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid, Status: stripe.CheckoutSessionStatusComplete}, StatusPaid},
		{"expired", &stripe.CheckoutSession{PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid, Status: stripe.CheckoutSessionStatusExpired}, StatusFailed},
		{"open", &stripe.CheckoutSession{PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid, Status: stripe.CheckoutSessionStatusOpen}, StatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewStripeStrategy(&fakeSessionAPI{session: tc.session}, "http://localhost")
			require.NoError(t, err)
			got, err := s.QueryStatus(context.Background(), "cs_1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Status)
		})
	}

	// 会话回带下单时的订单号和实付金额
	s, err := NewStripeStrategy(&fakeSessionAPI{session: &stripe.CheckoutSession{
		PaymentStatus:     stripe.CheckoutSessionPaymentStatusPaid,
		ClientReferenceID: "ORD-7",
		AmountTotal:       16654,
	}}, "http://localhost")
	require.NoError(t, err)
	state, err := s.QueryStatus(context.Background(), "cs_7")
	require.NoError(t, err)
	assert.Equal(t, "ORD-7", state.OrderRef)
	require.NotNil(t, state.Amount)
	assert.Equal(t, "166.54", state.Amount.StringFixed(2))

	s, _ = NewStripeStrategy(&fakeSessionAPI{err: errors.New("no such session")}, "http://localhost")
	_, err = s.QueryStatus(context.Background(), "cs_x")
	assert.Error(t, err)
}

func newPaypalServer(t *testing.T, orderStatus int, body any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
	})
	mux.HandleFunc("/v2/checkout/orders/PP-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(orderStatus)
		_ = json.NewEncoder(w).Encode(body)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestPaypalStrategy_QueryStatus(t *testing.T) {
	cases := map[string]Status{
		"COMPLETED": StatusPaid,
		"VOIDED":    StatusFailed,
		"APPROVED":  StatusPending,
	}
	for remote, want := range cases {
		t.Run(remote, func(t *testing.T) {
			srv := newPaypalServer(t, http.StatusOK, map[string]string{"status": remote})
			s, err := NewPaypalStrategy(srv.URL, "client", "secret", 0)
			require.NoError(t, err)

			got, err := s.QueryStatus(context.Background(), "PP-1")
			require.NoError(t, err)
			assert.Equal(t, want, got.Status)
			assert.Empty(t, got.OrderRef)
			assert.Nil(t, got.Amount)
		})
	}
}

func TestPaypalStrategy_PurchaseUnits(t *testing.T) {
	srv := newPaypalServer(t, http.StatusOK, map[string]any{
		"status": "COMPLETED",
		"purchase_units": []map[string]any{
			{"custom_id": "ORD-9", "amount": map[string]string{"currency_code": "USD", "value": "40.00"}},
			{"amount": map[string]string{"currency_code": "USD", "value": "9.99"}},
		},
	})
	s, err := NewPaypalStrategy(srv.URL, "client", "secret", 0)
	require.NoError(t, err)

	got, err := s.QueryStatus(context.Background(), "PP-1")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, got.Status)
	assert.Equal(t, "ORD-9", got.OrderRef)
	require.NotNil(t, got.Amount)
	assert.Equal(t, "49.99", got.Amount.StringFixed(2))
}

func TestPaypalStrategy_Errors(t *testing.T) {
	t.Run("order lookup fails", func(t *testing.T) {
		srv := newPaypalServer(t, http.StatusNotFound, map[string]string{"name": "RESOURCE_NOT_FOUND"})
		s, err := NewPaypalStrategy(srv.URL, "client", "secret", 0)
		require.NoError(t, err)

		_, err = s.QueryStatus(context.Background(), "PP-1")
		assert.ErrorIs(t, err, ErrProviderStatus)
	})

	t.Run("bad credentials", func(t *testing.T) {
		srv := newPaypalServer(t, http.StatusOK, nil)
		s, err := NewPaypalStrategy(srv.URL, "client", "wrong", 0)
		require.NoError(t, err)

		_, err = s.QueryStatus(context.Background(), "PP-1")
		assert.ErrorIs(t, err, ErrProviderStatus)
	})

	t.Run("missing config", func(t *testing.T) {
		_, err := NewPaypalStrategy("http://localhost", "", "", 0)
		assert.Error(t, err)
	})
}

func TestAlipayNotificationStatus(t *testing.T) {
	cases := []struct {
		status alipay.TradeStatus
		want   Status
	}{
		{alipay.TradeStatusSuccess, StatusPaid},
		{alipay.TradeStatusFinished, StatusPaid},
		{alipay.TradeStatusClosed, StatusFailed},
		{alipay.TradeStatusWaitBuyerPay, StatusPending},
	}
	for _, tc := range cases {
		n, err := notificationFromTrade("ORD-1", "100.00", tc.status)
		require.NoError(t, err)
		assert.Equal(t, tc.want, n.Status, string(tc.status))
		assert.Equal(t, "ORD-1", n.OrderNo)
		assert.True(t, n.Amount.Equal(decimal.NewFromInt(100)))
	}

	_, err := notificationFromTrade("ORD-1", "abc", alipay.TradeStatusSuccess)
	assert.Error(t, err)
}
