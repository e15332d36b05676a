package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"course_mall/pkg/utils"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"
)

// SessionAPI 对 stripe checkout session 包函数的薄封装，便于测试替换
type SessionAPI interface {
	New(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(ctx context.Context, id string) (*stripe.CheckoutSession, error)
}

type stripeSessionAPI struct{}

// NewStripeSessionAPI 设置全局 key 并返回默认实现
func NewStripeSessionAPI(secretKey string) SessionAPI {
	stripe.Key = secretKey
	return stripeSessionAPI{}
}

func (stripeSessionAPI) New(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx
	return session.New(params)
}

func (stripeSessionAPI) Get(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	return session.Get(id, params)
}

type StripeStrategy struct {
	api     SessionAPI
	siteURL string
}

func NewStripeStrategy(api SessionAPI, siteURL string) (*StripeStrategy, error) {
	if api == nil {
		return nil, errors.New("stripe session api missing")
	}
	return &StripeStrategy{api: api, siteURL: strings.TrimRight(siteURL, "/")}, nil
}

func (s *StripeStrategy) Channel() string { return ChannelStripe }

// Pay 创建 checkout session，金额按最小货币单位整单一行
func (s *StripeStrategy) Pay(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = "usd"
	}
	params := &stripe.CheckoutSessionParams{
		CustomerEmail:      stripe.String(req.Email),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.BuyerName),
					},
					UnitAmount: stripe.Int64(utils.ToMinorUnits(req.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(fmt.Sprintf("%s/payment-success/%s?session_id={CHECKOUT_SESSION_ID}", s.siteURL, req.OrderNo)),
		CancelURL:         stripe.String(s.siteURL + "/payment-failed/"),
		ClientReferenceID: stripe.String(req.OrderNo),
	}

	sess, err := s.api.New(ctx, params)
	if err != nil {
		return nil, err
	}
	return &Checkout{SessionID: sess.ID, RedirectURL: sess.URL}, nil
}

// QueryStatus 只有 payment_status=paid 才算支付成功，过期会话视为失败
func (s *StripeStrategy) QueryStatus(ctx context.Context, sessionID string) (*PaymentState, error) {
	sess, err := s.api.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	amount := utils.FromMinorUnits(sess.AmountTotal)
	state := &PaymentState{OrderRef: sess.ClientReferenceID, Amount: &amount}
	switch {
	case sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid:
		state.Status = StatusPaid
	case sess.Status == stripe.CheckoutSessionStatusExpired:
		state.Status = StatusFailed
	default:
		state.Status = StatusPending
	}
	return state, nil
}

var (
	_ CheckoutCreator = (*StripeStrategy)(nil)
	_ StatusQuerier   = (*StripeStrategy)(nil)
)
