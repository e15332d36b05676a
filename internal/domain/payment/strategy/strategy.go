package strategy

import (
	"context"
	"errors"
	"net/url"

	"github.com/shopspring/decimal"
)

// 支付渠道
const (
	ChannelStripe = "stripe"
	ChannelPaypal = "paypal"
	ChannelAlipay = "alipay"
)

// Status 渠道侧支付结果归一化
type Status string

const (
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending"
)

// ErrProviderStatus 渠道返回非 2xx
var ErrProviderStatus = errors.New("payment provider returned an error status")

// CheckoutRequest 发起支付所需的订单信息
type CheckoutRequest struct {
	OrderNo   string
	Email     string
	BuyerName string
	Amount    decimal.Decimal
	Currency  string
}

// Checkout 渠道返回的支付会话
type Checkout struct {
	SessionID   string `json:"sessionId"`
	RedirectURL string `json:"redirectUrl"`
}

// PaymentState 主动查询的结果。OrderRef 是下单时写给渠道的订单号，
// 渠道没有回传时 OrderRef 为空、Amount 为 nil
type PaymentState struct {
	Status   Status
	OrderRef string
	Amount   *decimal.Decimal
}

// Notification 异步通知解析结果
type Notification struct {
	OrderNo string
	Amount  decimal.Decimal
	Status  Status
}

// PaymentStrategy 支付渠道，具体能力见下面几个接口
type PaymentStrategy interface {
	Channel() string
}

// CheckoutCreator 能在服务端创建支付会话的渠道
type CheckoutCreator interface {
	PaymentStrategy
	Pay(ctx context.Context, req CheckoutRequest) (*Checkout, error)
}

// StatusQuerier 能主动查询支付状态的渠道，ref 为渠道侧的会话/订单ID
type StatusQuerier interface {
	PaymentStrategy
	QueryStatus(ctx context.Context, ref string) (*PaymentState, error)
}

// NotifyDecoder 通过异步通知回传结果的渠道，负责验签
type NotifyDecoder interface {
	PaymentStrategy
	Notify(values url.Values) (*Notification, error)
}
