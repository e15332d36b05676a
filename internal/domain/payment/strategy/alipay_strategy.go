package strategy

import (
	"context"
	"errors"
	"net/url"
	"course_mall/internal/pkg/config"
	"course_mall/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/smartwalle/alipay/v3"
)

type AlipayStrategy struct {
	client *alipay.Client
	config config.AlipayConfig
}

func NewAlipayStrategy(cfg config.AlipayConfig) (*AlipayStrategy, error) {
	if cfg.AppID == "" {
		return nil, errors.New("alipay config missing")
	}

	client, err := alipay.New(cfg.AppID, cfg.PrivateKey, cfg.IsProduction)
	if err != nil {
		return nil, err
	}

	// 加载支付宝公钥 (用于验证签名)
	if err = client.LoadAliPayPublicKey(cfg.PublicKey); err != nil {
		return nil, err
	}

	return &AlipayStrategy{
		client: client,
		config: cfg,
	}, nil
}

func (s *AlipayStrategy) Channel() string { return ChannelAlipay }

// Pay 电脑网站支付，返回收银台跳转地址
func (s *AlipayStrategy) Pay(_ context.Context, req CheckoutRequest) (*Checkout, error) {
	p := alipay.TradePagePay{}
	p.NotifyURL = s.config.NotifyURL
	p.ReturnURL = s.config.ReturnURL
	p.Subject = req.BuyerName
	p.OutTradeNo = req.OrderNo
	p.TotalAmount = utils.Money(req.Amount)
	p.ProductCode = "FAST_INSTANT_TRADE_PAY"

	u, err := s.client.TradePagePay(p)
	if err != nil {
		return nil, err
	}
	return &Checkout{SessionID: req.OrderNo, RedirectURL: u.String()}, nil
}

// Notify 验签并解析异步通知
func (s *AlipayStrategy) Notify(values url.Values) (*Notification, error) {
	noti, err := s.client.DecodeNotification(values)
	if err != nil {
		return nil, err
	}
	return notificationFromTrade(noti.OutTradeNo, noti.TotalAmount, noti.TradeStatus)
}

func notificationFromTrade(orderNo, totalAmount string, status alipay.TradeStatus) (*Notification, error) {
	amount, err := decimal.NewFromString(totalAmount)
	if err != nil {
		return nil, err
	}
	n := &Notification{OrderNo: orderNo, Amount: amount, Status: StatusPending}
	switch status {
	case alipay.TradeStatusSuccess, alipay.TradeStatusFinished:
		n.Status = StatusPaid
	case alipay.TradeStatusClosed:
		n.Status = StatusFailed
	}
	return n, nil
}

var (
	_ CheckoutCreator = (*AlipayStrategy)(nil)
	_ NotifyDecoder   = (*AlipayStrategy)(nil)
)
