package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultPaypalTimeout = 10 * time.Second

// PaypalStrategy 钱包支付由前端完成，服务端只按订单ID查询结果
type PaypalStrategy struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

func NewPaypalStrategy(baseURL, clientID, clientSecret string, timeout time.Duration) (*PaypalStrategy, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("paypal config missing")
	}
	if timeout <= 0 {
		timeout = defaultPaypalTimeout
	}
	return &PaypalStrategy{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: timeout},
	}, nil
}

func (s *PaypalStrategy) Channel() string { return ChannelPaypal }

func (s *PaypalStrategy) accessToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := s.do(req, &body); err != nil {
		return "", fmt.Errorf("paypal token: %w", err)
	}
	if body.AccessToken == "" {
		return "", errors.New("paypal token: empty access token")
	}
	return body.AccessToken, nil
}

type paypalOrder struct {
	Status        string `json:"status"`
	PurchaseUnits []struct {
		CustomID string `json:"custom_id"`
		Amount   struct {
			Value string `json:"value"`
		} `json:"amount"`
	} `json:"purchase_units"`
}

// QueryStatus COMPLETED 为成功，VOIDED 为失败，其余视为未完成。
// 前端建单时把订单号写在 custom_id，金额取各 purchase unit 之和
func (s *PaypalStrategy) QueryStatus(ctx context.Context, orderID string) (*PaymentState, error) {
	token, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v2/checkout/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	var body paypalOrder
	if err := s.do(req, &body); err != nil {
		return nil, fmt.Errorf("paypal order %s: %w", orderID, err)
	}

	state := &PaymentState{}
	switch body.Status {
	case "COMPLETED":
		state.Status = StatusPaid
	case "VOIDED":
		state.Status = StatusFailed
	default:
		state.Status = StatusPending
	}

	if len(body.PurchaseUnits) > 0 {
		state.OrderRef = body.PurchaseUnits[0].CustomID
		total := decimal.Zero
		for _, unit := range body.PurchaseUnits {
			v, err := decimal.NewFromString(unit.Amount.Value)
			if err != nil {
				return nil, fmt.Errorf("paypal order %s: bad amount %q: %w", orderID, unit.Amount.Value, err)
			}
			total = total.Add(v)
		}
		state.Amount = &total
	}
	return state, nil
}

func (s *PaypalStrategy) do(req *http.Request, out any) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrProviderStatus, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ StatusQuerier = (*PaypalStrategy)(nil)
