package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/mxvel/topupmart/internal/domain/errors"
	"github.com/mxvel/topupmart/internal/domain/model"
)

// StartOrderResult is the gateway's answer to a payment initiation.
type StartOrderResult struct {
	GatewayOrderID string
	PaymentURL     string
}

// Client exposes payment gateway operations.
type Client interface {
	StartOrder(ctx context.Context, orderID string, amount decimal.Decimal) (*StartOrderResult, error)
	CheckStatus(ctx context.Context, orderID string) (*model.GatewayResult, error)
}

// HTTPClient implements Client via the gateway HTTP API. Requests and
// callbacks are authenticated with an HMAC-SHA256 signature over the body.
type HTTPClient struct {
	baseURL    *url.URL
	secret     []byte
	httpClient *http.Client
	logger     *slog.Logger
}

type startOrderRequest struct {
	OrderID string          `json:"orderId"`
	Amount  decimal.Decimal `json:"amount"`
}

type startOrderResponse struct {
	Success    bool   `json:"success"`
	OrderID    string `json:"orderId"`
	PaymentURL string `json:"paymentUrl"`
	Message    string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
	UTR    string `json:"utr"`
}

// NewHTTPClient creates gateway client with default timeout.
func NewHTTPClient(baseURL, secret string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		secret:  []byte(secret),
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// StartOrder asks the gateway for a payment URL. The order stays pending
// until the gateway confirms payment through the callback or a status poll.
func (c *HTTPClient) StartOrder(ctx context.Context, orderID string, amount decimal.Decimal) (*StartOrderResult, error) {
	payload, err := json.Marshal(startOrderRequest{OrderID: orderID, Amount: amount})
	if err != nil {
		return nil, err
	}

	body, err := c.post(ctx, "/api/start-order", payload)
	if err != nil {
		return nil, err
	}

	var resp startOrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("gateway refused order %s: %s", orderID, resp.Message)
	}
	return &StartOrderResult{GatewayOrderID: resp.OrderID, PaymentURL: resp.PaymentURL}, nil
}

// CheckStatus asks the gateway for the transaction state of an order.
func (c *HTTPClient) CheckStatus(ctx context.Context, orderID string) (*model.GatewayResult, error) {
	payload, err := json.Marshal(map[string]string{"orderId": orderID})
	if err != nil {
		return nil, err
	}

	body, err := c.post(ctx, "/api/check-order-status", payload)
	if err != nil {
		return nil, err
	}

	var resp statusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	status := model.GatewayStatus(resp.Status)
	switch status {
	case model.GatewayStatusPending, model.GatewayStatusSuccess, model.GatewayStatusFailed:
	default:
		return nil, fmt.Errorf("gateway returned unknown status %q for order %s", resp.Status, orderID)
	}
	return &model.GatewayResult{Status: status, UTR: resp.UTR}, nil
}

func (c *HTTPClient) post(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", Sign(c.secret, payload))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, domainErrors.ErrGatewayTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("gateway request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("gateway error: %s", resp.Status)
	}
	return body, nil
}

// Sign computes the hex HMAC-SHA256 of body with the shared secret. The
// gateway sends the same signature on callbacks.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a callback signature in constant time.
func VerifySignature(secret, body []byte, signature string) bool {
	expected := Sign(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
