package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mxvel/topupmart/internal/domain/model"
	"github.com/mxvel/topupmart/internal/pkg/retry"
)

// SmileAdapter fulfills orders against the smile vendor API. The vendor
// speaks JSON and signals outcome through a numeric code in the body, not
// the HTTP status line.
type SmileAdapter struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	policy     retry.Policy
	logger     *slog.Logger
}

const smileCodeOK = 200

type smileOrderRequest struct {
	ProductID string `json:"productId"`
	UID       string `json:"uid"`
	ZoneID    string `json:"zoneId"`
	RefID     string `json:"refId"`
}

type smileOrderResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}

type smileBalanceResponse struct {
	Code    int             `json:"code"`
	Balance decimal.Decimal `json:"balance"`
}

// NewSmileAdapter creates smile adapter with default timeout and retry
// schedule.
func NewSmileAdapter(baseURL, apiKey string, logger *slog.Logger) (*SmileAdapter, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse smile url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("smile url must be absolute")
	}
	return &SmileAdapter{
		baseURL: parsed,
		apiKey:  apiKey,
		logger:  logger,
		policy:  retry.Default(),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (a *SmileAdapter) Kind() model.ProviderKind {
	return model.ProviderSmile
}

// CreateOrder places a top-up order. Transport failures and 5xx responses
// are retried; a vendor code other than 200 is a final rejection.
func (a *SmileAdapter) CreateOrder(ctx context.Context, req Request) model.FulfillmentResult {
	payload, err := json.Marshal(smileOrderRequest{
		ProductID: req.ProductCode,
		UID:       req.GameUserID,
		ZoneID:    req.ZoneID,
		RefID:     req.OrderID,
	})
	if err != nil {
		return failure("encode request: %v", err)
	}

	var result model.FulfillmentResult
	err = a.policy.Do(ctx, func(ctx context.Context) error {
		data, err := a.post(ctx, "/api/order/create", payload)
		if err != nil {
			return err
		}

		var resp smileOrderResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return transientError{fmt.Errorf("decode response: %w", err)}
		}
		if resp.Code != smileCodeOK {
			result = model.FulfillmentResult{Success: false, Message: fmt.Sprintf("smile rejected order: code %d: %s", resp.Code, resp.Message)}
			return nil
		}
		result = model.FulfillmentResult{Success: true, ExternalOrderID: resp.OrderID, Message: resp.Message}
		return nil
	}, isTransient)
	if err != nil {
		a.logger.Error("smile order failed", slog.String("order", req.OrderID), slog.String("error", err.Error()))
		return failure("smile unreachable: %v", err)
	}
	return result
}

// Balance reports the remaining vendor account balance.
func (a *SmileAdapter) Balance(ctx context.Context) (decimal.Decimal, error) {
	data, err := a.post(ctx, "/api/balance", []byte(`{}`))
	if err != nil {
		return decimal.Decimal{}, err
	}

	var resp smileBalanceResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return decimal.Decimal{}, err
	}
	if resp.Code != smileCodeOK {
		return decimal.Decimal{}, fmt.Errorf("smile balance error: code %d", resp.Code)
	}
	return resp.Balance, nil
}

func (a *SmileAdapter) post(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	target := *a.baseURL
	target.Path = path.Join(target.Path, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, transientError{err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transientError{err}
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, transientError{fmt.Errorf("smile error: %s", resp.Status)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("smile error: %s: %s", resp.Status, string(body))
	}
	return body, nil
}
