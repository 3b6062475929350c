package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mxvel/topupmart/internal/domain/model"
	"github.com/mxvel/topupmart/internal/pkg/retry"
)

// YokcashAdapter fulfills orders against the yokcash vendor API. The vendor
// takes form-encoded requests keyed by service_id/target and reports outcome
// as a status string.
type YokcashAdapter struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	policy     retry.Policy
	logger     *slog.Logger
}

type yokcashOrderResponse struct {
	Status string `json:"status"`
	Msg    string `json:"msg"`
	Data   struct {
		OrderID string `json:"order_id"`
	} `json:"data"`
}

type yokcashBalanceResponse struct {
	Status string          `json:"status"`
	Data   decimal.Decimal `json:"data"`
}

// NewYokcashAdapter creates yokcash adapter with default timeout and retry
// schedule.
func NewYokcashAdapter(baseURL, apiKey string, logger *slog.Logger) (*YokcashAdapter, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse yokcash url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("yokcash url must be absolute")
	}
	return &YokcashAdapter{
		baseURL: parsed,
		apiKey:  apiKey,
		logger:  logger,
		policy:  retry.Default(),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (a *YokcashAdapter) Kind() model.ProviderKind {
	return model.ProviderYokcash
}

// CreateOrder places a top-up order. The target field carries the in-game
// account, with the zone appended when present.
func (a *YokcashAdapter) CreateOrder(ctx context.Context, req Request) model.FulfillmentResult {
	target := req.GameUserID
	if req.ZoneID != "" {
		target = target + "|" + req.ZoneID
	}

	form := url.Values{}
	form.Set("api_key", a.apiKey)
	form.Set("service_id", req.ProductCode)
	form.Set("target", target)
	form.Set("ref_id", req.OrderID)

	var result model.FulfillmentResult
	err := a.policy.Do(ctx, func(ctx context.Context) error {
		data, err := a.postForm(ctx, "/api/order", form)
		if err != nil {
			return err
		}

		var resp yokcashOrderResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return transientError{fmt.Errorf("decode response: %w", err)}
		}
		if !strings.EqualFold(resp.Status, "success") {
			result = model.FulfillmentResult{Success: false, Message: fmt.Sprintf("yokcash rejected order: %s", resp.Msg)}
			return nil
		}
		result = model.FulfillmentResult{Success: true, ExternalOrderID: resp.Data.OrderID, Message: resp.Msg}
		return nil
	}, isTransient)
	if err != nil {
		a.logger.Error("yokcash order failed", slog.String("order", req.OrderID), slog.String("error", err.Error()))
		return failure("yokcash unreachable: %v", err)
	}
	return result
}

// Balance reports the remaining vendor account balance.
func (a *YokcashAdapter) Balance(ctx context.Context) (decimal.Decimal, error) {
	form := url.Values{}
	form.Set("api_key", a.apiKey)

	data, err := a.postForm(ctx, "/api/balance", form)
	if err != nil {
		return decimal.Decimal{}, err
	}

	var resp yokcashBalanceResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return decimal.Decimal{}, err
	}
	if !strings.EqualFold(resp.Status, "success") {
		return decimal.Decimal{}, fmt.Errorf("yokcash balance error: %s", resp.Status)
	}
	return resp.Data, nil
}

func (a *YokcashAdapter) postForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	target := *a.baseURL
	target.Path = path.Join(target.Path, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

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
		return nil, transientError{fmt.Errorf("yokcash error: %s", resp.Status)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yokcash error: %s: %s", resp.Status, string(body))
	}
	return body, nil
}
