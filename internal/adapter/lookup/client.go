package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"
)

// ErrAccountNotFound indicates the game does not know the given account.
var ErrAccountNotFound = errors.New("game account not found")

// Client resolves raw in-game identifiers to the display username shown to
// the user before checkout.
type Client interface {
	Username(ctx context.Context, game, gameUserID, zoneID string) (string, error)
}

// HTTPClient implements Client via the lookup HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type response struct {
	Username string `json:"username"`
}

// NewHTTPClient creates lookup client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse lookup url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("lookup url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Username queries the per-game lookup endpoint.
func (c *HTTPClient) Username(ctx context.Context, game, gameUserID, zoneID string) (string, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/lookup/", game)

	query := endpoint.Query()
	query.Set("uid", gameUserID)
	if zoneID != "" {
		query.Set("zone", zoneID)
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", err
		}
		var data response
		if err := json.Unmarshal(body, &data); err != nil {
			return "", err
		}
		if data.Username == "" {
			return "", ErrAccountNotFound
		}
		return data.Username, nil
	case http.StatusNotFound:
		return "", ErrAccountNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("lookup request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return "", fmt.Errorf("lookup error: %s", resp.Status)
	}
}
