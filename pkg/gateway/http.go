package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultRetryWaitMax = 3 * time.Second
	maxResponseBytes    = 64 << 10
)

// HTTPConfig configures the acquirer endpoint
type HTTPConfig struct {
	URL      string
	APIKey   string
	Timeout  time.Duration
	RetryMax int
}

// HTTPClient posts authorizations to an acquirer's JSON endpoint
type HTTPClient struct {
	client *http.Client
	url    string
	apiKey string
}

var _ Authorizer = (*HTTPClient)(nil)

type authorizeResponse struct {
	Approved          bool   `json:"approved"`
	AuthorizationCode string `json:"authorization_code"`
	Message           string `json:"message"`
}

// NewHTTPClient creates an authorizer that retries transport failures and 5xx responses
func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.HTTPClient.Timeout = cfg.Timeout

	retryClient.Logger = nil

	return &HTTPClient{
		client: retryClient.StandardClient(),
		url:    cfg.URL,
		apiKey: cfg.APIKey,
	}
}

func (c *HTTPClient) Authorize(ctx context.Context, req Request) (Authorization, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Authorization{}, fmt.Errorf("marshal authorization request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Authorization{}, fmt.Errorf("create authorization request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.Reference)
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Authorization{}, fmt.Errorf("send authorization request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Authorization{}, fmt.Errorf("read authorization response: %w", err)
	}

	var out authorizeResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil && resp.StatusCode < 300 {
			return Authorization{}, fmt.Errorf("decode authorization response: %w", err)
		}
	}

	switch {
	case resp.StatusCode == http.StatusPaymentRequired:
		return Authorization{}, &DeclinedError{Message: out.Message}
	case resp.StatusCode >= 300:
		return Authorization{}, fmt.Errorf("acquirer responded with status %d", resp.StatusCode)
	case !out.Approved:
		return Authorization{}, &DeclinedError{Message: out.Message}
	}

	return Authorization{Code: out.AuthorizationCode, ApprovedAt: time.Now()}, nil
}
