package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	IntegrationBaseURL = "https://webpay3gint.transbank.cl"
	ProductionBaseURL  = "https://webpay3g.transbank.cl"

	transactionsPath = "/rswebpaytransaction/api/webpay/v1.2/transactions"
)

// WebpayConfig holds the REST client settings.
type WebpayConfig struct {
	// BaseURL overrides the URL derived from Environment.
	BaseURL      string
	Environment  string // "integration" or "production"
	CommerceCode string
	APIKey       string
	Timeout      time.Duration
}

// APIError is a non-2xx gateway response.
type APIError struct {
	StatusCode int
	Message    string `json:"error_message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("webpay returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("webpay returned status %d: %s", e.StatusCode, e.Message)
}

// WebpayClient calls the Webpay Plus REST API.
type WebpayClient struct {
	httpClient   *http.Client
	baseURL      string
	commerceCode string
	apiKey       string
	logger       zerolog.Logger
}

// NewWebpayClient creates a REST client for the configured environment.
func NewWebpayClient(cfg WebpayConfig, logger zerolog.Logger) (*WebpayClient, error) {
	if cfg.CommerceCode == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("commerce code and API key are required")
	}

	base := cfg.BaseURL
	if base == "" {
		switch cfg.Environment {
		case "production":
			base = ProductionBaseURL
		case "integration", "":
			base = IntegrationBaseURL
		default:
			return nil, fmt.Errorf("unknown webpay environment %q", cfg.Environment)
		}
	}

	return &WebpayClient{
		httpClient:   &http.Client{Timeout: defaultTimeout(cfg.Timeout)},
		baseURL:      strings.TrimSuffix(base, "/"),
		commerceCode: cfg.CommerceCode,
		apiKey:       cfg.APIKey,
		logger:       logger.With().Str("component", "webpay").Logger(),
	}, nil
}

// CreateTransaction registers a payment and returns the redirect token.
func (c *WebpayClient) CreateTransaction(ctx context.Context, req CreateRequest) (*CreateResponse, error) {
	var out CreateResponse
	if err := c.do(ctx, http.MethodPost, transactionsPath, req, &out); err != nil {
		c.logger.Error().Err(err).Str("buy_order", req.BuyOrder).Msg("failed to create transaction")
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	c.logger.Info().
		Str("buy_order", req.BuyOrder).
		Int64("amount", req.Amount).
		Msg("transaction created")

	return &out, nil
}

// Commit confirms the transaction identified by token.
func (c *WebpayClient) Commit(ctx context.Context, token string) (*CommitResponse, error) {
	var out CommitResponse
	if err := c.do(ctx, http.MethodPut, transactionsPath+"/"+url.PathEscape(token), nil, &out); err != nil {
		c.logger.Error().Err(err).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	c.logger.Info().
		Str("buy_order", out.BuyOrder).
		Str("status", out.Status).
		Int("response_code", out.ResponseCode).
		Msg("transaction committed")

	return &out, nil
}

func (c *WebpayClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Tbk-Api-Key-Id", c.commerceCode)
	req.Header.Set("Tbk-Api-Key-Secret", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(respBody, apiErr)
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
