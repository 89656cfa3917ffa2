package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"autopartes/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *WebpayClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewWebpayClient(WebpayConfig{
		BaseURL:      server.URL,
		CommerceCode: "597055555532",
		APIKey:       "secret-key",
	}, zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestWebpayClient_CreateTransaction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rswebpaytransaction/api/webpay/v1.2/transactions", r.URL.Path)
		assert.Equal(t, "597055555532", r.Header.Get("Tbk-Api-Key-Id"))
		assert.Equal(t, "secret-key", r.Header.Get("Tbk-Api-Key-Secret"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "BO-1", body["buy_order"])
		assert.Equal(t, "S-1", body["session_id"])
		assert.Equal(t, float64(101150), body["amount"])
		assert.Equal(t, "http://localhost/return", body["return_url"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok-123","url":"https://webpay3gint.transbank.cl/webpayserver/initTransaction"}`))
	})

	resp, err := client.CreateTransaction(context.Background(), CreateRequest{
		BuyOrder:  "BO-1",
		SessionID: "S-1",
		Amount:    101150,
		ReturnURL: "http://localhost/return",
	})

	require.NoError(t, err)
	assert.Equal(t, "tok-123", resp.Token)
	assert.Equal(t, "https://webpay3gint.transbank.cl/webpayserver/initTransaction", resp.URL)
}

func TestWebpayClient_Commit(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		authorized bool
		errMatch   string
	}{
		{
			name:       "Authorized",
			status:     http.StatusOK,
			body:       `{"vci":"TSY","amount":15000,"status":"AUTHORIZED","buy_order":"BO-1","session_id":"S-1","authorization_code":"1213","payment_type_code":"VN","response_code":0,"transaction_date":"2026-10-18T12:00:00.000Z"}`,
			authorized: true,
		},
		{
			name:       "Rejected",
			status:     http.StatusOK,
			body:       `{"amount":15000,"status":"FAILED","buy_order":"BO-1","response_code":-1}`,
			authorized: false,
		},
		{
			name:     "Gateway error",
			status:   http.StatusUnprocessableEntity,
			body:     `{"error_message":"Invalid status '2' for transaction while authorizing."}`,
			errMatch: "status 422",
		},
		{
			name:     "Malformed body",
			status:   http.StatusOK,
			body:     `not json`,
			errMatch: "failed to decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.True(t, strings.HasSuffix(r.URL.Path, "/transactions/tok-123"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			resp, err := client.Commit(context.Background(), "tok-123")

			if tt.errMatch != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.authorized, resp.Authorized())
			assert.Equal(t, "BO-1", resp.BuyOrder)
		})
	}
}

func TestWebpayClient_APIErrorIsUnwrappable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error_message":"Not Authorized"}`))
	})

	_, err := client.CreateTransaction(context.Background(), CreateRequest{BuyOrder: "BO-1"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Not Authorized", apiErr.Message)
}

func TestNewWebpayClient(t *testing.T) {
	tests := []struct {
		name     string
		cfg      WebpayConfig
		baseURL  string
		errMatch string
	}{
		{
			name:    "Integration by default",
			cfg:     WebpayConfig{CommerceCode: "1", APIKey: "k"},
			baseURL: IntegrationBaseURL,
		},
		{
			name:    "Production",
			cfg:     WebpayConfig{CommerceCode: "1", APIKey: "k", Environment: "production"},
			baseURL: ProductionBaseURL,
		},
		{
			name:    "Override trims slash",
			cfg:     WebpayConfig{CommerceCode: "1", APIKey: "k", BaseURL: "http://gw.local/"},
			baseURL: "http://gw.local",
		},
		{
			name:     "Missing credentials",
			cfg:      WebpayConfig{},
			errMatch: "commerce code and API key are required",
		},
		{
			name:     "Unknown environment",
			cfg:      WebpayConfig{CommerceCode: "1", APIKey: "k", Environment: "staging"},
			errMatch: "unknown webpay environment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewWebpayClient(tt.cfg, zerolog.Nop())
			if tt.errMatch != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.baseURL, client.baseURL)
		})
	}
}

func TestSimulated(t *testing.T) {
	ctx := context.Background()
	gw := NewSimulated(zerolog.Nop())

	created, err := gw.CreateTransaction(ctx, CreateRequest{BuyOrder: "BO-9", SessionID: "S-9", Amount: 5000})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.Token, "sim_"))
	assert.Equal(t, SimulatedURL, created.URL)

	committed, err := gw.Commit(ctx, created.Token)
	require.NoError(t, err)
	assert.True(t, committed.Authorized())
	assert.Equal(t, "BO-9", committed.BuyOrder)
	assert.Equal(t, int64(5000), committed.Amount)

	unknown, err := gw.Commit(ctx, "not-issued")
	require.NoError(t, err)
	assert.True(t, unknown.Authorized())
	assert.Empty(t, unknown.BuyOrder)
}

func TestNew(t *testing.T) {
	gw, err := New(config.PaymentConfig{Mode: config.PaymentModeSimulated}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Simulated{}, gw)

	gw, err = New(config.PaymentConfig{Mode: config.PaymentModeWebpay, CommerceCode: "1", APIKey: "k"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &WebpayClient{}, gw)

	_, err = New(config.PaymentConfig{Mode: "paypal"}, zerolog.Nop())
	assert.Error(t, err)
}
