// Package payment talks to the card payment gateway.
package payment

import (
	"context"
	"fmt"
	"time"

	"autopartes/internal/config"

	"github.com/rs/zerolog"
)

// StatusAuthorized is the commit status of an approved payment.
const StatusAuthorized = "AUTHORIZED"

// CreateRequest is the body of a transaction creation call.
type CreateRequest struct {
	BuyOrder  string `json:"buy_order"`
	SessionID string `json:"session_id"`
	Amount    int64  `json:"amount"`
	ReturnURL string `json:"return_url"`
}

// CreateResponse carries the token and the form URL the browser is sent to.
type CreateResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// CardDetail holds the masked card number.
type CardDetail struct {
	CardNumber string `json:"card_number"`
}

// CommitResponse is the outcome of committing a transaction.
type CommitResponse struct {
	VCI                string     `json:"vci"`
	Amount             int64      `json:"amount"`
	Status             string     `json:"status"`
	BuyOrder           string     `json:"buy_order"`
	SessionID          string     `json:"session_id"`
	CardDetail         CardDetail `json:"card_detail"`
	AccountingDate     string     `json:"accounting_date"`
	TransactionDate    string     `json:"transaction_date"`
	AuthorizationCode  string     `json:"authorization_code"`
	PaymentTypeCode    string     `json:"payment_type_code"`
	ResponseCode       int        `json:"response_code"`
	InstallmentsNumber int        `json:"installments_number"`
}

// Authorized reports whether the gateway approved the payment.
func (c *CommitResponse) Authorized() bool {
	return c != nil && c.Status == StatusAuthorized
}

// Gateway creates and commits payment transactions.
type Gateway interface {
	// CreateTransaction registers a payment and returns the redirect token.
	CreateTransaction(ctx context.Context, req CreateRequest) (*CreateResponse, error)

	// Commit confirms the transaction identified by token.
	Commit(ctx context.Context, token string) (*CommitResponse, error)
}

// New returns the gateway selected by cfg.Mode.
func New(cfg config.PaymentConfig, logger zerolog.Logger) (Gateway, error) {
	switch cfg.Mode {
	case config.PaymentModeWebpay:
		return NewWebpayClient(WebpayConfig{
			BaseURL:      cfg.BaseURL,
			Environment:  cfg.Environment,
			CommerceCode: cfg.CommerceCode,
			APIKey:       cfg.APIKey,
			Timeout:      cfg.Timeout,
		}, logger)
	case config.PaymentModeSimulated:
		return NewSimulated(logger), nil
	default:
		return nil, fmt.Errorf("unknown payment mode %q", cfg.Mode)
	}
}

func defaultTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 30 * time.Second
	}
	return d
}
