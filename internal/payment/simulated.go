package payment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SimulatedURL is the form URL returned by the simulated gateway.
const SimulatedURL = IntegrationBaseURL + "/webpayserver/initTransaction"

// Simulated fabricates tokens and approves every commit without network I/O.
type Simulated struct {
	mu      sync.Mutex
	pending map[string]CreateRequest
	logger  zerolog.Logger
	now     func() time.Time
}

// NewSimulated creates the offline gateway.
func NewSimulated(logger zerolog.Logger) *Simulated {
	return &Simulated{
		pending: make(map[string]CreateRequest),
		logger:  logger.With().Str("component", "payment_simulated").Logger(),
		now:     time.Now,
	}
}

// CreateTransaction returns a fake token for req.
func (s *Simulated) CreateTransaction(_ context.Context, req CreateRequest) (*CreateResponse, error) {
	token := "sim_" + uuid.NewString()

	s.mu.Lock()
	s.pending[token] = req
	s.mu.Unlock()

	s.logger.Info().
		Str("buy_order", req.BuyOrder).
		Int64("amount", req.Amount).
		Msg("simulated transaction created")

	return &CreateResponse{Token: token, URL: SimulatedURL}, nil
}

// Commit answers AUTHORIZED for any token. Tokens it created echo their
// buy order and amount.
func (s *Simulated) Commit(_ context.Context, token string) (*CommitResponse, error) {
	s.mu.Lock()
	req, ok := s.pending[token]
	delete(s.pending, token)
	s.mu.Unlock()

	now := s.now()
	resp := &CommitResponse{
		VCI:                "TSY",
		Status:             StatusAuthorized,
		CardDetail:         CardDetail{CardNumber: "6623"},
		AccountingDate:     now.Format("0102"),
		TransactionDate:    now.UTC().Format(time.RFC3339),
		AuthorizationCode:  "1213",
		PaymentTypeCode:    "VN",
		ResponseCode:       0,
		InstallmentsNumber: 0,
	}
	if ok {
		resp.Amount = req.Amount
		resp.BuyOrder = req.BuyOrder
		resp.SessionID = req.SessionID
	}

	s.logger.Info().Str("buy_order", resp.BuyOrder).Msg("simulated transaction committed")
	return resp, nil
}
