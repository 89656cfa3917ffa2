package service

import (
	"context"
	"fmt"
	"time"

	"autopartes/internal/model"
	"autopartes/internal/payment"
	"autopartes/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// paymentService implements PaymentService.
type paymentService struct {
	gateway         payment.Gateway
	transactionRepo repository.TransactionRepository
	orderRepo       repository.OrderRepository
	wholesaleOrders repository.WholesaleOrderRepository
	returnURL       string
	logger          zerolog.Logger
	now             func() time.Time
}

// NewPaymentService creates a new payment service. returnURL is used when a
// create request carries none.
func NewPaymentService(
	gateway payment.Gateway,
	transactionRepo repository.TransactionRepository,
	orderRepo repository.OrderRepository,
	wholesaleOrders repository.WholesaleOrderRepository,
	returnURL string,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		gateway:         gateway,
		transactionRepo: transactionRepo,
		orderRepo:       orderRepo,
		wholesaleOrders: wholesaleOrders,
		returnURL:       returnURL,
		logger:          logger.With().Str("service", "payment").Logger(),
		now:             time.Now,
	}
}

// Create opens a gateway transaction and records it as pending.
func (s *paymentService) Create(ctx context.Context, req *model.CreateTransactionRequest) (*model.CreateTransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = s.returnURL
	}

	logger := s.logger.With().Str("buy_order", req.BuyOrder).Logger()

	created, err := s.gateway.CreateTransaction(ctx, payment.CreateRequest{
		BuyOrder:  req.BuyOrder,
		SessionID: req.SessionID,
		Amount:    req.Amount,
		ReturnURL: returnURL,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to create payment transaction")
		return nil, model.ErrPaymentFailed
	}

	now := s.now()
	if err := s.transactionRepo.Create(ctx, &model.Transaction{
		BuyOrder:  req.BuyOrder,
		SessionID: req.SessionID,
		Token:     created.Token,
		Amount:    req.Amount,
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		logger.Error().Err(err).Msg("failed to record payment transaction")
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	logger.Info().Int64("amount", req.Amount).Msg("payment transaction created")

	return &model.CreateTransactionResponse{Token: created.Token, URL: created.URL}, nil
}

// Confirm commits the transaction identified by token. The record becomes
// completed only for an AUTHORIZED commit, in which case an order is created;
// a failure to create that order is logged and not reported.
func (s *paymentService) Confirm(ctx context.Context, token string) (*model.ConfirmResponse, error) {
	if token == "" {
		return nil, model.ValidationError("token_ws es obligatorio")
	}

	// Unknown tokens never reach the gateway commit.
	txn, err := s.transactionRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if txn == nil {
		return nil, model.ErrTransactionNotFound
	}

	logger := s.logger.With().Str("buy_order", txn.BuyOrder).Logger()

	if txn.Status != model.StatusPending {
		logger.Info().Str("status", string(txn.Status)).Msg("transaction already confirmed")
		return &model.ConfirmResponse{
			Status:            txn.Status,
			BuyOrder:          txn.BuyOrder,
			Amount:            txn.Amount,
			AuthorizationCode: txn.AuthorizationCode,
		}, nil
	}

	commit, err := s.gateway.Commit(ctx, token)
	if err != nil {
		logger.Error().Err(err).Msg("failed to commit payment transaction")
		txn.Status = model.StatusFailed
		txn.UpdatedAt = s.now()
		if updErr := s.transactionRepo.UpdateResult(ctx, txn); updErr != nil {
			logger.Error().Err(updErr).Msg("failed to record failed transaction")
		}
		return nil, model.ErrPaymentFailed
	}

	txn.Status = model.StatusFailed
	if commit.Authorized() {
		txn.Status = model.StatusCompleted
	}
	txn.AuthorizationCode = commit.AuthorizationCode
	txn.PaymentTypeCode = commit.PaymentTypeCode
	txn.ResponseCode = commit.ResponseCode
	txn.TransactionDate = commit.TransactionDate
	txn.UpdatedAt = s.now()

	if err := s.transactionRepo.UpdateResult(ctx, txn); err != nil {
		logger.Error().Err(err).Msg("failed to record transaction result")
		return nil, fmt.Errorf("failed to record transaction result: %w", err)
	}

	resp := &model.ConfirmResponse{
		Status:            txn.Status,
		GatewayStatus:     commit.Status,
		BuyOrder:          txn.BuyOrder,
		Amount:            txn.Amount,
		AuthorizationCode: txn.AuthorizationCode,
	}

	if txn.Status != model.StatusCompleted {
		logger.Info().
			Str("gateway_status", commit.Status).
			Int("response_code", commit.ResponseCode).
			Msg("payment rejected")
		return resp, nil
	}

	order := &model.Order{
		ID:                uuid.NewString(),
		BuyOrder:          txn.BuyOrder,
		SessionID:         txn.SessionID,
		Token:             token,
		Amount:            txn.Amount,
		Estado:            model.StatusCompleted,
		AuthorizationCode: txn.AuthorizationCode,
		PaymentTypeCode:   txn.PaymentTypeCode,
		CreatedAt:         s.now(),
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		logger.Error().Err(err).Msg("payment completed but order could not be created")
	} else {
		resp.OrderID = order.ID
	}

	logger.Info().
		Int64("amount", txn.Amount).
		Str("authorization_code", txn.AuthorizationCode).
		Msg("payment completed")

	return resp, nil
}

// ConfirmWholesale commits a wholesale checkout and flips its order to
// completed or failed.
func (s *paymentService) ConfirmWholesale(ctx context.Context, token string) (*model.ConfirmResponse, error) {
	if token == "" {
		return nil, model.ValidationError("token_ws es obligatorio")
	}

	order, err := s.wholesaleOrders.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get wholesale order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	logger := s.logger.With().Str("order_id", order.ID).Logger()

	if order.Estado != model.StatusPending {
		return &model.ConfirmResponse{
			Status:            order.Estado,
			Amount:            order.Monto,
			AuthorizationCode: order.AuthorizationCode,
			OrderID:           order.ID,
		}, nil
	}

	resp := &model.ConfirmResponse{
		Status:  model.StatusFailed,
		Amount:  order.Monto,
		OrderID: order.ID,
	}

	commit, commitErr := s.gateway.Commit(ctx, token)
	if commitErr != nil {
		logger.Error().Err(commitErr).Msg("failed to commit wholesale payment")
	} else {
		resp.GatewayStatus = commit.Status
		resp.BuyOrder = commit.BuyOrder
		if commit.Authorized() {
			resp.Status = model.StatusCompleted
			resp.AuthorizationCode = commit.AuthorizationCode
		}
	}

	if err := s.wholesaleOrders.SetStatus(ctx, order.ID, resp.Status, resp.AuthorizationCode); err != nil {
		logger.Error().Err(err).Msg("failed to record wholesale payment result")
		return nil, fmt.Errorf("failed to record wholesale payment result: %w", err)
	}

	logger.Info().
		Str("status", string(resp.Status)).
		Int64("monto", order.Monto).
		Msg("wholesale payment confirmed")

	if commitErr != nil {
		return nil, model.ErrPaymentFailed
	}

	return resp, nil
}
