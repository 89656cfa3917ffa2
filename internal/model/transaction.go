package model

import "time"

// Transaction is a gateway transaction record ("transactions"), keyed by buy order.
type Transaction struct {
	BuyOrder          string      `json:"buy_order" db:"buy_order"`
	SessionID         string      `json:"session_id" db:"session_id"`
	Token             string      `json:"token" db:"token"`
	Amount            int64       `json:"amount" db:"amount"`
	Status            OrderStatus `json:"status" db:"status"`
	AuthorizationCode string      `json:"authorization_code,omitempty" db:"authorization_code"`
	PaymentTypeCode   string      `json:"payment_type_code,omitempty" db:"payment_type_code"`
	ResponseCode      int         `json:"response_code" db:"response_code"`
	TransactionDate   string      `json:"transaction_date,omitempty" db:"transaction_date"`
	CreatedAt         time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time   `json:"updatedAt" db:"updated_at"`
}

// CreateTransactionRequest is the body of POST /api/webpay/create.
type CreateTransactionRequest struct {
	BuyOrder  string `json:"buy_order"`
	SessionID string `json:"session_id"`
	Amount    int64  `json:"amount"`
	ReturnURL string `json:"return_url"`
}

// Validate checks the create-transaction payload.
func (r *CreateTransactionRequest) Validate() error {
	switch {
	case r.BuyOrder == "":
		return ValidationError("buy_order es obligatorio")
	case len(r.BuyOrder) > 26:
		return ValidationError("buy_order no puede superar 26 caracteres")
	case r.SessionID == "":
		return ValidationError("session_id es obligatorio")
	case r.Amount <= 0:
		return ValidationError("amount debe ser mayor que cero")
	}
	return nil
}

// CreateTransactionResponse is returned to the client after create.
type CreateTransactionResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// ConfirmResponse summarises a confirmation.
type ConfirmResponse struct {
	Status            OrderStatus `json:"status"`
	GatewayStatus     string      `json:"gatewayStatus"`
	BuyOrder          string      `json:"buyOrder,omitempty"`
	Amount            int64       `json:"amount"`
	AuthorizationCode string      `json:"authorizationCode,omitempty"`
	OrderID           string      `json:"orderId,omitempty"`
}
