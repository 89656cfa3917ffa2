package model

import (
	"time"
)

// OrderStatus is shared by orders and transaction records.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusFailed    OrderStatus = "failed"
)

// WholesaleOrder is a wholesale checkout snapshot ("ordenes_mayorista").
type WholesaleOrder struct {
	ID                string          `json:"id" db:"id"`
	UserID            string          `json:"userId" db:"user_id"`
	Email             string          `json:"email" db:"email"`
	Items             []WholesaleItem `json:"items" db:"items"`
	Subtotal          float64         `json:"subtotal" db:"subtotal"`
	Descuento         float64         `json:"descuento" db:"descuento"`
	IVA               float64         `json:"iva" db:"iva"`
	Total             float64         `json:"total" db:"total"`
	Monto             int64           `json:"monto" db:"monto"`
	Estado            OrderStatus     `json:"estado" db:"estado"`
	Token             string          `json:"token,omitempty" db:"token"`
	AuthorizationCode string          `json:"authorizationCode,omitempty" db:"authorization_code"`
	CreatedAt         time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time       `json:"updatedAt" db:"updated_at"`
}

// Order is the record created after a successful server-side payment ("ordenes").
type Order struct {
	ID                string      `json:"id" db:"id"`
	BuyOrder          string      `json:"buyOrder" db:"buy_order"`
	SessionID         string      `json:"sessionId" db:"session_id"`
	Token             string      `json:"token" db:"token"`
	Amount            int64       `json:"amount" db:"amount"`
	Estado            OrderStatus `json:"estado" db:"estado"`
	AuthorizationCode string      `json:"authorizationCode" db:"authorization_code"`
	PaymentTypeCode   string      `json:"paymentTypeCode" db:"payment_type_code"`
	CreatedAt         time.Time   `json:"createdAt" db:"created_at"`
}

// CheckoutResponse tells the client where to send the browser.
type CheckoutResponse struct {
	OrderID     string `json:"orderId"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
	Monto       int64  `json:"monto"`
}
