package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus of a mobile-money or card payment
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
)

// PaymentMethod used to settle a purchase
type PaymentMethod string

const (
	MethodMTN          PaymentMethod = "mtn"
	MethodAirtel       PaymentMethod = "airtel"
	MethodMpesa        PaymentMethod = "mpesa"
	MethodCard         PaymentMethod = "card"
	MethodPaypal       PaymentMethod = "paypal"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodUSSD         PaymentMethod = "ussd"
	MethodWeb          PaymentMethod = "web"
)

// Payment is a settlement attempt reported by the payment collaborator
type Payment struct {
	PaymentID string          `json:"payment_id"`
	UserID    string          `json:"user_id"`
	ItemID    string          `json:"item_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Method    PaymentMethod   `json:"payment_method"`
	Status    PaymentStatus   `json:"status"`
	Reference string          `json:"reference,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentProcessing, PaymentCompleted, PaymentFailed, PaymentCancelled:
		return true
	}
	return false
}

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodMTN, MethodAirtel, MethodMpesa, MethodCard, MethodPaypal, MethodBankTransfer, MethodUSSD, MethodWeb:
		return true
	}
	return false
}
