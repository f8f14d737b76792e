package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types written to the transaction log
const (
	TxBidCommitted   = "bid_committed"
	TxBuyNowPurchase = "buy_now_purchase"
)

// TransactionLog is one entry of the hash-chained audit log
type TransactionLog struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	Type          string          `json:"transaction_type"`
	ItemID        string          `json:"item_id,omitempty"`
	UserID        string          `json:"user_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
	Data          map[string]any  `json:"data"`
	PreviousHash  string          `json:"previous_hash"`
	CurrentHash   string          `json:"current_hash"`
}
