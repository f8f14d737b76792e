package helpers

import (
	"time"

	model "bid-admission/internal/models"

	"github.com/shopspring/decimal"
)

// Request/Response DTOs
type PlaceBidRequest struct {
	ItemID string          `json:"item_id" binding:"required"`
	UserID string          `json:"user_id" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// CaptchaRequest identifies who solved or failed a challenge
type CaptchaRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type BuyNowRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type CreateItemRequest struct {
	ItemID        string              `json:"item_id"`
	SellerID      string              `json:"seller_id" binding:"required"`
	Title         string              `json:"title" binding:"required,max=200"`
	Description   string              `json:"description"`
	StartingPrice decimal.Decimal     `json:"starting_price"`
	MinIncrement  decimal.Decimal     `json:"min_increment"`
	BuyNowPrice   decimal.NullDecimal `json:"buy_now_price"`
	EndTime       time.Time           `json:"end_time" binding:"required"`
}

// ToItem converts the request into a model item
func (r CreateItemRequest) ToItem() model.Item {
	return model.Item{
		ItemID:        r.ItemID,
		SellerID:      r.SellerID,
		Title:         r.Title,
		Description:   r.Description,
		StartingPrice: r.StartingPrice,
		MinIncrement:  r.MinIncrement,
		BuyNowPrice:   r.BuyNowPrice,
		EndTime:       r.EndTime.UTC(),
	}
}

type CreateUserRequest struct {
	UserID             string `json:"user_id"`
	Username           string `json:"username" binding:"required,max=150"`
	IsSuperuser        bool   `json:"is_superuser"`
	BypassRapidBidding bool   `json:"bypass_rapid_bidding"`
	BypassAccountAge   bool   `json:"bypass_account_age"`
	BypassFraud        bool   `json:"bypass_fraud"`
	BypassAll          bool   `json:"bypass_all"`
}

// ToUser converts the request into a model user
func (r CreateUserRequest) ToUser() model.User {
	return model.User{
		UserID:             r.UserID,
		Username:           r.Username,
		IsSuperuser:        r.IsSuperuser,
		BypassRapidBidding: r.BypassRapidBidding,
		BypassAccountAge:   r.BypassAccountAge,
		BypassFraud:        r.BypassFraud,
		BypassAll:          r.BypassAll,
	}
}

type SetItemStatusRequest struct {
	SellerID string           `json:"seller_id" binding:"required"`
	Status   model.ItemStatus `json:"status" binding:"required,oneof=active private off_sale expired cancelled"`
}

type BidResponse struct {
	BidID     string          `json:"bid_id"`
	ItemID    string          `json:"item_id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	IsWinning bool            `json:"is_winning"`
	CreatedAt string          `json:"created_at"`
}

// NewBidResponse formats a bid for the API
func NewBidResponse(bid model.Bid) BidResponse {
	return BidResponse{
		BidID:     bid.BidID,
		ItemID:    bid.ItemID,
		UserID:    bid.UserID,
		Amount:    bid.Amount,
		IsWinning: bid.IsWinning,
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type CaptchaFailureResponse struct {
	Attempts        int  `json:"attempts"`
	Escalated       bool `json:"escalated"`
	CooldownSeconds int  `json:"cooldown_seconds,omitempty"`
}
