package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a marketplace account
type User struct {
	UserID             string    `json:"user_id"`
	Username           string    `json:"username"`
	JoinedAt           time.Time `json:"joined_at"`
	IsSuperuser        bool      `json:"is_superuser"`
	BypassRapidBidding bool      `json:"bypass_rapid_bidding"`
	BypassAccountAge   bool      `json:"bypass_account_age"`
	BypassFraud        bool      `json:"bypass_fraud"`
	BypassAll          bool      `json:"bypass_all"`
}

// AccountAgeDays returns the number of whole days since the account was created.
func (u User) AccountAgeDays(now time.Time) int {
	if now.Before(u.JoinedAt) {
		return 0
	}
	return int(now.Sub(u.JoinedAt) / (24 * time.Hour))
}

// ItemStatus is the lifecycle state of an auction
type ItemStatus string

const (
	ItemActive    ItemStatus = "active"
	ItemSold      ItemStatus = "sold"
	ItemExpired   ItemStatus = "expired"
	ItemCancelled ItemStatus = "cancelled"
	ItemPrivate   ItemStatus = "private"
	ItemOffSale   ItemStatus = "off_sale"
)

// Item represents an auction item
type Item struct {
	ItemID        string              `json:"item_id"`
	SellerID      string              `json:"seller_id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	StartingPrice decimal.Decimal     `json:"starting_price"`
	CurrentPrice  decimal.Decimal     `json:"current_price"`
	MinIncrement  decimal.Decimal     `json:"min_increment"`
	BuyNowPrice   decimal.NullDecimal `json:"buy_now_price"`
	Status        ItemStatus          `json:"status"`
	WinnerID      string              `json:"winner_id,omitempty"`
	BidCount      int                 `json:"bid_count"`
	CreatedAt     time.Time           `json:"created_at"`
	EndTime       time.Time           `json:"end_time"`
}

// MinimumBid is the lowest amount the next bid may carry.
func (i Item) MinimumBid() decimal.Decimal {
	return i.CurrentPrice.Add(i.MinIncrement)
}

// AcceptsBids reports whether the auction is open at now.
func (i Item) AcceptsBids(now time.Time) bool {
	return i.Status == ItemActive && now.Before(i.EndTime)
}

// InEndgame reports whether an active auction has at most window left before it ends.
func (i Item) InEndgame(now time.Time, window time.Duration) bool {
	if i.Status != ItemActive {
		return false
	}
	remaining := i.EndTime.Sub(now)
	return remaining > 0 && remaining <= window
}

// Progress returns the elapsed fraction of the auction at t (0 at creation, 1 at end).
func (i Item) Progress(t time.Time) float64 {
	total := i.EndTime.Sub(i.CreatedAt).Seconds()
	if total <= 0 {
		return 0
	}
	return t.Sub(i.CreatedAt).Seconds() / total
}

// CanTransition reports whether the item may move from its current status to next.
// Sold, expired and cancelled are terminal; active may be hidden and shown again by the seller.
func (i Item) CanTransition(next ItemStatus) bool {
	switch i.Status {
	case ItemActive:
		return next != ItemActive
	case ItemPrivate, ItemOffSale:
		return next == ItemActive || next == ItemPrivate || next == ItemOffSale
	default:
		return false
	}
}

// Bid represents a user's bid on an item
type Bid struct {
	BidID       string          `json:"bid_id"`
	ItemID      string          `json:"item_id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	PriceBefore decimal.Decimal `json:"price_before"`
	IsWinning   bool            `json:"is_winning"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Increment is how far the bid raised the price it was placed against.
func (b Bid) Increment() decimal.Decimal {
	return b.Amount.Sub(b.PriceBefore)
}
