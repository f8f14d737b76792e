package repository

import (
	"context"
	"time"

	model "bid-admission/internal/models"

	"github.com/shopspring/decimal"
)

// ItemStore persists auction items
type ItemStore interface {
	CreateItem(ctx context.Context, item model.Item) error
	GetItem(ctx context.Context, itemID string) (model.Item, error)
	ListItemsBySeller(ctx context.Context, sellerID string) ([]model.Item, error)
	CountWonItems(ctx context.Context, userID string) (int, error)
	// ApplyBid sets the item's current price and increments its bid count.
	ApplyBid(ctx context.Context, itemID string, price decimal.Decimal) error
	// BuyNow marks the item sold to buyerID only if it is still active and has no winner.
	// It reports false when another transition won the race.
	BuyNow(ctx context.Context, itemID, buyerID string, price decimal.Decimal) (bool, error)
	UpdateItemStatus(ctx context.Context, itemID string, status model.ItemStatus) error
}

// BidQuery selects bids. Zero fields do not filter.
type BidQuery struct {
	UserID string
	ItemID string
	Since  time.Time
	// Limit keeps only the most recent Limit bids.
	Limit int
}

// BidWithItem pairs a bid with the auction it was placed on
type BidWithItem struct {
	Bid  model.Bid
	Item model.Item
}

// BidStore persists bids and answers the history questions the gate and fraud engine ask
type BidStore interface {
	CreateBid(ctx context.Context, bid model.Bid) error
	DeleteBid(ctx context.Context, bidID string) error
	// ListBids returns matching bids ordered oldest first.
	ListBids(ctx context.Context, q BidQuery) ([]model.Bid, error)
	CountBids(ctx context.Context, q BidQuery) (int, error)
	CountDistinctItems(ctx context.Context, q BidQuery) (int, error)
	// ListUserBidItems returns the user's most recent bids (at most limit, 0 for all) with their items.
	ListUserBidItems(ctx context.Context, userID string, since time.Time, limit int) ([]BidWithItem, error)
	CountBidsOnSeller(ctx context.Context, userID, sellerID string) (int, error)
	CountSellerItemsBidOn(ctx context.Context, userID, sellerID string) (int, error)
	ListBidders(ctx context.Context, itemID string) ([]string, error)
	CountCommonItems(ctx context.Context, userA, userB string) (int, error)
	// MarkWinningBid clears is_winning on the item's bids and sets it on the highest one.
	MarkWinningBid(ctx context.Context, itemID string) (model.Bid, error)
	GetWinningBid(ctx context.Context, itemID string) (model.Bid, error)
	GetItemsByUser(ctx context.Context, userID string) ([]model.Item, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, userID string) (model.User, error)
}

// CooldownQuery selects cooldowns. ItemIDs matches on scope, "" standing for global;
// an empty list matches every scope.
type CooldownQuery struct {
	UserID       string
	ItemIDs      []string
	Kind         model.CooldownKind
	ActiveOnly   bool
	CreatedSince time.Time
}

// CooldownDB persists cooldown records
type CooldownDB interface {
	CreateCooldown(ctx context.Context, c model.Cooldown) error
	UpdateCooldown(ctx context.Context, c model.Cooldown) error
	// FindCooldowns returns matching cooldowns newest first.
	FindCooldowns(ctx context.Context, q CooldownQuery) ([]model.Cooldown, error)
	// DeactivateExpired deactivates active cooldowns whose expiry is at or before now.
	DeactivateExpired(ctx context.Context, now time.Time) (int, error)
}

// AlertDB persists fraud alerts
type AlertDB interface {
	// CreateAlerts stores all alerts or none.
	CreateAlerts(ctx context.Context, alerts []model.FraudAlert) error
	GetAlert(ctx context.Context, alertID string) (model.FraudAlert, error)
	UpdateAlert(ctx context.Context, alert model.FraudAlert) error
	DeleteAlert(ctx context.Context, alertID string) error
	// ListAlerts returns matching alerts newest first.
	ListAlerts(ctx context.Context, f model.AlertFilter) ([]model.FraudAlert, error)
	// ResolveAlerts resolves the unresolved alerts among ids and reports how many changed.
	ResolveAlerts(ctx context.Context, ids []string, resolvedBy string, at time.Time) (int, error)
}

// PaymentQuery selects payments. Zero fields do not filter.
type PaymentQuery struct {
	UserID string
	Status model.PaymentStatus
	Since  time.Time
}

type PaymentDB interface {
	CreatePayment(ctx context.Context, p model.Payment) error
	ListPayments(ctx context.Context, q PaymentQuery) ([]model.Payment, error)
}

// TxLogDB persists the hash-chained transaction log
type TxLogDB interface {
	AppendTransaction(ctx context.Context, entry model.TransactionLog) error
	// LastTransaction returns the newest entry; ok is false when the log is empty.
	LastTransaction(ctx context.Context) (entry model.TransactionLog, ok bool, err error)
	ListTransactions(ctx context.Context) ([]model.TransactionLog, error)
}

// Store is the full set of persistence operations
type Store interface {
	ItemStore
	BidStore
	UserStore
	CooldownDB
	AlertDB
	PaymentDB
	TxLogDB
}

//go:generate mockgen -destination=mock_repository.go -package=repository bid-admission/internal/repository AuctionDB

// AuctionDB is a Store that can serialize work on a single item
type AuctionDB interface {
	Store
	// WithItemLock runs fn while holding an exclusive lock on the item. Reads and writes
	// that belong to the locked section must go through the Store passed to fn; an error
	// returned by fn discards whatever that Store wrote where the backend supports it.
	WithItemLock(ctx context.Context, itemID string, fn func(ctx context.Context, tx Store) error) error
}
