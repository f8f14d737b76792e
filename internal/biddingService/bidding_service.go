package bidding

import (
	"context"
	"fmt"
	"time"

	"bid-admission/internal/biddingerrors"
	"bid-admission/internal/config"
	"bid-admission/internal/events"
	"bid-admission/internal/fraud"
	"bid-admission/internal/gate"
	"bid-admission/internal/metrics"
	model "bid-admission/internal/models"
	"bid-admission/internal/pending"
	"bid-admission/internal/repository"
	"bid-admission/internal/txlog"
	"bid-admission/utils"

	"github.com/shopspring/decimal"
	"github.com/viney-shih/goroutines"
)

// Dependencies are the collaborators of the bidding service. Gate, Fraud and Pending
// are required; the rest may be left nil.
type Dependencies struct {
	Gate      *gate.Gate
	Fraud     *fraud.Engine
	Pending   pending.Stash
	Enricher  fraud.Enricher
	TxLog     *txlog.Logger
	Events    events.Publisher
	Scheduler events.Scheduler
	Metrics   *metrics.Metrics
	Clock     func() time.Time
}

// BiddingService admits bids and runs the other item transitions
type BiddingService struct {
	repo      repository.AuctionDB
	cfg       config.Config
	gate      *gate.Gate
	fraud     *fraud.Engine
	pending   pending.Stash
	enricher  fraud.Enricher
	txlog     *txlog.Logger
	events    events.Publisher
	scheduler events.Scheduler
	metrics   *metrics.Metrics
	now       func() time.Time
}

type inline struct{}

func (inline) Schedule(task goroutines.TaskFunc) error {
	task()
	return nil
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, cfg config.Config, deps Dependencies) *BiddingService {
	s := &BiddingService{
		repo:      repo,
		cfg:       cfg,
		gate:      deps.Gate,
		fraud:     deps.Fraud,
		pending:   deps.Pending,
		enricher:  deps.Enricher,
		txlog:     deps.TxLog,
		events:    deps.Events,
		scheduler: deps.Scheduler,
		metrics:   deps.Metrics,
		now:       deps.Clock,
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.events == nil {
		s.events = events.Discard{}
	}
	if s.scheduler == nil {
		s.scheduler = inline{}
	}
	if s.txlog == nil {
		s.txlog = txlog.NewLogger(repo, s.now)
	}
	return s
}

// CreateItem lists a new auction
func (s *BiddingService) CreateItem(ctx context.Context, item model.Item) (model.Item, error) {
	if item.SellerID == "" || item.Title == "" {
		return model.Item{}, fmt.Errorf("service: %w - missing seller or title", biddingerrors.ErrInvalidBid)
	}
	if !item.StartingPrice.IsPositive() || !item.MinIncrement.IsPositive() {
		return model.Item{}, fmt.Errorf("service: %w - prices must be positive", biddingerrors.ErrInvalidBid)
	}
	if item.BuyNowPrice.Valid && item.BuyNowPrice.Decimal.LessThanOrEqual(item.StartingPrice) {
		return model.Item{}, fmt.Errorf("service: %w - buy now price must exceed the starting price", biddingerrors.ErrInvalidBid)
	}
	now := s.now()
	if !item.EndTime.After(now) {
		return model.Item{}, fmt.Errorf("service: %w - end time must be in the future", biddingerrors.ErrInvalidBid)
	}
	if item.ItemID == "" {
		item.ItemID = utils.GenerateID()
	}
	item.CurrentPrice = item.StartingPrice
	item.Status = model.ItemActive
	item.WinnerID = ""
	item.BidCount = 0
	item.CreatedAt = now

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return model.Item{}, fmt.Errorf("service: failed to create item: %w", err)
	}
	return item, nil
}

// CreateUser registers a marketplace account
func (s *BiddingService) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	if user.Username == "" {
		return model.User{}, fmt.Errorf("service: %w - missing username", biddingerrors.ErrInvalidBid)
	}
	if user.UserID == "" {
		user.UserID = utils.GenerateID()
	}
	if user.JoinedAt.IsZero() {
		user.JoinedAt = s.now()
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("service: failed to create user: %w", err)
	}
	return user, nil
}

// GetItem returns one auction
func (s *BiddingService) GetItem(ctx context.Context, itemID string) (model.Item, error) {
	if itemID == "" {
		return model.Item{}, fmt.Errorf("service: %w - empty item ID", biddingerrors.ErrInvalidBid)
	}
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return model.Item{}, fmt.Errorf("service: failed to get item %s: %w", itemID, err)
	}
	return item, nil
}

// GetBidsForItem returns all bids for a specific item
func (s *BiddingService) GetBidsForItem(ctx context.Context, itemID string) ([]model.Bid, error) {
	if itemID == "" {
		return nil, fmt.Errorf("service: %w - empty item ID", biddingerrors.ErrInvalidBid)
	}
	if _, err := s.repo.GetItem(ctx, itemID); err != nil {
		return nil, fmt.Errorf("service: failed to get bids for item %s: %w", itemID, err)
	}

	bids, err := s.repo.ListBids(ctx, repository.BidQuery{ItemID: itemID})
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for item %s: %w", itemID, err)
	}
	if len(bids) == 0 {
		return nil, fmt.Errorf("service: item %s: %w", itemID, biddingerrors.ErrNoBids)
	}
	return bids, nil
}

// GetWinningBid returns the highest bid for a specific item
func (s *BiddingService) GetWinningBid(ctx context.Context, itemID string) (model.Bid, error) {
	if itemID == "" {
		return model.Bid{}, fmt.Errorf("service: %w - empty item ID", biddingerrors.ErrInvalidBid)
	}

	winningBid, err := s.repo.GetWinningBid(ctx, itemID)
	if err != nil {
		return model.Bid{}, fmt.Errorf("service: failed to get winning bid for item %s: %w", itemID, err)
	}
	return winningBid, nil
}

// GetItemsByUser returns all items a user has placed bids on
func (s *BiddingService) GetItemsByUser(ctx context.Context, userID string) ([]model.Item, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", biddingerrors.ErrInvalidBid)
	}

	items, err := s.repo.GetItemsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get items for user %s: %w", userID, err)
	}
	return items, nil
}

// BuyNow sells the item to userID at its buy-now price. Only an active item without
// bids qualifies; when two buyers race, the loser gets ErrAlreadyPurchased.
func (s *BiddingService) BuyNow(ctx context.Context, userID, itemID string) (model.Item, error) {
	if userID == "" || itemID == "" {
		return model.Item{}, fmt.Errorf("service: %w - missing itemID or userID", biddingerrors.ErrInvalidBid)
	}

	var sold model.Item
	err := s.repo.WithItemLock(ctx, itemID, func(ctx context.Context, tx repository.Store) error {
		item, err := tx.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		switch {
		case item.Status == model.ItemSold || item.WinnerID != "":
			return fmt.Errorf("service: %w", biddingerrors.ErrAlreadyPurchased)
		case !item.AcceptsBids(s.now()):
			return fmt.Errorf("service: %w", biddingerrors.ErrAuctionClosed)
		case item.SellerID == userID:
			return fmt.Errorf("service: %w - cannot buy own item", biddingerrors.ErrSelfBid)
		case !item.BuyNowPrice.Valid:
			return fmt.Errorf("service: %w - no buy now price", biddingerrors.ErrBuyNowUnavailable)
		case item.BidCount > 0:
			return fmt.Errorf("service: %w - item already has bids", biddingerrors.ErrBuyNowUnavailable)
		}

		ok, err := tx.BuyNow(ctx, itemID, userID, item.BuyNowPrice.Decimal)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("service: %w", biddingerrors.ErrAlreadyPurchased)
		}
		item.Status = model.ItemSold
		item.WinnerID = userID
		item.CurrentPrice = item.BuyNowPrice.Decimal
		sold = item
		return nil
	})
	if err != nil {
		return model.Item{}, fmt.Errorf("service: buy now on item %s by user %s: %w", itemID, userID, err)
	}

	price := sold.CurrentPrice
	fee := txlog.PlatformFee(price)
	s.appendLog(ctx, model.TransactionLog{
		Type:   model.TxBuyNowPurchase,
		ItemID: itemID,
		UserID: userID,
		Amount: price,
		Data: map[string]any{
			"seller_id":     sold.SellerID,
			"platform_fee":  fee.String(),
			"seller_amount": price.Sub(fee).String(),
		},
	})
	s.publish(ctx, events.New(events.ItemSold, itemID, userID, price, s.now()))
	utils.Info("Item bought now", map[string]any{"itemID": itemID, "userID": userID, "price": price.String()})
	return sold, nil
}

// SetItemStatus lets the seller hide, show or close an auction.
func (s *BiddingService) SetItemStatus(ctx context.Context, sellerID, itemID string, status model.ItemStatus) (model.Item, error) {
	var updated model.Item
	err := s.repo.WithItemLock(ctx, itemID, func(ctx context.Context, tx repository.Store) error {
		item, err := tx.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item.SellerID != sellerID {
			return biddingerrors.ErrNotSeller
		}
		if status == model.ItemSold || !item.CanTransition(status) {
			return fmt.Errorf("%w - %s to %s", biddingerrors.ErrInvalidTransition, item.Status, status)
		}
		if err := tx.UpdateItemStatus(ctx, itemID, status); err != nil {
			return err
		}
		item.Status = status
		updated = item
		return nil
	})
	if err != nil {
		return model.Item{}, fmt.Errorf("service: set status of item %s: %w", itemID, err)
	}
	return updated, nil
}

// appendLog writes to the transaction log after the item transition committed,
// so a failure here is logged rather than returned.
func (s *BiddingService) appendLog(ctx context.Context, entry model.TransactionLog) {
	if _, err := s.txlog.Append(ctx, entry); err != nil {
		utils.Error("Failed to append transaction log", map[string]any{
			"type": entry.Type, "itemID": entry.ItemID, "error": err.Error(),
		})
	}
}

func (s *BiddingService) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		utils.Warn("Failed to publish event", map[string]any{"eventType": e.Type, "itemID": e.ItemID, "error": err.Error()})
	}
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
