package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bid-admission/internal/biddingerrors"
	model "bid-admission/internal/models"

	"github.com/shopspring/decimal"
)

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu        sync.RWMutex
	items     map[string]model.Item
	users     map[string]model.User
	bids      map[string]model.Bid // key: bidID
	itemBids  map[string][]string  // key: itemID -> bid IDs in insertion order
	userBids  map[string][]string  // key: userID -> bid IDs in insertion order
	cooldowns []model.Cooldown
	alerts    map[string]model.FraudAlert
	payments  []model.Payment
	txlog     []model.TransactionLog

	itemLocks sync.Map // key: itemID -> *sync.Mutex
}

var _ AuctionDB = (*MemoryRepo)(nil)

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		items:    make(map[string]model.Item),
		users:    make(map[string]model.User),
		bids:     make(map[string]model.Bid),
		itemBids: make(map[string][]string),
		userBids: make(map[string][]string),
		alerts:   make(map[string]model.FraudAlert),
	}
}

// WithItemLock serializes fn with every other locked section on the same item.
func (r *MemoryRepo) WithItemLock(ctx context.Context, itemID string, fn func(ctx context.Context, tx Store) error) error {
	if _, err := r.GetItem(ctx, itemID); err != nil {
		return err
	}
	l, _ := r.itemLocks.LoadOrStore(itemID, &sync.Mutex{})
	mu := l.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, r)
}

// AddItem adds an item to the repository, used for seeding.
func (r *MemoryRepo) AddItem(item model.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ItemID] = item
}

// AddUser adds a user to the repository, used for seeding.
func (r *MemoryRepo) AddUser(user model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.UserID] = user
}

// ---- items ----

func (r *MemoryRepo) CreateItem(_ context.Context, item model.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ItemID]; ok {
		return fmt.Errorf("create item %s: %w", item.ItemID, biddingerrors.ErrDuplicate)
	}
	r.items[item.ItemID] = item
	return nil
}

func (r *MemoryRepo) GetItem(_ context.Context, itemID string) (model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[itemID]
	if !ok {
		return model.Item{}, fmt.Errorf("get item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	return item, nil
}

func (r *MemoryRepo) ListItemsBySeller(_ context.Context, sellerID string) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Item
	for _, item := range r.items {
		if item.SellerID == sellerID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) CountWonItems(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, item := range r.items {
		if item.Status == model.ItemSold && item.WinnerID == userID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) ApplyBid(_ context.Context, itemID string, price decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return fmt.Errorf("apply bid to item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	item.CurrentPrice = price
	item.BidCount++
	r.items[itemID] = item
	return nil
}

func (r *MemoryRepo) BuyNow(_ context.Context, itemID, buyerID string, price decimal.Decimal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return false, fmt.Errorf("buy now item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	if item.Status != model.ItemActive || item.WinnerID != "" {
		return false, nil
	}
	item.Status = model.ItemSold
	item.WinnerID = buyerID
	item.CurrentPrice = price
	r.items[itemID] = item
	return true, nil
}

func (r *MemoryRepo) UpdateItemStatus(_ context.Context, itemID string, status model.ItemStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return fmt.Errorf("update status of item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	item.Status = status
	r.items[itemID] = item
	return nil
}

// ---- bids ----

func (r *MemoryRepo) CreateBid(_ context.Context, bid model.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[bid.ItemID]; !ok {
		return fmt.Errorf("record bid for item %s: %w", bid.ItemID, biddingerrors.ErrItemNotFound)
	}
	if _, ok := r.bids[bid.BidID]; ok {
		return fmt.Errorf("record bid %s: %w", bid.BidID, biddingerrors.ErrDuplicate)
	}
	r.bids[bid.BidID] = bid
	r.itemBids[bid.ItemID] = append(r.itemBids[bid.ItemID], bid.BidID)
	r.userBids[bid.UserID] = append(r.userBids[bid.UserID], bid.BidID)
	return nil
}

func (r *MemoryRepo) DeleteBid(_ context.Context, bidID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bid, ok := r.bids[bidID]
	if !ok {
		return fmt.Errorf("delete bid %s: %w", bidID, biddingerrors.ErrBidNotFound)
	}
	delete(r.bids, bidID)
	r.itemBids[bid.ItemID] = without(r.itemBids[bid.ItemID], bidID)
	r.userBids[bid.UserID] = without(r.userBids[bid.UserID], bidID)
	return nil
}

func without(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// selectBids returns matching bids oldest first. Callers hold r.mu.
func (r *MemoryRepo) selectBids(q BidQuery) []model.Bid {
	var ids []string
	switch {
	case q.UserID != "":
		ids = r.userBids[q.UserID]
	case q.ItemID != "":
		ids = r.itemBids[q.ItemID]
	default:
		ids = make([]string, 0, len(r.bids))
		for id := range r.bids {
			ids = append(ids, id)
		}
	}

	out := make([]model.Bid, 0, len(ids))
	for _, id := range ids {
		b := r.bids[id]
		if q.ItemID != "" && b.ItemID != q.ItemID {
			continue
		}
		if !q.Since.IsZero() && b.CreatedAt.Before(q.Since) {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[len(out)-q.Limit:]
	}
	return out
}

func (r *MemoryRepo) ListBids(_ context.Context, q BidQuery) ([]model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selectBids(q), nil
}

func (r *MemoryRepo) CountBids(_ context.Context, q BidQuery) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.selectBids(q)), nil
}

func (r *MemoryRepo) CountDistinctItems(_ context.Context, q BidQuery) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, b := range r.selectBids(q) {
		seen[b.ItemID] = struct{}{}
	}
	return len(seen), nil
}

func (r *MemoryRepo) ListUserBidItems(_ context.Context, userID string, since time.Time, limit int) ([]BidWithItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bids := r.selectBids(BidQuery{UserID: userID, Since: since, Limit: limit})
	out := make([]BidWithItem, 0, len(bids))
	for _, b := range bids {
		if item, ok := r.items[b.ItemID]; ok {
			out = append(out, BidWithItem{Bid: b, Item: item})
		}
	}
	return out, nil
}

func (r *MemoryRepo) CountBidsOnSeller(_ context.Context, userID, sellerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, id := range r.userBids[userID] {
		if r.items[r.bids[id].ItemID].SellerID == sellerID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) CountSellerItemsBidOn(_ context.Context, userID, sellerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, id := range r.userBids[userID] {
		itemID := r.bids[id].ItemID
		if r.items[itemID].SellerID == sellerID {
			seen[itemID] = struct{}{}
		}
	}
	return len(seen), nil
}

func (r *MemoryRepo) ListBidders(_ context.Context, itemID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, id := range r.itemBids[itemID] {
		u := r.bids[id].UserID
		if _, ok := seen[u]; !ok {
			seen[u] = struct{}{}
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *MemoryRepo) CountCommonItems(_ context.Context, userA, userB string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	itemsA := make(map[string]struct{})
	for _, id := range r.userBids[userA] {
		itemsA[r.bids[id].ItemID] = struct{}{}
	}
	common := make(map[string]struct{})
	for _, id := range r.userBids[userB] {
		itemID := r.bids[id].ItemID
		if _, ok := itemsA[itemID]; ok {
			common[itemID] = struct{}{}
		}
	}
	return len(common), nil
}

// highest picks the highest bid, the earlier one winning a tie.
func highest(bids []model.Bid) model.Bid {
	winning := bids[0]
	for _, b := range bids[1:] {
		if b.Amount.GreaterThan(winning.Amount) || (b.Amount.Equal(winning.Amount) && b.CreatedAt.Before(winning.CreatedAt)) {
			winning = b
		}
	}
	return winning
}

func (r *MemoryRepo) MarkWinningBid(_ context.Context, itemID string) (model.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bids := r.selectBids(BidQuery{ItemID: itemID})
	if len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("mark winning bid for item %s: %w", itemID, biddingerrors.ErrNoBids)
	}
	winning := highest(bids)
	for _, b := range bids {
		b.IsWinning = b.BidID == winning.BidID
		r.bids[b.BidID] = b
	}
	winning.IsWinning = true
	return winning, nil
}

// GetWinningBid returns the bid currently marked winning for an item
func (r *MemoryRepo) GetWinningBid(_ context.Context, itemID string) (model.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.itemBids[itemID] {
		if b := r.bids[id]; b.IsWinning {
			return b, nil
		}
	}
	return model.Bid{}, fmt.Errorf("get winning bid for item %s: %w", itemID, biddingerrors.ErrNoBids)
}

// GetItemsByUser returns all items a user has bid on, in order of first bid
func (r *MemoryRepo) GetItemsByUser(_ context.Context, userID string) ([]model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids := r.selectBids(BidQuery{UserID: userID})
	if len(bids) == 0 {
		return nil, fmt.Errorf("get items for user %s: %w", userID, biddingerrors.ErrUserNoBids)
	}
	seen := make(map[string]struct{})
	items := make([]model.Item, 0, len(bids))
	for _, b := range bids {
		if _, ok := seen[b.ItemID]; ok {
			continue
		}
		seen[b.ItemID] = struct{}{}
		if item, exists := r.items[b.ItemID]; exists {
			items = append(items, item)
		}
	}
	return items, nil
}

// ---- users ----

func (r *MemoryRepo) CreateUser(_ context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.UserID]; ok {
		return fmt.Errorf("create user %s: %w", user.UserID, biddingerrors.ErrDuplicate)
	}
	r.users[user.UserID] = user
	return nil
}

func (r *MemoryRepo) GetUser(_ context.Context, userID string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, biddingerrors.ErrUserNotFound)
	}
	return user, nil
}

// ---- cooldowns ----

func (r *MemoryRepo) CreateCooldown(_ context.Context, c model.Cooldown) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cooldowns = append(r.cooldowns, c)
	return nil
}

func (r *MemoryRepo) UpdateCooldown(_ context.Context, c model.Cooldown) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.cooldowns {
		if r.cooldowns[i].CooldownID == c.CooldownID {
			r.cooldowns[i] = c
			return nil
		}
	}
	return fmt.Errorf("update cooldown %s: %w", c.CooldownID, biddingerrors.ErrCooldownNotFound)
}

func scopeMatches(itemIDs []string, itemID string) bool {
	if len(itemIDs) == 0 {
		return true
	}
	for _, id := range itemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

func (r *MemoryRepo) FindCooldowns(_ context.Context, q CooldownQuery) ([]model.Cooldown, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Cooldown
	for i := len(r.cooldowns) - 1; i >= 0; i-- {
		c := r.cooldowns[i]
		switch {
		case q.UserID != "" && c.UserID != q.UserID:
		case !scopeMatches(q.ItemIDs, c.ItemID):
		case q.Kind != "" && c.Kind != q.Kind:
		case q.ActiveOnly && !c.IsActive:
		case !q.CreatedSince.IsZero() && c.CreatedAt.Before(q.CreatedSince):
		default:
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) DeactivateExpired(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for i := range r.cooldowns {
		if r.cooldowns[i].IsActive && r.cooldowns[i].Expired(now) {
			r.cooldowns[i].IsActive = false
			n++
		}
	}
	return n, nil
}

// ---- fraud alerts ----

func (r *MemoryRepo) CreateAlerts(_ context.Context, alerts []model.FraudAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range alerts {
		if _, ok := r.alerts[a.AlertID]; ok {
			return fmt.Errorf("create alert %s: %w", a.AlertID, biddingerrors.ErrDuplicate)
		}
	}
	for _, a := range alerts {
		r.alerts[a.AlertID] = a
	}
	return nil
}

func (r *MemoryRepo) GetAlert(_ context.Context, alertID string) (model.FraudAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.alerts[alertID]
	if !ok {
		return model.FraudAlert{}, fmt.Errorf("get alert %s: %w", alertID, biddingerrors.ErrAlertNotFound)
	}
	return a, nil
}

func (r *MemoryRepo) UpdateAlert(_ context.Context, alert model.FraudAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alerts[alert.AlertID]; !ok {
		return fmt.Errorf("update alert %s: %w", alert.AlertID, biddingerrors.ErrAlertNotFound)
	}
	r.alerts[alert.AlertID] = alert
	return nil
}

func (r *MemoryRepo) DeleteAlert(_ context.Context, alertID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alerts[alertID]; !ok {
		return fmt.Errorf("delete alert %s: %w", alertID, biddingerrors.ErrAlertNotFound)
	}
	delete(r.alerts, alertID)
	return nil
}

func (r *MemoryRepo) ListAlerts(_ context.Context, f model.AlertFilter) ([]model.FraudAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.FraudAlert
	for _, a := range r.alerts {
		if f.Matches(a) {
			out = append(out, a)
		}
	}
	// alert ids are ULIDs, so id order is creation order
	sort.Slice(out, func(i, j int) bool { return out[i].AlertID > out[j].AlertID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *MemoryRepo) ResolveAlerts(_ context.Context, ids []string, resolvedBy string, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, id := range ids {
		a, ok := r.alerts[id]
		if !ok || a.IsResolved {
			continue
		}
		resolvedAt := at
		a.IsResolved = true
		a.ResolvedBy = resolvedBy
		a.ResolvedAt = &resolvedAt
		r.alerts[id] = a
		n++
	}
	return n, nil
}

// ---- payments ----

func (r *MemoryRepo) CreatePayment(_ context.Context, p model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, p)
	return nil
}

func (r *MemoryRepo) ListPayments(_ context.Context, q PaymentQuery) ([]model.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Payment
	for _, p := range r.payments {
		switch {
		case q.UserID != "" && p.UserID != q.UserID:
		case q.Status != "" && p.Status != q.Status:
		case !q.Since.IsZero() && p.CreatedAt.Before(q.Since):
		default:
			out = append(out, p)
		}
	}
	return out, nil
}

// ---- transaction log ----

func (r *MemoryRepo) AppendTransaction(_ context.Context, entry model.TransactionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txlog = append(r.txlog, entry)
	return nil
}

func (r *MemoryRepo) LastTransaction(_ context.Context) (model.TransactionLog, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.txlog) == 0 {
		return model.TransactionLog{}, false, nil
	}
	return r.txlog[len(r.txlog)-1], true, nil
}

func (r *MemoryRepo) ListTransactions(_ context.Context) ([]model.TransactionLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.TransactionLog(nil), r.txlog...), nil
}
