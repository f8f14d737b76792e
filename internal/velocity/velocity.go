// Package velocity answers bid-rate questions about a user's recent history.
// Every count includes the bid being admitted.
package velocity

import (
	"context"
	"fmt"
	"time"

	"bid-admission/internal/repository"

	"github.com/shopspring/decimal"
)

// Analyzer computes sliding-window bid statistics from the bid store
type Analyzer struct {
	bids repository.BidStore
	now  func() time.Time
}

// NewAnalyzer creates an analyzer. A nil clock means time.Now in UTC.
func NewAnalyzer(bids repository.BidStore, now func() time.Time) *Analyzer {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Analyzer{bids: bids, now: now}
}

// CountInWindow returns the user's bids within window, on itemID when it is set,
// plus one for the pending bid.
func (a *Analyzer) CountInWindow(ctx context.Context, userID, itemID string, window time.Duration) (int, error) {
	n, err := a.bids.CountBids(ctx, repository.BidQuery{UserID: userID, ItemID: itemID, Since: a.now().Add(-window)})
	if err != nil {
		return 0, fmt.Errorf("velocity: count bids for user %s: %w", userID, err)
	}
	return n + 1, nil
}

// GlobalActivity is the user's cross-auction activity in a window
type GlobalActivity struct {
	Bids     int // includes the pending bid
	Auctions int // distinct auctions among historical bids
}

// Global returns the user's bid count (plus the pending bid) and distinct auction
// count within window.
func (a *Analyzer) Global(ctx context.Context, userID string, window time.Duration) (GlobalActivity, error) {
	bids, err := a.CountInWindow(ctx, userID, "", window)
	if err != nil {
		return GlobalActivity{}, err
	}
	auctions, err := a.DistinctAuctionsInWindow(ctx, userID, window)
	if err != nil {
		return GlobalActivity{}, err
	}
	return GlobalActivity{Bids: bids, Auctions: auctions}, nil
}

// DistinctAuctionsInWindow counts the auctions the user bid on within window.
func (a *Analyzer) DistinctAuctionsInWindow(ctx context.Context, userID string, window time.Duration) (int, error) {
	n, err := a.bids.CountDistinctItems(ctx, repository.BidQuery{UserID: userID, Since: a.now().Add(-window)})
	if err != nil {
		return 0, fmt.Errorf("velocity: count auctions for user %s: %w", userID, err)
	}
	return n, nil
}

// MinimalIncrementStreak counts the user's bids on itemID within window that raised the
// price by at most minIncrement*tolerance, plus the pending bid when its own increment
// over currentPrice qualifies.
func (a *Analyzer) MinimalIncrementStreak(ctx context.Context, userID, itemID string, window time.Duration,
	pending, currentPrice, minIncrement, tolerance decimal.Decimal) (int, error) {
	bids, err := a.bids.ListBids(ctx, repository.BidQuery{UserID: userID, ItemID: itemID, Since: a.now().Add(-window)})
	if err != nil {
		return 0, fmt.Errorf("velocity: list bids for user %s: %w", userID, err)
	}

	limit := minIncrement.Mul(tolerance)
	streak := 0
	for _, b := range bids {
		if b.Increment().LessThanOrEqual(limit) {
			streak++
		}
	}
	if pending.Sub(currentPrice).LessThanOrEqual(limit) {
		streak++
	}
	return streak, nil
}
