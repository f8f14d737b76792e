package fraud

import (
	"context"
	"fmt"

	model "bid-admission/internal/models"
	"bid-admission/internal/repository"

	"github.com/shopspring/decimal"
)

func (e *Engine) rapidBidding(ctx context.Context, src repository.Store, s BidSubject) (*model.FraudAlert, error) {
	window := e.cfg.RapidBiddingWindow
	n, err := src.CountBids(ctx, repository.BidQuery{UserID: s.Bid.UserID, Since: e.now().Add(-window)})
	if err != nil {
		return nil, err
	}
	if n < e.cfg.RapidBiddingThreshold {
		return nil, nil
	}
	mins := int(window.Minutes())
	return e.newAlert(s.Bid.UserID, s.Item.ItemID, model.AlertRapidBidding, model.SeverityHigh,
		fmt.Sprintf("User placed %d bids in %d minutes (threshold: %d). Possible bot activity.", n, mins, e.cfg.RapidBiddingThreshold),
		map[string]any{
			"bid_count":           n,
			"time_window_minutes": mins,
			"threshold":           e.cfg.RapidBiddingThreshold,
			"bid_id":              s.Bid.BidID,
		}), nil
}

func (e *Engine) bidSniping(ctx context.Context, src repository.Store, s BidSubject) (*model.FraudAlert, error) {
	window := e.cfg.SnipingWindow
	untilEnd := s.Item.EndTime.Sub(e.now())
	if untilEnd > window {
		return nil, nil
	}
	history, err := src.ListUserBidItems(ctx, s.Bid.UserID, e.now().Add(-e.cfg.SnipingHistory), 0)
	if err != nil {
		return nil, err
	}
	snipes := 0
	for _, h := range history {
		if h.Item.EndTime.Sub(h.Bid.CreatedAt) <= window {
			snipes++
		}
	}
	if snipes < e.cfg.SnipingThreshold {
		return nil, nil
	}
	days := int(e.cfg.SnipingHistory.Hours() / 24)
	secs := int(window.Seconds())
	return e.newAlert(s.Bid.UserID, s.Item.ItemID, model.AlertBidSniping, model.SeverityMedium,
		fmt.Sprintf("User has pattern of bidding in final %d seconds. %d snipes in last %d days (threshold: %d).", secs, snipes, days, e.cfg.SnipingThreshold),
		map[string]any{
			"seconds_before_end": untilEnd.Seconds(),
			"recent_snipes":      snipes,
			"threshold":          e.cfg.SnipingThreshold,
			"history_days":       days,
			"bid_id":             s.Bid.BidID,
		}), nil
}

func average(bids []model.Bid) decimal.Decimal {
	if len(bids) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, b := range bids {
		sum = sum.Add(b.Amount)
	}
	return sum.Div(decimal.NewFromInt(int64(len(bids))))
}

func (e *Engine) unusualBidAmount(ctx context.Context, src repository.Store, s BidSubject) (*model.FraudAlert, error) {
	bids, err := src.ListBids(ctx, repository.BidQuery{ItemID: s.Item.ItemID})
	if err != nil {
		return nil, err
	}
	avg := average(bids)
	mult := e.cfg.UnusualBidMultiplier
	if !avg.IsPositive() || s.Bid.Amount.LessThan(avg.Mul(mult)) {
		return nil, nil
	}
	return e.newAlert(s.Bid.UserID, s.Item.ItemID, model.AlertUnusualBidAmount, model.SeverityMedium,
		fmt.Sprintf("Bid amount (UGX %s) is %sx+ higher than average (UGX %s).", s.Bid.Amount.StringFixed(0), mult, avg.StringFixed(0)),
		map[string]any{
			"bid_amount":  s.Bid.Amount.InexactFloat64(),
			"average_bid": avg.InexactFloat64(),
			"ratio":       s.Bid.Amount.Div(avg).InexactFloat64(),
			"multiplier":  mult.InexactFloat64(),
			"bid_id":      s.Bid.BidID,
		}), nil
}

func (e *Engine) newAccountHighValue(_ context.Context, _ repository.Store, s BidSubject) (*model.FraudAlert, error) {
	age := s.Bidder.AccountAgeDays(e.now())
	threshold := e.cfg.HighValueBidThreshold
	if age >= e.cfg.MinAccountAgeDays || s.Bid.Amount.LessThan(threshold) {
		return nil, nil
	}
	return e.newAlert(s.Bid.UserID, s.Item.ItemID, model.AlertNewAccountHighValue, model.SeverityHigh,
		fmt.Sprintf("Account created %d days ago (minimum: %d days) placing high bid of UGX %s (threshold: UGX %s).",
			age, e.cfg.MinAccountAgeDays, s.Bid.Amount.StringFixed(0), threshold.StringFixed(0)),
		map[string]any{
			"account_age_days":  age,
			"min_required_days": e.cfg.MinAccountAgeDays,
			"bid_amount":        s.Bid.Amount.InexactFloat64(),
			"threshold_amount":  threshold.InexactFloat64(),
			"bid_id":            s.Bid.BidID,
		}), nil
}

func (e *Engine) selfBidding(_ context.Context, _ repository.Store, s BidSubject) (*model.FraudAlert, error) {
	if s.Item.SellerID != s.Bid.UserID {
		return nil, nil
	}
	return e.newAlert(s.Bid.UserID, s.Item.ItemID, model.AlertSelfBidding, model.SeverityCritical,
		"User is bidding on their own item (shill bidding).",
		map[string]any{"bid_id": s.Bid.BidID, "item_id": s.Item.ItemID}), nil
}

func (e *Engine) bidPatternAnomaly(ctx context.Context, src repository.Store, s BidSubject) (*model.FraudAlert, error) {
	history, err := src.ListBids(ctx, repository.BidQuery{UserID: s.Bid.UserID, Limit: e.cfg.PatternSample})
	if err != nil {
		return nil, err
	}
	if len(history) < e.cfg.PatternMinHistory {
		return nil, nil
	}
	avg := average(history)
	mult := e.cfg.PatternDeviationMultiplier
	if !avg.IsPositive() || s.Bid.Amount.LessThan(avg.Mul(mult)) {
		return nil, nil
	}
	return e.newAlert(s.Bid.UserID, s.Item.ItemID, model.AlertBidPatternAnomaly, model.SeverityMedium,
		fmt.Sprintf("Bid significantly deviates from user's typical pattern (%sx+ average).", mult),
		map[string]any{
			"current_bid":      s.Bid.Amount.InexactFloat64(),
			"average_bid":      avg.InexactFloat64(),
			"deviation_factor": s.Bid.Amount.Div(avg).InexactFloat64(),
			"multiplier":       mult.InexactFloat64(),
			"bid_id":           s.Bid.BidID,
		}), nil
}
