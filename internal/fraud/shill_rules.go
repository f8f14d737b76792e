package fraud

import (
	"context"
	"fmt"
	"time"

	model "bid-admission/internal/models"
	"bid-admission/internal/repository"
)

func (e *Engine) shillSellerAffinity(ctx context.Context, src repository.Store, s BidSubject) (*model.FraudAlert, error) {
	total, err := src.CountBids(ctx, repository.BidQuery{UserID: s.Bid.UserID})
	if err != nil {
		return nil, err
	}
	onSeller, err := src.CountBidsOnSeller(ctx, s.Bid.UserID, s.Item.SellerID)
	if err != nil {
		return nil, err
	}
	if total < e.cfg.ShillMinTotalBids || onSeller < e.cfg.ShillMinSellerBids {
		return nil, nil
	}
	ratio := float64(onSeller) / float64(total)
	if ratio < e.cfg.ShillAffinityThreshold {
		return nil, nil
	}
	return e.newAlert(s.Bid.UserID, s.Item.ItemID, model.AlertShillSellerAffinity, model.SeverityCritical,
		fmt.Sprintf("User bids %.1f%% of time on seller %s's items (threshold: %.0f%%). Possible shill bidder.",
			ratio*100, s.Item.SellerID, e.cfg.ShillAffinityThreshold*100),
		map[string]any{
			"seller_affinity_ratio": ratio,
			"seller_item_bids":      onSeller,
			"total_bids":            total,
			"threshold":             e.cfg.ShillAffinityThreshold,
			"seller_id":             s.Item.SellerID,
			"bid_id":                s.Bid.BidID,
		}), nil
}

func (e *Engine) lowWinRatio(ctx context.Context, src repository.Store, s BidSubject) (*model.FraudAlert, error) {
	bids, err := src.CountBids(ctx, repository.BidQuery{UserID: s.Bid.UserID})
	if err != nil {
		return nil, err
	}
	if bids < e.cfg.LowWinRatioMinBids {
		return nil, nil
	}
	wins, err := src.CountWonItems(ctx, s.Bid.UserID)
	if err != nil {
		return nil, err
	}
	ratio := float64(wins) / float64(bids)
	if ratio > e.cfg.LowWinRatioThreshold {
		return nil, nil
	}
	return e.newAlert(s.Bid.UserID, s.Item.ItemID, model.AlertShillLowWinRatio, model.SeverityHigh,
		fmt.Sprintf("User has suspiciously low win ratio (%.1f%%, threshold: %.0f%%). %d bids, %d wins. Shill bidder pattern.",
			ratio*100, e.cfg.LowWinRatioThreshold*100, bids, wins),
		map[string]any{
			"total_bids": bids,
			"total_wins": wins,
			"win_ratio":  ratio,
			"threshold":  e.cfg.LowWinRatioThreshold,
			"bid_id":     s.Bid.BidID,
		}), nil
}

func (e *Engine) sellerParticipation(ctx context.Context, src repository.Store, s BidSubject) (*model.FraudAlert, error) {
	joined, err := src.CountSellerItemsBidOn(ctx, s.Bid.UserID, s.Item.SellerID)
	if err != nil {
		return nil, err
	}
	if joined < e.cfg.SellerAffinityMinAuctions {
		return nil, nil
	}
	listed, err := src.ListItemsBySeller(ctx, s.Item.SellerID)
	if err != nil {
		return nil, err
	}
	if len(listed) == 0 {
		return nil, nil
	}
	rate := float64(joined) / float64(len(listed))
	if rate < e.cfg.SellerParticipationThreshold {
		return nil, nil
	}
	return e.newAlert(s.Bid.UserID, s.Item.ItemID, model.AlertSellerParticipation, model.SeverityHigh,
		fmt.Sprintf("User participates in %.1f%% of seller's auctions (%d/%d, threshold: %.0f%%).",
			rate*100, joined, len(listed), e.cfg.SellerParticipationThreshold*100),
		map[string]any{
			"auctions_participated": joined,
			"total_seller_auctions": len(listed),
			"participation_rate":    rate,
			"threshold":             e.cfg.SellerParticipationThreshold,
			"seller_id":             s.Item.SellerID,
			"bid_id":                s.Bid.BidID,
		}), nil
}

// timingPattern flags bidders who keep bidding early in auctions and rarely near the end.
func (e *Engine) timingPattern(ctx context.Context, src repository.Store, s BidSubject) (*model.FraudAlert, error) {
	progress := s.Item.Progress(s.Bid.CreatedAt)
	if progress > e.cfg.TimingEarlyThreshold {
		return nil, nil
	}
	history, err := src.ListUserBidItems(ctx, s.Bid.UserID, time.Time{}, e.cfg.TimingSample)
	if err != nil {
		return nil, err
	}
	early, late := 0, 0
	for _, h := range history {
		p := h.Item.Progress(h.Bid.CreatedAt)
		switch {
		case p <= e.cfg.TimingEarlyThreshold:
			early++
		case p >= e.cfg.TimingLateThreshold:
			late++
		}
	}
	if early < e.cfg.TimingMinEarlyBids {
		return nil, nil
	}
	ratio := float64(late) / float64(early)
	if ratio > e.cfg.TimingLateRatioThreshold {
		return nil, nil
	}
	return e.newAlert(s.Bid.UserID, s.Item.ItemID, model.AlertShillTimingPattern, model.SeverityMedium,
		fmt.Sprintf("User exhibits shill timing pattern: %d early bids, %d late bids (ratio: %.2f, threshold: %g). Avoids final stage.",
			early, late, ratio, e.cfg.TimingLateRatioThreshold),
		map[string]any{
			"early_bids":               early,
			"late_bids":                late,
			"late_bid_ratio":           ratio,
			"threshold":                e.cfg.TimingLateRatioThreshold,
			"current_auction_progress": progress,
			"bid_id":                   s.Bid.BidID,
		}), nil
}

func (e *Engine) collusiveBidding(ctx context.Context, src repository.Store, s BidSubject) (*model.FraudAlert, error) {
	bidders, err := src.ListBidders(ctx, s.Item.ItemID)
	if err != nil {
		return nil, err
	}
	pairs := 0
	for _, other := range bidders {
		if other == s.Bid.UserID {
			continue
		}
		common, err := src.CountCommonItems(ctx, s.Bid.UserID, other)
		if err != nil {
			return nil, err
		}
		if common >= e.cfg.CollusiveCommonItems {
			pairs++
		}
	}
	if pairs < e.cfg.CollusiveSuspiciousPairs {
		return nil, nil
	}
	return e.newAlert(s.Bid.UserID, s.Item.ItemID, model.AlertCollusiveBidding, model.SeverityCritical,
		fmt.Sprintf("User appears to be part of collusive bidding network. %d suspicious bidder relationships detected (threshold: %d).",
			pairs, e.cfg.CollusiveSuspiciousPairs),
		map[string]any{
			"suspicious_pairs": pairs,
			"threshold":        e.cfg.CollusiveSuspiciousPairs,
			"bid_id":           s.Bid.BidID,
		}), nil
}
