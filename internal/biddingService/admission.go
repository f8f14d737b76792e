package bidding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bid-admission/internal/biddingerrors"
	"bid-admission/internal/events"
	"bid-admission/internal/fraud"
	"bid-admission/internal/gate"
	model "bid-admission/internal/models"
	"bid-admission/internal/pending"
	"bid-admission/internal/repository"
	"bid-admission/utils"

	"github.com/shopspring/decimal"
)

const (
	msgFraudBlocked  = "Your bid has been blocked for security review. Please contact support."
	msgFraudBypassed = "Fraud checks flagged this bid but your account is exempt."
	msgFlagged       = "Your bid has been flagged for review."
	msgSelfBid       = "You cannot bid on your own item."
)

// admission carries one attempt through the locked section
type admission struct {
	user      model.User
	override  model.AdmissionPolicyOverride
	itemID    string
	amount    decimal.Decimal
	resumed   bool
	result    model.AdmissionResult
	blocked   bool
	challenge bool
	alerts    []model.FraudAlert
	item      model.Item
	bid       model.Bid
}

func (a *admission) reject(text string) {
	a.blocked = true
	a.result.AddMessage(model.LevelError, text)
}

// PlaceBid runs a bid attempt through the admission pipeline. Rejections and
// challenges are reported in the result; errors mean the attempt could not be evaluated.
func (s *BiddingService) PlaceBid(ctx context.Context, userID, itemID string, amount decimal.Decimal) (model.AdmissionResult, error) {
	if itemID == "" || userID == "" {
		return model.AdmissionResult{}, fmt.Errorf("service: %w - missing itemID or userID", biddingerrors.ErrInvalidBid)
	}
	if !amount.IsPositive() {
		return model.AdmissionResult{}, fmt.Errorf("service: %w - non-positive bid amount", biddingerrors.ErrInvalidBid)
	}
	return s.admit(ctx, userID, itemID, amount, false)
}

// ResumeAfterCaptcha admits the bid parked when the user's challenge was raised, and clears the
// challenge once that bid is admitted. The parked amount is validated again against the current
// price. Velocity windows are skipped but cooldowns already in force still apply.
func (s *BiddingService) ResumeAfterCaptcha(ctx context.Context, userID, itemID string) (model.AdmissionResult, error) {
	parked, err := s.pending.Take(ctx, userID, itemID)
	if err != nil {
		return model.AdmissionResult{}, fmt.Errorf("service: resume bid on item %s: %w", itemID, err)
	}
	if pending.Expired(parked, s.cfg.Admission.PendingBidTTL, s.now()) {
		utils.Info("Discarded expired pending bid", map[string]any{"userID": userID, "itemID": itemID})
		return model.AdmissionResult{}, fmt.Errorf("service: resume bid on item %s: %w", itemID, biddingerrors.ErrPendingBidExpired)
	}
	res, err := s.admit(ctx, userID, itemID, parked.Amount, true)
	if err != nil {
		return model.AdmissionResult{}, err
	}
	if res.Status != model.Admitted {
		return res, nil
	}
	if _, err := s.gate.PassCaptcha(ctx, userID, itemID); err != nil {
		utils.Warn("Failed to clear challenge after resumed bid", map[string]any{"userID": userID, "itemID": itemID, "error": err.Error()})
	}
	return res, nil
}

// PassCaptcha records a solved challenge without resuming a bid.
func (s *BiddingService) PassCaptcha(ctx context.Context, userID, itemID string) (bool, error) {
	ok, err := s.gate.PassCaptcha(ctx, userID, itemID)
	if err != nil {
		return false, fmt.Errorf("service: %w", err)
	}
	return ok, nil
}

// FailCaptcha records a failed challenge. Once it escalates, the parked bid is dropped.
func (s *BiddingService) FailCaptcha(ctx context.Context, userID, itemID string) (gate.CaptchaFailure, error) {
	res, err := s.gate.FailCaptcha(ctx, userID, itemID)
	if err != nil {
		return gate.CaptchaFailure{}, fmt.Errorf("service: %w", err)
	}
	if res.Escalated {
		if _, err := s.pending.Take(ctx, userID, itemID); err != nil && !errors.Is(err, biddingerrors.ErrPendingBidNotFound) {
			utils.Warn("Failed to drop pending bid", map[string]any{"userID": userID, "itemID": itemID, "error": err.Error()})
		}
	}
	return res, nil
}

func (s *BiddingService) admit(ctx context.Context, userID, itemID string, amount decimal.Decimal, resumed bool) (model.AdmissionResult, error) {
	start := time.Now()

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return model.AdmissionResult{}, fmt.Errorf("service: failed to load user %s: %w", userID, err)
	}
	a := &admission{
		user:     user,
		override: model.ResolveOverride(user),
		itemID:   itemID,
		amount:   amount,
		resumed:  resumed,
		result:   model.AdmissionResult{Messages: []model.AdmissionMessage{}},
	}

	err = s.repo.WithItemLock(ctx, itemID, func(ctx context.Context, tx repository.Store) error {
		return s.evaluate(ctx, tx, a)
	})
	if err != nil {
		return model.AdmissionResult{}, fmt.Errorf("service: failed to admit bid on item %s by user %s: %w", itemID, userID, err)
	}

	s.afterAdmission(ctx, a)
	s.metrics.Admission(string(a.result.Status), time.Since(start))
	return a.result, nil
}

// evaluate runs under the item lock. Alerts are written through the root store so they
// survive when the locked section discards the tentative bid.
func (s *BiddingService) evaluate(ctx context.Context, tx repository.Store, a *admission) error {
	now := s.now()
	item, err := tx.GetItem(ctx, a.itemID)
	if err != nil {
		return err
	}
	a.item = item

	if !item.AcceptsBids(now) {
		a.reject("This auction is no longer accepting bids.")
		a.result.Status = model.Rejected
		return nil
	}
	if minBid := item.MinimumBid(); a.amount.LessThan(minBid) {
		text := fmt.Sprintf("Bid must be at least %s (current price %s plus minimum increment %s).",
			formatMoney(minBid), formatMoney(item.CurrentPrice), formatMoney(item.MinIncrement))
		if a.resumed {
			text = fmt.Sprintf("The price moved while you were verifying. The minimum bid is now %s.", formatMoney(minBid))
		}
		a.reject(text)
		a.result.Status = model.Rejected
		return nil
	}
	if item.SellerID == a.user.UserID {
		a.reject(msgSelfBid)
	}

	if !a.override.BypassRapidBidding {
		var d gate.Decision
		if a.resumed {
			d, err = s.gate.CheckRestrictions(ctx, a.user.UserID, item.ItemID)
		} else {
			d, err = s.gate.Check(ctx, a.user.UserID, item, a.amount)
		}
		if err != nil {
			return err
		}
		s.metrics.GateAction(string(d.Action))
		switch d.Action {
		case gate.SoftChallenge:
			a.challenge = true
			a.result.ChallengeRequired = true
			a.result.AddMessage(model.LevelWarning, d.Message)
		case gate.HardCooldown, gate.Suspended:
			a.reject(d.Message)
			a.result.CooldownSeconds = d.CooldownSeconds
		}
	}

	if !a.override.BypassAccountAge {
		s.checkAccountAge(a, now)
	}

	a.bid = model.Bid{
		BidID:       utils.GenerateID(),
		ItemID:      item.ItemID,
		UserID:      a.user.UserID,
		Amount:      a.amount,
		PriceBefore: item.CurrentPrice,
		CreatedAt:   now,
	}
	if err := tx.CreateBid(ctx, a.bid); err != nil {
		return err
	}

	a.alerts = s.fraud.AnalyzeBid(ctx, tx, fraud.BidSubject{Bid: a.bid, Item: item, Bidder: a.user})
	if len(a.alerts) > 0 {
		if err := s.repo.CreateAlerts(ctx, a.alerts); err != nil {
			return err
		}
		for _, al := range a.alerts {
			s.metrics.FraudAlert(string(al.Type), string(al.Severity))
		}
	}
	a.result.AlertCount = len(a.alerts)
	switch {
	case fraud.HasCritical(a.alerts) && a.override.BypassFraud:
		utils.Warn("Critical fraud alert bypassed", map[string]any{"userID": a.user.UserID, "itemID": item.ItemID, "bidID": a.bid.BidID})
		a.result.AddMessage(model.LevelWarning, msgFraudBypassed)
	case fraud.HasCritical(a.alerts):
		a.reject(msgFraudBlocked)
	case len(a.alerts) > 0:
		a.result.AddMessage(model.LevelWarning, msgFlagged)
	}

	if a.blocked || a.challenge {
		if err := tx.DeleteBid(ctx, a.bid.BidID); err != nil {
			return err
		}
		a.result.Status = model.Challenged
		if a.blocked {
			a.result.Status = model.Rejected
			a.result.ChallengeRequired = false
		}
		return nil
	}

	if err := tx.ApplyBid(ctx, item.ItemID, a.amount); err != nil {
		return err
	}
	winning, err := tx.MarkWinningBid(ctx, item.ItemID)
	if err != nil {
		return err
	}
	a.bid = winning
	a.result.Status = model.Admitted
	price := a.amount
	a.result.NewPrice = &price
	a.result.NewWinningBid = &winning
	a.result.AddMessage(model.LevelInfo, fmt.Sprintf("Bid of %s placed successfully.", formatMoney(a.amount)))
	return nil
}

func (s *BiddingService) checkAccountAge(a *admission, now time.Time) {
	cfg := s.cfg.Fraud
	age := a.user.AccountAgeDays(now)
	if !a.amount.GreaterThan(cfg.HighValueBidThreshold) || age >= cfg.MinAccountAgeDays {
		return
	}
	a.reject(fmt.Sprintf("New accounts must be at least %d days old to place bids above %s. "+
		"Your account is %d day(s) old. Please wait %d more day(s) or bid a lower amount.",
		cfg.MinAccountAgeDays, formatMoney(cfg.HighValueBidThreshold), age, cfg.MinAccountAgeDays-age))
}

// afterAdmission does the work that must not hold the item lock.
func (s *BiddingService) afterAdmission(ctx context.Context, a *admission) {
	now := s.now()
	switch a.result.Status {
	case model.Admitted:
		s.appendLog(ctx, model.TransactionLog{
			Type:   model.TxBidCommitted,
			ItemID: a.bid.ItemID,
			UserID: a.bid.UserID,
			Amount: a.bid.Amount,
			Data:   map[string]any{"bid_id": a.bid.BidID, "price_before": a.bid.PriceBefore.String()},
		})
		e := events.New(events.BidPlaced, a.bid.ItemID, a.bid.UserID, a.bid.Amount, now)
		e.BidID = a.bid.BidID
		e.BidCount = a.item.BidCount + 1
		s.publish(ctx, e)
		utils.Info("Bid admitted", map[string]any{"bidID": a.bid.BidID, "itemID": a.bid.ItemID, "userID": a.bid.UserID, "amount": a.bid.Amount.String()})
	case model.Challenged:
		err := s.pending.Put(ctx, model.PendingBid{UserID: a.user.UserID, ItemID: a.itemID, Amount: a.amount, CreatedAt: now})
		if err != nil {
			utils.Error("Failed to park pending bid", map[string]any{"userID": a.user.UserID, "itemID": a.itemID, "error": err.Error()})
		}
		s.publish(ctx, events.New(events.BidChallenged, a.itemID, a.user.UserID, a.amount, now))
		utils.Info("Bid challenged", map[string]any{"itemID": a.itemID, "userID": a.user.UserID})
	default:
		utils.Info("Bid rejected", map[string]any{"itemID": a.itemID, "userID": a.user.UserID, "messages": len(a.result.Messages)})
	}

	if fraud.HasCritical(a.alerts) {
		e := events.New(events.FraudAlerted, a.itemID, a.user.UserID, a.amount, now)
		e.Severity = model.SeverityCritical
		s.publish(ctx, e)
	}
	if s.enricher != nil && len(a.alerts) > 0 {
		req := fraud.AssessmentRequest{
			Username:       a.user.Username,
			AccountAgeDays: a.user.AccountAgeDays(now),
			ItemTitle:      a.item.Title,
			Amount:         a.amount,
			CurrentPrice:   a.item.CurrentPrice,
			Alerts:         a.alerts,
		}
		if err := s.scheduler.Schedule(func() {
			fraud.Enrich(context.Background(), s.enricher, s.repo, req)
		}); err != nil {
			utils.Warn("Risk enrichment not scheduled", map[string]any{"itemID": a.itemID, "error": err.Error()})
		}
	}
}
