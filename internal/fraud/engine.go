// Package fraud runs heuristic detectors over bids and payments and reports alerts.
package fraud

import (
	"context"
	"time"

	"bid-admission/internal/config"
	model "bid-admission/internal/models"
	"bid-admission/internal/repository"
	"bid-admission/utils"
)

// BidSubject is everything a bid detector needs besides storage
type BidSubject struct {
	Bid    model.Bid
	Item   model.Item
	Bidder model.User
}

// bidRule inspects one bid; it returns nil when the rule does not fire.
type bidRule struct {
	name  string
	check func(ctx context.Context, src repository.Store, s BidSubject) (*model.FraudAlert, error)
}

type paymentRule struct {
	name  string
	check func(ctx context.Context, src repository.Store, p model.Payment) (*model.FraudAlert, error)
}

// Engine is the fraud rule engine
type Engine struct {
	cfg          config.FraudConfig
	now          func() time.Time
	bidRules     []bidRule
	paymentRules []paymentRule
}

// NewEngine creates an engine with the full detector battery. A nil clock means time.Now in UTC.
func NewEngine(cfg config.FraudConfig, now func() time.Time) *Engine {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	e := &Engine{cfg: cfg, now: now}
	e.bidRules = []bidRule{
		{"rapid_bidding", e.rapidBidding},
		{"bid_sniping", e.bidSniping},
		{"unusual_bid_amount", e.unusualBidAmount},
		{"new_account_high_value", e.newAccountHighValue},
		{"self_bidding", e.selfBidding},
		{"bid_pattern_anomaly", e.bidPatternAnomaly},
		{"shill_seller_affinity", e.shillSellerAffinity},
		{"low_win_ratio", e.lowWinRatio},
		{"seller_participation", e.sellerParticipation},
		{"timing_pattern", e.timingPattern},
		{"collusive_bidding", e.collusiveBidding},
	}
	e.paymentRules = []paymentRule{
		{"failed_payment_pattern", e.failedPaymentPattern},
		{"high_value_payment", e.highValuePayment},
		{"multiple_payment_methods", e.multiplePaymentMethods},
	}
	return e
}

// AnalyzeBid runs every bid detector against src, which must already contain the bid.
// A detector that errors is logged and treated as not firing. Alerts are returned
// unsaved.
func (e *Engine) AnalyzeBid(ctx context.Context, src repository.Store, s BidSubject) []model.FraudAlert {
	var alerts []model.FraudAlert
	for _, r := range e.bidRules {
		a, err := r.check(ctx, src, s)
		if err != nil {
			utils.Error("Fraud detector failed", map[string]any{
				"detector": r.name, "bidID": s.Bid.BidID, "error": err.Error(),
			})
			continue
		}
		if a != nil {
			alerts = append(alerts, *a)
		}
	}
	logAlerts(alerts)
	return alerts
}

// AnalyzePayment runs the payment detectors. The payment must already be recorded.
func (e *Engine) AnalyzePayment(ctx context.Context, src repository.Store, p model.Payment) []model.FraudAlert {
	var alerts []model.FraudAlert
	for _, r := range e.paymentRules {
		a, err := r.check(ctx, src, p)
		if err != nil {
			utils.Error("Payment detector failed", map[string]any{
				"detector": r.name, "paymentID": p.PaymentID, "error": err.Error(),
			})
			continue
		}
		if a != nil {
			alerts = append(alerts, *a)
		}
	}
	logAlerts(alerts)
	return alerts
}

func (e *Engine) newAlert(userID, itemID string, t model.AlertType, sev model.Severity, desc string, data map[string]any) *model.FraudAlert {
	return &model.FraudAlert{
		AlertID:     utils.NewSortableID(),
		UserID:      userID,
		ItemID:      itemID,
		Type:        t,
		Severity:    sev,
		Description: desc,
		Data:        data,
		CreatedAt:   e.now(),
	}
}

func logAlerts(alerts []model.FraudAlert) {
	for _, a := range alerts {
		fields := map[string]any{"alertType": a.Type, "severity": a.Severity, "userID": a.UserID, "itemID": a.ItemID}
		if a.Severity == model.SeverityCritical {
			utils.Error(a.Description, fields)
			continue
		}
		utils.Warn(a.Description, fields)
	}
}

// HasCritical reports whether any alert is critical.
func HasCritical(alerts []model.FraudAlert) bool {
	for _, a := range alerts {
		if a.Severity == model.SeverityCritical {
			return true
		}
	}
	return false
}

// Verdict classifies a set of alerts
type Verdict string

const (
	Clean  Verdict = "clean"
	Review Verdict = "review"
	Block  Verdict = "block"
)

// Classify returns Block when any alert is critical, Review when any alert exists, else Clean.
func Classify(alerts []model.FraudAlert) Verdict {
	switch {
	case HasCritical(alerts):
		return Block
	case len(alerts) > 0:
		return Review
	default:
		return Clean
	}
}
