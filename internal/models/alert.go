package models

import "time"

// Severity of a fraud alert
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// AlertType names the detector that raised an alert
type AlertType string

const (
	AlertRapidBidding           AlertType = "rapid_bidding"
	AlertBidSniping             AlertType = "bid_sniping_pattern"
	AlertUnusualBidAmount       AlertType = "unusual_bid_amount"
	AlertNewAccountHighValue    AlertType = "new_account_high_value"
	AlertSelfBidding            AlertType = "self_bidding"
	AlertBidPatternAnomaly      AlertType = "bid_pattern_anomaly"
	AlertShillSellerAffinity    AlertType = "shill_bidding_seller_affinity"
	AlertShillLowWinRatio       AlertType = "shill_low_win_ratio"
	AlertSellerParticipation    AlertType = "seller_auction_participation"
	AlertShillTimingPattern     AlertType = "shill_timing_pattern"
	AlertCollusiveBidding       AlertType = "collusive_bidding"
	AlertFailedPaymentPattern   AlertType = "failed_payment_pattern"
	AlertHighValuePayment       AlertType = "high_value_payment"
	AlertMultiplePaymentMethods AlertType = "multiple_payment_methods"
)

// FraudAlert is an append-only audit record raised by the fraud engine
type FraudAlert struct {
	AlertID     string         `json:"alert_id"`
	UserID      string         `json:"user_id"`
	ItemID      string         `json:"item_id,omitempty"`
	Type        AlertType      `json:"alert_type"`
	Severity    Severity       `json:"severity"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data"`
	IsResolved  bool           `json:"is_resolved"`
	ResolvedBy  string         `json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time     `json:"resolved_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// AlertFilter narrows alert listings. Zero values match everything.
type AlertFilter struct {
	UserID   string
	Resolved *bool
	Severity Severity
	Limit    int
}

// Matches reports whether the alert passes the filter (Limit is ignored).
func (f AlertFilter) Matches(a FraudAlert) bool {
	if f.UserID != "" && a.UserID != f.UserID {
		return false
	}
	if f.Resolved != nil && a.IsResolved != *f.Resolved {
		return false
	}
	if f.Severity != "" && a.Severity != f.Severity {
		return false
	}
	return true
}
