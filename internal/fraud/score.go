package fraud

import (
	"context"
	"fmt"
	"time"

	model "bid-admission/internal/models"
	"bid-admission/internal/repository"
)

// Score weights
const (
	scorePerUnresolved    = 10
	scorePerCritical      = 25
	scorePerFailedPayment = 5
	scoreNewAccount       = 20
	scoreCap              = 100

	scoreFailedPaymentWindow = 30 * 24 * time.Hour
	scoreNewAccountDays      = 7
)

// RiskScore summarizes a user's standing, 0 (clean) to 100
type RiskScore struct {
	UserID           string `json:"user_id"`
	Score            int    `json:"score"`
	UnresolvedAlerts int    `json:"unresolved_alerts"`
	CriticalAlerts   int    `json:"critical_alerts"`
	FailedPayments   int    `json:"failed_payments"`
	AccountAgeDays   int    `json:"account_age_days"`
}

// Score computes the user's risk score at now.
func Score(ctx context.Context, src repository.Store, userID string, now time.Time) (RiskScore, error) {
	user, err := src.GetUser(ctx, userID)
	if err != nil {
		return RiskScore{}, fmt.Errorf("fraud: score %s: %w", userID, err)
	}
	unresolved := false
	alerts, err := src.ListAlerts(ctx, model.AlertFilter{UserID: userID, Resolved: &unresolved})
	if err != nil {
		return RiskScore{}, fmt.Errorf("fraud: list alerts for %s: %w", userID, err)
	}
	failed, err := src.ListPayments(ctx, repository.PaymentQuery{
		UserID: userID,
		Status: model.PaymentFailed,
		Since:  now.Add(-scoreFailedPaymentWindow),
	})
	if err != nil {
		return RiskScore{}, fmt.Errorf("fraud: list payments for %s: %w", userID, err)
	}

	rs := RiskScore{
		UserID:           userID,
		UnresolvedAlerts: len(alerts),
		FailedPayments:   len(failed),
		AccountAgeDays:   user.AccountAgeDays(now),
	}
	for _, a := range alerts {
		if a.Severity == model.SeverityCritical {
			rs.CriticalAlerts++
		}
	}
	score := rs.UnresolvedAlerts*scorePerUnresolved +
		rs.CriticalAlerts*scorePerCritical +
		rs.FailedPayments*scorePerFailedPayment
	if rs.AccountAgeDays < scoreNewAccountDays {
		score += scoreNewAccount
	}
	rs.Score = min(score, scoreCap)
	return rs, nil
}
