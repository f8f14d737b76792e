// Package moderation is the review surface over fraud alerts: listing, resolving and
// dismissing alerts, screening reported payments and scoring users.
package moderation

import (
	"context"
	"fmt"
	"time"

	"bid-admission/internal/biddingerrors"
	"bid-admission/internal/fraud"
	"bid-admission/internal/metrics"
	model "bid-admission/internal/models"
	"bid-admission/internal/repository"
	"bid-admission/utils"
)

// default page size of alert listings
const defaultAlertLimit = 100

type Service struct {
	db      repository.Store
	engine  *fraud.Engine
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService creates a moderation service over db. m may be nil.
func NewService(db repository.Store, engine *fraud.Engine, m *metrics.Metrics, now func() time.Time) *Service {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{db: db, engine: engine, metrics: m, now: now}
}

// ListAlerts returns alerts matching f, newest first.
func (s *Service) ListAlerts(ctx context.Context, f model.AlertFilter) ([]model.FraudAlert, error) {
	if f.Severity != "" && !f.Severity.Valid() {
		return nil, fmt.Errorf("moderation: %w - unknown severity %q", biddingerrors.ErrInvalidBid, f.Severity)
	}
	if f.Limit <= 0 {
		f.Limit = defaultAlertLimit
	}
	alerts, err := s.db.ListAlerts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("moderation: list alerts: %w", err)
	}
	if alerts == nil {
		alerts = []model.FraudAlert{}
	}
	return alerts, nil
}

// ResolveAlert marks a single alert as reviewed by moderator.
func (s *Service) ResolveAlert(ctx context.Context, alertID, moderator string) (model.FraudAlert, error) {
	a, err := s.db.GetAlert(ctx, alertID)
	if err != nil {
		return model.FraudAlert{}, fmt.Errorf("moderation: resolve %s: %w", alertID, err)
	}
	if a.IsResolved {
		return model.FraudAlert{}, fmt.Errorf("moderation: resolve %s: %w", alertID, biddingerrors.ErrAlertResolved)
	}

	n, err := s.db.ResolveAlerts(ctx, []string{alertID}, moderator, s.now())
	if err != nil {
		return model.FraudAlert{}, fmt.Errorf("moderation: resolve %s: %w", alertID, err)
	}
	if n == 0 {
		// resolved concurrently between the read and the update
		return model.FraudAlert{}, fmt.Errorf("moderation: resolve %s: %w", alertID, biddingerrors.ErrAlertResolved)
	}

	resolved, err := s.db.GetAlert(ctx, alertID)
	if err != nil {
		return model.FraudAlert{}, fmt.Errorf("moderation: reload %s: %w", alertID, err)
	}
	utils.Info("Fraud alert resolved", map[string]any{"alertID": alertID, "moderator": moderator, "type": a.Type})
	return resolved, nil
}

// DismissAlert deletes an alert judged to be a false positive.
func (s *Service) DismissAlert(ctx context.Context, alertID, moderator string) error {
	a, err := s.db.GetAlert(ctx, alertID)
	if err != nil {
		return fmt.Errorf("moderation: dismiss %s: %w", alertID, err)
	}
	if err := s.db.DeleteAlert(ctx, alertID); err != nil {
		return fmt.Errorf("moderation: dismiss %s: %w", alertID, err)
	}
	utils.Warn("Fraud alert dismissed", map[string]any{
		"alertID": alertID, "moderator": moderator, "type": a.Type, "userID": a.UserID,
	})
	return nil
}

// BulkResolve resolves the unresolved alerts among ids and reports how many changed.
// Unknown and already resolved ids are skipped.
func (s *Service) BulkResolve(ctx context.Context, ids []string, moderator string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.db.ResolveAlerts(ctx, ids, moderator, s.now())
	if err != nil {
		return 0, fmt.Errorf("moderation: bulk resolve: %w", err)
	}
	utils.Info("Fraud alerts resolved in bulk", map[string]any{"requested": len(ids), "resolved": n, "moderator": moderator})
	return n, nil
}

// AnalyzePayment records a reported payment, then runs the payment detectors on it and
// stores whatever they raise.
func (s *Service) AnalyzePayment(ctx context.Context, p model.Payment) (model.Payment, []model.FraudAlert, error) {
	switch {
	case p.UserID == "":
		return model.Payment{}, nil, fmt.Errorf("moderation: %w - missing user", biddingerrors.ErrInvalidPayment)
	case !p.Amount.IsPositive():
		return model.Payment{}, nil, fmt.Errorf("moderation: %w - non-positive amount", biddingerrors.ErrInvalidPayment)
	case !p.Method.Valid():
		return model.Payment{}, nil, fmt.Errorf("moderation: %w - unknown method %q", biddingerrors.ErrInvalidPayment, p.Method)
	case !p.Status.Valid():
		return model.Payment{}, nil, fmt.Errorf("moderation: %w - unknown status %q", biddingerrors.ErrInvalidPayment, p.Status)
	}
	if _, err := s.db.GetUser(ctx, p.UserID); err != nil {
		return model.Payment{}, nil, fmt.Errorf("moderation: payment for %s: %w", p.UserID, err)
	}
	if p.PaymentID == "" {
		p.PaymentID = utils.GenerateID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	if err := s.db.CreatePayment(ctx, p); err != nil {
		return model.Payment{}, nil, fmt.Errorf("moderation: record payment: %w", err)
	}

	alerts := s.engine.AnalyzePayment(ctx, s.db, p)
	if len(alerts) > 0 {
		if err := s.db.CreateAlerts(ctx, alerts); err != nil {
			return p, nil, fmt.Errorf("moderation: store payment alerts: %w", err)
		}
		for _, a := range alerts {
			s.metrics.FraudAlert(string(a.Type), string(a.Severity))
		}
	} else {
		alerts = []model.FraudAlert{}
	}
	return p, alerts, nil
}

// UserFraudScore returns the user's current risk score.
func (s *Service) UserFraudScore(ctx context.Context, userID string) (fraud.RiskScore, error) {
	rs, err := fraud.Score(ctx, s.db, userID, s.now())
	if err != nil {
		return fraud.RiskScore{}, fmt.Errorf("moderation: %w", err)
	}
	return rs, nil
}
