package fraud

import (
	"context"
	"fmt"

	model "bid-admission/internal/models"
	"bid-admission/internal/repository"
)

func (e *Engine) failedPaymentPattern(ctx context.Context, src repository.Store, p model.Payment) (*model.FraudAlert, error) {
	failed, err := src.ListPayments(ctx, repository.PaymentQuery{
		UserID: p.UserID,
		Status: model.PaymentFailed,
		Since:  e.now().Add(-e.cfg.FailedPaymentWindow),
	})
	if err != nil {
		return nil, err
	}
	if len(failed) < e.cfg.FailedPaymentThreshold {
		return nil, nil
	}
	days := int(e.cfg.FailedPaymentWindow.Hours() / 24)
	return e.newAlert(p.UserID, p.ItemID, model.AlertFailedPaymentPattern, model.SeverityHigh,
		fmt.Sprintf("User has %d failed payments in %d days (threshold: %d).", len(failed), days, e.cfg.FailedPaymentThreshold),
		map[string]any{
			"failed_count": len(failed),
			"window_days":  days,
			"threshold":    e.cfg.FailedPaymentThreshold,
			"payment_id":   p.PaymentID,
		}), nil
}

func (e *Engine) highValuePayment(_ context.Context, _ repository.Store, p model.Payment) (*model.FraudAlert, error) {
	threshold := e.cfg.HighValuePaymentThreshold
	if p.Amount.LessThan(threshold) {
		return nil, nil
	}
	return e.newAlert(p.UserID, p.ItemID, model.AlertHighValuePayment, model.SeverityMedium,
		fmt.Sprintf("High value payment of UGX %s (threshold: UGX %s).", p.Amount.StringFixed(0), threshold.StringFixed(0)),
		map[string]any{
			"amount":     p.Amount.InexactFloat64(),
			"threshold":  threshold.InexactFloat64(),
			"method":     p.Method,
			"payment_id": p.PaymentID,
		}), nil
}

func (e *Engine) multiplePaymentMethods(ctx context.Context, src repository.Store, p model.Payment) (*model.FraudAlert, error) {
	recent, err := src.ListPayments(ctx, repository.PaymentQuery{
		UserID: p.UserID,
		Since:  e.now().Add(-e.cfg.PaymentMethodsWindow),
	})
	if err != nil {
		return nil, err
	}
	methods := make(map[model.PaymentMethod]struct{})
	for _, r := range recent {
		methods[r.Method] = struct{}{}
	}
	if len(methods) < e.cfg.PaymentMethodsThreshold {
		return nil, nil
	}
	hours := int(e.cfg.PaymentMethodsWindow.Hours())
	return e.newAlert(p.UserID, p.ItemID, model.AlertMultiplePaymentMethods, model.SeverityMedium,
		fmt.Sprintf("User used %d different payment methods in %d hours (threshold: %d).", len(methods), hours, e.cfg.PaymentMethodsThreshold),
		map[string]any{
			"method_count": len(methods),
			"window_hours": hours,
			"threshold":    e.cfg.PaymentMethodsThreshold,
			"payment_id":   p.PaymentID,
		}), nil
}
