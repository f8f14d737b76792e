package handler

import (
	"context"
	"net/http"

	"bid-admission/internal/fraud"
	model "bid-admission/internal/models"
	"bid-admission/services/bidding/helpers"
	"bid-admission/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -destination=mock_service.go -package=handler bid-admission/services/moderation/handler ModerationServiceInterface

type ModerationServiceInterface interface {
	ListAlerts(ctx context.Context, f model.AlertFilter) ([]model.FraudAlert, error)
	ResolveAlert(ctx context.Context, alertID, moderator string) (model.FraudAlert, error)
	DismissAlert(ctx context.Context, alertID, moderator string) error
	BulkResolve(ctx context.Context, ids []string, moderator string) (int, error)
	AnalyzePayment(ctx context.Context, p model.Payment) (model.Payment, []model.FraudAlert, error)
	UserFraudScore(ctx context.Context, userID string) (fraud.RiskScore, error)
}

type ModerationHandler struct {
	service ModerationServiceInterface
}

func NewModerationHandler(service ModerationServiceInterface) *ModerationHandler {
	return &ModerationHandler{service: service}
}

// ListAlertsHandler handles GET /admin/alerts
func (h *ModerationHandler) ListAlertsHandler(c *gin.Context) {
	filter, err := alertFilterFromQuery(c)
	if err != nil {
		helpers.HandleBindError(c, "ListAlertsHandler", err)
		return
	}

	alerts, err := h.service.ListAlerts(c.Request.Context(), filter)
	if err != nil {
		helpers.WriteServiceError(c, "ListAlertsHandler", err, map[string]any{"severity": filter.Severity})
		return
	}
	utils.JSONResponse(c, http.StatusOK, alerts, "alerts retrieved successfully")
	helpers.LogSuccess("ListAlertsHandler", "alerts retrieved successfully", map[string]any{"count": len(alerts)})
}

// ResolveAlertHandler handles POST /admin/alerts/:alert_id/resolve
func (h *ModerationHandler) ResolveAlertHandler(c *gin.Context) {
	alertID := c.Param("alert_id")
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ResolveAlertHandler", err)
		return
	}

	alert, err := h.service.ResolveAlert(c.Request.Context(), alertID, req.Moderator)
	if err != nil {
		helpers.WriteServiceError(c, "ResolveAlertHandler", err, map[string]any{"alert_id": alertID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, alert, "alert resolved")
	helpers.LogSuccess("ResolveAlertHandler", "alert resolved", map[string]any{"alert_id": alertID, "moderator": req.Moderator})
}

// DismissAlertHandler handles DELETE /admin/alerts/:alert_id?moderator=
func (h *ModerationHandler) DismissAlertHandler(c *gin.Context) {
	alertID := c.Param("alert_id")
	moderator := c.Query("moderator")

	if err := h.service.DismissAlert(c.Request.Context(), alertID, moderator); err != nil {
		helpers.WriteServiceError(c, "DismissAlertHandler", err, map[string]any{"alert_id": alertID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, gin.H{"alert_id": alertID}, "alert dismissed")
}

// BulkResolveHandler handles POST /admin/alerts/bulk-resolve
func (h *ModerationHandler) BulkResolveHandler(c *gin.Context) {
	var req BulkResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "BulkResolveHandler", err)
		return
	}

	n, err := h.service.BulkResolve(c.Request.Context(), req.AlertIDs, req.Moderator)
	if err != nil {
		helpers.WriteServiceError(c, "BulkResolveHandler", err, map[string]any{"requested": len(req.AlertIDs)})
		return
	}
	utils.JSONResponse(c, http.StatusOK, BulkResolveResponse{Requested: len(req.AlertIDs), Resolved: n}, "alerts resolved")
}

// UserFraudScoreHandler handles GET /admin/users/:user_id/fraud-score
func (h *ModerationHandler) UserFraudScoreHandler(c *gin.Context) {
	userID := c.Param("user_id")
	score, err := h.service.UserFraudScore(c.Request.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(c, "UserFraudScoreHandler", err, map[string]any{"user_id": userID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, score, "fraud score computed")
}

// AnalyzePaymentHandler handles POST /payments
func (h *ModerationHandler) AnalyzePaymentHandler(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AnalyzePaymentHandler", err)
		return
	}

	payment, alerts, err := h.service.AnalyzePayment(c.Request.Context(), req.ToPayment())
	if err != nil {
		helpers.WriteServiceError(c, "AnalyzePaymentHandler", err, map[string]any{"user_id": req.UserID})
		return
	}
	utils.JSONResponse(c, http.StatusCreated, PaymentResponse{Payment: payment, Alerts: alerts}, "payment recorded")
	helpers.LogSuccess("AnalyzePaymentHandler", "payment recorded", map[string]any{
		"payment_id":  payment.PaymentID,
		"user_id":     payment.UserID,
		"alert_count": len(alerts),
	})
}
