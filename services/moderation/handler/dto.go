package handler

import (
	"fmt"
	"strconv"

	model "bid-admission/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ResolveRequest struct {
	Moderator string `json:"moderator" binding:"required"`
}

type BulkResolveRequest struct {
	AlertIDs  []string `json:"alert_ids" binding:"required,min=1,dive,required"`
	Moderator string   `json:"moderator" binding:"required"`
}

type BulkResolveResponse struct {
	Requested int `json:"requested"`
	Resolved  int `json:"resolved"`
}

type PaymentRequest struct {
	UserID    string              `json:"user_id" binding:"required"`
	ItemID    string              `json:"item_id"`
	Amount    decimal.Decimal     `json:"amount"`
	Method    model.PaymentMethod `json:"payment_method" binding:"required"`
	Status    model.PaymentStatus `json:"status" binding:"required"`
	Reference string              `json:"reference"`
}

// ToPayment converts the request into a model payment
func (r PaymentRequest) ToPayment() model.Payment {
	return model.Payment{
		UserID:    r.UserID,
		ItemID:    r.ItemID,
		Amount:    r.Amount,
		Method:    r.Method,
		Status:    r.Status,
		Reference: r.Reference,
	}
}

type PaymentResponse struct {
	Payment model.Payment      `json:"payment"`
	Alerts  []model.FraudAlert `json:"alerts"`
}

// alertFilterFromQuery reads user_id, resolved, severity and limit.
func alertFilterFromQuery(c *gin.Context) (model.AlertFilter, error) {
	f := model.AlertFilter{
		UserID:   c.Query("user_id"),
		Severity: model.Severity(c.Query("severity")),
	}
	if raw, ok := c.GetQuery("resolved"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("resolved: %w", err)
		}
		f.Resolved = &v
	}
	if raw, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return f, fmt.Errorf("limit: invalid value %q", raw)
		}
		f.Limit = n
	}
	return f, nil
}
