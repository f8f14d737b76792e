package helpers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"bid-admission/internal/biddingerrors"
	model "bid-admission/internal/models"
	"bid-admission/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, biddingerrors.ErrItemNotFound):
		return http.StatusNotFound, "item not found"
	case errors.Is(err, biddingerrors.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, biddingerrors.ErrAlertNotFound):
		return http.StatusNotFound, "fraud alert not found"
	case errors.Is(err, biddingerrors.ErrBidNotFound):
		return http.StatusNotFound, "bid not found"
	case errors.Is(err, biddingerrors.ErrCooldownNotFound):
		return http.StatusNotFound, "no open security challenge"
	case errors.Is(err, biddingerrors.ErrPendingBidNotFound):
		return http.StatusNotFound, "no pending bid found"
	case errors.Is(err, biddingerrors.ErrPendingBidExpired):
		return http.StatusGone, "pending bid verification expired, please bid again"
	case errors.Is(err, biddingerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, biddingerrors.ErrInvalidPayment):
		return http.StatusBadRequest, "invalid payment details"
	case errors.Is(err, biddingerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, biddingerrors.ErrAuctionClosed):
		return http.StatusConflict, "auction is not accepting bids"
	case errors.Is(err, biddingerrors.ErrAlreadyPurchased):
		return http.StatusConflict, "item already purchased"
	case errors.Is(err, biddingerrors.ErrBuyNowUnavailable):
		return http.StatusConflict, "buy now is not available for this item"
	case errors.Is(err, biddingerrors.ErrAlertResolved):
		return http.StatusConflict, "fraud alert already resolved"
	case errors.Is(err, biddingerrors.ErrInvalidTransition):
		return http.StatusConflict, "item status transition not allowed"
	case errors.Is(err, biddingerrors.ErrDuplicate):
		return http.StatusConflict, "record already exists"
	case errors.Is(err, biddingerrors.ErrSelfBid):
		return http.StatusForbidden, "cannot bid on own item"
	case errors.Is(err, biddingerrors.ErrNotSeller):
		return http.StatusForbidden, "only the seller can change this item"
	case errors.Is(err, biddingerrors.ErrNoBids):
		return http.StatusOK, "no bids found for item"
	case errors.Is(err, biddingerrors.ErrUserNoBids):
		return http.StatusOK, "no items found for user"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// WriteServiceError maps err, writes the error envelope and logs it
func WriteServiceError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request failed", fields)
}

// AdmissionStatusCode is the HTTP status of an admission outcome:
// 201 admitted, 202 challenged, 422 rejected.
func AdmissionStatusCode(r model.AdmissionResult) (int, string) {
	switch r.Status {
	case model.Admitted:
		return http.StatusCreated, "bid placed successfully"
	case model.Challenged:
		return http.StatusAccepted, "verification required"
	default:
		return http.StatusUnprocessableEntity, "bid rejected"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
