package handler

import (
	"context"
	"errors"
	"net/http"

	"bid-admission/internal/biddingerrors"
	"bid-admission/internal/gate"
	model "bid-admission/internal/models"
	"bid-admission/services/bidding/helpers"
	"bid-admission/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=mock_service.go -package=handler bid-admission/services/bidding/handler BiddingServiceInterface

type BiddingServiceInterface interface {
	PlaceBid(ctx context.Context, userID, itemID string, amount decimal.Decimal) (model.AdmissionResult, error)
	ResumeAfterCaptcha(ctx context.Context, userID, itemID string) (model.AdmissionResult, error)
	FailCaptcha(ctx context.Context, userID, itemID string) (gate.CaptchaFailure, error)
	BuyNow(ctx context.Context, userID, itemID string) (model.Item, error)
	CreateItem(ctx context.Context, item model.Item) (model.Item, error)
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetItem(ctx context.Context, itemID string) (model.Item, error)
	SetItemStatus(ctx context.Context, sellerID, itemID string, status model.ItemStatus) (model.Item, error)
	GetBidsForItem(ctx context.Context, itemID string) ([]model.Bid, error)
	GetWinningBid(ctx context.Context, itemID string) (model.Bid, error)
	GetItemsByUser(ctx context.Context, userID string) ([]model.Item, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

func (h *BiddingHandler) writeAdmission(c *gin.Context, handlerName string, itemID, userID string, res model.AdmissionResult) {
	status, message := helpers.AdmissionStatusCode(res)
	utils.JSONResponse(c, status, res, message)
	helpers.LogSuccess(handlerName, message, map[string]any{
		"item_id":     itemID,
		"user_id":     userID,
		"status":      res.Status,
		"alert_count": res.AlertCount,
	})
}

// RecordBidHandler handles POST /bids
func (h *BiddingHandler) RecordBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RecordBidHandler", err)
		return
	}
	if !req.Amount.IsPositive() {
		helpers.HandleBindError(c, "RecordBidHandler", errors.New("amount must be positive"))
		return
	}

	res, err := h.service.PlaceBid(c.Request.Context(), req.UserID, req.ItemID, req.Amount)
	if err != nil {
		helpers.WriteServiceError(c, "RecordBidHandler", err, map[string]any{"item_id": req.ItemID, "user_id": req.UserID})
		return
	}
	h.writeAdmission(c, "RecordBidHandler", req.ItemID, req.UserID, res)
}

// PassCaptchaHandler handles POST /items/:item_id/captcha/pass and resumes the parked bid
func (h *BiddingHandler) PassCaptchaHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	var req helpers.CaptchaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PassCaptchaHandler", err)
		return
	}

	res, err := h.service.ResumeAfterCaptcha(c.Request.Context(), req.UserID, itemID)
	if err != nil {
		helpers.WriteServiceError(c, "PassCaptchaHandler", err, map[string]any{"item_id": itemID, "user_id": req.UserID})
		return
	}
	h.writeAdmission(c, "PassCaptchaHandler", itemID, req.UserID, res)
}

// FailCaptchaHandler handles POST /items/:item_id/captcha/fail
func (h *BiddingHandler) FailCaptchaHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	var req helpers.CaptchaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "FailCaptchaHandler", err)
		return
	}

	res, err := h.service.FailCaptcha(c.Request.Context(), req.UserID, itemID)
	if err != nil {
		helpers.WriteServiceError(c, "FailCaptchaHandler", err, map[string]any{"item_id": itemID, "user_id": req.UserID})
		return
	}

	message := "verification failed, please try again"
	if res.Escalated {
		message = "too many failed verifications, bidding is temporarily blocked"
	}
	utils.JSONResponse(c, http.StatusOK, helpers.CaptchaFailureResponse{
		Attempts:        res.Attempts,
		Escalated:       res.Escalated,
		CooldownSeconds: res.CooldownSeconds,
	}, message)
}

// BuyNowHandler handles POST /items/:item_id/buy-now
func (h *BiddingHandler) BuyNowHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	var req helpers.BuyNowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "BuyNowHandler", err)
		return
	}

	item, err := h.service.BuyNow(c.Request.Context(), req.UserID, itemID)
	if err != nil {
		helpers.WriteServiceError(c, "BuyNowHandler", err, map[string]any{"item_id": itemID, "user_id": req.UserID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, item, "item purchased successfully")
	helpers.LogSuccess("BuyNowHandler", "item purchased successfully", map[string]any{
		"item_id": itemID,
		"user_id": req.UserID,
		"price":   item.CurrentPrice.String(),
	})
}

// CreateItemHandler handles POST /items
func (h *BiddingHandler) CreateItemHandler(c *gin.Context) {
	var req helpers.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateItemHandler", err)
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), req.ToItem())
	if err != nil {
		helpers.WriteServiceError(c, "CreateItemHandler", err, map[string]any{"seller_id": req.SellerID})
		return
	}
	utils.JSONResponse(c, http.StatusCreated, item, "item created successfully")
	helpers.LogSuccess("CreateItemHandler", "item created successfully", map[string]any{"item_id": item.ItemID})
}

// CreateUserHandler handles POST /users
func (h *BiddingHandler) CreateUserHandler(c *gin.Context) {
	var req helpers.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateUserHandler", err)
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req.ToUser())
	if err != nil {
		helpers.WriteServiceError(c, "CreateUserHandler", err, map[string]any{"username": req.Username})
		return
	}
	utils.JSONResponse(c, http.StatusCreated, user, "user created successfully")
}

// GetItemHandler handles GET /items/:item_id
func (h *BiddingHandler) GetItemHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	item, err := h.service.GetItem(c.Request.Context(), itemID)
	if err != nil {
		helpers.WriteServiceError(c, "GetItemHandler", err, map[string]any{"item_id": itemID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, item, "item retrieved successfully")
}

// SetItemStatusHandler handles PATCH /items/:item_id/status
func (h *BiddingHandler) SetItemStatusHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	var req helpers.SetItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SetItemStatusHandler", err)
		return
	}

	item, err := h.service.SetItemStatus(c.Request.Context(), req.SellerID, itemID, req.Status)
	if err != nil {
		helpers.WriteServiceError(c, "SetItemStatusHandler", err, map[string]any{"item_id": itemID, "status": req.Status})
		return
	}
	utils.JSONResponse(c, http.StatusOK, item, "item status updated")
	helpers.LogSuccess("SetItemStatusHandler", "item status updated", map[string]any{"item_id": itemID, "status": item.Status})
}

// GetBidsByItemHandler handles GET /items/:item_id/bids
func (h *BiddingHandler) GetBidsByItemHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	bids, err := h.service.GetBidsForItem(c.Request.Context(), itemID)
	if err != nil && !errors.Is(err, biddingerrors.ErrNoBids) {
		helpers.WriteServiceError(c, "GetBidsByItemHandler", err, map[string]any{"item_id": itemID})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, b := range bids {
		resp = append(resp, helpers.NewBidResponse(b))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByItemHandler", "bids retrieved successfully", map[string]any{
		"item_id": itemID,
		"count":   len(resp),
	})
}

// GetWinningBidHandler handles GET /items/:item_id/winning
func (h *BiddingHandler) GetWinningBidHandler(c *gin.Context) {
	itemID := c.Param("item_id")
	bid, err := h.service.GetWinningBid(c.Request.Context(), itemID)
	if err != nil {
		// For auction, winning bid not found -> 404
		if errors.Is(err, biddingerrors.ErrNoBids) {
			utils.JSONError(c, http.StatusNotFound, err, "no winning bid found")
			utils.Info("GetWinningBidHandler: no winning bid found", map[string]any{"item_id": itemID})
			return
		}
		helpers.WriteServiceError(c, "GetWinningBidHandler", err, map[string]any{"item_id": itemID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponse(bid), "winning bid retrieved successfully")
	helpers.LogSuccess("GetWinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id":  bid.BidID,
		"item_id": bid.ItemID,
		"user_id": bid.UserID,
		"amount":  bid.Amount.String(),
	})
}

// GetItemsByUserHandler handles GET /users/:user_id/items
func (h *BiddingHandler) GetItemsByUserHandler(c *gin.Context) {
	userID := c.Param("user_id")
	items, err := h.service.GetItemsByUser(c.Request.Context(), userID)
	if err != nil && !errors.Is(err, biddingerrors.ErrUserNoBids) {
		helpers.WriteServiceError(c, "GetItemsByUserHandler", err, map[string]any{"user_id": userID})
		return
	}

	if items == nil {
		items = []model.Item{}
	}

	utils.JSONResponse(c, http.StatusOK, items, "items retrieved successfully")
	helpers.LogSuccess("GetItemsByUserHandler", "items retrieved successfully", map[string]any{
		"user_id":     userID,
		"items_count": len(items),
	})
}
