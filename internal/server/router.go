package server

import (
	"net/http"

	"bid-admission/internal/metrics"
	"bid-admission/internal/throttle"
	handler "bid-admission/services/bidding/handler"
	moderation "bid-admission/services/moderation/handler"
	"bid-admission/services/realtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Services are the application services and infrastructure the routes dispatch to.
// Metrics and Gatherer may be nil.
type Services struct {
	Bidding    handler.BiddingServiceInterface
	Moderation moderation.ModerationServiceInterface
	Hub        *realtime.Hub
	Limiter    *throttle.Limiter
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(s Services) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestIDMiddleware)     // correlate logs per request
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(s.Metrics.Instrument())

	router.GET("/health", HealthHandler)
	if s.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(s.Gatherer)))
	}

	biddingHandler := handler.NewBiddingHandler(s.Bidding)
	moderationHandler := moderation.NewModerationHandler(s.Moderation)

	bids := router.Group("/bids")
	{
		bids.POST("", s.Limiter.Middleware(throttle.RulePlaceBid), biddingHandler.RecordBidHandler)
	}

	items := router.Group("/items")
	{
		items.POST("", biddingHandler.CreateItemHandler)
		items.GET("/:item_id", biddingHandler.GetItemHandler)
		items.PATCH("/:item_id/status", biddingHandler.SetItemStatusHandler)
		items.POST("/:item_id/captcha/pass", biddingHandler.PassCaptchaHandler)
		items.POST("/:item_id/captcha/fail", biddingHandler.FailCaptchaHandler)
		items.POST("/:item_id/buy-now", biddingHandler.BuyNowHandler)
		items.GET("/:item_id/bids", biddingHandler.GetBidsByItemHandler)
		items.GET("/:item_id/winning", biddingHandler.GetWinningBidHandler)
	}

	users := router.Group("/users")
	{
		users.POST("", biddingHandler.CreateUserHandler)
		users.GET("/:user_id/items", biddingHandler.GetItemsByUserHandler)
	}

	router.POST("/payments", moderationHandler.AnalyzePaymentHandler)

	admin := router.Group("/admin")
	{
		admin.GET("/alerts", moderationHandler.ListAlertsHandler)
		admin.POST("/alerts/bulk-resolve", moderationHandler.BulkResolveHandler)
		admin.POST("/alerts/:alert_id/resolve", moderationHandler.ResolveAlertHandler)
		admin.DELETE("/alerts/:alert_id", moderationHandler.DismissAlertHandler)
		admin.GET("/users/:user_id/fraud-score", moderationHandler.UserFraudScoreHandler)
	}

	ws := realtime.NewHandler(s.Hub, s.Bidding, s.Limiter)
	router.GET("/ws/items/:item_id", ws.ServeWS)

	return router
}

// HealthHandler handles GET /health
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "bid-admission"})
}
