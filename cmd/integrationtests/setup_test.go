package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	bidding "bid-admission/internal/biddingService"
	"bid-admission/internal/config"
	"bid-admission/internal/cooldown"
	"bid-admission/internal/fraud"
	"bid-admission/internal/gate"
	"bid-admission/internal/metrics"
	model "bid-admission/internal/models"
	"bid-admission/internal/moderation"
	"bid-admission/internal/pending"
	"bid-admission/internal/repository"
	"bid-admission/internal/server"
	"bid-admission/internal/throttle"
	"bid-admission/internal/velocity"
	"bid-admission/services/realtime"

	"github.com/coocood/freecache"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// testItem is an open auction owned by "seller".
func testItem(id string, start int64) model.Item {
	now := time.Now().UTC()
	return model.Item{
		ItemID:        id,
		SellerID:      "seller",
		Title:         "title " + id,
		Description:   "integration test item",
		StartingPrice: decimal.NewFromInt(start),
		CurrentPrice:  decimal.NewFromInt(start),
		MinIncrement:  decimal.NewFromInt(5),
		Status:        model.ItemActive,
		CreatedAt:     now.Add(-time.Hour),
		EndTime:       now.Add(24 * time.Hour),
	}
}

func testUser(id string) model.User {
	return model.User{UserID: id, Username: id, JoinedAt: time.Now().AddDate(-1, 0, 0)}
}

// SetupTestRouterWithItems wires the full admission stack over an in-memory repository
// seeded with the given users and items.
func SetupTestRouterWithItems(t *testing.T, users []model.User, items ...model.Item) (*gin.Engine, *repository.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Throttle.PlaceBidLimit = 1000
	repo := repository.NewMemoryRepo()
	repo.AddUser(testUser("seller"))
	for _, u := range users {
		repo.AddUser(u)
	}
	for _, item := range items {
		repo.AddItem(item)
	}

	m := metrics.New(prometheus.NewRegistry())
	engine := fraud.NewEngine(cfg.Fraud, nil)
	svc := bidding.NewBiddingService(repo, cfg, bidding.Dependencies{
		Gate:    gate.New(cfg.Gate, cooldown.NewStore(repo, nil), velocity.NewAnalyzer(repo, nil), nil),
		Fraud:   engine,
		Pending: pending.NewLocalStash(freecache.NewCache(1024*1024), cfg.Admission.PendingBidTTL),
		Metrics: m,
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := realtime.NewHub(m)
	go hub.Run(ctx)

	router := server.SetupRouter(server.Services{
		Bidding:    svc,
		Moderation: moderation.NewService(repo, engine, m, nil),
		Hub:        hub,
		Limiter:    throttle.NewLimiter(cfg.Throttle, throttle.NewLocalCounter(freecache.NewCache(1024*1024)), m),
		Metrics:    m,
	})
	return router, repo
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response.
// Raw strings are sent as-is so malformed JSON can be tested.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()
	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if m, ok := body.(map[string]any); ok {
		if user, ok := m["user_id"].(string); ok {
			req.Header.Set(throttle.UserHeader, user)
		}
	}
	router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

func bidBody(itemID, userID, amount string) map[string]any {
	return map[string]any{"item_id": itemID, "user_id": userID, "amount": amount}
}
