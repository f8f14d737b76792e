package perftests

import (
	"fmt"
	"time"

	bidding "bid-admission/internal/biddingService"
	"bid-admission/internal/config"
	"bid-admission/internal/cooldown"
	"bid-admission/internal/fraud"
	"bid-admission/internal/gate"
	model "bid-admission/internal/models"
	"bid-admission/internal/pending"
	"bid-admission/internal/repository"
	"bid-admission/internal/velocity"
	"bid-admission/utils"

	"github.com/coocood/freecache"
	"github.com/shopspring/decimal"
	"github.com/viney-shih/goroutines"
)

func init() {
	_ = utils.Configure("error")
}

// newService wires the full admission pipeline over a fresh in-memory repository.
// Fraud analysis runs inline under the item lock; risk enrichment is scheduled on a worker pool like in the server.
func newService(cfg config.Config) (*repository.MemoryRepo, *bidding.BiddingService, func()) {
	repo := repository.NewMemoryRepo()
	repo.AddUser(model.User{UserID: "seller", Username: "seller", JoinedAt: time.Now().AddDate(-1, 0, 0)})
	pool := goroutines.NewPool(8, goroutines.WithTaskQueueLength(1024))
	svc := bidding.NewBiddingService(repo, cfg, bidding.Dependencies{
		Gate:      gate.New(cfg.Gate, cooldown.NewStore(repo, nil), velocity.NewAnalyzer(repo, nil), nil),
		Fraud:     fraud.NewEngine(cfg.Fraud, nil),
		Pending:   pending.NewLocalStash(freecache.NewCache(8*1024*1024), cfg.Admission.PendingBidTTL),
		Scheduler: pool,
	})
	return repo, svc, pool.Release
}

func benchItem(id string, start int64) model.Item {
	now := time.Now().UTC()
	return model.Item{
		ItemID:        id,
		SellerID:      "seller",
		Title:         "Benchmark item " + id,
		Description:   "Independent benchmark item",
		StartingPrice: decimal.NewFromInt(start),
		CurrentPrice:  decimal.NewFromInt(start),
		MinIncrement:  decimal.NewFromInt(1),
		Status:        model.ItemActive,
		CreatedAt:     now.Add(-time.Hour),
		EndTime:       now.Add(24 * time.Hour),
	}
}

// addUsers seeds n established accounts named prefix_0..prefix_n-1.
func addUsers(repo *repository.MemoryRepo, prefix string, n int) {
	joined := time.Now().AddDate(-1, 0, 0)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%s_%d", prefix, i)
		repo.AddUser(model.User{UserID: id, Username: id, JoinedAt: joined})
	}
}
