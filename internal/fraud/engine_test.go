package fraud

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bid-admission/internal/config"
	model "bid-admission/internal/models"
	"bid-admission/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	engine *Engine
	repo   *repository.MemoryRepo
	seq    int
}

func newFixture() *fixture {
	repo := repository.NewMemoryRepo()
	repo.AddUser(model.User{UserID: "bidder", Username: "bidder", JoinedAt: now.AddDate(-1, 0, 0)})
	repo.AddItem(item("item1", "seller", now.Add(-24*time.Hour), now.Add(24*time.Hour)))
	return &fixture{
		engine: NewEngine(config.Default().Fraud, func() time.Time { return now }),
		repo:   repo,
	}
}

func item(id, seller string, created, ends time.Time) model.Item {
	return model.Item{
		ItemID:       id,
		SellerID:     seller,
		Title:        "Item " + id,
		CurrentPrice: decimal.NewFromInt(100),
		MinIncrement: decimal.NewFromInt(10),
		Status:       model.ItemActive,
		CreatedAt:    created,
		EndTime:      ends,
	}
}

func (f *fixture) bid(t *testing.T, userID, itemID string, amount int64, at time.Time) model.Bid {
	t.Helper()
	f.seq++
	b := model.Bid{
		BidID:     fmt.Sprintf("b%03d", f.seq),
		ItemID:    itemID,
		UserID:    userID,
		Amount:    decimal.NewFromInt(amount),
		CreatedAt: at,
	}
	require.NoError(t, f.repo.CreateBid(context.Background(), b))
	return b
}

// analyze records the candidate bid on item1 and runs the detectors.
func (f *fixture) analyze(t *testing.T, userID string, amount int64) []model.FraudAlert {
	t.Helper()
	ctx := context.Background()
	it, err := f.repo.GetItem(ctx, "item1")
	require.NoError(t, err)
	user, err := f.repo.GetUser(ctx, userID)
	require.NoError(t, err)
	b := f.bid(t, userID, "item1", amount, now)
	return f.engine.AnalyzeBid(ctx, f.repo, BidSubject{Bid: b, Item: it, Bidder: user})
}

func alertTypes(alerts []model.FraudAlert) []model.AlertType {
	out := make([]model.AlertType, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Type)
	}
	return out
}

func TestAnalyzeBid(t *testing.T) {
	t.Parallel()

	old := now.Add(-6 * time.Hour)

	tests := []struct {
		name         string
		setup        func(t *testing.T, f *fixture)
		userID       string
		amount       int64
		wantTypes    []model.AlertType
		wantSeverity model.Severity
	}{
		{
			name:      "clean bid raises nothing",
			userID:    "bidder",
			amount:    110,
			wantTypes: []model.AlertType{},
		},
		{
			name: "seller bidding on own item",
			setup: func(t *testing.T, f *fixture) {
				f.repo.AddUser(model.User{UserID: "seller", JoinedAt: now.AddDate(-1, 0, 0)})
			},
			userID:       "seller",
			amount:       110,
			wantTypes:    []model.AlertType{model.AlertSelfBidding},
			wantSeverity: model.SeverityCritical,
		},
		{
			name: "amount far above the item average",
			setup: func(t *testing.T, f *fixture) {
				for i := 0; i < 4; i++ {
					f.repo.AddUser(model.User{UserID: fmt.Sprintf("o%d", i)})
					f.bid(t, fmt.Sprintf("o%d", i), "item1", 100, old)
				}
			},
			userID:       "bidder",
			amount:       1000,
			wantTypes:    []model.AlertType{model.AlertUnusualBidAmount},
			wantSeverity: model.SeverityMedium,
		},
		{
			name: "new account placing a high bid",
			setup: func(t *testing.T, f *fixture) {
				f.repo.AddUser(model.User{UserID: "fresh", JoinedAt: now.AddDate(0, 0, -2)})
			},
			userID:       "fresh",
			amount:       1_500_000,
			wantTypes:    []model.AlertType{model.AlertNewAccountHighValue},
			wantSeverity: model.SeverityHigh,
		},
		{
			name: "ten bids in five minutes",
			setup: func(t *testing.T, f *fixture) {
				f.repo.AddItem(item("x1", "seller2", now.Add(-24*time.Hour), now.Add(24*time.Hour)))
				for i := 0; i < 9; i++ {
					f.bid(t, "bidder", "x1", 100, now.Add(-time.Duration(i+1)*20*time.Second))
				}
			},
			userID:       "bidder",
			amount:       100,
			wantTypes:    []model.AlertType{model.AlertRapidBidding},
			wantSeverity: model.SeverityHigh,
		},
		{
			name: "repeated last-minute bids",
			setup: func(t *testing.T, f *fixture) {
				f.repo.AddItem(item("item1", "seller", now.Add(-24*time.Hour), now.Add(30*time.Second)))
				for i, id := range []string{"e1", "e2"} {
					end := now.Add(-time.Duration(i+1) * 24 * time.Hour)
					f.repo.AddItem(item(id, "seller2", end.Add(-48*time.Hour), end))
					f.bid(t, "bidder", id, 100, end.Add(-10*time.Second))
				}
			},
			userID:       "bidder",
			amount:       110,
			wantTypes:    []model.AlertType{model.AlertBidSniping},
			wantSeverity: model.SeverityMedium,
		},
		{
			name: "bid far above the user's own history",
			setup: func(t *testing.T, f *fixture) {
				f.repo.AddItem(item("x1", "seller2", now.Add(-24*time.Hour), now.Add(24*time.Hour)))
				for i := 0; i < 5; i++ {
					f.bid(t, "bidder", "x1", 100, old.Add(time.Duration(i)*time.Minute))
				}
			},
			userID:       "bidder",
			amount:       1000,
			wantTypes:    []model.AlertType{model.AlertBidPatternAnomaly},
			wantSeverity: model.SeverityMedium,
		},
		{
			name: "most bids go to one seller",
			setup: func(t *testing.T, f *fixture) {
				f.repo.AddItem(item("s1", "seller", now.Add(-24*time.Hour), now.Add(24*time.Hour)))
				f.repo.AddItem(item("x1", "seller2", now.Add(-24*time.Hour), now.Add(24*time.Hour)))
				for i := 0; i < 6; i++ {
					f.bid(t, "bidder", "s1", 100, old.Add(time.Duration(i)*time.Minute))
				}
				for i := 0; i < 3; i++ {
					f.bid(t, "bidder", "x1", 100, old.Add(time.Duration(i+10)*time.Minute))
				}
			},
			userID:       "bidder",
			amount:       100,
			wantTypes:    []model.AlertType{model.AlertShillSellerAffinity},
			wantSeverity: model.SeverityCritical,
		},
		{
			name: "many bids and no wins",
			setup: func(t *testing.T, f *fixture) {
				f.repo.AddItem(item("x1", "seller2", now.Add(-24*time.Hour), now.Add(24*time.Hour)))
				for i := 0; i < 19; i++ {
					f.bid(t, "bidder", "x1", 100, old.Add(time.Duration(i)*time.Minute))
				}
			},
			userID:       "bidder",
			amount:       100,
			wantTypes:    []model.AlertType{model.AlertShillLowWinRatio},
			wantSeverity: model.SeverityHigh,
		},
		{
			name: "joins every auction of the seller",
			setup: func(t *testing.T, f *fixture) {
				for _, id := range []string{"s1", "s2"} {
					f.repo.AddItem(item(id, "seller", now.Add(-24*time.Hour), now.Add(24*time.Hour)))
					f.bid(t, "bidder", id, 100, old)
				}
			},
			userID:       "bidder",
			amount:       100,
			wantTypes:    []model.AlertType{model.AlertSellerParticipation},
			wantSeverity: model.SeverityHigh,
		},
		{
			name: "always early, never late",
			setup: func(t *testing.T, f *fixture) {
				f.repo.AddItem(item("item1", "seller", now.Add(-time.Hour), now.Add(23*time.Hour)))
				for i, id := range []string{"e1", "e2", "e3", "e4"} {
					start := now.AddDate(0, 0, -10-i)
					f.repo.AddItem(item(id, "seller2", start, start.Add(100*time.Hour)))
					f.bid(t, "bidder", id, 100, start.Add(time.Hour))
				}
			},
			userID:       "bidder",
			amount:       100,
			wantTypes:    []model.AlertType{model.AlertShillTimingPattern},
			wantSeverity: model.SeverityMedium,
		},
		{
			name: "shares auctions with other bidders",
			setup: func(t *testing.T, f *fixture) {
				for _, id := range []string{"c1", "c2"} {
					f.repo.AddItem(item(id, "seller2", now.Add(-24*time.Hour), now.Add(24*time.Hour)))
				}
				for _, u := range []string{"o1", "o2"} {
					f.bid(t, u, "item1", 100, old)
					f.bid(t, u, "c1", 100, old)
					f.bid(t, u, "c2", 100, old)
				}
				f.bid(t, "bidder", "c1", 100, old)
				f.bid(t, "bidder", "c2", 100, old)
			},
			userID:       "bidder",
			amount:       100,
			wantTypes:    []model.AlertType{model.AlertCollusiveBidding},
			wantSeverity: model.SeverityCritical,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture()
			if tc.setup != nil {
				tc.setup(t, f)
			}

			alerts := f.analyze(t, tc.userID, tc.amount)

			require.Equal(t, tc.wantTypes, alertTypes(alerts))
			for _, a := range alerts {
				require.Equal(t, tc.wantSeverity, a.Severity)
				require.Equal(t, tc.userID, a.UserID)
				require.Equal(t, "item1", a.ItemID)
				require.NotEmpty(t, a.AlertID)
				require.Equal(t, now, a.CreatedAt)
				require.NotEmpty(t, a.Description)
			}
		})
	}
}

func TestAnalyzeBidAlertsAreNotPersisted(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.repo.AddUser(model.User{UserID: "seller"})

	alerts := f.analyze(t, "seller", 110)
	require.Len(t, alerts, 1)

	stored, err := f.repo.ListAlerts(context.Background(), model.AlertFilter{})
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestAnalyzePayment(t *testing.T) {
	t.Parallel()

	payment := func(id string, amount int64, method model.PaymentMethod, status model.PaymentStatus, at time.Time) model.Payment {
		return model.Payment{
			PaymentID: id,
			UserID:    "bidder",
			Amount:    decimal.NewFromInt(amount),
			Method:    method,
			Status:    status,
			CreatedAt: at,
		}
	}

	tests := []struct {
		name      string
		history   []model.Payment
		payment   model.Payment
		wantTypes []model.AlertType
	}{
		{
			name:      "ordinary payment",
			payment:   payment("p", 50_000, model.MethodMTN, model.PaymentCompleted, now),
			wantTypes: []model.AlertType{},
		},
		{
			name: "third failure this week",
			history: []model.Payment{
				payment("p1", 50_000, model.MethodMTN, model.PaymentFailed, now.Add(-48*time.Hour)),
				payment("p2", 50_000, model.MethodMTN, model.PaymentFailed, now.Add(-24*time.Hour)),
				payment("old", 50_000, model.MethodMTN, model.PaymentFailed, now.AddDate(0, 0, -9)),
			},
			payment:   payment("p", 50_000, model.MethodMTN, model.PaymentFailed, now),
			wantTypes: []model.AlertType{model.AlertFailedPaymentPattern},
		},
		{
			name:      "high value",
			payment:   payment("p", 5_000_000, model.MethodMTN, model.PaymentCompleted, now),
			wantTypes: []model.AlertType{model.AlertHighValuePayment},
		},
		{
			name: "three methods in a day",
			history: []model.Payment{
				payment("p1", 50_000, model.MethodAirtel, model.PaymentCompleted, now.Add(-3*time.Hour)),
				payment("p2", 50_000, model.MethodCard, model.PaymentCompleted, now.Add(-2*time.Hour)),
			},
			payment:   payment("p", 50_000, model.MethodMTN, model.PaymentCompleted, now),
			wantTypes: []model.AlertType{model.AlertMultiplePaymentMethods},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture()
			ctx := context.Background()
			for _, p := range append(tc.history, tc.payment) {
				require.NoError(t, f.repo.CreatePayment(ctx, p))
			}

			alerts := f.engine.AnalyzePayment(ctx, f.repo, tc.payment)
			require.Equal(t, tc.wantTypes, alertTypes(alerts))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()
	medium := model.FraudAlert{Severity: model.SeverityMedium}
	critical := model.FraudAlert{Severity: model.SeverityCritical}

	require.Equal(t, Clean, Classify(nil))
	require.Equal(t, Review, Classify([]model.FraudAlert{medium}))
	require.Equal(t, Block, Classify([]model.FraudAlert{medium, critical}))
	require.True(t, HasCritical([]model.FraudAlert{critical}))
	require.False(t, HasCritical([]model.FraudAlert{medium}))
}
