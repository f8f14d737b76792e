package gate

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"bid-admission/internal/biddingerrors"
	"bid-admission/internal/config"
	"bid-admission/internal/cooldown"
	model "bid-admission/internal/models"
	"bid-admission/internal/repository"
	"bid-admission/internal/velocity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	gate      *Gate
	repo      *repository.MemoryRepo
	cooldowns *cooldown.Store
	clock     *clock
	item      model.Item
}

func newFixture(t *testing.T, endsIn time.Duration) *fixture {
	t.Helper()
	clk := &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	repo := repository.NewMemoryRepo()
	item := model.Item{
		ItemID:       "item1",
		SellerID:     "seller",
		CurrentPrice: decimal.NewFromInt(1000),
		MinIncrement: decimal.NewFromInt(10),
		Status:       model.ItemActive,
		CreatedAt:    clk.Now().Add(-24 * time.Hour),
		EndTime:      clk.Now().Add(endsIn),
	}
	repo.AddItem(item)

	store := cooldown.NewStore(repo, clk.Now)
	analyzer := velocity.NewAnalyzer(repo, clk.Now)
	return &fixture{
		gate:      New(config.Default().Gate, store, analyzer, clk.Now),
		repo:      repo,
		cooldowns: store,
		clock:     clk,
		item:      item,
	}
}

// seed records n bids by user on itemID, spaced by gap and ending gap before now.
// Each bid raises the price by 100 so it never counts as a minimal increment.
func (f *fixture) seed(t *testing.T, userID, itemID string, n int, gap time.Duration) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, f.repo.CreateBid(context.Background(), model.Bid{
			BidID:       fmt.Sprintf("%s-%s-%d", userID, itemID, i),
			ItemID:      itemID,
			UserID:      userID,
			Amount:      decimal.NewFromInt(int64(1000 + 100*i)),
			PriceBefore: decimal.NewFromInt(int64(900 + 100*i)),
			CreatedAt:   f.clock.Now().Add(-time.Duration(i) * gap),
		}))
	}
}

var highBid = decimal.NewFromInt(5000)

func TestGate_Check_Allows(t *testing.T) {
	t.Parallel()
	f := newFixture(t, time.Hour)
	f.seed(t, "u", "item1", 2, time.Minute)

	d, err := f.gate.Check(context.Background(), "u", f.item, highBid)
	require.NoError(t, err)
	require.True(t, d.Allowed)
	require.Equal(t, Allow, d.Action)
}

func TestGate_Check_ExistingCooldown(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name       string
		itemID     string
		kind       model.CooldownKind
		ttl        time.Duration
		wantAction Action
		wantMsg    string
	}{
		{
			name: "item_hard_cooldown", itemID: "item1", kind: model.HardCooldown, ttl: 90 * time.Second,
			wantAction: HardCooldown, wantMsg: "You're bidding too quickly. Please wait 1m 30s before bidding again.",
		},
		{
			name: "global_suspension", itemID: "", kind: model.Suspended, ttl: time.Hour,
			wantAction: Suspended, wantMsg: "You're bidding too quickly. Please wait 60m 0s before bidding again.",
		},
		{
			name: "open_soft_challenge", itemID: "item1", kind: model.SoftChallenge, ttl: 10 * time.Minute,
			wantAction: SoftChallenge, wantMsg: "Please complete the security challenge to continue bidding.",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, time.Hour)
			_, err := f.cooldowns.Create(ctx, "u", tc.itemID, tc.kind, "test", tc.ttl)
			require.NoError(t, err)

			d, err := f.gate.Check(ctx, "u", f.item, highBid)
			require.NoError(t, err)
			require.False(t, d.Allowed)
			require.Equal(t, tc.wantAction, d.Action)
			require.Equal(t, tc.wantMsg, d.Message)
		})
	}

	t.Run("expired_cooldown_allows", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, time.Hour)
		_, err := f.cooldowns.Create(ctx, "u", "item1", model.HardCooldown, "test", time.Minute)
		require.NoError(t, err)
		f.clock.Advance(time.Minute)

		d, err := f.gate.Check(ctx, "u", f.item, highBid)
		require.NoError(t, err)
		require.True(t, d.Allowed)
	})
}

func TestGate_CheckRestrictions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("open_challenge_and_velocity_ignored", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, time.Hour)
		f.seed(t, "u", "item1", 12, 5*time.Second)
		_, err := f.cooldowns.Create(ctx, "u", "item1", model.SoftChallenge, "test", 10*time.Minute)
		require.NoError(t, err)

		d, err := f.gate.CheckRestrictions(ctx, "u", "item1")
		require.NoError(t, err)
		require.True(t, d.Allowed)
	})

	tests := []struct {
		name       string
		itemID     string
		kind       model.CooldownKind
		wantAction Action
	}{
		{name: "global_hard_cooldown", itemID: "", kind: model.HardCooldown, wantAction: HardCooldown},
		{name: "item_suspension", itemID: "item1", kind: model.Suspended, wantAction: Suspended},
		{name: "captcha_failed", itemID: "item1", kind: model.CaptchaFailed, wantAction: HardCooldown},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, time.Hour)
			_, err := f.cooldowns.Create(ctx, "u", "item1", model.SoftChallenge, "test", 10*time.Minute)
			require.NoError(t, err)
			_, err = f.cooldowns.Create(ctx, "u", tc.itemID, tc.kind, "test", 2*time.Minute)
			require.NoError(t, err)

			d, err := f.gate.CheckRestrictions(ctx, "u", "item1")
			require.NoError(t, err)
			require.False(t, d.Allowed)
			require.Equal(t, tc.wantAction, d.Action)
			require.Equal(t, 120, d.CooldownSeconds)
		})
	}
}

func TestGate_Check_SoftWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, time.Hour)
	f.seed(t, "u", "item1", 4, 25*time.Second)

	d, err := f.gate.Check(ctx, "u", f.item, highBid)
	require.NoError(t, err)
	require.Equal(t, SoftChallenge, d.Action)
	require.Equal(t, "Unusual activity detected (5 bids in 2 minutes). Please complete the security challenge to continue bidding.", d.Message)

	c, err := f.cooldowns.FindSoftChallenge(ctx, "u", "item1")
	require.NoError(t, err)
	require.True(t, c.CaptchaRequired)
	require.Equal(t, "Rapid bidding: 5 bids in 2 minutes", c.Reason)
	require.Equal(t, f.clock.Now().Add(10*time.Minute), c.ExpiresAt)
}

func TestGate_Check_EndgameMultiplier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		priorBids   int
		wantAllowed bool
	}{
		{name: "ninth_bid_allowed", priorBids: 8, wantAllowed: true},
		{name: "tenth_bid_challenged", priorBids: 9, wantAllowed: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, 3*time.Minute)
			f.seed(t, "u", "item1", tc.priorBids, 12*time.Second)

			d, err := f.gate.Check(context.Background(), "u", f.item, highBid)
			require.NoError(t, err)
			require.Equal(t, tc.wantAllowed, d.Allowed)
			if !tc.wantAllowed {
				require.Equal(t, SoftChallenge, d.Action)
			}
		})
	}

	t.Run("outside_endgame_ninth_bid_challenged", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, time.Hour)
		f.seed(t, "u", "item1", 8, 12*time.Second)

		d, err := f.gate.Check(context.Background(), "u", f.item, highBid)
		require.NoError(t, err)
		require.Equal(t, SoftChallenge, d.Action)
	})
}

func TestGate_Check_HardWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, time.Hour)
	f.seed(t, "u", "item1", 3, 5*time.Second)

	d, err := f.gate.Check(ctx, "u", f.item, highBid)
	require.NoError(t, err)
	require.Equal(t, HardCooldown, d.Action)
	require.Equal(t, "Too many bids too quickly (4 bids in 20 seconds). Please wait 5 minutes before bidding again.", d.Message)
	require.Equal(t, 300, d.CooldownSeconds)

	// the cooldown now blocks every attempt until it expires
	d, err = f.gate.Check(ctx, "u", f.item, highBid)
	require.NoError(t, err)
	require.Equal(t, HardCooldown, d.Action)
	require.Equal(t, "You're bidding too quickly. Please wait 5m 0s before bidding again.", d.Message)
}

func TestGate_Check_EscalatesOnThirdChallenge(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, 2*time.Hour)

	// first challenge at t0, solved
	f.seed(t, "u", "item1", 4, 10*time.Second)
	d, err := f.gate.Check(ctx, "u", f.item, highBid)
	require.NoError(t, err)
	require.Equal(t, SoftChallenge, d.Action)
	passed, err := f.gate.PassCaptcha(ctx, "u", "item1")
	require.NoError(t, err)
	require.True(t, passed)

	// second at t0+10m, solved
	f.clock.Advance(10 * time.Minute)
	for i := 0; i < 4; i++ {
		require.NoError(t, f.repo.CreateBid(ctx, model.Bid{
			BidID: fmt.Sprintf("second-%d", i), ItemID: "item1", UserID: "u",
			Amount: highBid, CreatedAt: f.clock.Now().Add(-time.Duration(i+1) * 10 * time.Second),
		}))
	}
	d, err = f.gate.Check(ctx, "u", f.item, highBid)
	require.NoError(t, err)
	require.Equal(t, SoftChallenge, d.Action)
	passed, err = f.gate.PassCaptcha(ctx, "u", "item1")
	require.NoError(t, err)
	require.True(t, passed)

	// third qualifying event at t0+20m escalates
	f.clock.Advance(10 * time.Minute)
	for i := 0; i < 4; i++ {
		require.NoError(t, f.repo.CreateBid(ctx, model.Bid{
			BidID: fmt.Sprintf("third-%d", i), ItemID: "item1", UserID: "u",
			Amount: highBid, CreatedAt: f.clock.Now().Add(-time.Duration(i+1) * 10 * time.Second),
		}))
	}
	d, err = f.gate.Check(ctx, "u", f.item, highBid)
	require.NoError(t, err)
	require.Equal(t, HardCooldown, d.Action)
	require.Equal(t, "Too many verification attempts. You've been temporarily blocked from bidding.", d.Message)
	require.Equal(t, 600, d.CooldownSeconds)

	soft, err := f.cooldowns.CountRecent(ctx, "u", "item1", model.SoftChallenge, time.Hour)
	require.NoError(t, err)
	require.Equal(t, 2, soft, "no third soft challenge is created")

	active, ok, err := f.cooldowns.GetActive(ctx, "u", "item1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, model.HardCooldown, active.Kind)
	require.Equal(t, "Repeated soft challenge violations", active.Reason)
}

func TestGate_Check_GlobalVelocity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, time.Hour)
	for _, id := range []string{"a", "b", "c", "d"} {
		f.repo.AddItem(model.Item{ItemID: id, SellerID: "s", Status: model.ItemActive})
	}
	// 14 bids over 7 minutes across four auctions, none on item1
	for i := 0; i < 14; i++ {
		itemID := []string{"a", "b", "c", "d"}[i%4]
		require.NoError(t, f.repo.CreateBid(ctx, model.Bid{
			BidID: fmt.Sprintf("g-%d", i), ItemID: itemID, UserID: "u",
			Amount: highBid, CreatedAt: f.clock.Now().Add(-time.Duration(i+1) * 30 * time.Second),
		}))
	}

	d, err := f.gate.Check(ctx, "u", f.item, highBid)
	require.NoError(t, err)
	require.Equal(t, SoftChallenge, d.Action)
	require.Equal(t, "Unusual bidding activity detected. Please complete the security challenge.", d.Message)

	c, err := f.cooldowns.FindSoftChallenge(ctx, "u", "")
	require.NoError(t, err)
	require.True(t, c.IsGlobal())

	// the global challenge is passed through the item the user is bidding on
	passed, err := f.gate.PassCaptcha(ctx, "u", "item1")
	require.NoError(t, err)
	require.True(t, passed)
}

func TestGate_Check_MinimalIncrementStreak(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t, time.Hour)

	price := f.item.CurrentPrice
	for i := 0; i < 4; i++ {
		next := price.Add(f.item.MinIncrement)
		require.NoError(t, f.repo.CreateBid(ctx, model.Bid{
			BidID: fmt.Sprintf("m-%d", i), ItemID: "item1", UserID: "u",
			Amount: next, PriceBefore: price,
			CreatedAt: f.clock.Now().Add(-time.Duration(4-i) * 50 * time.Second),
		}))
		price = next
	}
	item := f.item
	item.CurrentPrice = price

	d, err := f.gate.Check(ctx, "u", item, item.MinimumBid())
	require.NoError(t, err)
	require.Equal(t, SoftChallenge, d.Action)
	require.Equal(t, "Unusual bid pattern detected. Please complete the verification.", d.Message)

	c, err := f.cooldowns.FindSoftChallenge(ctx, "u", "item1")
	require.NoError(t, err)
	require.Equal(t, "Suspicious minimal increment pattern", c.Reason)
}

func TestGate_Captcha(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("pass_without_challenge", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, time.Hour)
		passed, err := f.gate.PassCaptcha(ctx, "u", "item1")
		require.NoError(t, err)
		require.False(t, passed)
	})

	t.Run("pass_clears_challenge", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, time.Hour)
		_, err := f.cooldowns.Create(ctx, "u", "item1", model.SoftChallenge, "test", 10*time.Minute)
		require.NoError(t, err)

		passed, err := f.gate.PassCaptcha(ctx, "u", "item1")
		require.NoError(t, err)
		require.True(t, passed)

		d, err := f.cooldowns.Evaluate(ctx, "u", "item1")
		require.NoError(t, err)
		require.True(t, d.Allowed)
	})

	t.Run("third_failure_escalates", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, time.Hour)
		_, err := f.cooldowns.Create(ctx, "u", "item1", model.SoftChallenge, "test", 10*time.Minute)
		require.NoError(t, err)

		for attempt := 1; attempt <= 2; attempt++ {
			out, err := f.gate.FailCaptcha(ctx, "u", "item1")
			require.NoError(t, err)
			require.Equal(t, attempt, out.Attempts)
			require.False(t, out.Escalated)
		}
		out, err := f.gate.FailCaptcha(ctx, "u", "item1")
		require.NoError(t, err)
		require.True(t, out.Escalated)
		require.Equal(t, 900, out.CooldownSeconds)

		active, ok, err := f.cooldowns.GetActive(ctx, "u", "item1")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, model.HardCooldown, active.Kind)
		require.Equal(t, "Failed CAPTCHA challenge 3 times", active.Reason)

		_, err = f.gate.FailCaptcha(ctx, "u", "item1")
		require.ErrorIs(t, err, biddingerrors.ErrCooldownNotFound)
	})
}
