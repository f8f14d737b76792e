package cooldown

import (
	"context"
	"testing"
	"time"

	"bid-admission/internal/biddingerrors"
	model "bid-admission/internal/models"
	"bid-admission/internal/repository"

	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStore_GetActive_ItemTakesPrecedence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	repo := repository.NewMemoryRepo()
	older := NewStore(repo, fixedClock(now.Add(-time.Minute)))
	store := NewStore(repo, fixedClock(now))

	_, err := older.Create(ctx, "u", "item1", model.SoftChallenge, "item challenge", 10*time.Minute)
	require.NoError(t, err)
	_, err = store.Create(ctx, "u", "", model.HardCooldown, "global cooldown", 5*time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name     string
		itemID   string
		wantKind model.CooldownKind
		wantOK   bool
	}{
		{name: "item_scoped_first", itemID: "item1", wantKind: model.SoftChallenge, wantOK: true},
		{name: "other_item_sees_global", itemID: "item2", wantKind: model.HardCooldown, wantOK: true},
		{name: "global_only", itemID: "", wantKind: model.HardCooldown, wantOK: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c, ok, err := store.GetActive(ctx, "u", tc.itemID)
			require.NoError(t, err)
			require.Equal(t, tc.wantOK, ok)
			require.Equal(t, tc.wantKind, c.Kind)
		})
	}

	t.Run("either_scope_blocks", func(t *testing.T) {
		t.Parallel()
		d, err := store.Evaluate(ctx, "u", "item1")
		require.NoError(t, err)
		require.False(t, d.Allowed)
	})

	t.Run("other_user_unaffected", func(t *testing.T) {
		t.Parallel()
		_, ok, err := store.GetActive(ctx, "someone-else", "item1")
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestStore_SweepDeactivatesExpired(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := repository.NewMemoryRepo()

	created, err := NewStore(repo, fixedClock(now)).Create(ctx, "u", "item1", model.HardCooldown, "test", time.Minute)
	require.NoError(t, err)
	require.True(t, created.IsActive)
	require.False(t, created.CaptchaRequired)

	later := NewStore(repo, fixedClock(now.Add(time.Minute)))
	n, err := later.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, ok, err := later.GetActive(ctx, "u", "item1")
	require.NoError(t, err)
	require.False(t, ok)

	// expired records still count towards escalation history
	recent, err := later.CountRecent(ctx, "u", "item1", model.HardCooldown, time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, recent)
}

func TestStore_SoftChallengeLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(repository.NewMemoryRepo(), fixedClock(now))

	_, err := store.FindSoftChallenge(ctx, "u", "item1")
	require.ErrorIs(t, err, biddingerrors.ErrCooldownNotFound)

	c, err := store.Create(ctx, "u", "item1", model.SoftChallenge, "Rapid bidding", 10*time.Minute)
	require.NoError(t, err)
	require.True(t, c.CaptchaRequired)

	found, err := store.FindSoftChallenge(ctx, "u", "item1")
	require.NoError(t, err)
	require.Equal(t, c.CooldownID, found.CooldownID)

	_, err = store.FindSoftChallenge(ctx, "u", "")
	require.ErrorIs(t, err, biddingerrors.ErrCooldownNotFound, "scopes are matched exactly")

	require.NoError(t, store.Deactivate(ctx, found))
	d, err := store.Evaluate(ctx, "u", "item1")
	require.NoError(t, err)
	require.True(t, d.Allowed)
}
