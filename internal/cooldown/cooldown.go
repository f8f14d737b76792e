// Package cooldown keeps per-user bidding restrictions, scoped to one item or global.
package cooldown

import (
	"context"
	"fmt"
	"time"

	"bid-admission/internal/biddingerrors"
	model "bid-admission/internal/models"
	"bid-admission/internal/repository"
	"bid-admission/utils"
)

// Store is the cooldown store used by the rapid-bidding gate
type Store struct {
	db  repository.CooldownDB
	now func() time.Time
}

// NewStore creates a cooldown store. A nil clock means time.Now in UTC.
func NewStore(db repository.CooldownDB, now func() time.Time) *Store {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Store{db: db, now: now}
}

// Sweep deactivates every active cooldown that has expired.
func (s *Store) Sweep(ctx context.Context) (int, error) {
	n, err := s.db.DeactivateExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("cooldown: sweep expired: %w", err)
	}
	if n > 0 {
		utils.Debug("Expired cooldowns deactivated", map[string]any{"count": n})
	}
	return n, nil
}

// Active returns the active cooldowns governing user on item, item-scoped ones
// first and each group newest first. An empty itemID asks for global ones only.
func (s *Store) Active(ctx context.Context, userID, itemID string) ([]model.Cooldown, error) {
	if _, err := s.Sweep(ctx); err != nil {
		return nil, err
	}
	scopes := []string{""}
	if itemID != "" {
		scopes = []string{itemID, ""}
	}
	found, err := s.db.FindCooldowns(ctx, repository.CooldownQuery{UserID: userID, ItemIDs: scopes, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("cooldown: find active for user %s: %w", userID, err)
	}

	out := make([]model.Cooldown, 0, len(found))
	for _, c := range found {
		if c.ItemID != "" {
			out = append(out, c)
		}
	}
	for _, c := range found {
		if c.ItemID == "" {
			out = append(out, c)
		}
	}
	return out, nil
}

// GetActive returns the cooldown that governs admission: the newest active
// item-scoped one, else the newest active global one.
func (s *Store) GetActive(ctx context.Context, userID, itemID string) (model.Cooldown, bool, error) {
	active, err := s.Active(ctx, userID, itemID)
	if err != nil || len(active) == 0 {
		return model.Cooldown{}, false, err
	}
	return active[0], true, nil
}

// Evaluate folds every active cooldown for the user and item into one decision;
// any of them blocking blocks the bid.
func (s *Store) Evaluate(ctx context.Context, userID, itemID string) (model.CooldownDecision, error) {
	active, err := s.Active(ctx, userID, itemID)
	if err != nil {
		return model.CooldownDecision{}, err
	}
	now := s.now()
	for _, c := range active {
		if d := c.Evaluate(now); !d.Allowed {
			return d, nil
		}
	}
	return model.Allowed(), nil
}

// Create records a new active cooldown of kind for ttl.
func (s *Store) Create(ctx context.Context, userID, itemID string, kind model.CooldownKind, reason string, ttl time.Duration) (model.Cooldown, error) {
	now := s.now()
	c := model.Cooldown{
		CooldownID:      utils.GenerateID(),
		UserID:          userID,
		ItemID:          itemID,
		Kind:            kind,
		Reason:          reason,
		CreatedAt:       now,
		ExpiresAt:       now.Add(ttl),
		IsActive:        true,
		CaptchaRequired: kind == model.SoftChallenge,
	}
	if err := s.db.CreateCooldown(ctx, c); err != nil {
		return model.Cooldown{}, fmt.Errorf("cooldown: create %s for user %s: %w", kind, userID, err)
	}
	utils.Info("Cooldown created", map[string]any{
		"userID": userID, "itemID": itemID, "kind": kind, "reason": reason, "expiresAt": c.ExpiresAt,
	})
	return c, nil
}

// Deactivate marks the cooldown inactive.
func (s *Store) Deactivate(ctx context.Context, c model.Cooldown) error {
	c.IsActive = false
	return s.Update(ctx, c)
}

// Update persists changes to an existing cooldown.
func (s *Store) Update(ctx context.Context, c model.Cooldown) error {
	if err := s.db.UpdateCooldown(ctx, c); err != nil {
		return fmt.Errorf("cooldown: update %s: %w", c.CooldownID, err)
	}
	return nil
}

// FindSoftChallenge returns the newest active soft challenge in exactly the given scope.
func (s *Store) FindSoftChallenge(ctx context.Context, userID, itemID string) (model.Cooldown, error) {
	found, err := s.db.FindCooldowns(ctx, repository.CooldownQuery{
		UserID: userID, ItemIDs: []string{itemID}, Kind: model.SoftChallenge, ActiveOnly: true,
	})
	if err != nil {
		return model.Cooldown{}, fmt.Errorf("cooldown: find soft challenge: %w", err)
	}
	if len(found) == 0 {
		return model.Cooldown{}, fmt.Errorf("cooldown: soft challenge for user %s: %w", userID, biddingerrors.ErrCooldownNotFound)
	}
	return found[0], nil
}

// CountRecent counts cooldowns of kind created within window in exactly the given scope,
// active or not.
func (s *Store) CountRecent(ctx context.Context, userID, itemID string, kind model.CooldownKind, window time.Duration) (int, error) {
	found, err := s.db.FindCooldowns(ctx, repository.CooldownQuery{
		UserID: userID, ItemIDs: []string{itemID}, Kind: kind, CreatedSince: s.now().Add(-window),
	})
	if err != nil {
		return 0, fmt.Errorf("cooldown: count recent %s: %w", kind, err)
	}
	return len(found), nil
}
