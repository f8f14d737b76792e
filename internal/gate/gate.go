// Package gate decides whether a bid attempt may proceed given the bidder's recent
// velocity and any cooldowns already in force.
package gate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"bid-admission/internal/biddingerrors"
	"bid-admission/internal/config"
	"bid-admission/internal/cooldown"
	model "bid-admission/internal/models"
	"bid-admission/internal/velocity"
	"bid-admission/utils"

	"github.com/shopspring/decimal"
)

// Action is what the gate decided to do with a bid attempt
type Action string

const (
	Allow         Action = "allow"
	SoftChallenge Action = "soft_challenge"
	HardCooldown  Action = "hard_cooldown"
	Suspended     Action = "suspended"
)

// Decision is the gate's verdict for one bid attempt
type Decision struct {
	Allowed         bool
	Action          Action
	Message         string
	CooldownSeconds int
}

func allow() Decision {
	return Decision{Allowed: true, Action: Allow, Message: "Bid allowed"}
}

// Gate is the rapid-bidding gate
type Gate struct {
	cfg       config.GateConfig
	cooldowns *cooldown.Store
	velocity  *velocity.Analyzer
	now       func() time.Time
}

// New creates a gate. A nil clock means time.Now in UTC.
func New(cfg config.GateConfig, cooldowns *cooldown.Store, analyzer *velocity.Analyzer, now func() time.Time) *Gate {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Gate{cfg: cfg, cooldowns: cooldowns, velocity: analyzer, now: now}
}

// Check runs the gate for userID bidding amount on item. Cooldowns it creates are persisted
// before it returns.
func (g *Gate) Check(ctx context.Context, userID string, item model.Item, amount decimal.Decimal) (Decision, error) {
	now := g.now()

	existing, err := g.cooldowns.Evaluate(ctx, userID, item.ItemID)
	if err != nil {
		return Decision{}, fmt.Errorf("gate: %w", err)
	}
	if !existing.Allowed {
		return g.blockedByExisting(existing, now), nil
	}

	multiplier := 1.0
	if item.InEndgame(now, g.cfg.EndgameWindow) {
		multiplier = g.cfg.EndgameMultiplier
	}

	// soft windows
	soft2, err := g.window(ctx, userID, item.ItemID, g.cfg.SoftWindow2Min, g.cfg.SoftThreshold2Min, multiplier)
	if err != nil {
		return Decision{}, err
	}
	soft5, err := g.window(ctx, userID, item.ItemID, g.cfg.SoftWindow5Min, g.cfg.SoftThreshold5Min, multiplier)
	if err != nil {
		return Decision{}, err
	}
	if soft2.breached || soft5.breached {
		desc := fmt.Sprintf("%d bids in 2 minutes", soft2.count)
		if !soft2.breached {
			desc = fmt.Sprintf("%d bids in 5 minutes", soft5.count)
		}
		return g.softChallenge(ctx, userID, item.ItemID, "Rapid bidding: "+desc,
			fmt.Sprintf("Unusual activity detected (%s). Please complete the security challenge to continue bidding.", desc))
	}

	// hard windows
	hard5, err := g.window(ctx, userID, item.ItemID, g.cfg.HardWindow5Min, g.cfg.HardThreshold5Min, multiplier)
	if err != nil {
		return Decision{}, err
	}
	hard20, err := g.window(ctx, userID, item.ItemID, g.cfg.HardWindow20Sec, g.cfg.HardThreshold20Sec, multiplier)
	if err != nil {
		return Decision{}, err
	}
	if hard5.breached || hard20.breached {
		desc := fmt.Sprintf("%d bids in 5 minutes", hard5.count)
		if !hard5.breached {
			desc = fmt.Sprintf("%d bids in 20 seconds", hard20.count)
		}
		d := g.cfg.CooldownDuration
		if _, err := g.cooldowns.Create(ctx, userID, item.ItemID, model.HardCooldown, "Excessive bidding: "+desc, d); err != nil {
			return Decision{}, fmt.Errorf("gate: %w", err)
		}
		return Decision{
			Action:          HardCooldown,
			Message:         fmt.Sprintf("Too many bids too quickly (%s). Please wait %d minutes before bidding again.", desc, minutes(d)),
			CooldownSeconds: seconds(d),
		}, nil
	}

	// cross-auction velocity
	globalSoft, err := g.velocity.Global(ctx, userID, g.cfg.GlobalSoftWindow)
	if err != nil {
		return Decision{}, err
	}
	if globalSoft.Bids >= g.cfg.GlobalSoftBids && globalSoft.Auctions >= g.cfg.GlobalSoftAuctions {
		return g.softChallenge(ctx, userID, "", "High velocity across multiple auctions",
			"Unusual bidding activity detected. Please complete the security challenge.")
	}

	globalHard, err := g.velocity.Global(ctx, userID, g.cfg.GlobalHardWindow)
	if err != nil {
		return Decision{}, err
	}
	if globalHard.Bids >= g.cfg.GlobalHardBids && globalHard.Auctions >= g.cfg.GlobalHardAuctions {
		d := 2 * g.cfg.CooldownDuration
		if _, err := g.cooldowns.Create(ctx, userID, "", model.HardCooldown, "Excessive bidding across multiple auctions", d); err != nil {
			return Decision{}, fmt.Errorf("gate: %w", err)
		}
		return Decision{
			Action:          HardCooldown,
			Message:         fmt.Sprintf("Suspicious cross-auction bidding. Cooling down for %d minutes.", minutes(d)),
			CooldownSeconds: seconds(d),
		}, nil
	}

	// minimal increments
	streak, err := g.velocity.MinimalIncrementStreak(ctx, userID, item.ItemID, g.cfg.MinIncrementWindow,
		amount, item.CurrentPrice, item.MinIncrement, g.cfg.MinIncrementTolerance)
	if err != nil {
		return Decision{}, err
	}
	if streak >= g.cfg.MinIncrementThreshold {
		return g.softChallenge(ctx, userID, item.ItemID, "Suspicious minimal increment pattern",
			"Unusual bid pattern detected. Please complete the verification.")
	}

	return allow(), nil
}

// CheckRestrictions looks only at cooldowns already in force, ignoring the soft challenge
// being answered. A resumed bid goes through this instead of Check.
func (g *Gate) CheckRestrictions(ctx context.Context, userID, itemID string) (Decision, error) {
	active, err := g.cooldowns.Active(ctx, userID, itemID)
	if err != nil {
		return Decision{}, fmt.Errorf("gate: %w", err)
	}
	now := g.now()
	for _, c := range active {
		if c.Kind == model.SoftChallenge {
			continue
		}
		if d := c.Evaluate(now); !d.Allowed {
			return g.blockedByExisting(d, now), nil
		}
	}
	return allow(), nil
}

func (g *Gate) blockedByExisting(d model.CooldownDecision, now time.Time) Decision {
	if d.Kind == model.SoftChallenge {
		return Decision{Action: SoftChallenge, Message: "Please complete the security challenge to continue bidding."}
	}
	remaining := int(d.Until.Sub(now).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	action := HardCooldown
	if d.Kind == model.Suspended {
		action = Suspended
	}
	return Decision{
		Action:          action,
		Message:         fmt.Sprintf("You're bidding too quickly. Please wait %dm %ds before bidding again.", remaining/60, remaining%60),
		CooldownSeconds: remaining,
	}
}

type windowResult struct {
	count    int
	breached bool
}

func (g *Gate) window(ctx context.Context, userID, itemID string, window time.Duration, base int, multiplier float64) (windowResult, error) {
	count, err := g.velocity.CountInWindow(ctx, userID, itemID, window)
	if err != nil {
		return windowResult{}, err
	}
	return windowResult{count: count, breached: count >= scaled(base, multiplier)}, nil
}

// softChallenge opens a soft challenge in the given scope, escalating to a hard cooldown
// when enough challenges were already issued there within the escalation window.
func (g *Gate) softChallenge(ctx context.Context, userID, itemID, reason, message string) (Decision, error) {
	recent, err := g.cooldowns.CountRecent(ctx, userID, itemID, model.SoftChallenge, g.cfg.EscalationWindow)
	if err != nil {
		return Decision{}, fmt.Errorf("gate: %w", err)
	}
	if recent >= g.cfg.EscalationThreshold {
		d := 2 * g.cfg.CooldownDuration
		if _, err := g.cooldowns.Create(ctx, userID, itemID, model.HardCooldown, "Repeated soft challenge violations", d); err != nil {
			return Decision{}, fmt.Errorf("gate: %w", err)
		}
		utils.Warn("Soft challenge escalated to hard cooldown", map[string]any{
			"userID": userID, "itemID": itemID, "recentChallenges": recent,
		})
		return Decision{
			Action:          HardCooldown,
			Message:         "Too many verification attempts. You've been temporarily blocked from bidding.",
			CooldownSeconds: seconds(d),
		}, nil
	}

	_, err = g.cooldowns.FindSoftChallenge(ctx, userID, itemID)
	switch {
	case errors.Is(err, biddingerrors.ErrCooldownNotFound):
		if _, err := g.cooldowns.Create(ctx, userID, itemID, model.SoftChallenge, reason, g.cfg.SoftChallengeTTL); err != nil {
			return Decision{}, fmt.Errorf("gate: %w", err)
		}
	case err != nil:
		return Decision{}, fmt.Errorf("gate: %w", err)
	}
	return Decision{Action: SoftChallenge, Message: message}, nil
}

// findChallenge returns the active soft challenge for the item, falling back to a global one.
func (g *Gate) findChallenge(ctx context.Context, userID, itemID string) (model.Cooldown, error) {
	c, err := g.cooldowns.FindSoftChallenge(ctx, userID, itemID)
	if errors.Is(err, biddingerrors.ErrCooldownNotFound) && itemID != "" {
		return g.cooldowns.FindSoftChallenge(ctx, userID, "")
	}
	return c, err
}

// PassCaptcha clears the user's open soft challenge. It reports false when there was none.
func (g *Gate) PassCaptcha(ctx context.Context, userID, itemID string) (bool, error) {
	c, err := g.findChallenge(ctx, userID, itemID)
	if errors.Is(err, biddingerrors.ErrCooldownNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("gate: %w", err)
	}
	c.CaptchaPassed = true
	c.IsActive = false
	if err := g.cooldowns.Update(ctx, c); err != nil {
		return false, fmt.Errorf("gate: %w", err)
	}
	utils.Info("Captcha passed", map[string]any{"userID": userID, "itemID": c.ItemID})
	return true, nil
}

// CaptchaFailure reports the state of a challenge after a failed attempt
type CaptchaFailure struct {
	Attempts        int
	Escalated       bool
	CooldownSeconds int
}

// FailCaptcha records a failed attempt on the open soft challenge; the last allowed
// failure replaces the challenge with a hard cooldown three times the base duration.
func (g *Gate) FailCaptcha(ctx context.Context, userID, itemID string) (CaptchaFailure, error) {
	c, err := g.findChallenge(ctx, userID, itemID)
	if err != nil {
		return CaptchaFailure{}, fmt.Errorf("gate: %w", err)
	}
	c.FailedAttempts++
	out := CaptchaFailure{Attempts: c.FailedAttempts}
	if c.FailedAttempts >= g.cfg.MaxCaptchaFailures {
		c.IsActive = false
	}
	if err := g.cooldowns.Update(ctx, c); err != nil {
		return CaptchaFailure{}, fmt.Errorf("gate: %w", err)
	}
	if c.IsActive {
		return out, nil
	}

	d := 3 * g.cfg.CooldownDuration
	reason := fmt.Sprintf("Failed CAPTCHA challenge %d times", c.FailedAttempts)
	if _, err := g.cooldowns.Create(ctx, userID, c.ItemID, model.HardCooldown, reason, d); err != nil {
		return CaptchaFailure{}, fmt.Errorf("gate: %w", err)
	}
	out.Escalated = true
	out.CooldownSeconds = seconds(d)
	return out, nil
}

func scaled(base int, multiplier float64) int {
	return int(math.Ceil(float64(base) * multiplier))
}

func minutes(d time.Duration) int { return int(d / time.Minute) }

func seconds(d time.Duration) int { return int(d / time.Second) }
