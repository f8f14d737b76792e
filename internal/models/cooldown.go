package models

import "time"

// CooldownKind is the type of restriction a cooldown imposes
type CooldownKind string

const (
	SoftChallenge CooldownKind = "soft_challenge"
	HardCooldown  CooldownKind = "hard_cooldown"
	CaptchaFailed CooldownKind = "captcha_failed"
	Suspended     CooldownKind = "suspended"
)

// Cooldown is a temporary bidding restriction. An empty ItemID means the cooldown is global.
type Cooldown struct {
	CooldownID      string       `json:"cooldown_id"`
	UserID          string       `json:"user_id"`
	ItemID          string       `json:"item_id,omitempty"`
	Kind            CooldownKind `json:"kind"`
	Reason          string       `json:"reason"`
	CreatedAt       time.Time    `json:"created_at"`
	ExpiresAt       time.Time    `json:"expires_at"`
	IsActive        bool         `json:"is_active"`
	CaptchaRequired bool         `json:"captcha_required"`
	CaptchaPassed   bool         `json:"captcha_passed"`
	FailedAttempts  int          `json:"failed_attempts"`
}

// IsGlobal reports whether the cooldown applies across all auctions.
func (c Cooldown) IsGlobal() bool {
	return c.ItemID == ""
}

// Expired reports whether the cooldown's expiry has been reached at now.
func (c Cooldown) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Remaining is the time left until expiry, never negative.
func (c Cooldown) Remaining(now time.Time) time.Duration {
	if c.Expired(now) {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

// CooldownDecision is the outcome of evaluating a cooldown at a point in time.
type CooldownDecision struct {
	Allowed bool
	Kind    CooldownKind
	Reason  string
	Until   time.Time
}

// Allowed is the decision for a user with nothing restricting them.
func Allowed() CooldownDecision {
	return CooldownDecision{Allowed: true}
}

// Blocked is the decision for a user held by a cooldown of kind until the given time.
func Blocked(kind CooldownKind, reason string, until time.Time) CooldownDecision {
	return CooldownDecision{Kind: kind, Reason: reason, Until: until}
}

// Evaluate decides whether the cooldown restricts bidding at now.
// Inactive, expired and solved soft challenges allow; everything else blocks until ExpiresAt.
func (c Cooldown) Evaluate(now time.Time) CooldownDecision {
	if !c.IsActive || c.Expired(now) {
		return Allowed()
	}
	if c.Kind == SoftChallenge && c.CaptchaPassed {
		return Allowed()
	}
	return Blocked(c.Kind, c.Reason, c.ExpiresAt)
}
