package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdmissionPolicyOverride lists the checks a user is exempt from, resolved once per request.
type AdmissionPolicyOverride struct {
	BypassRapidBidding bool `json:"bypass_rapid_bidding"`
	BypassAccountAge   bool `json:"bypass_account_age"`
	BypassFraud        bool `json:"bypass_fraud"`
	BypassAll          bool `json:"bypass_all"`
}

// ResolveOverride derives the override set from a user record; superusers bypass everything.
func ResolveOverride(u User) AdmissionPolicyOverride {
	all := u.IsSuperuser || u.BypassAll
	return AdmissionPolicyOverride{
		BypassRapidBidding: all || u.BypassRapidBidding,
		BypassAccountAge:   all || u.BypassAccountAge,
		BypassFraud:        all || u.BypassFraud,
		BypassAll:          all,
	}
}

// AdmissionStatus is the final outcome of a bid attempt
type AdmissionStatus string

const (
	Admitted   AdmissionStatus = "admitted"
	Challenged AdmissionStatus = "challenged"
	Rejected   AdmissionStatus = "rejected"
)

// MessageLevel tells the client how to present a message
type MessageLevel string

const (
	LevelError   MessageLevel = "error"
	LevelWarning MessageLevel = "warning"
	LevelInfo    MessageLevel = "info"
)

// AdmissionMessage is one human readable reason attached to a result
type AdmissionMessage struct {
	Level MessageLevel `json:"level"`
	Text  string       `json:"text"`
}

// AdmissionResult is returned for every bid attempt that passed input validation
type AdmissionResult struct {
	Status            AdmissionStatus    `json:"status"`
	Messages          []AdmissionMessage `json:"messages"`
	NewPrice          *decimal.Decimal   `json:"new_price,omitempty"`
	NewWinningBid     *Bid               `json:"new_winning_bid,omitempty"`
	ChallengeRequired bool               `json:"challenge_required"`
	CooldownSeconds   int                `json:"cooldown_seconds,omitempty"`
	AlertCount        int                `json:"alert_count"`
}

// AddMessage appends a message to the result.
func (r *AdmissionResult) AddMessage(level MessageLevel, text string) {
	r.Messages = append(r.Messages, AdmissionMessage{Level: level, Text: text})
}

// PendingBid is a bid held back while its owner solves a challenge
type PendingBid struct {
	UserID    string          `json:"user_id"`
	ItemID    string          `json:"item_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}
