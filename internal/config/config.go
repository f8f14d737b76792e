// Package config holds the immutable service configuration. Every component receives
// the section it needs at construction time; nothing reads configuration globally.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full service configuration
type Config struct {
	Server     ServerConfig
	Gate       GateConfig
	Fraud      FraudConfig
	Enrichment EnrichmentConfig
	Admission  AdmissionConfig
	Throttle   ThrottleConfig
	Storage    StorageConfig
	Cache      CacheConfig
	Events     EventsConfig
}

type ServerConfig struct {
	Port     string `validate:"required"`
	LogLevel string `validate:"oneof=trace debug info warn warning error"`
}

// GateConfig drives the rapid-bidding gate and the cooldown store
type GateConfig struct {
	SoftThreshold2Min  int           `validate:"gt=0"`
	SoftWindow2Min     time.Duration `validate:"gt=0"`
	SoftThreshold5Min  int           `validate:"gt=0"`
	SoftWindow5Min     time.Duration `validate:"gt=0"`
	HardThreshold5Min  int           `validate:"gt=0"`
	HardWindow5Min     time.Duration `validate:"gt=0"`
	HardThreshold20Sec int           `validate:"gt=0"`
	HardWindow20Sec    time.Duration `validate:"gt=0"`

	CooldownDuration    time.Duration `validate:"gt=0"`
	SoftChallengeTTL    time.Duration `validate:"gt=0"`
	EscalationWindow    time.Duration `validate:"gt=0"`
	EscalationThreshold int           `validate:"gt=0"`
	MaxCaptchaFailures  int           `validate:"gt=0"`

	EndgameMultiplier float64       `validate:"gte=1"`
	EndgameWindow     time.Duration `validate:"gte=0"`

	GlobalSoftWindow   time.Duration `validate:"gt=0"`
	GlobalSoftBids     int           `validate:"gt=0"`
	GlobalSoftAuctions int           `validate:"gt=0"`
	GlobalHardWindow   time.Duration `validate:"gt=0"`
	GlobalHardBids     int           `validate:"gt=0"`
	GlobalHardAuctions int           `validate:"gt=0"`

	MinIncrementWindow    time.Duration `validate:"gt=0"`
	MinIncrementThreshold int           `validate:"gt=0"`
	MinIncrementTolerance decimal.Decimal
}

// FraudConfig holds the named thresholds of every fraud detector
type FraudConfig struct {
	RapidBiddingWindow    time.Duration `validate:"gt=0"`
	RapidBiddingThreshold int           `validate:"gt=0"`

	SnipingWindow    time.Duration `validate:"gt=0"`
	SnipingHistory   time.Duration `validate:"gt=0"`
	SnipingThreshold int           `validate:"gt=0"`

	UnusualBidMultiplier decimal.Decimal

	MinAccountAgeDays     int `validate:"gte=0"`
	HighValueBidThreshold decimal.Decimal

	PatternMinHistory          int `validate:"gt=0"`
	PatternDeviationMultiplier decimal.Decimal
	PatternSample              int `validate:"gtefield=PatternMinHistory"`

	ShillMinTotalBids      int     `validate:"gt=0"`
	ShillMinSellerBids     int     `validate:"gt=0"`
	ShillAffinityThreshold float64 `validate:"gt=0,lte=1"`

	LowWinRatioMinBids   int     `validate:"gt=0"`
	LowWinRatioThreshold float64 `validate:"gte=0,lte=1"`

	SellerAffinityMinAuctions    int     `validate:"gt=0"`
	SellerParticipationThreshold float64 `validate:"gt=0,lte=1"`

	TimingEarlyThreshold     float64 `validate:"gt=0,lt=1"`
	TimingLateThreshold      float64 `validate:"gtfield=TimingEarlyThreshold,lte=1"`
	TimingMinEarlyBids       int     `validate:"gt=0"`
	TimingLateRatioThreshold float64 `validate:"gte=0"`
	TimingSample             int     `validate:"gt=0"`

	CollusiveCommonItems     int `validate:"gt=0"`
	CollusiveSuspiciousPairs int `validate:"gt=0"`

	FailedPaymentWindow       time.Duration `validate:"gt=0"`
	FailedPaymentThreshold    int           `validate:"gt=0"`
	HighValuePaymentThreshold decimal.Decimal
	PaymentMethodsWindow      time.Duration `validate:"gt=0"`
	PaymentMethodsThreshold   int           `validate:"gt=0"`
}

// EnrichmentConfig configures the optional external risk assessment. An empty endpoint disables it.
type EnrichmentConfig struct {
	Endpoint      string `validate:"omitempty,url"`
	APIKey        string
	Model         string
	Timeout       time.Duration `validate:"gt=0"`
	RatePerSecond float64       `validate:"gt=0"`
	Burst         int           `validate:"gt=0"`
}

type AdmissionConfig struct {
	PendingBidTTL time.Duration `validate:"gt=0"`
}

// ThrottleConfig holds the transport-level message limits
type ThrottleConfig struct {
	MessageLimit   int           `validate:"gt=0"`
	MessageWindow  time.Duration `validate:"gte=1s"`
	PlaceBidLimit  int           `validate:"gt=0"`
	PlaceBidWindow time.Duration `validate:"gte=1s"`
}

type StorageConfig struct {
	PostgresDSN string
}

type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int `validate:"gte=0"`
	LocalCacheMB  int `validate:"gt=0"`
}

type EventsConfig struct {
	NATSURL string
	Stream  string `validate:"required"`
	Workers int    `validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: ":8080", LogLevel: "info"},
		Gate: GateConfig{
			SoftThreshold2Min:  5,
			SoftWindow2Min:     2 * time.Minute,
			SoftThreshold5Min:  10,
			SoftWindow5Min:     5 * time.Minute,
			HardThreshold5Min:  15,
			HardWindow5Min:     5 * time.Minute,
			HardThreshold20Sec: 4,
			HardWindow20Sec:    20 * time.Second,

			CooldownDuration:    5 * time.Minute,
			SoftChallengeTTL:    10 * time.Minute,
			EscalationWindow:    time.Hour,
			EscalationThreshold: 2,
			MaxCaptchaFailures:  3,

			EndgameMultiplier: 2.0,
			EndgameWindow:     5 * time.Minute,

			GlobalSoftWindow:   10 * time.Minute,
			GlobalSoftBids:     15,
			GlobalSoftAuctions: 4,
			GlobalHardWindow:   30 * time.Minute,
			GlobalHardBids:     40,
			GlobalHardAuctions: 8,

			MinIncrementWindow:    5 * time.Minute,
			MinIncrementThreshold: 5,
			MinIncrementTolerance: decimal.RequireFromString("1.1"),
		},
		Fraud: FraudConfig{
			RapidBiddingWindow:    5 * time.Minute,
			RapidBiddingThreshold: 10,

			SnipingWindow:    60 * time.Second,
			SnipingHistory:   30 * 24 * time.Hour,
			SnipingThreshold: 3,

			UnusualBidMultiplier: decimal.NewFromInt(3),

			MinAccountAgeDays:     7,
			HighValueBidThreshold: decimal.NewFromInt(1_000_000),

			PatternMinHistory:          5,
			PatternDeviationMultiplier: decimal.NewFromInt(3),
			PatternSample:              20,

			ShillMinTotalBids:      10,
			ShillMinSellerBids:     5,
			ShillAffinityThreshold: 0.5,

			LowWinRatioMinBids:   20,
			LowWinRatioThreshold: 0.05,

			SellerAffinityMinAuctions:    3,
			SellerParticipationThreshold: 0.8,

			TimingEarlyThreshold:     0.25,
			TimingLateThreshold:      0.9,
			TimingMinEarlyBids:       5,
			TimingLateRatioThreshold: 0.2,
			TimingSample:             50,

			CollusiveCommonItems:     3,
			CollusiveSuspiciousPairs: 2,

			FailedPaymentWindow:       7 * 24 * time.Hour,
			FailedPaymentThreshold:    3,
			HighValuePaymentThreshold: decimal.NewFromInt(5_000_000),
			PaymentMethodsWindow:      24 * time.Hour,
			PaymentMethodsThreshold:   3,
		},
		Enrichment: EnrichmentConfig{
			Model:         "gpt-4",
			Timeout:       3 * time.Second,
			RatePerSecond: 2,
			Burst:         4,
		},
		Admission: AdmissionConfig{PendingBidTTL: 5 * time.Minute},
		Throttle: ThrottleConfig{
			MessageLimit:   10,
			MessageWindow:  60 * time.Second,
			PlaceBidLimit:  10,
			PlaceBidWindow: 60 * time.Second,
		},
		Cache:  CacheConfig{LocalCacheMB: 16},
		Events: EventsConfig{Stream: "BID_EVENTS", Workers: 16},
	}
}

// Load reads an optional YAML file, AUCTION_* environment variables and any bound
// command-line flags on top of Default, then validates the result.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("AUCTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("config: bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	r := &reader{v: v}
	cfg := read(r, Default())
	if r.err != nil {
		return Config{}, r.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// flagKeys maps configuration keys to the command-line flags main registers.
var flagKeys = map[string]string{
	"server.port":          "port",
	"server.log_level":     "log-level",
	"storage.postgres_dsn": "postgres-dsn",
	"cache.redis_addr":     "redis-addr",
	"events.nats_url":      "nats-url",
}

// Validate checks struct constraints plus the decimal thresholds the validator cannot see.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	positive := map[string]decimal.Decimal{
		"gate.min_increment_tolerance":       c.Gate.MinIncrementTolerance,
		"fraud.unusual_bid_multiplier":       c.Fraud.UnusualBidMultiplier,
		"fraud.high_value_bid_threshold":     c.Fraud.HighValueBidThreshold,
		"fraud.pattern_deviation_multiplier": c.Fraud.PatternDeviationMultiplier,
		"fraud.high_value_payment_threshold": c.Fraud.HighValuePaymentThreshold,
	}
	for key, d := range positive {
		if !d.IsPositive() {
			return fmt.Errorf("config: %s must be positive, got %s", key, d)
		}
	}
	return nil
}
