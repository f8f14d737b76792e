package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// reader pulls typed values out of viper, keeping the default when a key is unset.
type reader struct {
	v   *viper.Viper
	err error
}

func (r *reader) getString(key, def string) string {
	if !r.v.IsSet(key) {
		return def
	}
	return r.v.GetString(key)
}

func (r *reader) getInt(key string, def int) int {
	if !r.v.IsSet(key) {
		return def
	}
	return r.v.GetInt(key)
}

func (r *reader) getFloat(key string, def float64) float64 {
	if !r.v.IsSet(key) {
		return def
	}
	return r.v.GetFloat64(key)
}

func (r *reader) getDuration(key string, def time.Duration) time.Duration {
	if !r.v.IsSet(key) {
		return def
	}
	return r.v.GetDuration(key)
}

func (r *reader) getDecimal(key string, def decimal.Decimal) decimal.Decimal {
	if !r.v.IsSet(key) {
		return def
	}
	d, err := decimal.NewFromString(r.v.GetString(key))
	if err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("config: %s: %w", key, err)
		}
		return def
	}
	return d
}

func read(r *reader, d Config) Config {
	g, f := d.Gate, d.Fraud
	cfg := Config{
		Server: ServerConfig{
			Port:     r.getString("server.port", d.Server.Port),
			LogLevel: r.getString("server.log_level", d.Server.LogLevel),
		},
		Gate: GateConfig{
			SoftThreshold2Min:  r.getInt("gate.soft_threshold_2min", g.SoftThreshold2Min),
			SoftWindow2Min:     r.getDuration("gate.soft_window_2min", g.SoftWindow2Min),
			SoftThreshold5Min:  r.getInt("gate.soft_threshold_5min", g.SoftThreshold5Min),
			SoftWindow5Min:     r.getDuration("gate.soft_window_5min", g.SoftWindow5Min),
			HardThreshold5Min:  r.getInt("gate.hard_threshold_5min", g.HardThreshold5Min),
			HardWindow5Min:     r.getDuration("gate.hard_window_5min", g.HardWindow5Min),
			HardThreshold20Sec: r.getInt("gate.hard_threshold_20sec", g.HardThreshold20Sec),
			HardWindow20Sec:    r.getDuration("gate.hard_window_20sec", g.HardWindow20Sec),

			CooldownDuration:    r.getDuration("gate.cooldown_duration", g.CooldownDuration),
			SoftChallengeTTL:    r.getDuration("gate.soft_challenge_ttl", g.SoftChallengeTTL),
			EscalationWindow:    r.getDuration("gate.escalation_window", g.EscalationWindow),
			EscalationThreshold: r.getInt("gate.escalation_threshold", g.EscalationThreshold),
			MaxCaptchaFailures:  r.getInt("gate.max_captcha_failures", g.MaxCaptchaFailures),

			EndgameMultiplier: r.getFloat("gate.endgame_multiplier", g.EndgameMultiplier),
			EndgameWindow:     r.getDuration("gate.endgame_window", g.EndgameWindow),

			GlobalSoftWindow:   r.getDuration("gate.global_soft_window", g.GlobalSoftWindow),
			GlobalSoftBids:     r.getInt("gate.global_soft_bids", g.GlobalSoftBids),
			GlobalSoftAuctions: r.getInt("gate.global_soft_auctions", g.GlobalSoftAuctions),
			GlobalHardWindow:   r.getDuration("gate.global_hard_window", g.GlobalHardWindow),
			GlobalHardBids:     r.getInt("gate.global_hard_bids", g.GlobalHardBids),
			GlobalHardAuctions: r.getInt("gate.global_hard_auctions", g.GlobalHardAuctions),

			MinIncrementWindow:    r.getDuration("gate.min_increment_window", g.MinIncrementWindow),
			MinIncrementThreshold: r.getInt("gate.min_increment_threshold", g.MinIncrementThreshold),
			MinIncrementTolerance: r.getDecimal("gate.min_increment_tolerance", g.MinIncrementTolerance),
		},
		Fraud: FraudConfig{
			RapidBiddingWindow:    r.getDuration("fraud.rapid_bidding_window", f.RapidBiddingWindow),
			RapidBiddingThreshold: r.getInt("fraud.rapid_bidding_threshold", f.RapidBiddingThreshold),

			SnipingWindow:    r.getDuration("fraud.sniping_window", f.SnipingWindow),
			SnipingHistory:   r.getDuration("fraud.sniping_history", f.SnipingHistory),
			SnipingThreshold: r.getInt("fraud.sniping_threshold", f.SnipingThreshold),

			UnusualBidMultiplier: r.getDecimal("fraud.unusual_bid_multiplier", f.UnusualBidMultiplier),

			MinAccountAgeDays:     r.getInt("fraud.min_account_age_days", f.MinAccountAgeDays),
			HighValueBidThreshold: r.getDecimal("fraud.high_value_bid_threshold", f.HighValueBidThreshold),

			PatternMinHistory:          r.getInt("fraud.pattern_min_history", f.PatternMinHistory),
			PatternDeviationMultiplier: r.getDecimal("fraud.pattern_deviation_multiplier", f.PatternDeviationMultiplier),
			PatternSample:              r.getInt("fraud.pattern_sample", f.PatternSample),

			ShillMinTotalBids:      r.getInt("fraud.shill_min_total_bids", f.ShillMinTotalBids),
			ShillMinSellerBids:     r.getInt("fraud.shill_min_seller_bids", f.ShillMinSellerBids),
			ShillAffinityThreshold: r.getFloat("fraud.shill_affinity_threshold", f.ShillAffinityThreshold),

			LowWinRatioMinBids:   r.getInt("fraud.low_win_ratio_min_bids", f.LowWinRatioMinBids),
			LowWinRatioThreshold: r.getFloat("fraud.low_win_ratio_threshold", f.LowWinRatioThreshold),

			SellerAffinityMinAuctions:    r.getInt("fraud.seller_affinity_min_auctions", f.SellerAffinityMinAuctions),
			SellerParticipationThreshold: r.getFloat("fraud.seller_participation_threshold", f.SellerParticipationThreshold),

			TimingEarlyThreshold:     r.getFloat("fraud.timing_early_threshold", f.TimingEarlyThreshold),
			TimingLateThreshold:      r.getFloat("fraud.timing_late_threshold", f.TimingLateThreshold),
			TimingMinEarlyBids:       r.getInt("fraud.timing_min_early_bids", f.TimingMinEarlyBids),
			TimingLateRatioThreshold: r.getFloat("fraud.timing_late_ratio_threshold", f.TimingLateRatioThreshold),
			TimingSample:             r.getInt("fraud.timing_sample", f.TimingSample),

			CollusiveCommonItems:     r.getInt("fraud.collusive_common_items", f.CollusiveCommonItems),
			CollusiveSuspiciousPairs: r.getInt("fraud.collusive_suspicious_pairs", f.CollusiveSuspiciousPairs),

			FailedPaymentWindow:       r.getDuration("fraud.failed_payment_window", f.FailedPaymentWindow),
			FailedPaymentThreshold:    r.getInt("fraud.failed_payment_threshold", f.FailedPaymentThreshold),
			HighValuePaymentThreshold: r.getDecimal("fraud.high_value_payment_threshold", f.HighValuePaymentThreshold),
			PaymentMethodsWindow:      r.getDuration("fraud.payment_methods_window", f.PaymentMethodsWindow),
			PaymentMethodsThreshold:   r.getInt("fraud.payment_methods_threshold", f.PaymentMethodsThreshold),
		},
		Enrichment: EnrichmentConfig{
			Endpoint:      r.getString("enrichment.endpoint", d.Enrichment.Endpoint),
			APIKey:        r.getString("enrichment.api_key", d.Enrichment.APIKey),
			Model:         r.getString("enrichment.model", d.Enrichment.Model),
			Timeout:       r.getDuration("enrichment.timeout", d.Enrichment.Timeout),
			RatePerSecond: r.getFloat("enrichment.rate_per_second", d.Enrichment.RatePerSecond),
			Burst:         r.getInt("enrichment.burst", d.Enrichment.Burst),
		},
		Admission: AdmissionConfig{
			PendingBidTTL: r.getDuration("admission.pending_bid_ttl", d.Admission.PendingBidTTL),
		},
		Throttle: ThrottleConfig{
			MessageLimit:   r.getInt("throttle.message_limit", d.Throttle.MessageLimit),
			MessageWindow:  r.getDuration("throttle.message_window", d.Throttle.MessageWindow),
			PlaceBidLimit:  r.getInt("throttle.place_bid_limit", d.Throttle.PlaceBidLimit),
			PlaceBidWindow: r.getDuration("throttle.place_bid_window", d.Throttle.PlaceBidWindow),
		},
		Storage: StorageConfig{
			PostgresDSN: r.getString("storage.postgres_dsn", d.Storage.PostgresDSN),
		},
		Cache: CacheConfig{
			RedisAddr:     r.getString("cache.redis_addr", d.Cache.RedisAddr),
			RedisPassword: r.getString("cache.redis_password", d.Cache.RedisPassword),
			RedisDB:       r.getInt("cache.redis_db", d.Cache.RedisDB),
			LocalCacheMB:  r.getInt("cache.local_cache_mb", d.Cache.LocalCacheMB),
		},
		Events: EventsConfig{
			NATSURL: r.getString("events.nats_url", d.Events.NATSURL),
			Stream:  r.getString("events.stream", d.Events.Stream),
			Workers: r.getInt("events.workers", d.Events.Workers),
		},
	}
	return cfg
}
