// Package throttle limits how many messages a user may send per window.
package throttle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"bid-admission/internal/config"
	"bid-admission/internal/metrics"
	"bid-admission/utils"

	"github.com/coocood/freecache"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Rule names
const (
	RuleMessage  = "ws_message"
	RulePlaceBid = "place_bid"
)

// ExceededMessage is shown to clients over their limit.
const ExceededMessage = "Rate limit exceeded. Please slow down."

//go:generate mockgen -destination=mock_counter.go -package=throttle bid-admission/internal/throttle Counter

// Counter increments a windowed counter and returns the new value.
// The window starts with the first increment.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// LocalCounter counts in process memory
type LocalCounter struct {
	mu    sync.Mutex
	cache *freecache.Cache
}

func NewLocalCounter(cache *freecache.Cache) *LocalCounter {
	return &LocalCounter{cache: cache}
}

// Incr keeps the remaining TTL of an existing counter.
func (l *LocalCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := []byte(key)
	n := int64(0)
	ttl := int(window.Seconds())
	val, exp, err := l.cache.GetWithExpiration(k)
	switch {
	case errors.Is(err, freecache.ErrNotFound):
	case err != nil:
		return 0, fmt.Errorf("throttle: get %s: %w", key, err)
	default:
		if n, err = strconv.ParseInt(string(val), 10, 64); err != nil {
			return 0, fmt.Errorf("throttle: parse %s: %w", key, err)
		}
		// exp is an absolute unix timestamp
		if remaining := int(int64(exp) - time.Now().Unix()); remaining > 0 {
			ttl = remaining
		}
	}
	n++
	if err := l.cache.Set(k, []byte(strconv.FormatInt(n, 10)), ttl); err != nil {
		return 0, fmt.Errorf("throttle: set %s: %w", key, err)
	}
	return n, nil
}

// RedisCounter counts in a shared Redis
type RedisCounter struct {
	client redis.Cmdable
}

func NewRedisCounter(client redis.Cmdable) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("throttle: incr %s: %w", key, err)
	}
	return incr.Val(), nil
}

type limit struct {
	max    int64
	window time.Duration
}

// Limiter applies the configured per-rule limits. Counter failures allow the message.
type Limiter struct {
	counter Counter
	rules   map[string]limit
	metrics *metrics.Metrics
}

func NewLimiter(cfg config.ThrottleConfig, counter Counter, m *metrics.Metrics) *Limiter {
	return &Limiter{
		counter: counter,
		rules: map[string]limit{
			RuleMessage:  {max: int64(cfg.MessageLimit), window: cfg.MessageWindow},
			RulePlaceBid: {max: int64(cfg.PlaceBidLimit), window: cfg.PlaceBidWindow},
		},
		metrics: m,
	}
}

// Allow counts one message for userID under rule and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, rule, userID string) bool {
	lim, ok := l.rules[rule]
	if !ok {
		return true
	}
	n, err := l.counter.Incr(ctx, fmt.Sprintf("throttle:%s:%s", rule, userID), lim.window)
	if err != nil {
		l.metrics.ThrottleFailOpen(rule)
		utils.Warn("Throttle counter unavailable, allowing message", map[string]any{
			"rule": rule, "userID": userID, "error": err.Error(),
		})
		return true
	}
	if n > lim.max {
		l.metrics.Throttled(rule)
		utils.Warn("Rate limit exceeded", map[string]any{"rule": rule, "userID": userID, "count": n})
		return false
	}
	return true
}

// UserHeader carries the caller's identity to the throttle middleware.
const UserHeader = "X-User-ID"

// Middleware limits requests per caller, identified by UserHeader or the client IP.
func (l *Limiter) Middleware(rule string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(UserHeader)
		if id == "" {
			id = c.ClientIP()
		}
		if !l.Allow(c.Request.Context(), rule, id) {
			utils.JSONAbort(c, http.StatusTooManyRequests, errors.New(ExceededMessage), ExceededMessage)
			return
		}
		c.Next()
	}
}
