// Package pending holds bids parked while their owner solves a challenge.
package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"bid-admission/internal/biddingerrors"
	model "bid-admission/internal/models"

	"github.com/coocood/freecache"
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -destination=mock_stash.go -package=pending bid-admission/internal/pending Stash

// Stash keeps at most one pending bid per (user, item)
type Stash interface {
	Put(ctx context.Context, bid model.PendingBid) error
	// Take removes and returns the pending bid, ErrPendingBidNotFound when there is none.
	Take(ctx context.Context, userID, itemID string) (model.PendingBid, error)
}

// entries outlive the verification window so a late resume can be told apart from a missing one
const retentionFactor = 2

func key(userID, itemID string) string {
	return fmt.Sprintf("pending:%s:%s", userID, itemID)
}

func decode(raw []byte) (model.PendingBid, error) {
	var p model.PendingBid
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.PendingBid{}, fmt.Errorf("pending: decode: %w", err)
	}
	return p, nil
}

// LocalStash keeps pending bids in process memory
type LocalStash struct {
	mu    sync.Mutex
	cache *freecache.Cache
	ttl   time.Duration
}

// NewLocalStash stores entries in cache for ttl times the retention factor.
func NewLocalStash(cache *freecache.Cache, ttl time.Duration) *LocalStash {
	return &LocalStash{cache: cache, ttl: ttl * retentionFactor}
}

func (s *LocalStash) Put(_ context.Context, bid model.PendingBid) error {
	raw, err := json.Marshal(bid)
	if err != nil {
		return fmt.Errorf("pending: encode: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cache.Set([]byte(key(bid.UserID, bid.ItemID)), raw, int(s.ttl.Seconds())); err != nil {
		return fmt.Errorf("pending: store: %w", err)
	}
	return nil
}

// Take holds the stash lock across the read and the delete so only one caller gets the bid.
func (s *LocalStash) Take(_ context.Context, userID, itemID string) (model.PendingBid, error) {
	k := []byte(key(userID, itemID))
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := s.cache.Get(k)
	if errors.Is(err, freecache.ErrNotFound) {
		return model.PendingBid{}, biddingerrors.ErrPendingBidNotFound
	}
	if err != nil {
		return model.PendingBid{}, fmt.Errorf("pending: load: %w", err)
	}
	s.cache.Del(k)
	return decode(raw)
}

// RedisStash shares pending bids between instances
type RedisStash struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStash(client redis.Cmdable, ttl time.Duration) *RedisStash {
	return &RedisStash{client: client, ttl: ttl * retentionFactor}
}

func (s *RedisStash) Put(ctx context.Context, bid model.PendingBid) error {
	raw, err := json.Marshal(bid)
	if err != nil {
		return fmt.Errorf("pending: encode: %w", err)
	}
	if err := s.client.Set(ctx, key(bid.UserID, bid.ItemID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("pending: store: %w", err)
	}
	return nil
}

// Take uses GETDEL so two concurrent resumes cannot both obtain the bid.
func (s *RedisStash) Take(ctx context.Context, userID, itemID string) (model.PendingBid, error) {
	raw, err := s.client.GetDel(ctx, key(userID, itemID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.PendingBid{}, biddingerrors.ErrPendingBidNotFound
	}
	if err != nil {
		return model.PendingBid{}, fmt.Errorf("pending: load: %w", err)
	}
	return decode(raw)
}

// Expired reports whether the pending bid is older than ttl at now.
func Expired(bid model.PendingBid, ttl time.Duration, now time.Time) bool {
	return now.Sub(bid.CreatedAt) > ttl
}
