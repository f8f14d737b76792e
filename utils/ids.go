package utils

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// GenerateID returns a new random identifier for bids, cooldowns and payments.
func GenerateID() string {
	return uuid.New().String()
}

// NewSortableID returns a ULID; ids created later compare greater.
// Used for audit records (fraud alerts, transaction log) that are listed by creation.
func NewSortableID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
