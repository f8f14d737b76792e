// Package txlog appends hash-chained entries to the transaction log.
package txlog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	model "bid-admission/internal/models"
	"bid-admission/internal/repository"
	"bid-admission/utils"

	"github.com/shopspring/decimal"
)

// PlatformFeeRate is the share of a purchase kept by the marketplace
var PlatformFeeRate = decimal.RequireFromString("0.05")

// Logger appends entries one at a time so each links to its predecessor
type Logger struct {
	mu  sync.Mutex
	db  repository.TxLogDB
	now func() time.Time
}

func NewLogger(db repository.TxLogDB, now func() time.Time) *Logger {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Logger{db: db, now: now}
}

// Append stamps entry with an id, timestamp and hashes and stores it.
// Timestamps are kept at microsecond precision so hashes survive a database round trip.
func (l *Logger) Append(ctx context.Context, entry model.TransactionLog) (model.TransactionLog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	last, ok, err := l.db.LastTransaction(ctx)
	if err != nil {
		return model.TransactionLog{}, fmt.Errorf("txlog: read chain head: %w", err)
	}
	entry.ID = utils.GenerateID()
	if entry.TransactionID == "" {
		entry.TransactionID = utils.GenerateID()
	}
	entry.Timestamp = l.now().UTC().Truncate(time.Microsecond)
	if entry.Data == nil {
		entry.Data = map[string]any{}
	}
	if ok {
		entry.PreviousHash = last.CurrentHash
	}
	if entry.CurrentHash, err = Hash(entry); err != nil {
		return model.TransactionLog{}, err
	}
	if err := l.db.AppendTransaction(ctx, entry); err != nil {
		return model.TransactionLog{}, fmt.Errorf("txlog: append %s: %w", entry.Type, err)
	}
	utils.Debug("Transaction logged", map[string]any{"type": entry.Type, "id": entry.ID, "hash": entry.CurrentHash})
	return entry, nil
}

// Hash computes the entry's hash from its id, transaction id, timestamp, amount,
// previous hash and its data encoded as JSON with sorted keys.
func Hash(e model.TransactionLog) (string, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return "", fmt.Errorf("txlog: encode data: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(e.ID))
	h.Write([]byte(e.TransactionID))
	h.Write([]byte(e.Timestamp.UTC().Format(time.RFC3339Nano)))
	h.Write([]byte(e.Amount.String()))
	h.Write([]byte(e.PreviousHash))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ChainError points at the first entry that does not verify
type ChainError struct {
	Index  int
	ID     string
	Reason string
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("txlog: entry %d (%s): %s", e.Index, e.ID, e.Reason)
}

// Verify recomputes every hash and link, oldest entry first.
func Verify(entries []model.TransactionLog) error {
	prev := ""
	for i, e := range entries {
		if e.PreviousHash != prev {
			return &ChainError{Index: i, ID: e.ID, Reason: "previous hash does not match"}
		}
		h, err := Hash(e)
		if err != nil {
			return err
		}
		if h != e.CurrentHash {
			return &ChainError{Index: i, ID: e.ID, Reason: "hash mismatch"}
		}
		prev = e.CurrentHash
	}
	return nil
}

// VerifyStored loads the whole log and verifies it.
func (l *Logger) VerifyStored(ctx context.Context) error {
	entries, err := l.db.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("txlog: list: %w", err)
	}
	return Verify(entries)
}

// PlatformFee is the marketplace's cut of amount, rounded to cents.
func PlatformFee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(PlatformFeeRate).Round(2)
}
