package txlog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	model "bid-admission/internal/models"
	"bid-admission/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	t := time.Date(2025, 3, 1, 12, 0, 0, 123456789, time.UTC)
	return func() time.Time { return t }
}

func TestAppendChainsEntries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	l := NewLogger(repo, fixedClock())

	first, err := l.Append(ctx, model.TransactionLog{
		Type: model.TxBidCommitted, ItemID: "item1", UserID: "u1",
		Amount: decimal.NewFromInt(1500), Data: map[string]any{"bid_id": "b1"},
	})
	require.NoError(t, err)
	require.Empty(t, first.PreviousHash)
	require.Len(t, first.CurrentHash, 64)
	require.Equal(t, 123456000, first.Timestamp.Nanosecond())

	second, err := l.Append(ctx, model.TransactionLog{Type: model.TxBuyNowPurchase, ItemID: "item2", Amount: decimal.NewFromInt(9000)})
	require.NoError(t, err)
	require.Equal(t, first.CurrentHash, second.PreviousHash)

	require.NoError(t, l.VerifyStored(ctx))
}

func TestConcurrentAppendsKeepOneChain(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	l := NewLogger(repo, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Append(ctx, model.TransactionLog{Type: model.TxBidCommitted, Amount: decimal.NewFromInt(1)})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	entries, err := repo.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 20)
	require.NoError(t, Verify(entries))
}

func TestVerifyDetectsTampering(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	l := NewLogger(repo, fixedClock())
	for i := 0; i < 3; i++ {
		_, err := l.Append(ctx, model.TransactionLog{Type: model.TxBidCommitted, Amount: decimal.NewFromInt(int64(100 * (i + 1)))})
		require.NoError(t, err)
	}
	entries, err := repo.ListTransactions(ctx)
	require.NoError(t, err)

	tests := []struct {
		name       string
		tamper     func(e []model.TransactionLog)
		wantIndex  int
		wantReason string
	}{
		{
			name:       "amount edited",
			tamper:     func(e []model.TransactionLog) { e[1].Amount = decimal.NewFromInt(1) },
			wantIndex:  1,
			wantReason: "hash mismatch",
		},
		{
			name:       "entry removed",
			tamper:     func(e []model.TransactionLog) { copy(e[1:], e[2:]) },
			wantIndex:  1,
			wantReason: "previous hash does not match",
		},
		{
			name:       "data added",
			tamper:     func(e []model.TransactionLog) { e[0].Data = map[string]any{"note": "x"} },
			wantIndex:  0,
			wantReason: "hash mismatch",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cp := append([]model.TransactionLog(nil), entries...)
			tc.tamper(cp)

			err := Verify(cp)
			var chainErr *ChainError
			require.True(t, errors.As(err, &chainErr))
			require.Equal(t, tc.wantIndex, chainErr.Index)
			require.Equal(t, tc.wantReason, chainErr.Reason)
		})
	}
}

func TestPlatformFee(t *testing.T) {
	t.Parallel()
	require.True(t, decimal.RequireFromString("62.50").Equal(PlatformFee(decimal.NewFromInt(1250))))
}
