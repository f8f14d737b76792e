package events

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"bid-admission/internal/metrics"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/viney-shih/goroutines"
)

type inline struct{}

func (inline) Schedule(task goroutines.TaskFunc) error {
	task()
	return nil
}

type full struct{}

func (full) Schedule(goroutines.TaskFunc) error { return errors.New("queue full") }

func sampleEvent() Event {
	return New(BidPlaced, "item1", "u1", decimal.NewFromInt(1500), time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
}

func TestMultiPublishesToAll(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a, b := NewMockPublisher(ctrl), NewMockPublisher(ctrl)
	e := sampleEvent()
	a.EXPECT().Publish(gomock.Any(), e).Return(errors.New("down"))
	b.EXPECT().Publish(gomock.Any(), e).Return(nil)

	err := Multi{a, b}.Publish(context.Background(), e)
	require.EqualError(t, err, "down")
}

func TestAsync(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pool       Scheduler
		publishErr error
		wantErr    bool
		wantResult string
	}{
		{name: "delivered", pool: inline{}, wantResult: "ok"},
		{name: "delivery failure is swallowed", pool: inline{}, publishErr: errors.New("nats down"), wantResult: "error"},
		{name: "queue full", pool: full{}, wantErr: true, wantResult: "error"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			reg := prometheus.NewRegistry()
			m := metrics.New(reg)
			next := NewMockPublisher(ctrl)
			if _, ok := tc.pool.(inline); ok {
				next.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(tc.publishErr)
			}

			err := NewAsync(next, tc.pool, time.Second, m).Publish(context.Background(), sampleEvent())
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, 1, testutil.CollectAndCount(reg, "bid_events_published_total"))
		})
	}
}

func TestAsyncOnWorkerPool(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pool := goroutines.NewPool(2)
	defer pool.Release()

	done := make(chan Event, 1)
	next := NewMockPublisher(ctrl)
	next.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e Event) error {
		done <- e
		return nil
	})

	e := sampleEvent()
	require.NoError(t, NewAsync(next, pool, time.Second, nil).Publish(context.Background(), e))
	select {
	case got := <-done:
		require.Equal(t, e.ID, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestStreamPublisher(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set")
	}
	nc, err := nats.Connect(url)
	require.NoError(t, err)
	defer nc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p, err := NewStreamPublisher(ctx, nc, "BID_EVENTS")
	require.NoError(t, err)
	require.NoError(t, p.Publish(ctx, sampleEvent()))
}

func TestSubject(t *testing.T) {
	t.Parallel()
	require.Equal(t, "bid.events.item1", Subject("item1"))
}
