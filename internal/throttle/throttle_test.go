package throttle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bid-admission/internal/config"
	"bid-admission/internal/metrics"

	"github.com/coocood/freecache"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func testConfig() config.ThrottleConfig {
	return config.ThrottleConfig{
		MessageLimit:   3,
		MessageWindow:  time.Minute,
		PlaceBidLimit:  2,
		PlaceBidWindow: time.Minute,
	}
}

func TestLocalCounter(t *testing.T) {
	t.Parallel()
	c := NewLocalCounter(freecache.NewCache(1024 * 1024))
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := c.Incr(ctx, "k", time.Minute)
		require.NoError(t, err)
		require.Equal(t, want, n)
	}
	n, err := c.Incr(ctx, "other", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestLimiterAllow(t *testing.T) {
	t.Parallel()
	l := NewLimiter(testConfig(), NewLocalCounter(freecache.NewCache(1024*1024)), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow(ctx, RuleMessage, "u1"))
	}
	require.False(t, l.Allow(ctx, RuleMessage, "u1"), "fourth message in the window")
	require.True(t, l.Allow(ctx, RuleMessage, "u2"), "limits are per user")
	require.True(t, l.Allow(ctx, RulePlaceBid, "u1"), "limits are per rule")
	require.True(t, l.Allow(ctx, "unknown", "u1"))
}

func TestLimiterFailsOpen(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	counter := NewMockCounter(ctrl)
	counter.EXPECT().Incr(gomock.Any(), "throttle:ws_message:u1", time.Minute).Return(int64(0), errors.New("connection refused")).Times(5)

	l := NewLimiter(testConfig(), counter, m)
	for i := 0; i < 5; i++ {
		require.True(t, l.Allow(context.Background(), RuleMessage, "u1"))
	}

	families, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, f := range families {
		if f.GetName() == "throttle_fail_open_total" {
			found = true
			require.Equal(t, float64(5), f.GetMetric()[0].GetCounter().GetValue())
		}
	}
	require.True(t, found)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	l := NewLimiter(testConfig(), NewLocalCounter(freecache.NewCache(1024*1024)), nil)
	r := gin.New()
	r.POST("/bids", l.Middleware(RulePlaceBid), func(c *gin.Context) { c.Status(http.StatusCreated) })

	send := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/bids", nil)
		req.Header.Set(UserHeader, user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusCreated, send("u1"))
	require.Equal(t, http.StatusCreated, send("u1"))
	require.Equal(t, http.StatusTooManyRequests, send("u1"))
	require.Equal(t, http.StatusCreated, send("u2"))
}
