package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Admission("admitted", 20*time.Millisecond)
	m.Admission("admitted", 10*time.Millisecond)
	m.GateAction("soft_challenge")
	m.FraudAlert("self_bidding", "critical")
	m.ThrottleFailOpen("place_bid")
	m.Event("bid_admitted", nil)
	m.Event("bid_admitted", errors.New("nats down"))
	m.Subscribers(2)
	m.Subscribers(-1)

	require.Equal(t, 2.0, testutil.ToFloat64(m.admissions.WithLabelValues("admitted")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.gateActions.WithLabelValues("soft_challenge")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.fraudAlerts.WithLabelValues("self_bidding", "critical")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.throttleFailOpen.WithLabelValues("place_bid")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("bid_admitted", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.subscribers))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.Admission("rejected", time.Second)
		m.GateAction("allow")
		m.FraudAlert("rapid_bidding", "high")
		m.Throttled("ws_message")
		m.Event("item_sold", nil)
		m.Subscribers(1)
	})
}

func TestMetrics_InstrumentAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := New(reg)

	r := gin.New()
	r.Use(m.Instrument())
	r.GET("/items/:item_id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(Handler(reg)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/abc", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.Contains(w.Body.String(), `http_requests_total{method="GET",path="/items/:item_id",status="200"} 1`))
}
