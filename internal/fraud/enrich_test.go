package fraud

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bid-admission/internal/config"
	model "bid-admission/internal/models"
	"bid-admission/internal/repository"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseAssessment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Assessment
	}{
		{
			name: "full reply",
			raw:  "RISK: High\nCONFIDENCE: 85%\nEXPLANATION: Bot-like cadence.\nACTION: Suspend bidding",
			want: Assessment{Risk: model.SeverityHigh, Confidence: 85, Explanation: "Bot-like cadence.", Action: "Suspend bidding"},
		},
		{
			name: "indented and lower case",
			raw:  "  risk: critical\n  confidence: 90%",
			want: Assessment{Risk: model.SeverityCritical, Confidence: 90},
		},
		{
			name: "unknown level reads as medium",
			raw:  "RISK: Unclear\nCONFIDENCE: n/a",
			want: Assessment{Risk: model.SeverityMedium},
		},
		{
			name: "free text",
			raw:  "I cannot tell.",
			want: Assessment{Risk: model.SeverityMedium},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ParseAssessment(tc.raw)
			tc.want.Raw = tc.raw
			require.Equal(t, tc.want, got)
		})
	}
}

func seedAlerts(t *testing.T, repo *repository.MemoryRepo) []model.FraudAlert {
	t.Helper()
	alerts := []model.FraudAlert{
		{AlertID: "a1", UserID: "bidder", Type: model.AlertRapidBidding, Severity: model.SeverityHigh, Data: map[string]any{"bid_count": 10}},
		{AlertID: "a2", UserID: "bidder", Type: model.AlertUnusualBidAmount, Severity: model.SeverityMedium},
	}
	require.NoError(t, repo.CreateAlerts(context.Background(), alerts))
	return alerts
}

func TestEnrich(t *testing.T) {
	t.Parallel()

	t.Run("labels every alert without touching severity", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := repository.NewMemoryRepo()
		alerts := seedAlerts(t, repo)
		enricher := NewMockEnricher(ctrl)
		enricher.EXPECT().Assess(gomock.Any(), gomock.Any()).Return(Assessment{Risk: model.SeverityCritical, Raw: "RISK: Critical"}, nil)

		Enrich(context.Background(), enricher, repo, AssessmentRequest{Username: "bidder", Alerts: alerts})

		for _, id := range []string{"a1", "a2"} {
			a, err := repo.GetAlert(context.Background(), id)
			require.NoError(t, err)
			require.Equal(t, "critical", a.Data["ai_risk_label"])
			require.Equal(t, "RISK: Critical", a.Data["ai_assessment"])
		}
		a1, _ := repo.GetAlert(context.Background(), "a1")
		require.Equal(t, model.SeverityHigh, a1.Severity)
		require.Equal(t, 10, a1.Data["bid_count"])
	})

	t.Run("failure leaves alerts as they were", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := repository.NewMemoryRepo()
		alerts := seedAlerts(t, repo)
		enricher := NewMockEnricher(ctrl)
		enricher.EXPECT().Assess(gomock.Any(), gomock.Any()).Return(Assessment{}, errors.New("timeout"))

		Enrich(context.Background(), enricher, repo, AssessmentRequest{Alerts: alerts})

		a2, err := repo.GetAlert(context.Background(), "a2")
		require.NoError(t, err)
		require.NotContains(t, a2.Data, "ai_risk_label")
	})

	t.Run("no alerts means no call", func(t *testing.T) {
		t.Parallel()
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		enricher := NewMockEnricher(ctrl)
		Enrich(context.Background(), enricher, repository.NewMemoryRepo(), AssessmentRequest{})
		Enrich(context.Background(), nil, repository.NewMemoryRepo(), AssessmentRequest{Alerts: []model.FraudAlert{{AlertID: "x"}}})
	})
}

func TestHTTPEnricher(t *testing.T) {
	t.Parallel()

	require.Nil(t, NewHTTPEnricher(config.EnrichmentConfig{}, nil))

	t.Run("posts the prompt and parses the reply", func(t *testing.T) {
		t.Parallel()
		var got chatRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"RISK: Low\nCONFIDENCE: 40%"}}]}`))
		}))
		defer srv.Close()

		en := NewHTTPEnricher(config.EnrichmentConfig{
			Endpoint: srv.URL, APIKey: "secret", Model: "gpt-4",
			Timeout: time.Second, RatePerSecond: 10, Burst: 1,
		}, srv.Client())

		a, err := en.Assess(context.Background(), AssessmentRequest{
			Username:     "bidder",
			ItemTitle:    "Camera",
			Amount:       decimal.NewFromInt(250000),
			CurrentPrice: decimal.NewFromInt(50000),
			Alerts:       []model.FraudAlert{{Type: model.AlertUnusualBidAmount, Description: "Bid amount is high."}},
		})
		require.NoError(t, err)
		require.Equal(t, model.SeverityLow, a.Risk)
		require.Equal(t, 40, a.Confidence)

		require.Equal(t, "gpt-4", got.Model)
		require.Len(t, got.Messages, 2)
		require.Equal(t, systemPrompt, got.Messages[0].Content)
		require.True(t, strings.Contains(got.Messages[1].Content, "Bid Amount: UGX 250000"))
		require.True(t, strings.Contains(got.Messages[1].Content, "unusual_bid_amount: Bid amount is high."))
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		en := NewHTTPEnricher(config.EnrichmentConfig{
			Endpoint: srv.URL, Timeout: time.Second, RatePerSecond: 10, Burst: 1,
		}, srv.Client())
		_, err := en.Assess(context.Background(), AssessmentRequest{})
		require.Error(t, err)
	})
}
