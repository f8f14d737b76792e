package fraud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"bid-admission/internal/config"
	model "bid-admission/internal/models"
	"bid-admission/internal/repository"
	"bid-admission/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

//go:generate mockgen -destination=mock_enricher.go -package=fraud bid-admission/internal/fraud Enricher

// Enricher asks an external assessor for a qualitative risk label
type Enricher interface {
	Assess(ctx context.Context, req AssessmentRequest) (Assessment, error)
}

// AssessmentRequest describes the bid and the alerts the local detectors raised
type AssessmentRequest struct {
	Username       string
	AccountAgeDays int
	ItemTitle      string
	Amount         decimal.Decimal
	CurrentPrice   decimal.Decimal
	Alerts         []model.FraudAlert
}

// Assessment is the parsed reply of the external assessor
type Assessment struct {
	Risk        model.Severity `json:"risk"`
	Confidence  int            `json:"confidence"`
	Explanation string         `json:"explanation"`
	Action      string         `json:"action"`
	Raw         string         `json:"raw"`
}

const systemPrompt = "You are a fraud detection expert analyzing auction platform activity."

// HTTPEnricher talks to an OpenAI-compatible chat completions endpoint
type HTTPEnricher struct {
	cfg     config.EnrichmentConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPEnricher returns nil when no endpoint is configured.
func NewHTTPEnricher(cfg config.EnrichmentConfig, client *http.Client) *HTTPEnricher {
	if cfg.Endpoint == "" {
		return nil
	}
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPEnricher{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Assess waits for the rate limiter, then posts the prompt bounded by the configured timeout.
func (h *HTTPEnricher) Assess(ctx context.Context, req AssessmentRequest) (Assessment, error) {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.Timeout)
	defer cancel()
	if err := h.limiter.Wait(ctx); err != nil {
		return Assessment{}, fmt.Errorf("enrich: rate limit: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: h.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(req)},
		},
		MaxTokens:   300,
		Temperature: 0.3,
	})
	if err != nil {
		return Assessment{}, fmt.Errorf("enrich: encode: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Assessment{}, fmt.Errorf("enrich: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if h.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.cfg.APIKey)
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return Assessment{}, fmt.Errorf("enrich: call: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Assessment{}, fmt.Errorf("enrich: unexpected status %d", resp.StatusCode)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Assessment{}, fmt.Errorf("enrich: decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return Assessment{}, fmt.Errorf("enrich: empty response")
	}
	return ParseAssessment(out.Choices[0].Message.Content), nil
}

func buildPrompt(req AssessmentRequest) string {
	var b strings.Builder
	b.WriteString("Analyze the following bidding activity for potential fraud:\n\n")
	fmt.Fprintf(&b, "User: %s\n", req.Username)
	fmt.Fprintf(&b, "Account Age: %d days\n", req.AccountAgeDays)
	fmt.Fprintf(&b, "Item: %s\n", req.ItemTitle)
	fmt.Fprintf(&b, "Bid Amount: UGX %s\n", req.Amount.StringFixed(0))
	fmt.Fprintf(&b, "Current Item Price: UGX %s\n\n", req.CurrentPrice.StringFixed(0))
	b.WriteString("Detected Alerts:\n")
	for _, a := range req.Alerts {
		fmt.Fprintf(&b, "%s: %s\n", a.Type, a.Description)
	}
	b.WriteString(`
Based on these patterns, provide:
1. Overall fraud risk level (Low/Medium/High/Critical)
2. Confidence score (0-100%)
3. Brief explanation
4. Recommended action

Respond in this exact format:
RISK: [level]
CONFIDENCE: [score]%
EXPLANATION: [brief explanation]
ACTION: [recommended action]
`)
	return b.String()
}

var assessmentLine = regexp.MustCompile(`(?mi)^\s*(RISK|CONFIDENCE|EXPLANATION|ACTION):\s*(.*?)\s*$`)

// ParseAssessment reads the RISK/CONFIDENCE/EXPLANATION/ACTION reply format.
// An unrecognised risk level reads as medium.
func ParseAssessment(raw string) Assessment {
	a := Assessment{Risk: model.SeverityMedium, Raw: raw}
	for _, m := range assessmentLine.FindAllStringSubmatch(raw, -1) {
		value := m[2]
		switch strings.ToUpper(m[1]) {
		case "RISK":
			if s := model.Severity(strings.ToLower(strings.Trim(value, "[]"))); s.Valid() {
				a.Risk = s
			}
		case "CONFIDENCE":
			if n, err := strconv.Atoi(strings.TrimSuffix(strings.Trim(value, "[]"), "%")); err == nil {
				a.Confidence = n
			}
		case "EXPLANATION":
			a.Explanation = value
		case "ACTION":
			a.Action = value
		}
	}
	return a
}

// Enrich asks the enricher about a bid's alerts and stores the label on each alert.
// Failures are logged and leave the alerts untouched; severity never changes.
func Enrich(ctx context.Context, en Enricher, db repository.AlertDB, req AssessmentRequest) {
	if en == nil || len(req.Alerts) == 0 {
		return
	}
	assessment, err := en.Assess(ctx, req)
	if err != nil {
		utils.Warn("Risk enrichment failed", map[string]any{"user": req.Username, "error": err.Error()})
		return
	}
	for _, a := range req.Alerts {
		if a.Data == nil {
			a.Data = map[string]any{}
		}
		a.Data["ai_risk_label"] = string(assessment.Risk)
		a.Data["ai_assessment"] = assessment.Raw
		if err := db.UpdateAlert(ctx, a); err != nil {
			utils.Warn("Failed to store risk label", map[string]any{"alertID": a.AlertID, "error": err.Error()})
		}
	}
	utils.Debug("Risk enrichment stored", map[string]any{"user": req.Username, "risk": assessment.Risk, "alerts": len(req.Alerts)})
}
