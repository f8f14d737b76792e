package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"bid-admission/internal/config"
	"bid-admission/internal/fraud"
	model "bid-admission/internal/models"
	"bid-admission/internal/repository"

	"github.com/shopspring/decimal"
)

// Labels
const (
	LabelFraud      = "fraud"
	LabelLegitimate = "legitimate"
)

const (
	sellerID = "seller"
	bidderID = "bidder"
	itemID   = "item"
)

// Dataset is a labeled set of bidding scenarios
type Dataset struct {
	Samples []Scenario `json:"samples"`
}

// Scenario describes the state just before a candidate bid and whether that bid is fraud.
type Scenario struct {
	ID                   string          `json:"id"`
	Label                string          `json:"label"`
	FraudType            string          `json:"fraud_type,omitempty"`
	BidderAccountAgeDays int             `json:"bidder_account_age_days"`
	BidderIsSeller       bool            `json:"bidder_is_seller"`
	Item                 ScenarioItem    `json:"item"`
	PriorBids            []PriorBid      `json:"prior_bids"`
	BidAmount            decimal.Decimal `json:"bid_amount"`
}

type ScenarioItem struct {
	StartingPrice decimal.Decimal `json:"starting_price"`
	MinIncrement  decimal.Decimal `json:"min_increment"`
	EndsInSeconds int             `json:"ends_in_seconds"`
}

// PriorBid is a bid already on record. Bidder defaults to the scenario's bidder.
// With OtherItem set the bid was placed on a separate auction of the same seller that
// closed SecondsBeforeEnd after the bid.
type PriorBid struct {
	Bidder           string          `json:"bidder,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	SecondsAgo       int             `json:"seconds_ago"`
	OtherItem        bool            `json:"other_item,omitempty"`
	SecondsBeforeEnd int             `json:"seconds_before_end,omitempty"`
}

// Outcome is the verdict on one scenario
type Outcome struct {
	ID        string            `json:"id"`
	Label     string            `json:"label"`
	FraudType string            `json:"fraud_type,omitempty"`
	Predicted bool              `json:"predicted_fraud"`
	Alerts    []model.AlertType `json:"alerts"`
	Result    string            `json:"result"`
}

type Report struct {
	Confusion fraud.Confusion `json:"confusion_matrix"`
	Precision float64         `json:"precision"`
	Recall    float64         `json:"recall"`
	F1        float64         `json:"f1_score"`
	Accuracy  float64         `json:"accuracy"`
	Outcomes  []Outcome       `json:"outcomes"`
}

// LoadDataset reads a JSON dataset and checks every label.
func LoadDataset(path string) (Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("fraudeval: read dataset: %w", err)
	}
	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("fraudeval: decode dataset: %w", err)
	}
	for _, s := range ds.Samples {
		if s.Label != LabelFraud && s.Label != LabelLegitimate {
			return Dataset{}, fmt.Errorf("fraudeval: scenario %s: unknown label %q", s.ID, s.Label)
		}
	}
	return ds, nil
}

// Evaluate runs the bid detectors on every scenario, each against a fresh in-memory
// store, and predicts fraud whenever any alert is raised.
func Evaluate(ctx context.Context, cfg config.FraudConfig, now time.Time, ds Dataset) (Report, error) {
	var rep Report
	engine := fraud.NewEngine(cfg, func() time.Time { return now })
	for _, s := range ds.Samples {
		alerts, err := runScenario(ctx, engine, now, s)
		if err != nil {
			return Report{}, fmt.Errorf("fraudeval: scenario %s: %w", s.ID, err)
		}
		predicted := len(alerts) > 0
		actual := s.Label == LabelFraud
		rep.Confusion.Record(predicted, actual)

		types := make([]model.AlertType, 0, len(alerts))
		for _, a := range alerts {
			types = append(types, a.Type)
		}
		rep.Outcomes = append(rep.Outcomes, Outcome{
			ID:        s.ID,
			Label:     s.Label,
			FraudType: s.FraudType,
			Predicted: predicted,
			Alerts:    types,
			Result:    verdict(predicted, actual),
		})
	}
	rep.Precision = rep.Confusion.Precision()
	rep.Recall = rep.Confusion.Recall()
	rep.F1 = rep.Confusion.F1()
	rep.Accuracy = rep.Confusion.Accuracy()
	return rep, nil
}

func verdict(predicted, actual bool) string {
	switch {
	case predicted && actual:
		return "TP"
	case predicted:
		return "FP"
	case actual:
		return "FN"
	default:
		return "TN"
	}
}

func runScenario(ctx context.Context, engine *fraud.Engine, now time.Time, s Scenario) ([]model.FraudAlert, error) {
	repo := repository.NewMemoryRepo()
	repo.AddUser(model.User{UserID: sellerID, Username: sellerID, JoinedAt: now.AddDate(-1, 0, 0)})
	bidder := model.User{UserID: bidderID, Username: bidderID, JoinedAt: now.AddDate(0, 0, -s.BidderAccountAgeDays)}
	if s.BidderIsSeller {
		bidder, _ = repo.GetUser(ctx, sellerID)
	} else {
		repo.AddUser(bidder)
	}

	item := model.Item{
		ItemID:        itemID,
		SellerID:      sellerID,
		Title:         "Evaluation item",
		StartingPrice: s.Item.StartingPrice,
		CurrentPrice:  s.Item.StartingPrice,
		MinIncrement:  s.Item.MinIncrement,
		Status:        model.ItemActive,
		CreatedAt:     now.Add(-24 * time.Hour),
		EndTime:       now.Add(time.Duration(s.Item.EndsInSeconds) * time.Second),
	}
	repo.AddItem(item)

	for i, pb := range s.PriorBids {
		user := pb.Bidder
		if user == "" {
			user = bidder.UserID
		}
		at := now.Add(-time.Duration(pb.SecondsAgo) * time.Second)
		target := itemID
		if pb.OtherItem {
			target = fmt.Sprintf("history-%d", i)
			repo.AddItem(model.Item{
				ItemID:        target,
				SellerID:      sellerID,
				Title:         "Past auction",
				StartingPrice: pb.Amount,
				CurrentPrice:  pb.Amount,
				MinIncrement:  decimal.NewFromInt(1),
				Status:        model.ItemExpired,
				CreatedAt:     at.Add(-24 * time.Hour),
				EndTime:       at.Add(time.Duration(pb.SecondsBeforeEnd) * time.Second),
			})
		}
		err := repo.CreateBid(ctx, model.Bid{
			BidID:     fmt.Sprintf("prior-%d", i),
			ItemID:    target,
			UserID:    user,
			Amount:    pb.Amount,
			CreatedAt: at,
		})
		if err != nil {
			return nil, err
		}
	}

	candidate := model.Bid{
		BidID:       "candidate",
		ItemID:      itemID,
		UserID:      bidder.UserID,
		Amount:      s.BidAmount,
		PriceBefore: item.CurrentPrice,
		CreatedAt:   now,
	}
	if err := repo.CreateBid(ctx, candidate); err != nil {
		return nil, err
	}
	return engine.AnalyzeBid(ctx, repo, fraud.BidSubject{Bid: candidate, Item: item, Bidder: bidder}), nil
}

// PrintReport writes the confusion matrix and metrics in a human readable form.
func PrintReport(w io.Writer, rep Report) {
	c := rep.Confusion
	fmt.Fprintf(w, "Scenarios evaluated: %d\n\n", c.TP+c.FP+c.TN+c.FN)
	fmt.Fprintln(w, "Confusion matrix:")
	fmt.Fprintln(w, "                 Predicted")
	fmt.Fprintln(w, "                 Fraud   Legitimate")
	fmt.Fprintf(w, "Actual Fraud       %3d       %3d\n", c.TP, c.FN)
	fmt.Fprintf(w, "Actual Legit       %3d       %3d\n\n", c.FP, c.TN)
	fmt.Fprintf(w, "Precision: %.4f\n", rep.Precision)
	fmt.Fprintf(w, "Recall:    %.4f\n", rep.Recall)
	fmt.Fprintf(w, "F1-Score:  %.4f\n", rep.F1)
	fmt.Fprintf(w, "Accuracy:  %.4f\n", rep.Accuracy)

	for _, o := range rep.Outcomes {
		if o.Result == "FP" || o.Result == "FN" {
			fmt.Fprintf(w, "  %s %s (%s) alerts=%v\n", o.Result, o.ID, o.FraudType, o.Alerts)
		}
	}
}
