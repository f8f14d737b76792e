package fraud

// Confusion is a binary confusion matrix of fraud predictions
type Confusion struct {
	TP int `json:"true_positives"`
	FP int `json:"false_positives"`
	TN int `json:"true_negatives"`
	FN int `json:"false_negatives"`
}

// Record adds one prediction against its label.
func (c *Confusion) Record(predictedFraud, actualFraud bool) {
	switch {
	case predictedFraud && actualFraud:
		c.TP++
	case predictedFraud:
		c.FP++
	case actualFraud:
		c.FN++
	default:
		c.TN++
	}
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func (c Confusion) Precision() float64 { return ratio(c.TP, c.TP+c.FP) }

func (c Confusion) Recall() float64 { return ratio(c.TP, c.TP+c.FN) }

func (c Confusion) Accuracy() float64 { return ratio(c.TP+c.TN, c.TP+c.TN+c.FP+c.FN) }

// F1 is the harmonic mean of precision and recall, 0 when both are 0.
func (c Confusion) F1() float64 {
	p, r := c.Precision(), c.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}
