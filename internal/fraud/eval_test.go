package fraud

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfusion(t *testing.T) {
	t.Parallel()

	var c Confusion
	for _, r := range []struct{ predicted, actual bool }{
		{true, true}, {true, true}, {true, false}, {false, true}, {false, false}, {false, false},
	} {
		c.Record(r.predicted, r.actual)
	}

	require.Equal(t, Confusion{TP: 2, FP: 1, TN: 2, FN: 1}, c)
	require.InDelta(t, 2.0/3, c.Precision(), 1e-9)
	require.InDelta(t, 2.0/3, c.Recall(), 1e-9)
	require.InDelta(t, 2.0/3, c.F1(), 1e-9)
	require.InDelta(t, 4.0/6, c.Accuracy(), 1e-9)
}

func TestConfusionEmpty(t *testing.T) {
	t.Parallel()
	var c Confusion
	require.Zero(t, c.Precision())
	require.Zero(t, c.Recall())
	require.Zero(t, c.F1())
	require.Zero(t, c.Accuracy())
}
