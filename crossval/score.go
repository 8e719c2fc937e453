package crossval

import (
	"github.com/gridwatts/energycv/pkg/log"
)

// SegmentWeights holds the per-segment row counts and multipliers used to
// combine the three weight-class scores into the leaderboard score. The row
// counts describe a specific test set; they are configuration, never derived
// from the inputs.
type SegmentWeights struct {
	RowsW1  int
	RowsW5  int
	RowsW10 int
	MultW1  float64
	MultW5  float64
	MultW10 float64
}

// DefaultSegmentWeights carries the energy task's known test-set row counts
// and objective multipliers.
var DefaultSegmentWeights = SegmentWeights{
	RowsW1:  23189,
	RowsW5:  1608,
	RowsW10: 1342,
	MultW1:  1,
	MultW5:  5,
	MultW10: 5,
}

// FinalScore returns the weighted average of the three segment scores, each
// weighted by rows×multiplier. Equal inputs are returned unchanged.
func (sw SegmentWeights) FinalScore(scoreW1, scoreW5, scoreW10 float64) float64 {
	weightW1 := float64(sw.RowsW1) * sw.MultW1
	weightW5 := float64(sw.RowsW5) * sw.MultW5
	weightW10 := float64(sw.RowsW10) * sw.MultW10

	final := (scoreW1*weightW1 + scoreW5*weightW5 + scoreW10*weightW10) /
		(weightW1 + weightW5 + weightW10)

	log.GetLoggerWithName("crossval.score").Debug("final score",
		"weight_w1", weightW1,
		"weight_w5", weightW5,
		"weight_w10", weightW10,
		"score_w1", scoreW1,
		"score_w5", scoreW5,
		"score_w10", scoreW10,
		"final_score", final)

	return final
}

// FinalScore combines the three segment scores using DefaultSegmentWeights.
func FinalScore(scoreW1, scoreW5, scoreW10 float64) float64 {
	return DefaultSegmentWeights.FinalScore(scoreW1, scoreW5, scoreW10)
}
