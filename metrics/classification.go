package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// accuracyTol is the tolerance used when comparing float-encoded labels.
const accuracyTol = 1e-9

// Accuracy computes the exact-match rate between float-encoded labels.
// It is the validator's default scorer.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if math.Abs(yTrue.AtVec(i)-yPred.AtVec(i)) <= accuracyTol {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}
