// Package metrics provides the scoring functions consumed by the fold
// validator. Every metric follows the same contract: (yTrue, yPred) mapped to
// a scalar, with a ValueError for empty input and a DimensionError for
// mismatched lengths.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gridwatts/energycv/pkg/errors"
)

// Scorer is the function signature the validator accepts for its two
// per-fold scores.
type Scorer func(yTrue, yPred *mat.VecDense) (float64, error)

func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// MSE computes the mean squared error.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE computes the root mean squared error.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2 computes the coefficient of determination. A constant yTrue has no
// variance to explain and yields a ValueError.
func R2(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("R2", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var mean float64
	for i := 0; i < n; i++ {
		mean += yTrue.AtVec(i)
	}
	mean /= float64(n)

	var ssRes, ssTot float64
	for i := 0; i < n; i++ {
		res := yTrue.AtVec(i) - yPred.AtVec(i)
		tot := yTrue.AtVec(i) - mean
		ssRes += res * res
		ssTot += tot * tot
	}
	if ssTot == 0 {
		return 0, errors.NewValueError("R2", "yTrue is constant; R2 is undefined")
	}
	return 1 - ssRes/ssTot, nil
}

// WMAPE computes the weighted mean absolute percentage error
// sum(|y - yhat|) / sum(|y|), the ranking metric of the energy task.
// All-zero yTrue yields a ValueError.
func WMAPE(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("WMAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var num, den float64
	for i := 0; i < n; i++ {
		num += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
		den += math.Abs(yTrue.AtVec(i))
	}
	if den == 0 {
		return 0, errors.NewValueError("WMAPE", "yTrue sums to zero; WMAPE is undefined")
	}
	return num / den, nil
}
