// Package linear provides the L2-regularized linear model used as the
// default per-fold estimator in the energy validation harness.
package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/gridwatts/energycv/core/model"
	"github.com/gridwatts/energycv/core/parallel"
	"github.com/gridwatts/energycv/pkg/errors"
)

// Ridge is a linear regression model with an L2 penalty on the coefficients,
// fitted by the regularized normal equations (X^T*X + alpha*I)^(-1) * X^T*y.
// The intercept, when fitted, is not penalized.
type Ridge struct {
	model.BaseEstimator

	// Hyperparameters
	Alpha        float64 // L2 regularization strength
	FitIntercept bool    // Whether to fit an unpenalized intercept term

	// Fitted state
	Coef      *mat.VecDense // Coefficients, one per feature
	Intercept float64       // Intercept term (0 when FitIntercept is false)

	nFeatures int
}

// NewRidge creates a Ridge model with alpha=1.0 and a fitted intercept.
func NewRidge(opts ...Option) *Ridge {
	r := &Ridge{
		Alpha:        1.0,
		FitIntercept: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RidgeFromParams creates a Ridge model from a "ridge" parameter group.
// Recognized keys: "alpha" (float, default 1.0) and "fit_intercept"
// (bool, default true).
func RidgeFromParams(g model.ParamGroup) (*Ridge, error) {
	alpha := g.Float("alpha", 1.0)
	if alpha < 0 {
		return nil, errors.NewValidationError("alpha", "must be non-negative", alpha)
	}
	return NewRidge(
		WithAlpha(alpha),
		WithFitIntercept(g.Bool("fit_intercept", true)),
	), nil
}

// parallelThreshold is the row count below which design-matrix assembly runs
// sequentially.
const parallelThreshold = 1000

// Fit trains the model on X and the column vector y.
func (r *Ridge) Fit(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	ry, cy := y.Dims()

	if rows == 0 || cols == 0 {
		return errors.NewModelError("Ridge.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != rows {
		return errors.NewDimensionError("Ridge.Fit", rows, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("Ridge.Fit", "y must be a column vector")
	}

	r.nFeatures = cols

	// Assemble the design matrix, prepending a column of ones when an
	// intercept is fitted.
	nCoef := cols
	offset := 0
	if r.FitIntercept {
		nCoef = cols + 1
		offset = 1
	}
	design := mat.NewDense(rows, nCoef, nil)
	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if r.FitIntercept {
				design.Set(i, 0, 1.0)
			}
			for j := 0; j < cols; j++ {
				design.Set(i, j+offset, X.At(i, j))
			}
		}
	})

	var xt mat.Dense
	xt.CloneFrom(design.T())

	var xtx mat.Dense
	xtx.Mul(&xt, design)

	// Add the L2 penalty to the diagonal, skipping the intercept entry.
	for j := offset; j < nCoef; j++ {
		xtx.Set(j, j, xtx.At(j, j)+r.Alpha)
	}

	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return errors.NewModelError("Ridge.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	yVec := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var xty mat.VecDense
	xty.MulVec(&xt, yVec)

	solution := mat.NewVecDense(nCoef, nil)
	solution.MulVec(&inv, &xty)

	if r.FitIntercept {
		r.Intercept = solution.AtVec(0)
	} else {
		r.Intercept = 0
	}
	r.Coef = mat.NewVecDense(cols, nil)
	for j := 0; j < cols; j++ {
		r.Coef.SetVec(j, solution.AtVec(j+offset))
	}

	r.SetFitted()
	return nil
}

// Predict returns predictions for X as an n×1 matrix.
func (r *Ridge) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError("Ridge", "Predict")
	}

	rows, cols := X.Dims()
	if cols != r.nFeatures {
		return nil, errors.NewDimensionError("Ridge.Predict", r.nFeatures, cols, 1)
	}

	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		pred := r.Intercept
		for j := 0; j < cols; j++ {
			pred += X.At(i, j) * r.Coef.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}
	return predictions, nil
}

// Weights returns a copy of the fitted coefficients, or nil before Fit.
func (r *Ridge) Weights() []float64 {
	if r.Coef == nil {
		return nil
	}
	weights := make([]float64, r.Coef.Len())
	for i := range weights {
		weights[i] = r.Coef.AtVec(i)
	}
	return weights
}
