package crossval

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/gridwatts/energycv/core/model"
	"github.com/gridwatts/energycv/dataset"
	"github.com/gridwatts/energycv/metrics"
	"github.com/gridwatts/energycv/pkg/errors"
	"github.com/gridwatts/energycv/pkg/log"
)

// Defaults for the fold validator.
const (
	DefaultNSplits = 10
	DefaultSeed    = 7
)

// ModelConstructor builds one fresh model per fold from the two stored
// parameter groups.
type ModelConstructor func(ridge, xgb model.ParamGroup) (model.Model, error)

// FoldScore is the pair of scores computed on one fold's test slice.
type FoldScore struct {
	Primary   float64
	Secondary float64
}

// KFoldValidator orchestrates k-fold cross-validation: it splits the data,
// trains one model per fold, records a score pair per fold, and retains the
// fitted models for ensemble-averaged prediction.
//
// A validator is not safe for concurrent use; distinct instances are
// independent.
type KFoldValidator struct {
	construct ModelConstructor
	params    model.Params
	nSplits   int
	seed      int64
	splitter  Splitter
	primary   metrics.Scorer
	secondary metrics.Scorer
	logger    log.Logger

	models     []model.Model
	foldScores []FoldScore
}

// Option is a function that configures KFoldValidator.
type Option func(*KFoldValidator)

// WithNSplits sets the number of folds.
func WithNSplits(n int) Option {
	return func(v *KFoldValidator) {
		v.nSplits = n
	}
}

// WithSeed sets the random seed driving fold assignment.
func WithSeed(seed int64) Option {
	return func(v *KFoldValidator) {
		v.seed = seed
	}
}

// WithSplitter replaces the default shuffled k-fold splitting strategy.
func WithSplitter(s Splitter) Option {
	return func(v *KFoldValidator) {
		v.splitter = s
	}
}

// WithScorers sets the two per-fold scoring functions.
func WithScorers(primary, secondary metrics.Scorer) Option {
	return func(v *KFoldValidator) {
		v.primary = primary
		v.secondary = secondary
	}
}

// WithLogger replaces the validator's logger.
func WithLogger(logger log.Logger) Option {
	return func(v *KFoldValidator) {
		v.logger = logger
	}
}

// NewKFoldValidator creates a validator. params must contain the groups
// "ridge" and "xgb"; their absence is reported here rather than at the first
// fold. Defaults: 10 shuffled folds, seed 7, Accuracy for both scores.
func NewKFoldValidator(construct ModelConstructor, params model.Params, opts ...Option) (*KFoldValidator, error) {
	if construct == nil {
		return nil, errors.NewValueError("NewKFoldValidator", "model constructor is nil")
	}
	if _, err := params.Group(model.GroupRidge); err != nil {
		return nil, err
	}
	if _, err := params.Group(model.GroupXGB); err != nil {
		return nil, err
	}

	v := &KFoldValidator{
		construct: construct,
		params:    params,
		nSplits:   DefaultNSplits,
		seed:      DefaultSeed,
		primary:   metrics.Accuracy,
		secondary: metrics.Accuracy,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.nSplits < 2 {
		return nil, errors.NewValidationError("n_splits", "must be at least 2", v.nSplits)
	}
	if v.splitter == nil {
		v.splitter = NewKFold(v.nSplits, true, v.seed)
	}
	if v.logger == nil {
		v.logger = log.GetLoggerWithName("crossval.validator")
	}
	return v, nil
}

// Validate runs the full k-fold loop over X and y and returns the mean of
// each score column. yDivide, when non-nil, drives stratified splitting and
// is not otherwise consumed. Each call starts a fresh ensemble.
//
// Any failure in splitting, slicing, construction, fitting, prediction, or
// scoring aborts the run immediately, wrapped with the fold number.
func (v *KFoldValidator) Validate(X, y mat.Matrix, yDivide []float64) (float64, float64, error) {
	nSamples, _ := X.Dims()
	yRows, yCols := y.Dims()
	if yRows != nSamples {
		return 0, 0, errors.NewDimensionError("KFoldValidator.Validate", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return 0, 0, errors.NewValueError("KFoldValidator.Validate", "y must be a column vector")
	}

	ridgeParams, err := v.params.Group(model.GroupRidge)
	if err != nil {
		return 0, 0, err
	}
	xgbParams, err := v.params.Group(model.GroupXGB)
	if err != nil {
		return 0, 0, err
	}

	folds, err := v.splitter.Split(nSamples, yDivide)
	if err != nil {
		return 0, 0, err
	}

	v.models = nil
	v.foldScores = nil

	for i, fold := range folds {
		start := time.Now()

		XTrain := dataset.SliceMatrix(X, fold.TrainIndices)
		XTest := dataset.SliceMatrix(X, fold.TestIndices)
		yTrain := dataset.SliceVector(y, fold.TrainIndices)
		yTest := dataset.SliceVector(y, fold.TestIndices)

		mdl, err := v.construct(ridgeParams, xgbParams)
		if err != nil {
			return 0, 0, errors.Wrapf(err, "fold %d: constructing model", i)
		}
		if err := mdl.Fit(XTrain, yTrain); err != nil {
			return 0, 0, errors.Wrapf(err, "fold %d: fitting", i)
		}
		pred, err := mdl.Predict(XTest)
		if err != nil {
			return 0, 0, errors.Wrapf(err, "fold %d: predicting", i)
		}
		yPred, err := columnVector(pred)
		if err != nil {
			return 0, 0, errors.Wrapf(err, "fold %d: predicting", i)
		}

		primary, err := v.primary(yTest, yPred)
		if err != nil {
			return 0, 0, errors.Wrapf(err, "fold %d: primary score", i)
		}
		secondary, err := v.secondary(yTest, yPred)
		if err != nil {
			return 0, 0, errors.Wrapf(err, "fold %d: secondary score", i)
		}

		v.models = append(v.models, mdl)
		v.foldScores = append(v.foldScores, FoldScore{Primary: primary, Secondary: secondary})

		v.logger.Info("fold finished",
			"fold", i,
			"primary", primary,
			"secondary", secondary,
			"elapsed_seconds", time.Since(start).Seconds())
	}

	var meanPrimary, meanSecondary float64
	for _, fs := range v.foldScores {
		meanPrimary += fs.Primary
		meanSecondary += fs.Secondary
	}
	meanPrimary /= float64(len(v.foldScores))
	meanSecondary /= float64(len(v.foldScores))

	v.logger.Info("validation finished",
		"n_splits", v.nSplits,
		"fold_scores", v.foldScores,
		"mean_primary", meanPrimary,
		"mean_secondary", meanSecondary)

	return meanPrimary, meanSecondary, nil
}

// PredictAvg predicts X with every fold-trained model and returns the
// elementwise mean. It requires a complete ensemble: calling it before
// Validate fails with a NotFittedError, and a partially retained ensemble
// (which would silently mis-scale the average) fails with a DimensionError.
func (v *KFoldValidator) PredictAvg(X mat.Matrix) (*mat.VecDense, error) {
	if len(v.models) == 0 {
		return nil, errors.NewNotFittedError("KFoldValidator", "PredictAvg")
	}
	if len(v.models) != v.nSplits {
		return nil, errors.NewDimensionError("KFoldValidator.PredictAvg", v.nSplits, len(v.models), 0)
	}

	rows, _ := X.Dims()
	sum := mat.NewVecDense(rows, nil)
	for i, mdl := range v.models {
		if mdl == nil {
			return nil, errors.NewValidationError("ensemble",
				"model was not initialized correctly", i)
		}
		pred, err := mdl.Predict(X)
		if err != nil {
			return nil, errors.Wrapf(err, "ensemble model %d", i)
		}
		yPred, err := columnVector(pred)
		if err != nil {
			return nil, errors.Wrapf(err, "ensemble model %d", i)
		}
		if yPred.Len() != rows {
			return nil, errors.NewDimensionError("KFoldValidator.PredictAvg", rows, yPred.Len(), 0)
		}
		sum.AddVec(sum, yPred)
	}
	sum.ScaleVec(1/float64(v.nSplits), sum)
	return sum, nil
}

// FoldScores returns the per-fold score pairs of the last Validate call.
func (v *KFoldValidator) FoldScores() []FoldScore {
	out := make([]FoldScore, len(v.foldScores))
	copy(out, v.foldScores)
	return out
}

// Models returns the fold-trained ensemble of the last Validate call.
func (v *KFoldValidator) Models() []model.Model {
	out := make([]model.Model, len(v.models))
	copy(out, v.models)
	return out
}

func columnVector(m mat.Matrix) (*mat.VecDense, error) {
	rows, cols := m.Dims()
	if cols != 1 {
		return nil, errors.NewValueError("columnVector", "predictions must be a column vector")
	}
	out := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		out.SetVec(i, m.At(i, 0))
	}
	return out, nil
}
