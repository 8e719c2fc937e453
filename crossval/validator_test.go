package crossval

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/gridwatts/energycv/core/model"
	"github.com/gridwatts/energycv/metrics"
	"github.com/gridwatts/energycv/pkg/errors"
	"github.com/gridwatts/energycv/pkg/log"
)

// constantModel predicts a fixed value for every row.
type constantModel struct {
	c float64
}

func (m *constantModel) Fit(_, _ mat.Matrix) error { return nil }

func (m *constantModel) Predict(X mat.Matrix) (mat.Matrix, error) {
	rows, _ := X.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, m.c)
	}
	return out, nil
}

func constantConstructor(c float64) ModelConstructor {
	return func(_, _ model.ParamGroup) (model.Model, error) {
		return &constantModel{c: c}, nil
	}
}

func testParams() model.Params {
	return model.Params{
		model.GroupRidge: {"alpha": 0.0},
		model.GroupXGB:   {"n_estimators": 100},
	}
}

func syntheticData(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x0 := float64(i)
		x1 := float64(i % 7)
		X.Set(i, 0, x0)
		X.Set(i, 1, x1)
		y.Set(i, 0, 3*x0-2*x1+5)
	}
	return X, y
}

func TestValidateRecordsOneScorePairPerFold(t *testing.T) {
	logger, _ := log.NewTestLogger()
	v, err := NewKFoldValidator(RidgeConstructor, testParams(),
		WithNSplits(5),
		WithScorers(metrics.MAE, metrics.RMSE),
		WithLogger(logger))
	if err != nil {
		t.Fatalf("NewKFoldValidator() error = %v", err)
	}

	X, y := syntheticData(100)
	meanPrimary, meanSecondary, err := v.Validate(X, y, nil)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	scores := v.FoldScores()
	if len(scores) != 5 {
		t.Fatalf("len(foldScores) = %d, want 5", len(scores))
	}
	if len(v.Models()) != 5 {
		t.Fatalf("len(models) = %d, want 5", len(v.Models()))
	}

	// Ridge recovers the exactly linear data, so both error metrics vanish.
	if meanPrimary > 1e-6 || meanSecondary > 1e-6 {
		t.Errorf("means = (%v, %v), want ~0", meanPrimary, meanSecondary)
	}
}

func TestValidateDeterministicForSeed(t *testing.T) {
	logger, _ := log.NewTestLogger()
	run := func() (float64, float64, []FoldScore) {
		v, err := NewKFoldValidator(RidgeConstructor, testParams(),
			WithNSplits(10),
			WithSeed(7),
			WithScorers(metrics.MAE, metrics.MSE),
			WithLogger(logger))
		if err != nil {
			t.Fatalf("NewKFoldValidator() error = %v", err)
		}
		X, y := syntheticData(100)
		p, s, err := v.Validate(X, y, nil)
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		return p, s, v.FoldScores()
	}

	p1, s1, scores1 := run()
	p2, s2, scores2 := run()

	if p1 != p2 || s1 != s2 {
		t.Errorf("means differ across identical runs: (%v, %v) vs (%v, %v)", p1, s1, p2, s2)
	}
	for i := range scores1 {
		if scores1[i] != scores2[i] {
			t.Errorf("fold %d scores differ: %+v vs %+v", i, scores1[i], scores2[i])
		}
	}
}

func TestValidateWrapsFoldFailures(t *testing.T) {
	logger, _ := log.NewTestLogger()
	failing := func(_, _ model.ParamGroup) (model.Model, error) {
		return nil, errors.New("constructor exploded")
	}
	v, err := NewKFoldValidator(failing, testParams(), WithNSplits(2), WithLogger(logger))
	if err != nil {
		t.Fatalf("NewKFoldValidator() error = %v", err)
	}

	X, y := syntheticData(10)
	if _, _, err := v.Validate(X, y, nil); err == nil {
		t.Error("expected constructor failure to propagate")
	}
}

func TestValidateRejectsMismatchedLengths(t *testing.T) {
	logger, _ := log.NewTestLogger()
	v, err := NewKFoldValidator(constantConstructor(1), testParams(), WithLogger(logger))
	if err != nil {
		t.Fatalf("NewKFoldValidator() error = %v", err)
	}

	X := mat.NewDense(10, 1, nil)
	y := mat.NewDense(8, 1, nil)
	if _, _, err := v.Validate(X, y, nil); err == nil {
		t.Error("expected error for mismatched X/y lengths")
	}
}

func TestNewKFoldValidatorRequiresParamGroups(t *testing.T) {
	tests := []struct {
		name   string
		params model.Params
	}{
		{name: "missing ridge", params: model.Params{model.GroupXGB: {}}},
		{name: "missing xgb", params: model.Params{model.GroupRidge: {}}},
		{name: "empty params", params: model.Params{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKFoldValidator(constantConstructor(1), tt.params)
			if err == nil {
				t.Fatal("expected error")
			}
			var ve *errors.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestPredictAvgAveragingIdentity(t *testing.T) {
	logger, _ := log.NewTestLogger()
	const c = 42.5
	v, err := NewKFoldValidator(constantConstructor(c), testParams(),
		WithNSplits(10),
		WithScorers(metrics.MAE, metrics.MAE),
		WithLogger(logger))
	if err != nil {
		t.Fatalf("NewKFoldValidator() error = %v", err)
	}

	X, y := syntheticData(100)
	if _, _, err := v.Validate(X, y, nil); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	pred, err := v.PredictAvg(mat.NewDense(5, 2, nil))
	if err != nil {
		t.Fatalf("PredictAvg() error = %v", err)
	}
	for i := 0; i < pred.Len(); i++ {
		if math.Abs(pred.AtVec(i)-c) > 1e-10 {
			t.Errorf("pred[%d] = %v, want %v", i, pred.AtVec(i), c)
		}
	}
}

func TestPredictAvgBeforeValidate(t *testing.T) {
	v, err := NewKFoldValidator(constantConstructor(1), testParams())
	if err != nil {
		t.Fatalf("NewKFoldValidator() error = %v", err)
	}

	_, err = v.PredictAvg(mat.NewDense(3, 2, nil))
	if err == nil {
		t.Fatal("expected error on empty ensemble")
	}
	var nfe *errors.NotFittedError
	if !errors.As(err, &nfe) {
		t.Errorf("expected NotFittedError, got %T: %v", err, err)
	}
}
