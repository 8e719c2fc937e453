// Package energycv is a k-fold cross-validation harness and submission
// generator for the base-station energy-prediction task.
//
// The library has two independent entry points. The fold validator trains a
// caller-supplied model once per fold, records two scores per fold, and
// averages them; the retained per-fold models support ensemble-averaged
// prediction. The submission builder merges three disjoint per-segment
// prediction sets into the held-out Energy column of the pivoted load data,
// joins against the sample-submission template, and writes the final
// two-column file.
//
// # Quick start
//
//	validator, err := crossval.NewKFoldValidator(crossval.RidgeConstructor,
//	    model.Params{
//	        model.GroupRidge: {"alpha": 1.0},
//	        model.GroupXGB:   {"n_estimators": 500},
//	    },
//	    crossval.WithScorers(metrics.MAE, metrics.WMAPE),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	meanMAE, meanWMAPE, err := validator.Validate(X, y, nil)
//
// # Packages
//
//   - crossval: fold splitting, the validator, segment score weighting
//   - metrics: scoring functions (MSE, RMSE, MAE, R2, WMAPE, Accuracy)
//   - linear: the ridge regressor used as the default per-fold model
//   - dataset: pivoted load-data loading, encoding, and slicing
//   - submission: submission-file generation
//   - report: fold-score plotting
//   - core/model: model interfaces and parameter groups
//
// See examples/crossval for the end-to-end workflow.
package energycv
