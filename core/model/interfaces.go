// Package model defines the capability interfaces and parameter types shared
// by every trainable model in energycv.
package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for trainable models.
type Fitter interface {
	// Fit trains the model on features X and labels y.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that can predict.
type Predictor interface {
	// Predict returns predictions for the input samples as an n×1 matrix.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Model is the contract the cross-validation harness requires: one fresh
// instance is constructed per fold, fitted on the training slice, and asked
// to predict the test slice.
type Model interface {
	Fitter
	Predictor
}
