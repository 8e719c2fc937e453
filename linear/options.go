package linear

// Option is a function that configures Ridge.
type Option func(*Ridge)

// WithAlpha sets the L2 regularization strength.
func WithAlpha(alpha float64) Option {
	return func(r *Ridge) {
		r.Alpha = alpha
	}
}

// WithFitIntercept sets whether to fit an unpenalized intercept term.
func WithFitIntercept(fit bool) Option {
	return func(r *Ridge) {
		r.FitIntercept = fit
	}
}
