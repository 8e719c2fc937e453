package crossval

import (
	"github.com/gridwatts/energycv/core/model"
	"github.com/gridwatts/energycv/linear"
)

// RidgeConstructor adapts the ridge regressor to the validator's model
// constructor contract. It consumes the "ridge" parameter group; the "xgb"
// group is accepted and unused, since the constructor contract always
// carries both.
func RidgeConstructor(ridge, _ model.ParamGroup) (model.Model, error) {
	return linear.RidgeFromParams(ridge)
}
