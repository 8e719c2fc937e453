package model

import (
	"github.com/gridwatts/energycv/pkg/errors"
)

// ParamGroup holds the hyperparameters for one model family, keyed by name.
// Values are loosely typed the way they arrive from experiment configuration;
// use the typed accessors to read them.
type ParamGroup map[string]interface{}

// Float returns the parameter as a float64, or def when absent.
// Integer values are widened.
func (g ParamGroup) Float(key string, def float64) float64 {
	v, ok := g[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	default:
		return def
	}
}

// Int returns the parameter as an int, or def when absent.
func (g ParamGroup) Int(key string, def int) int {
	v, ok := g[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return def
	}
}

// Bool returns the parameter as a bool, or def when absent.
func (g ParamGroup) Bool(key string, def bool) bool {
	if v, ok := g[key].(bool); ok {
		return v
	}
	return def
}

// Params is the nested parameter dictionary passed to the validator. The
// harness requires the groups "ridge" and "xgb" to be present.
type Params map[string]ParamGroup

// Required group names for the fold validator's model constructor.
const (
	GroupRidge = "ridge"
	GroupXGB   = "xgb"
)

// Group returns the named parameter group, or a ValidationError when the
// group is missing.
func (p Params) Group(name string) (ParamGroup, error) {
	g, ok := p[name]
	if !ok {
		return nil, errors.NewValidationError("params", "missing required group '"+name+"'", p)
	}
	return g, nil
}
