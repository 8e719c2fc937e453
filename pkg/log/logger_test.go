package log

import (
	"encoding/json"
	"strings"
	"testing"

	scierr "github.com/gridwatts/energycv/pkg/errors"
)

func TestTestLoggerEmitsJSON(t *testing.T) {
	logger, buf := NewTestLogger()

	logger.Info("fold finished", "fold", 3, "primary", 0.95)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if rec["message"] != "fold finished" {
		t.Errorf("message = %v", rec["message"])
	}
	if rec["fold"] != float64(3) {
		t.Errorf("fold = %v", rec["fold"])
	}
}

func TestWithPrePopulatesFields(t *testing.T) {
	logger, buf := NewTestLogger()

	logger.With("component", "crossval.validator").Info("started")

	if !strings.Contains(buf.String(), `"component":"crossval.validator"`) {
		t.Errorf("missing pre-populated field: %s", buf.String())
	}
}

func TestStructuredErrorField(t *testing.T) {
	logger, buf := NewTestLogger()

	err := scierr.NewDimensionError("PredictAvg", 10, 7, 0)
	logger.Error("ensemble incomplete", "error", err)

	out := buf.String()
	if !strings.Contains(out, "dimension mismatch") {
		t.Errorf("error text not logged: %s", out)
	}
}

func TestOddFieldCountDoesNotPanic(t *testing.T) {
	logger, buf := NewTestLogger()

	logger.Info("msg", "dangling")

	if !strings.Contains(buf.String(), "msg") {
		t.Errorf("message lost: %s", buf.String())
	}
}
