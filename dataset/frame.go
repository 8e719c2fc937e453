// Package dataset loads and prepares the pivoted base-station load data: time
// parsing, (BS, Time) ordering, categorical encoding, and the row-selection
// utilities the validator and the submission builder share.
package dataset

import (
	"os"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"

	"github.com/gridwatts/energycv/pkg/errors"
)

// Column names of the pivoted load data.
const (
	ColTime      = "Time"
	ColBS        = "BS"
	ColEnergy    = "Energy"
	ColW         = "w"
	ColRUType    = "RUType"
	ColBSCat     = "BS_cat"
	ColRUTypeCat = "RUType_cat"
)

// HeldOutEnergy marks rows whose Energy is a prediction target.
const HeldOutEnergy = -1.0

// timeLayout is the canonical timestamp format; it sorts chronologically as
// text and matches the submission template's ID scheme.
const timeLayout = "2006-01-02 15:04:05"

var timeParseLayouts = []string{
	timeLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// heldOutColumns is the column universe the submission masks address.
var heldOutColumns = []string{ColTime, ColBS, ColEnergy, ColW, ColRUTypeCat}

// Frame wraps a gota DataFrame of pivoted load data.
type Frame struct {
	DF dataframe.DataFrame
}

// LoadPivot reads the pivoted load CSV, normalizes the Time column, sorts by
// (BS, Time), and derives integer category codes for BS and RUType.
func LoadPivot(path string) (Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return Frame{}, errors.Wrapf(err, "LoadPivot: opening %s", path)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.WithTypes(map[string]series.Type{
			ColTime:   series.String,
			ColBS:     series.String,
			ColRUType: series.String,
			ColEnergy: series.Float,
			ColW:      series.Float,
		}),
	)
	if df.Err != nil {
		return Frame{}, errors.Wrapf(df.Err, "LoadPivot: reading %s", path)
	}
	for _, col := range []string{ColTime, ColBS, ColEnergy, ColW, ColRUType} {
		if !hasColumn(df, col) {
			return Frame{}, errors.NewColumnError("LoadPivot", col, path)
		}
	}

	normalized, err := normalizeTimes(df.Col(ColTime).Records())
	if err != nil {
		return Frame{}, err
	}
	df = df.Mutate(series.New(normalized, series.String, ColTime))
	if df.Err != nil {
		return Frame{}, errors.Wrap(df.Err, "LoadPivot: normalizing Time")
	}

	// Canonical timestamps sort chronologically as strings, so a plain
	// lexical Arrange gives temporal order within each base station.
	df = df.Arrange(dataframe.Sort(ColBS), dataframe.Sort(ColTime))
	if df.Err != nil {
		return Frame{}, errors.Wrap(df.Err, "LoadPivot: sorting by (BS, Time)")
	}

	df = df.Mutate(series.New(categoryCodes(df.Col(ColBS).Records()), series.Int, ColBSCat))
	df = df.Mutate(series.New(categoryCodes(df.Col(ColRUType).Records()), series.Int, ColRUTypeCat))
	if df.Err != nil {
		return Frame{}, errors.Wrap(df.Err, "LoadPivot: encoding categories")
	}

	return Frame{DF: df}, nil
}

// Nrow returns the number of rows.
func (fr Frame) Nrow() int {
	return fr.DF.Nrow()
}

// Col returns the named column, or a ColumnError when absent.
func (fr Frame) Col(name string) (series.Series, error) {
	if !hasColumn(fr.DF, name) {
		return series.Series{}, errors.NewColumnError("Frame.Col", name, "")
	}
	return fr.DF.Col(name), nil
}

// HeldOut returns the prediction-target subset (Energy == -1) restricted to
// the columns the submission masks address.
func (fr Frame) HeldOut() (Frame, error) {
	sub := fr.DF.Filter(dataframe.F{
		Colname:    ColEnergy,
		Comparator: series.Eq,
		Comparando: HeldOutEnergy,
	})
	if sub.Err != nil {
		return Frame{}, errors.Wrap(sub.Err, "Frame.HeldOut: filtering")
	}
	sub = sub.Select(heldOutColumns)
	if sub.Err != nil {
		return Frame{}, errors.Wrap(sub.Err, "Frame.HeldOut: selecting columns")
	}
	return Frame{DF: sub}, nil
}

// MaskW returns the boolean mask of rows whose weight class equals w.
func (fr Frame) MaskW(w float64) ([]bool, error) {
	col, err := fr.Col(ColW)
	if err != nil {
		return nil, err
	}
	values := col.Float()
	mask := make([]bool, len(values))
	for i, v := range values {
		mask[i] = v == w
	}
	return mask, nil
}

// IDs derives the submission identifier "<Time>_<BS>" for every row.
func (fr Frame) IDs() ([]string, error) {
	timeCol, err := fr.Col(ColTime)
	if err != nil {
		return nil, err
	}
	bsCol, err := fr.Col(ColBS)
	if err != nil {
		return nil, err
	}
	times := timeCol.Records()
	stations := bsCol.Records()
	ids := make([]string, len(times))
	for i := range times {
		ids[i] = times[i] + "_" + stations[i]
	}
	return ids, nil
}

// FeatureMatrix exports the named numeric columns as a row-major matrix.
func (fr Frame) FeatureMatrix(cols ...string) (*mat.Dense, error) {
	if len(cols) == 0 {
		return nil, errors.NewValueError("Frame.FeatureMatrix", "no columns requested")
	}
	n := fr.Nrow()
	if n == 0 {
		return nil, errors.NewValueError("Frame.FeatureMatrix", "empty frame")
	}
	out := mat.NewDense(n, len(cols), nil)
	for j, name := range cols {
		col, err := fr.Col(name)
		if err != nil {
			return nil, err
		}
		values := col.Float()
		for i, v := range values {
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// LabelVector exports the named numeric column as a vector.
func (fr Frame) LabelVector(name string) (*mat.VecDense, error) {
	col, err := fr.Col(name)
	if err != nil {
		return nil, err
	}
	values := col.Float()
	if len(values) == 0 {
		return nil, errors.NewValueError("Frame.LabelVector", "empty frame")
	}
	return mat.NewVecDense(len(values), values), nil
}

// Subset returns the rows selected by indices, in indices order. gota frames
// carry no persistent row labels, so the result is renumbered 0..len-1.
func (fr Frame) Subset(indices []int) (Frame, error) {
	sub := fr.DF.Subset(indices)
	if sub.Err != nil {
		return Frame{}, errors.Wrap(sub.Err, "Frame.Subset")
	}
	return Frame{DF: sub}, nil
}

// categoryCodes assigns each distinct value its rank in the sorted set of
// distinct values, matching categorical integer encoding by sorted category.
func categoryCodes(records []string) []int {
	uniq := make(map[string]struct{}, len(records))
	for _, r := range records {
		uniq[r] = struct{}{}
	}
	values := make([]string, 0, len(uniq))
	for v := range uniq {
		values = append(values, v)
	}
	sort.Strings(values)

	code := make(map[string]int, len(values))
	for i, v := range values {
		code[v] = i
	}
	codes := make([]int, len(records))
	for i, r := range records {
		codes[i] = code[r]
	}
	return codes
}

func normalizeTimes(records []string) ([]string, error) {
	out := make([]string, len(records))
	for i, r := range records {
		parsed, err := parseTime(r)
		if err != nil {
			return nil, err
		}
		out[i] = parsed.Format(timeLayout)
	}
	return out, nil
}

func parseTime(value string) (time.Time, error) {
	for _, layout := range timeParseLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.NewValueError("parseTime", "unparseable timestamp: "+value)
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
