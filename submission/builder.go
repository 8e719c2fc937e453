// Package submission merges the three per-segment prediction sets into the
// competition submission file: it overwrites the held-out Energy column at
// the masked rows, joins the derived row IDs against the sample-submission
// template, and writes the final two-column result.
package submission

import (
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/gridwatts/energycv/dataset"
	"github.com/gridwatts/energycv/pkg/errors"
	"github.com/gridwatts/energycv/pkg/log"
)

// Defaults matching the layout of the original experiment.
const (
	DefaultDataPath   = "../data/data_pivot_load.csv"
	DefaultOutputPath = "submission.csv"

	// TemplateFileName is the sample-submission file expected inside the
	// caller-supplied template directory.
	TemplateFileName = "sample_submission.csv"

	// ColID is the identifier column of the template and the output.
	ColID = "ID"
)

// Masks tags every held-out row with exactly one of the three weight-class
// segments. The masks must be pairwise disjoint; Generate rejects overlaps.
type Masks struct {
	W1  []bool
	W5  []bool
	W10 []bool
}

// Predictions holds one prediction slice per segment. A slice may be either
// compact (one value per masked row, in row order) or full-length (one value
// per held-out row, read at the masked positions).
type Predictions struct {
	W1  []float64
	W5  []float64
	W10 []float64
}

// Builder generates submission files from held-out predictions.
type Builder struct {
	dataPath   string
	outputPath string
	logger     log.Logger
}

// Option is a function that configures Builder.
type Option func(*Builder)

// WithDataPath overrides the pivoted load data location.
func WithDataPath(path string) Option {
	return func(b *Builder) {
		b.dataPath = path
	}
}

// WithOutputPath overrides the submission output location.
func WithOutputPath(path string) Option {
	return func(b *Builder) {
		b.outputPath = path
	}
}

// WithLogger replaces the builder's logger.
func WithLogger(logger log.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a Builder with the default file layout.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		dataPath:   DefaultDataPath,
		outputPath: DefaultOutputPath,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = log.GetLoggerWithName("submission.builder")
	}
	return b
}

// Generate loads the pivot data, overwrites the held-out Energy values with
// the masked predictions (segments applied in order w1, w5, w10), joins the
// derived "<Time>_<BS>" IDs against the template in templateDir, writes the
// {ID, Energy} result to the output path, and returns it.
//
// The first failure aborts the whole call; nothing is written on error.
func (b *Builder) Generate(masks Masks, preds Predictions, templateDir string) (dataframe.DataFrame, error) {
	frame, err := dataset.LoadPivot(b.dataPath)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	heldOut, err := frame.HeldOut()
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	n := heldOut.Nrow()
	b.logger.Debug("held-out rows isolated", "rows", n, "total_rows", frame.Nrow())

	if err := checkMasks(n, masks); err != nil {
		return dataframe.DataFrame{}, err
	}
	b.logger.Debug("segment sizes",
		"w1", countTrue(masks.W1),
		"w5", countTrue(masks.W5),
		"w10", countTrue(masks.W10))

	energyCol, err := heldOut.Col(dataset.ColEnergy)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	energy := energyCol.Float()

	// Later segments would win on overlap; checkMasks has already ruled
	// overlaps out.
	if err := applySegment(energy, masks.W1, preds.W1, "w1"); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := applySegment(energy, masks.W5, preds.W5, "w5"); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := applySegment(energy, masks.W10, preds.W10, "w10"); err != nil {
		return dataframe.DataFrame{}, err
	}

	requiredIDs, err := readTemplateIDs(filepath.Join(templateDir, TemplateFileName))
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	derivedIDs, err := heldOut.IDs()
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	finalIDs := make([]string, 0, len(requiredIDs))
	finalEnergy := make([]float64, 0, len(requiredIDs))
	for i, id := range derivedIDs {
		if _, ok := requiredIDs[id]; ok {
			finalIDs = append(finalIDs, id)
			finalEnergy = append(finalEnergy, energy[i])
		}
	}
	if len(finalIDs) == 0 {
		return dataframe.DataFrame{}, errors.NewValueError("Builder.Generate",
			"no held-out row matches the template IDs")
	}

	final := dataframe.New(
		series.New(finalIDs, series.String, ColID),
		series.New(finalEnergy, series.Float, dataset.ColEnergy),
	)
	if final.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(final.Err, "Builder.Generate: assembling result")
	}

	out, err := os.Create(b.outputPath)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(err, "Builder.Generate: creating %s", b.outputPath)
	}
	defer out.Close()
	if err := final.WriteCSV(out); err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(err, "Builder.Generate: writing %s", b.outputPath)
	}

	b.logger.Info("submission written",
		"path", b.outputPath,
		"rows", final.Nrow(),
		"template_ids", len(requiredIDs))
	return final, nil
}

func checkMasks(n int, masks Masks) error {
	for _, m := range []struct {
		name string
		mask []bool
	}{
		{name: "mask_w1", mask: masks.W1},
		{name: "mask_w5", mask: masks.W5},
		{name: "mask_w10", mask: masks.W10},
	} {
		if len(m.mask) != n {
			return errors.NewDimensionError("Builder.Generate."+m.name, n, len(m.mask), 0)
		}
	}
	for i := 0; i < n; i++ {
		set := 0
		if masks.W1[i] {
			set++
		}
		if masks.W5[i] {
			set++
		}
		if masks.W10[i] {
			set++
		}
		if set > 1 {
			return errors.NewValidationError("masks",
				"segments must be disjoint; row tagged by multiple masks", i)
		}
	}
	return nil
}

// applySegment overwrites energy at the masked rows with the segment's
// predictions, accepting either a compact or a full-length prediction slice.
func applySegment(energy []float64, mask []bool, preds []float64, segment string) error {
	count := countTrue(mask)
	switch len(preds) {
	case len(mask):
		for i, m := range mask {
			if m {
				energy[i] = preds[i]
			}
		}
	case count:
		j := 0
		for i, m := range mask {
			if m {
				energy[i] = preds[j]
				j++
			}
		}
	default:
		return errors.NewDimensionError("Builder.Generate.preds_"+segment, count, len(preds), 0)
	}
	return nil
}

func countTrue(mask []bool) int {
	n := 0
	for _, m := range mask {
		if m {
			n++
		}
	}
	return n
}

func readTemplateIDs(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading template %s", path)
	}
	defer f.Close()

	template := dataframe.ReadCSV(f, dataframe.HasHeader(true))
	if template.Err != nil {
		return nil, errors.Wrapf(template.Err, "parsing template %s", path)
	}
	found := false
	for _, name := range template.Names() {
		if name == ColID {
			found = true
			break
		}
	}
	if !found {
		return nil, errors.NewColumnError("Builder.Generate", ColID, path)
	}

	ids := template.Col(ColID).Records()
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
