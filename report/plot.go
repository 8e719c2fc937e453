// Package report renders cross-validation diagnostics.
package report

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/gridwatts/energycv/crossval"
	"github.com/gridwatts/energycv/pkg/errors"
)

// PlotFoldScores renders both score columns per fold as a line-and-points
// chart and saves it to path. The image format follows the file extension
// (.png, .svg, .pdf).
func PlotFoldScores(scores []crossval.FoldScore, path string) error {
	if len(scores) == 0 {
		return errors.NewValueError("PlotFoldScores", "no fold scores to plot")
	}

	p := plot.New()
	p.Title.Text = "Cross-validation fold scores"
	p.X.Label.Text = "Fold"
	p.Y.Label.Text = "Score"

	primary := make(plotter.XYs, len(scores))
	secondary := make(plotter.XYs, len(scores))
	for i, fs := range scores {
		primary[i] = plotter.XY{X: float64(i), Y: fs.Primary}
		secondary[i] = plotter.XY{X: float64(i), Y: fs.Secondary}
	}

	if err := plotutil.AddLinePoints(p,
		"primary", primary,
		"secondary", secondary,
	); err != nil {
		return errors.Wrap(err, "PlotFoldScores: adding series")
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "PlotFoldScores: saving %s", path)
	}
	return nil
}
