// Package plot draws the reconstruction error curve of a training run.
package plot

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrorCurve builds a plot of errs against epochs. Untracked (NaN) epochs are skipped.
func ErrorCurve(title string, epochs []int, errs []float32) (*plot.Plot, error) {
	if len(epochs) != len(errs) {
		return nil, errors.Errorf("%d epochs but %d errors", len(epochs), len(errs))
	}
	points := make(plotter.XYs, 0, len(errs))
	for i, e := range errs {
		if math.IsNaN(float64(e)) {
			continue
		}
		points = append(points, plotter.XY{X: float64(epochs[i]), Y: float64(e)})
	}
	if len(points) == 0 {
		return nil, errors.New("nothing to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "reconstruction error"

	line, err := plotter.NewLine(points)
	if err != nil {
		return nil, errors.Wrap(err, "error curve")
	}
	p.Add(line, plotter.NewGrid())
	return p, nil
}

// Save writes the error curve to filename. The format follows the extension.
func Save(title string, epochs []int, errs []float32, filename string) error {
	p, err := ErrorCurve(title, epochs, errs)
	if err != nil {
		return err
	}
	return errors.Wrapf(p.Save(8*vg.Inch, 4*vg.Inch, filename), "saving %v", filename)
}
