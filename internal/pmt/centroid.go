package pmt

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CentroidThreshold is the minimum bin content, in counts, that contributes
// to a centroid. Bins strictly below it are treated as background.
const CentroidThreshold = 8.0

// Centroid returns the weighted centroid of the illuminated region of h.
// Bins below CentroidThreshold are zeroed, the grid is projected onto each
// axis and each coordinate is the mean of the bin centres weighted by its
// projection. h is not modified.
func Centroid(h Hist2D) (x, y float64, err error) {
	if err := h.Validate(); err != nil {
		return 0, 0, err
	}

	wx, wy := projections(h.Values, CentroidThreshold)

	if floats.Sum(wx) == 0 || floats.Sum(wy) == 0 {
		return 0, 0, &DataError{
			Reason: fmt.Sprintf("all bins below threshold %g", CentroidThreshold),
			Err:    ErrNoSignal,
		}
	}

	x = stat.Mean(h.XCentres, wx)
	y = stat.Mean(h.YCentres, wy)
	return x, y, nil
}

// projections sums the thresholded grid along y (giving one weight per x bin)
// and along x (giving one weight per y bin).
func projections(values [][]float64, threshold float64) (wx, wy []float64) {
	wx = make([]float64, len(values))
	if len(values) > 0 {
		wy = make([]float64, len(values[0]))
	}
	for ix, col := range values {
		for iy, v := range col {
			if v < threshold {
				continue
			}
			wx[ix] += v
			wy[iy] += v
		}
	}
	return wx, wy
}
