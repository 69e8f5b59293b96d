package pmt

import (
	"fmt"
	"math"
)

// Hist1D is a binned 1D histogram given by its bin centres and bin contents.
type Hist1D struct {
	Centres []float64
	Values  []float64
}

// Validate checks that the histogram is non-empty, that centres and values
// have the same length, that centres are strictly increasing and that every
// value is finite.
func (h Hist1D) Validate() error {
	if len(h.Centres) == 0 {
		return &DataError{Reason: "empty histogram"}
	}
	if len(h.Centres) != len(h.Values) {
		return &DataError{Reason: fmt.Sprintf("%d bin centres for %d values", len(h.Centres), len(h.Values))}
	}
	if err := increasing(h.Centres, "bin centres"); err != nil {
		return err
	}
	for i, v := range h.Values {
		if !finite(v) {
			return &DataError{Reason: fmt.Sprintf("bin %d holds %g", i, v)}
		}
	}
	return nil
}

// Hist2D is a binned 2D histogram. Values is indexed [x-bin][y-bin].
type Hist2D struct {
	XCentres []float64
	YCentres []float64
	Values   [][]float64
}

// Validate checks the grid dimensions against the axis centres and rejects
// non-finite bin contents.
func (h Hist2D) Validate() error {
	if len(h.XCentres) == 0 || len(h.YCentres) == 0 {
		return &DataError{Reason: "empty histogram"}
	}
	if len(h.Values) != len(h.XCentres) {
		return &DataError{Reason: fmt.Sprintf("%d x bin centres for %d grid columns", len(h.XCentres), len(h.Values))}
	}
	for i, col := range h.Values {
		if len(col) != len(h.YCentres) {
			return &DataError{Reason: fmt.Sprintf("grid column %d has %d values, want %d", i, len(col), len(h.YCentres))}
		}
		for j, v := range col {
			if !finite(v) {
				return &DataError{Reason: fmt.Sprintf("bin (%d, %d) holds %g", i, j, v)}
			}
		}
	}
	if err := increasing(h.XCentres, "x bin centres"); err != nil {
		return err
	}
	return increasing(h.YCentres, "y bin centres")
}

// Dims returns the number of x and y bins.
func (h Hist2D) Dims() (nx, ny int) {
	return len(h.XCentres), len(h.YCentres)
}

func increasing(xs []float64, what string) error {
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return &DataError{Reason: fmt.Sprintf("%s not strictly increasing at index %d", what, i)}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
