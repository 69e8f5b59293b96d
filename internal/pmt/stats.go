package pmt

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// NoiseFloor is the pulse height, in mV, at or below which bins are
	// excluded from the pulse-height statistics.
	NoiseFloor = 15.0

	// AxisFraction is the fraction of cumulative counts kept visible by AxisLimit.
	AxisFraction = 0.9
)

// PulseHeightStats summarises one channel's pulse-height distribution.
type PulseHeightStats struct {
	Channel int
	Mean    float64
	StdDev  float64
}

// PulseHeight returns the weighted mean and population standard deviation of
// the bins of h whose centre lies above NoiseFloor.
func PulseHeight(channel int, h Hist1D) (PulseHeightStats, error) {
	if err := h.Validate(); err != nil {
		return PulseHeightStats{}, err
	}

	xs, ws := AboveNoise(h)
	if floats.Sum(ws) == 0 {
		return PulseHeightStats{}, &DataError{
			Reason: fmt.Sprintf("no counts above noise floor %g", NoiseFloor),
			Err:    ErrNoSignal,
		}
	}

	mean, variance := stat.PopMeanVariance(xs, ws)
	return PulseHeightStats{
		Channel: channel,
		Mean:    mean,
		StdDev:  math.Sqrt(math.Max(variance, 0)),
	}, nil
}

// AboveNoise returns the centres and values of the bins above NoiseFloor.
func AboveNoise(h Hist1D) (centres, values []float64) {
	for i, c := range h.Centres {
		if c > NoiseFloor {
			centres = append(centres, c)
			values = append(values, h.Values[i])
		}
	}
	return centres, values
}

// AxisLimit returns the first bin centre at which the normalised cumulative
// count exceeds AxisFraction. It is a presentation aid only.
func AxisLimit(h Hist1D) (float64, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}

	total := floats.Sum(h.Values)
	if total == 0 {
		return 0, &DataError{Reason: "empty pulse-height distribution", Err: ErrNoSignal}
	}

	cumulative := floats.CumSum(make([]float64, len(h.Values)), h.Values)
	for i, c := range cumulative {
		if c/total > AxisFraction {
			return h.Centres[i], nil
		}
	}
	return h.Centres[len(h.Centres)-1], nil
}
