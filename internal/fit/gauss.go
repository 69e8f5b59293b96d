// Package fit builds the Gaussian curves drawn over pulse-height histograms.
package fit

import (
	"errors"
	"fmt"
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/stat/distuv"
)

// Gaussian is a normal density scaled by Amplitude.
type Gaussian struct {
	Amplitude float64
	Mean      float64
	Sigma     float64
}

// FromStats returns the Gaussian with the given moments, scaled by the total
// number of counts in the histogram.
func FromStats(mean, sigma, total float64) Gaussian {
	return Gaussian{Amplitude: total, Mean: mean, Sigma: sigma}
}

// At evaluates the Gaussian at x.
func (g Gaussian) At(x float64) float64 {
	if g.Sigma <= 0 {
		return 0
	}
	return g.Amplitude * distuv.Normal{Mu: g.Mean, Sigma: g.Sigma}.Prob(x)
}

// Curve samples the Gaussian at n evenly spaced points in [xmin, xmax] and
// returns them as {x, y}. It returns nil for a degenerate Gaussian.
func (g Gaussian) Curve(xmin, xmax float64, n int) [][]float64 {
	if g.Sigma <= 0 || n < 2 {
		return nil
	}

	dx := (xmax - xmin) / float64(n-1)
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = xmin + dx*float64(i)
		y[i] = g.At(x[i])
	}
	return [][]float64{x, y}
}

// Refine fits a Gaussian to the points (xs, ys) by Levenberg-Marquardt least
// squares, starting from seed. On failure seed is returned with the error.
func Refine(xs, ys []float64, seed Gaussian) (Gaussian, error) {
	if len(xs) != len(ys) {
		return seed, fmt.Errorf("fit: %d x values for %d y values", len(xs), len(ys))
	}
	if len(xs) < 3 {
		return seed, fmt.Errorf("fit: %d points for 3 parameters", len(xs))
	}
	if seed.Sigma <= 0 {
		return seed, errors.New("fit: seed width must be positive")
	}

	f := func(dst, guess []float64) {
		g := Gaussian{Amplitude: guess[0], Mean: guess[1], Sigma: math.Abs(guess[2])}
		for i, x := range xs {
			dst[i] = g.At(x) - ys[i]
		}
	}

	jacobian := lm.NumJac{Func: f}

	problem := lm.LMProblem{
		Dim:        3,
		Size:       len(xs),
		Func:       f,
		Jac:        jacobian.Jac,
		InitParams: []float64{seed.Amplitude, seed.Mean, seed.Sigma},
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}

	results, err := lm.LM(problem, &lm.Settings{Iterations: 100, ObjectiveTol: 1e-16})
	if err != nil {
		return seed, fmt.Errorf("fit: optimization failed: %w", err)
	}

	g := Gaussian{Amplitude: results.X[0], Mean: results.X[1], Sigma: math.Abs(results.X[2])}
	for _, v := range []float64{g.Amplitude, g.Mean, g.Sigma} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return seed, fmt.Errorf("fit: non-finite result %+v", g)
		}
	}
	if g.Sigma == 0 {
		return seed, errors.New("fit: zero width")
	}
	return g, nil
}
