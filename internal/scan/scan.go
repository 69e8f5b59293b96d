// Package scan runs the numeric passes over an mPMT scan: channel to position
// mapping from the efficiency maps, and pulse-height summaries per run.
package scan

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/HamletTheHamster/mpmt-mapping/internal/fit"
	"github.com/HamletTheHamster/mpmt-mapping/internal/histo"
	"github.com/HamletTheHamster/mpmt-mapping/internal/pmt"
)

// SummedEfficiencyName is the histogram holding the efficiency summed over channels.
const SummedEfficiencyName = "SummedEfficiencyPlot"

// RunNames labels the optional pulse-height inputs, in command-line order.
var RunNames = []string{"DarkRate", "LED1", "LED2", "LED3"}

// EfficiencyName returns the name of channel ch's efficiency map.
func EfficiencyName(ch int) string {
	return fmt.Sprintf("EfficiencyPlotCh%d", ch)
}

// PulseHeightName returns the name of channel ch's pulse-height histogram.
func PulseHeightName(ch int) string {
	return fmt.Sprintf("pulse_height_ch%d", ch)
}

// MapChannels locates every channel's PMT from its efficiency map and matches
// it to a slot of g. It stops at the first channel that fails.
func MapChannels(src histo.Source, g pmt.Geometry) (*pmt.ChannelMap, error) {
	assignments := make([]pmt.Assignment, 0, len(g))
	for ch := 0; ch < len(g); ch++ {
		a, err := locate(src, g, ch)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	m, err := pmt.NewChannelMap(assignments, len(g))
	if err != nil {
		return nil, err
	}

	for pos := 0; pos < m.Len(); pos++ {
		logger.Info(fmt.Sprintf("Position %d is Channel %d", pos, m.ChannelAt(pos)), "scan")
	}
	return m, nil
}

func locate(src histo.Source, g pmt.Geometry, ch int) (pmt.Assignment, error) {
	name := EfficiencyName(ch)
	h, err := src.H2D(name)
	if err != nil {
		return pmt.Assignment{}, fmt.Errorf("channel %d: %w", ch, err)
	}

	x, y, err := pmt.Centroid(h)
	if err != nil {
		return pmt.Assignment{}, fmt.Errorf("channel %d: %w", ch, histogramError(err, name))
	}

	pos, d, err := pmt.Match(g, ch, x, y)
	if err != nil {
		return pmt.Assignment{}, err
	}

	logger.Info(fmt.Sprintf("Channel %d centroid (%.4f, %.4f) matched to position %d (d^2 = %.2e)", ch, x, y, pos, d), "scan")
	return pmt.Assignment{
		Estimate:   pmt.ChannelEstimate{Channel: ch, X: x, Y: y},
		Position:   pos,
		DistanceSq: d,
	}, nil
}

// ChannelPulse is the pulse-height summary of one channel in one run.
type ChannelPulse struct {
	Channel int
	Hist    pmt.Hist1D
	Stats   pmt.PulseHeightStats
	XMax    float64
	Fit     fit.Gaussian
}

// RunSummary holds the pulse-height summaries of every channel of a run.
type RunSummary struct {
	Name     string
	Channels []ChannelPulse
}

// Stats returns the per-channel statistics in channel order.
func (r RunSummary) Stats() []pmt.PulseHeightStats {
	out := make([]pmt.PulseHeightStats, len(r.Channels))
	for i, cp := range r.Channels {
		out[i] = cp.Stats
	}
	return out
}

// AnalyseRun summarises the pulse-height histograms of channels 0..channels-1.
// With refine set the display Gaussian is fitted by least squares; a failed
// fit is logged and the moment estimate kept.
func AnalyseRun(src histo.Source, name string, channels int, refine bool) (RunSummary, error) {
	run := RunSummary{Name: name, Channels: make([]ChannelPulse, 0, channels)}
	for ch := 0; ch < channels; ch++ {
		cp, err := pulse(src, name, ch, refine)
		if err != nil {
			return RunSummary{}, fmt.Errorf("%s channel %d: %w", name, ch, err)
		}
		run.Channels = append(run.Channels, cp)
	}
	return run, nil
}

func pulse(src histo.Source, run string, ch int, refine bool) (ChannelPulse, error) {
	name := PulseHeightName(ch)
	h, err := src.H1D(name)
	if err != nil {
		return ChannelPulse{}, err
	}

	st, err := pmt.PulseHeight(ch, h)
	if err != nil {
		return ChannelPulse{}, histogramError(err, name)
	}
	xmax, err := pmt.AxisLimit(h)
	if err != nil {
		return ChannelPulse{}, histogramError(err, name)
	}

	g := fit.FromStats(st.Mean, st.StdDev, floats.Sum(h.Values))
	if refine {
		xs, ys := pmt.AboveNoise(h)
		refined, err := fit.Refine(xs, ys, g)
		if err != nil {
			logger.Error(fmt.Sprintf("%s channel %d: keeping moment curve: %v", run, ch, err))
		} else {
			g = refined
		}
	}

	logger.Info(fmt.Sprintf("%s channel %d: mean %.2f mV, std %.2f mV", run, ch, st.Mean, st.StdDev), "scan")
	return ChannelPulse{Channel: ch, Hist: h, Stats: st, XMax: xmax, Fit: g}, nil
}

// histogramError fills in the histogram name of a DataError raised by the
// numeric routines, which do not know where their input came from.
func histogramError(err error, name string) error {
	if de, ok := err.(*pmt.DataError); ok && de.Histogram == "" {
		de.Histogram = name
	}
	return err
}
