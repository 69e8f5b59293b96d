// Package gnuplot is a render.Renderer driving an external gnuplot process.
//
// The glot package looks for the gnuplot binary when it is loaded and panics
// if there is none, so only binaries built with the gnuplot tag import this
// package.
package gnuplot

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/Arafatk/glot"
	"gonum.org/v1/plot/plotter"

	"github.com/HamletTheHamster/mpmt-mapping/internal/pmt"
	"github.com/HamletTheHamster/mpmt-mapping/internal/render"
	"github.com/HamletTheHamster/mpmt-mapping/internal/scan"
)

// Renderer writes the scan images through gnuplot. Heat maps are drawn as
// the occupied bins seen from above and colour scales are replaced by value
// labels. It writes png only.
type Renderer struct {
	Dir string
}

// New returns a Renderer writing into dir.
func New(dir string) *Renderer {
	return &Renderer{Dir: dir}
}

var _ render.Renderer = (*Renderer)(nil)

func (r *Renderer) EfficiencyMap(title, name string, h pmt.Hist2D) error {
	plot, err := heatMap(title, h)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return r.save(plot, name)
}

func (r *Renderer) ChannelMap(channel int, h pmt.Hist2D, est pmt.ChannelEstimate) error {
	name := render.ChannelMapName(channel)
	plot, err := heatMap(fmt.Sprintf("Channel %d", channel), h)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	top := 0.0
	for _, col := range h.Values {
		for _, v := range col {
			top = math.Max(top, v)
		}
	}
	centroid := [][]float64{{est.X}, {est.Y}, {top}}
	if err := plot.AddPointGroup("Centroid", "points", centroid); err != nil {
		plot.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	return r.save(plot, name)
}

func (r *Renderer) Mapping(g pmt.Geometry, m *pmt.ChannelMap) error {
	plot, err := layout("")
	if err != nil {
		return fmt.Errorf("%s: %w", render.MappingName, err)
	}

	for i, pos := range g {
		xs, ys := split(render.Circle(pos, render.PMTRadius, render.CirclePoints))
		if err := plot.AddPointGroup(fmt.Sprintf("Position %d", i), "lines", [][]float64{xs, ys}); err != nil {
			plot.Close()
			return fmt.Errorf("%s: %w", render.MappingName, err)
		}
	}

	xs, ys := make([]float64, m.Len()), make([]float64, m.Len())
	for pos := range xs {
		ch := m.ChannelAt(pos)
		est := m.Estimate(ch)
		xs[pos], ys[pos] = est.X, est.Y
		if err := plot.Cmd(fmt.Sprintf("set label \"Ch %d\" at %g,%g offset -1,-1", ch, est.X, est.Y)); err != nil {
			plot.Close()
			return fmt.Errorf("%s: %w", render.MappingName, err)
		}
	}
	if err := plot.AddPointGroup("Centroids", "points", [][]float64{xs, ys}); err != nil {
		plot.Close()
		return fmt.Errorf("%s: %w", render.MappingName, err)
	}

	if err := addFeedThrough(plot); err != nil {
		plot.Close()
		return fmt.Errorf("%s: %w", render.MappingName, err)
	}
	return r.save(plot, render.MappingName)
}

func (r *Renderer) PulseHeight(run string, cp scan.ChannelPulse) error {
	name := render.PulseHeightName(run, cp.Channel)
	plot, err := glot.NewPlot(2, false, false)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if err := plot.AddPointGroup("Data", "steps", [][]float64{cp.Hist.Centres, cp.Hist.Values}); err != nil {
		plot.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	last := cp.Hist.Centres[len(cp.Hist.Centres)-1]
	if curve := cp.Fit.Curve(0, last, render.CurvePoints); curve != nil {
		if err := plot.AddPointGroup("Normal fit", "lines", curve); err != nil {
			plot.Close()
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if err := labels(plot, fmt.Sprintf("%s Channel %d", run, cp.Channel), "Pulse Height/ mV", "Freq."); err != nil {
		plot.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	if cp.XMax > 0 {
		if err := plot.SetXrange(0, int(math.Ceil(cp.XMax))); err != nil {
			plot.Close()
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return r.save(plot, name)
}

func (r *Renderer) MeanScatter(run string, m *pmt.ChannelMap, stats []pmt.PulseHeightStats) error {
	name := render.ScatterName(run)
	if len(stats) != m.Len() {
		return fmt.Errorf("%s: %d channel statistics for %d channels", name, len(stats), m.Len())
	}

	plot, err := layout(run + "Mean Pulse Height")
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	xs, ys := make([]float64, len(stats)), make([]float64, len(stats))
	for i, st := range stats {
		est := m.Estimate(st.Channel)
		xs[i], ys[i] = est.X, est.Y
		if err := plot.Cmd(fmt.Sprintf("set label \"%.1f\" at %g,%g offset 1,1", st.Mean, est.X, est.Y)); err != nil {
			plot.Close()
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if err := plot.AddPointGroup("Mean pulse height / mV", "circle", [][]float64{xs, ys}); err != nil {
		plot.Close()
		return fmt.Errorf("%s: %w", name, err)
	}

	if err := addFeedThrough(plot); err != nil {
		plot.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	return r.save(plot, name)
}

func heatMap(title string, h pmt.Hist2D) (*glot.Plot, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	var xs, ys, zs []float64
	for i, col := range h.Values {
		for j, v := range col {
			if v <= 0 {
				continue
			}
			xs = append(xs, h.XCentres[i])
			ys = append(ys, h.YCentres[j])
			zs = append(zs, v)
		}
	}
	if len(xs) == 0 {
		return nil, &pmt.DataError{Reason: "no filled bins to draw", Err: pmt.ErrNoSignal}
	}

	plot, err := glot.NewPlot(3, false, false)
	if err != nil {
		return nil, err
	}
	if err := plot.Cmd("set view map"); err != nil {
		plot.Close()
		return nil, err
	}
	if err := plot.AddPointGroup("Efficiency", "points", [][]float64{xs, ys, zs}); err != nil {
		plot.Close()
		return nil, err
	}
	if err := labels(plot, title, "x [m]", "y [m]"); err != nil {
		plot.Close()
		return nil, err
	}
	return plot, nil
}

// layout returns a plot with equal x and y scales for drawing PMT positions.
func layout(title string) (*glot.Plot, error) {
	plot, err := glot.NewPlot(2, false, false)
	if err != nil {
		return nil, err
	}
	if err := plot.Cmd("set size ratio -1"); err != nil {
		plot.Close()
		return nil, err
	}
	if err := labels(plot, title, "x [m]", "y [m]"); err != nil {
		plot.Close()
		return nil, err
	}
	return plot, nil
}

// labels sets the title, skipped when empty, and the axis labels.
func labels(plot *glot.Plot, title, xlabel, ylabel string) error {
	if title != "" {
		if err := plot.SetTitle(title); err != nil {
			return err
		}
	}
	if err := plot.SetXLabel(xlabel); err != nil {
		return err
	}
	return plot.SetYLabel(ylabel)
}

func addFeedThrough(plot *glot.Plot) error {
	xs, ys := split(render.Circle(render.FeedThrough, render.FeedThroughRadius, render.CirclePoints))
	return plot.AddPointGroup("Feed through", "lines", [][]float64{xs, ys})
}

func split(pts plotter.XYs) (xs, ys []float64) {
	xs, ys = make([]float64, len(pts)), make([]float64, len(pts))
	for i, pt := range pts {
		xs[i], ys[i] = pt.X, pt.Y
	}
	return xs, ys
}

func (r *Renderer) save(plot *glot.Plot, name string) error {
	defer plot.Close()

	if err := os.MkdirAll(r.Dir, 0755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}
	path := filepath.Join(r.Dir, name+".png")
	if err := plot.SavePlot(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return nil
}
