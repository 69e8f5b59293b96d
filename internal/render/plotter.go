package render

import (
	"fmt"
	"image/color"

	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/HamletTheHamster/mpmt-mapping/internal/pmt"
	"github.com/HamletTheHamster/mpmt-mapping/internal/scan"
)

// Plotter is the gonum/plot Renderer. Every image is written once per format
// in Formats.
type Plotter struct {
	Dir     string
	Formats []string
}

// NewPlotter returns a Plotter writing into dir. With no formats it writes png.
func NewPlotter(dir string, formats []string) *Plotter {
	if len(formats) == 0 {
		formats = []string{"png"}
	}
	return &Plotter{Dir: dir, Formats: formats}
}

var _ Renderer = (*Plotter)(nil)

func (r *Plotter) EfficiencyMap(title, name string, h pmt.Hist2D) error {
	p, bar, err := heatMap(title, h)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return savePlot(p.Plot, bar, r.Dir, name, r.Formats)
}

func (r *Plotter) ChannelMap(channel int, h pmt.Hist2D, est pmt.ChannelEstimate) error {
	name := ChannelMapName(channel)
	p, bar, err := heatMap(fmt.Sprintf("Channel %d", channel), h)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	marker, err := crosses(plotter.XYs{{X: est.X, Y: est.Y}})
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	p.Add(marker)

	return savePlot(p.Plot, bar, r.Dir, name, r.Formats)
}

func (r *Plotter) Mapping(g pmt.Geometry, m *pmt.ChannelMap) error {
	p := prepPlot("", "x [m]", "y [m]")

	for _, pos := range g {
		outline, err := plotter.NewLine(Circle(pos, PMTRadius, CirclePoints))
		if err != nil {
			return fmt.Errorf("%s: %w", MappingName, err)
		}
		outline.LineStyle.Color = brush(brushOutline)
		p.Add(outline)
	}

	pts := make(plotter.XYs, m.Len())
	labels := make([]string, m.Len())
	for pos := range pts {
		ch := m.ChannelAt(pos)
		est := m.Estimate(ch)
		pts[pos].X, pts[pos].Y = est.X, est.Y
		labels[pos] = fmt.Sprintf("Ch %d", ch)
	}

	markers, err := crosses(pts)
	if err != nil {
		return fmt.Errorf("%s: %w", MappingName, err)
	}
	p.Add(markers)

	l, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
	if err != nil {
		return fmt.Errorf("%s: %w", MappingName, err)
	}
	l.Offset = vg.Point{X: -vg.Points(12), Y: -vg.Points(12)}
	p.Add(l)

	if err := addFeedThrough(p); err != nil {
		return fmt.Errorf("%s: %w", MappingName, err)
	}
	equalAspect(p.Plot)

	return savePlot(p.Plot, nil, r.Dir, MappingName, r.Formats)
}

func (r *Plotter) PulseHeight(run string, cp scan.ChannelPulse) error {
	name := PulseHeightName(run, cp.Channel)
	p := prepPlot(fmt.Sprintf("%s Channel %d", run, cp.Channel), "Pulse Height/ mV", "Freq.")
	p.Add(hplot.NewGrid())

	pts := make(plotter.XYs, len(cp.Hist.Centres))
	for i := range pts {
		pts[i].X = cp.Hist.Centres[i]
		pts[i].Y = cp.Hist.Values[i]
	}
	data, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	data.StepStyle = plotter.MidStep
	data.LineStyle.Color = brush(brushData)
	data.LineStyle.Width = vg.Points(1.5)
	p.Add(data)
	p.Legend.Add("Data", data)

	last := cp.Hist.Centres[len(cp.Hist.Centres)-1]
	if curve := cp.Fit.Curve(0, last, CurvePoints); curve != nil {
		fitPts := make(plotter.XYs, len(curve[0]))
		for i := range fitPts {
			fitPts[i].X = curve[0][i]
			fitPts[i].Y = curve[1][i]
		}
		fit, err := plotter.NewLine(fitPts)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fit.LineStyle.Color = brush(brushFit)
		fit.LineStyle.Width = vg.Points(1.5)
		p.Add(fit)
		p.Legend.Add("Normal fit", fit)
	}

	if cp.XMax > 0 {
		p.X.Min = 0
		p.X.Max = cp.XMax
	}

	return savePlot(p.Plot, nil, r.Dir, name, r.Formats)
}

func (r *Plotter) MeanScatter(run string, m *pmt.ChannelMap, stats []pmt.PulseHeightStats) error {
	name := ScatterName(run)
	if len(stats) != m.Len() {
		return fmt.Errorf("%s: %d channel statistics for %d channels", name, len(stats), m.Len())
	}

	p := prepPlot(run+"Mean Pulse Height", "x [m]", "y [m]")

	pts := make(plotter.XYs, len(stats))
	means := make([]float64, len(stats))
	for i, st := range stats {
		est := m.Estimate(st.Channel)
		pts[i].X, pts[i].Y = est.X, est.Y
		means[i] = st.Mean
	}

	lo, hi := span(means)
	cm := moreland.ExtendedBlackBody()
	cm.SetMin(lo)
	cm.SetMax(hi)
	colors := make([]color.Color, len(means))
	for i, v := range means {
		c, err := cm.At(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		colors[i] = c
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{Color: colors[i], Radius: vg.Points(7), Shape: draw.CircleGlyph{}}
	}
	p.Add(s)

	if err := addFeedThrough(p); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	equalAspect(p.Plot)

	return savePlot(p.Plot, colorBar(cm, lo, hi), r.Dir, name, r.Formats)
}

func heatMap(title string, h pmt.Hist2D) (*hplot.Plot, *plot.Plot, error) {
	if err := h.Validate(); err != nil {
		return nil, nil, err
	}

	p := prepPlot(title, "x [m]", "y [m]")
	cm := moreland.Kindlmann()
	hm := plotter.NewHeatMap(grid{h}, cm.Palette(255))
	p.Add(hm)

	return p, colorBar(cm, hm.Min, hm.Max), nil
}

// crosses marks pts with red crosses.
func crosses(pts plotter.XYs) (*plotter.Scatter, error) {
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = brush(brushMarker)
	s.GlyphStyle.Radius = vg.Points(6)
	s.GlyphStyle.Shape = draw.CrossGlyph{}
	return s, nil
}

func addFeedThrough(p *hplot.Plot) error {
	l, err := plotter.NewLine(Circle(FeedThrough, FeedThroughRadius, CirclePoints))
	if err != nil {
		return err
	}
	l.LineStyle.Color = brush(brushFeedThrough)
	l.LineStyle.Width = vg.Points(1.5)
	p.Add(l)
	p.Legend.Add("Feed through", l)
	return nil
}

// equalAspect widens the shorter axis so both axes cover the same data range.
func equalAspect(p *plot.Plot) {
	dx := p.X.Max - p.X.Min
	dy := p.Y.Max - p.Y.Min
	switch {
	case dx > dy:
		mid := (p.Y.Min + p.Y.Max) / 2
		p.Y.Min, p.Y.Max = mid-dx/2, mid+dx/2
	case dy > dx:
		mid := (p.X.Min + p.X.Max) / 2
		p.X.Min, p.X.Max = mid-dy/2, mid+dy/2
	}
}

// span returns the range of vs, widened to unit width when all values agree.
func span(vs []float64) (lo, hi float64) {
	if len(vs) == 0 {
		return 0, 1
	}
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	return lo, hi
}
