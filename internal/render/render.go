// Package render draws the diagnostic images of an mPMT scan.
package render

import (
	"fmt"
	"math"

	"gonum.org/v1/plot/plotter"

	"github.com/HamletTheHamster/mpmt-mapping/internal/pmt"
	"github.com/HamletTheHamster/mpmt-mapping/internal/scan"
)

// Renderer consumes the results of the scan passes and writes one image per call.
type Renderer interface {
	EfficiencyMap(title, name string, h pmt.Hist2D) error
	ChannelMap(channel int, h pmt.Hist2D, est pmt.ChannelEstimate) error
	Mapping(g pmt.Geometry, m *pmt.ChannelMap) error
	PulseHeight(run string, cp scan.ChannelPulse) error
	MeanScatter(run string, m *pmt.ChannelMap, stats []pmt.PulseHeightStats) error
}

// Drawing constants, in metres for the layout.
const (
	PMTRadius         = 0.04
	FeedThroughRadius = 0.02
	CirclePoints      = 1000
	CurvePoints       = 1000
)

// FeedThrough is the centre of the cable feed-through drawn on layout plots.
var FeedThrough = pmt.Position{X: 0.57, Y: 0.2}

const (
	TotalEffName = "TotalEff"
	MappingName  = "pmtMapping"
)

func ChannelMapName(ch int) string {
	return fmt.Sprintf("Map_Channel_%d", ch)
}

func PulseHeightName(run string, ch int) string {
	return fmt.Sprintf("%s_%d", run, ch)
}

func ScatterName(run string) string {
	return run + "X_YScatter"
}

// Circle returns n points on the circle of radius r about c, closed so the
// first and last points coincide.
func Circle(c pmt.Position, r float64, n int) plotter.XYs {
	pts := make(plotter.XYs, n)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / float64(n-1)
		pts[i].X = c.X + r*math.Cos(theta)
		pts[i].Y = c.Y + r*math.Sin(theta)
	}
	return pts
}

// grid exposes a Hist2D as a plotter.GridXYZ with columns along x and rows
// along y.
type grid struct {
	h pmt.Hist2D
}

func (g grid) Dims() (c, r int)   { return g.h.Dims() }
func (g grid) Z(c, r int) float64 { return g.h.Values[c][r] }
func (g grid) X(c int) float64    { return g.h.XCentres[c] }
func (g grid) Y(r int) float64    { return g.h.YCentres[r] }
