package render

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	width  = 7 * vg.Inch
	height = 7 * vg.Inch

	// barWidth is the strip on the right of a heat map reserved for its colour bar.
	barWidth = 1.2 * vg.Inch
)

// prepPlot returns a plot with the common title, axis and legend styling.
func prepPlot(title, xlabel, ylabel string) *hplot.Plot {
	p := hplot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Variant = "Sans"
	p.Title.TextStyle.Font.Size = 16
	p.Title.Padding = font.Length(10)

	p.X.Label.Text = xlabel
	p.X.Label.TextStyle.Font.Variant = "Sans"
	p.X.Label.TextStyle.Font.Size = 13
	p.X.LineStyle.Width = vg.Points(1.5)
	p.X.Tick.LineStyle.Width = vg.Points(1.5)
	p.X.Tick.Label.Font.Variant = "Sans"
	p.X.Tick.Label.Font.Size = 11

	p.Y.Label.Text = ylabel
	p.Y.Label.TextStyle.Font.Variant = "Sans"
	p.Y.Label.TextStyle.Font.Size = 13
	p.Y.LineStyle.Width = vg.Points(1.5)
	p.Y.Tick.LineStyle.Width = vg.Points(1.5)
	p.Y.Tick.Label.Font.Variant = "Sans"
	p.Y.Tick.Label.Font.Size = 11

	p.Legend.TextStyle.Font.Variant = "Sans"
	p.Legend.TextStyle.Font.Size = 11
	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)
	p.Legend.YOffs = vg.Points(-10)
	p.Legend.Padding = vg.Points(4)
	p.Legend.ThumbnailWidth = vg.Points(25)

	return p
}

// brush returns the colour of series n.
func brush(n int) color.RGBA {
	col := []color.RGBA{
		{R: 31, G: 119, B: 180, A: 255},
		{R: 255, G: 127, B: 14, A: 255},
		{R: 214, G: 39, B: 40, A: 255},
		{R: 0, G: 0, B: 0, A: 255},
		{R: 128, G: 128, B: 128, A: 128},
	}
	return col[n%len(col)]
}

const (
	brushData = iota
	brushFit
	brushMarker
	brushOutline
	brushFeedThrough
)

// colorBar returns a narrow plot holding a vertical colour bar of cm over
// [lo, hi]. It returns nil for an empty range, which cannot be drawn.
func colorBar(cm palette.ColorMap, lo, hi float64) *plot.Plot {
	if !(lo < hi) {
		return nil
	}
	cm.SetMin(lo)
	cm.SetMax(hi)

	p := plot.New()
	p.HideX()
	p.Y.Tick.Label.Font.Variant = "Sans"
	p.Y.Tick.Label.Font.Size = 11
	p.Y.Padding = 0
	p.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})
	return p
}

// savePlot writes p to dir/name.<format> for every format. A non-nil bar is
// drawn in a strip to the right of p.
func savePlot(p *plot.Plot, bar *plot.Plot, dir, name string, formats []string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	for _, format := range formats {
		path := filepath.Join(dir, name+"."+format)

		if bar == nil {
			if err := p.Save(width, height, path); err != nil {
				return fmt.Errorf("could not save %s: %w", path, err)
			}
			continue
		}

		c, err := draw.NewFormattedCanvas(width+barWidth, height, format)
		if err != nil {
			return fmt.Errorf("could not save %s: %w", path, err)
		}
		dc := draw.New(c)
		p.Draw(draw.Crop(dc, 0, -barWidth, 0, 0))
		bar.Draw(draw.Crop(dc, width+vg.Points(10), 0, vg.Points(40), -vg.Points(40)))

		if err := writeCanvas(c, path); err != nil {
			return err
		}
	}
	return nil
}

func writeCanvas(c vg.CanvasWriterTo, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return f.Close()
}
