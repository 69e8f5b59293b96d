package histo

import (
	"go-hep.org/x/hep/hbook"

	"github.com/HamletTheHamster/mpmt-mapping/internal/pmt"
)

// FromH1D converts an hbook histogram into bin centres and contents.
// Under- and overflow are dropped.
func FromH1D(h *hbook.H1D) pmt.Hist1D {
	bins := h.Binning.Bins
	out := pmt.Hist1D{
		Centres: make([]float64, len(bins)),
		Values:  make([]float64, len(bins)),
	}
	for i, bin := range bins {
		out.Centres[i] = bin.XMid()
		out.Values[i] = bin.SumW()
	}
	return out
}

// FromH2D converts an hbook 2D histogram into a grid indexed [x-bin][y-bin].
func FromH2D(h *hbook.H2D) pmt.Hist2D {
	g := h.GridXYZ()
	nx, ny := g.Dims()

	out := pmt.Hist2D{
		XCentres: make([]float64, nx),
		YCentres: make([]float64, ny),
		Values:   make([][]float64, nx),
	}
	for ix := range out.XCentres {
		out.XCentres[ix] = g.X(ix)
		out.Values[ix] = make([]float64, ny)
		for iy := 0; iy < ny; iy++ {
			out.Values[ix][iy] = g.Z(ix, iy)
		}
	}
	for iy := range out.YCentres {
		out.YCentres[iy] = g.Y(iy)
	}
	return out
}
