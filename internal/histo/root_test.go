package histo

import (
	"errors"
	"path/filepath"
	"testing"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/hbook"

	"github.com/HamletTheHamster/mpmt-mapping/internal/pmt"
)

func writeScanFile(t *testing.T) string {
	t.Helper()

	fname := filepath.Join(t.TempDir(), "scan.root")
	f, err := groot.Create(fname)
	if err != nil {
		t.Fatalf("could not create ROOT file: %v", err)
	}

	h2 := hbook.NewH2D(4, 0, 0.8, 2, 0, 0.4)
	h2.Fill(0.45, 0.25, 100)
	h2.Fill(0.05, 0.05, 3)
	if err := f.Put("EfficiencyPlotCh0", rhist.NewH2DFrom(h2)); err != nil {
		t.Fatalf("could not write 2D histogram: %v", err)
	}

	h1 := hbook.NewH1D(5, 0, 50)
	h1.Fill(25, 7)
	h1.Fill(42, 2)
	if err := f.Put("pulse_height_ch0", rhist.NewH1DFrom(h1)); err != nil {
		t.Fatalf("could not write 1D histogram: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("could not close ROOT file: %v", err)
	}
	return fname
}

func TestROOTFileH2D(t *testing.T) {
	src, err := OpenROOT(writeScanFile(t))
	if err != nil {
		t.Fatalf("OpenROOT: %v", err)
	}
	defer src.Close()

	h, err := src.H2D("EfficiencyPlotCh0")
	if err != nil {
		t.Fatalf("H2D: %v", err)
	}

	nx, ny := h.Dims()
	if nx != 4 || ny != 2 {
		t.Fatalf("Dims = (%d, %d), want (4, 2)", nx, ny)
	}
	wantX := []float64{0.1, 0.3, 0.5, 0.7}
	for i, x := range wantX {
		if !approx(h.XCentres[i], x) {
			t.Fatalf("XCentres = %v, want %v", h.XCentres, wantX)
		}
	}
	if !approx(h.YCentres[0], 0.1) || !approx(h.YCentres[1], 0.3) {
		t.Fatalf("YCentres = %v, want [0.1 0.3]", h.YCentres)
	}
	if h.Values[2][1] != 100 || h.Values[0][0] != 3 {
		t.Fatalf("Values = %v, want 100 at [2][1] and 3 at [0][0]", h.Values)
	}
}

func TestROOTFileH1D(t *testing.T) {
	src, err := OpenROOT(writeScanFile(t))
	if err != nil {
		t.Fatalf("OpenROOT: %v", err)
	}
	defer src.Close()

	h, err := src.H1D("pulse_height_ch0")
	if err != nil {
		t.Fatalf("H1D: %v", err)
	}
	want := pmt.Hist1D{
		Centres: []float64{5, 15, 25, 35, 45},
		Values:  []float64{0, 0, 7, 0, 2},
	}
	for i := range want.Centres {
		if !approx(h.Centres[i], want.Centres[i]) || h.Values[i] != want.Values[i] {
			t.Fatalf("H1D = %+v, want %+v", h, want)
		}
	}
}

func TestROOTFileErrors(t *testing.T) {
	src, err := OpenROOT(writeScanFile(t))
	if err != nil {
		t.Fatalf("OpenROOT: %v", err)
	}
	defer src.Close()

	for _, tc := range []struct {
		name string
		read func() error
	}{
		{"missing", func() error { _, err := src.H2D("SummedEfficiencyPlot"); return err }},
		{"1D as 2D", func() error { _, err := src.H2D("pulse_height_ch0"); return err }},
		{"2D as 1D", func() error { _, err := src.H1D("EfficiencyPlotCh0"); return err }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var de *pmt.DataError
			if err := tc.read(); !errors.As(err, &de) {
				t.Fatalf("error = %v, want *pmt.DataError", err)
			}
		})
	}
}

func TestRegistryOpen(t *testing.T) {
	reg := Registry{".root": OpenROOT}

	src, err := reg.Open(writeScanFile(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	src.Close()

	var de *pmt.DataError
	if _, err := reg.Open("scan.csv"); !errors.As(err, &de) {
		t.Fatalf("Open(scan.csv) error = %v, want *pmt.DataError", err)
	}
}

func TestFromH2DOrientation(t *testing.T) {
	h := hbook.NewH2D(3, 0, 3, 2, 10, 12)
	h.Fill(2.5, 10.5, 4)
	h.Fill(0.5, 11.5, 9)

	g := FromH2D(h)
	if g.Values[2][0] != 4 || g.Values[0][1] != 9 {
		t.Fatalf("Values = %v, want [x][y] indexing", g.Values)
	}
}

func approx(a, b float64) bool {
	const eps = 1e-9
	d := a - b
	return d < eps && d > -eps
}
