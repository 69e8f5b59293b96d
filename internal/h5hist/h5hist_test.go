package h5hist

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	hdf5 "github.com/jmbenlloch/go-hdf5"

	"github.com/HamletTheHamster/mpmt-mapping/internal/pmt"
)

func writeDataset(t *testing.T, g *hdf5.Group, name string, dims []uint, data []float64) {
	t.Helper()
	space, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		t.Fatalf("could not create dataspace for %s: %v", name, err)
	}
	defer space.Close()

	dset, err := g.CreateDataset(name, hdf5.T_NATIVE_DOUBLE, space)
	if err != nil {
		t.Fatalf("could not create dataset %s: %v", name, err)
	}
	defer dset.Close()

	if err := dset.Write(&data); err != nil {
		t.Fatalf("could not write dataset %s: %v", name, err)
	}
}

func writeScanFile(t *testing.T) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "scan.h5")
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		t.Fatalf("could not create HDF5 file: %v", err)
	}
	defer f.Close()

	g, err := f.CreateGroup("EfficiencyPlotCh0")
	if err != nil {
		t.Fatalf("could not create group: %v", err)
	}
	writeDataset(t, g, xCentresName, []uint{3}, []float64{0.1, 0.2, 0.3})
	writeDataset(t, g, yCentresName, []uint{2}, []float64{1, 2})
	writeDataset(t, g, valuesName, []uint{3, 2}, []float64{0, 1, 2, 3, 4, 5})
	g.Close()

	g, err = f.CreateGroup("pulse_height_ch0")
	if err != nil {
		t.Fatalf("could not create group: %v", err)
	}
	writeDataset(t, g, xCentresName, []uint{3}, []float64{10, 20, 30})
	writeDataset(t, g, valuesName, []uint{3}, []float64{4, 5, 6})
	g.Close()

	return fname
}

func TestH2D(t *testing.T) {
	src, err := Open(writeScanFile(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	h, err := src.H2D("EfficiencyPlotCh0")
	if err != nil {
		t.Fatalf("H2D: %v", err)
	}
	if h.Values[2][1] != 5 || h.Values[1][0] != 2 {
		t.Fatalf("Values = %v, want row-major [x][y]", h.Values)
	}
}

func TestH1D(t *testing.T) {
	src, err := Open(writeScanFile(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	h, err := src.H1D("pulse_height_ch0")
	if err != nil {
		t.Fatalf("H1D: %v", err)
	}
	if h.Centres[2] != 30 || h.Values[0] != 4 {
		t.Fatalf("H1D = %+v", h)
	}
}

func TestIntegerDataset(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "counts.h5")
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		t.Fatalf("could not create HDF5 file: %v", err)
	}
	g, err := f.CreateGroup("pulse_height_ch3")
	if err != nil {
		t.Fatalf("could not create group: %v", err)
	}
	writeDataset(t, g, xCentresName, []uint{3}, []float64{10, 20, 30})

	space, err := hdf5.CreateSimpleDataspace([]uint{3}, nil)
	if err != nil {
		t.Fatalf("could not create dataspace: %v", err)
	}
	dset, err := g.CreateDataset(valuesName, hdf5.T_NATIVE_INT32, space)
	if err != nil {
		t.Fatalf("could not create dataset: %v", err)
	}
	counts := []int32{4, 5, 6}
	if err := dset.Write(&counts); err != nil {
		t.Fatalf("could not write dataset: %v", err)
	}
	dset.Close()
	space.Close()
	g.Close()
	f.Close()

	src, err := Open(fname)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	_, err = src.H1D("pulse_height_ch3")
	var de *pmt.DataError
	if !errors.As(err, &de) {
		t.Fatalf("H1D error = %v, want *pmt.DataError", err)
	}
	if de.Histogram != "pulse_height_ch3" || !strings.Contains(de.Reason, "not float64") {
		t.Fatalf("DataError = %+v", de)
	}
}

func TestMissingHistogram(t *testing.T) {
	src, err := Open(writeScanFile(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	var de *pmt.DataError
	if _, err := src.H2D("EfficiencyPlotCh7"); !errors.As(err, &de) {
		t.Fatalf("H2D error = %v, want *pmt.DataError", err)
	}
	if _, err := src.H2D("pulse_height_ch0"); !errors.As(err, &de) {
		t.Fatalf("H2D on 1D group error = %v, want *pmt.DataError", err)
	}
}
