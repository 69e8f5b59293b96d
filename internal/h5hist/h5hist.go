// Package h5hist reads calibration histograms from HDF5 files.
//
// Each histogram is a group named after the histogram holding the datasets
//
//	centres_x  float64[nx]
//	centres_y  float64[ny]      (2D histograms only)
//	values     float64[nx] or float64[nx][ny]
package h5hist

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"

	"github.com/HamletTheHamster/mpmt-mapping/internal/histo"
	"github.com/HamletTheHamster/mpmt-mapping/internal/pmt"
)

const (
	xCentresName = "centres_x"
	yCentresName = "centres_y"
	valuesName   = "values"
)

// File is a histo.Source backed by an HDF5 file.
type File struct {
	Filename string
	file     *hdf5.File
}

// Open opens an HDF5 file read-only.
func Open(path string) (histo.Source, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, &pmt.DataError{Source: path, Reason: "could not open HDF5 file", Err: err}
	}
	return &File{Filename: path, file: f}, nil
}

// H1D reads the 1D histogram stored in group name.
func (f *File) H1D(name string) (pmt.Hist1D, error) {
	g, err := f.group(name)
	if err != nil {
		return pmt.Hist1D{}, err
	}
	defer g.Close()

	centres, _, err := f.readDataset(g, name, xCentresName)
	if err != nil {
		return pmt.Hist1D{}, err
	}
	values, dims, err := f.readDataset(g, name, valuesName)
	if err != nil {
		return pmt.Hist1D{}, err
	}
	if len(dims) != 1 {
		return pmt.Hist1D{}, f.dataError(name, fmt.Sprintf("%s has rank %d, want 1", valuesName, len(dims)), nil)
	}

	h := pmt.Hist1D{Centres: centres, Values: values}
	if err := h.Validate(); err != nil {
		return pmt.Hist1D{}, f.dataError(name, "invalid histogram", err)
	}
	return h, nil
}

// H2D reads the 2D histogram stored in group name.
func (f *File) H2D(name string) (pmt.Hist2D, error) {
	g, err := f.group(name)
	if err != nil {
		return pmt.Hist2D{}, err
	}
	defer g.Close()

	xs, _, err := f.readDataset(g, name, xCentresName)
	if err != nil {
		return pmt.Hist2D{}, err
	}
	ys, _, err := f.readDataset(g, name, yCentresName)
	if err != nil {
		return pmt.Hist2D{}, err
	}
	flat, dims, err := f.readDataset(g, name, valuesName)
	if err != nil {
		return pmt.Hist2D{}, err
	}
	if len(dims) != 2 || int(dims[0]) != len(xs) || int(dims[1]) != len(ys) {
		return pmt.Hist2D{}, f.dataError(name, fmt.Sprintf("%s has shape %v, want [%d %d]", valuesName, dims, len(xs), len(ys)), nil)
	}

	h := pmt.Hist2D{XCentres: xs, YCentres: ys, Values: make([][]float64, len(xs))}
	for ix := range h.Values {
		h.Values[ix] = flat[ix*len(ys) : (ix+1)*len(ys)]
	}
	if err := h.Validate(); err != nil {
		return pmt.Hist2D{}, f.dataError(name, "invalid histogram", err)
	}
	return h, nil
}

// Close closes the underlying file.
func (f *File) Close() error {
	return f.file.Close()
}

func (f *File) group(name string) (*hdf5.Group, error) {
	g, err := f.file.OpenGroup(name)
	if err != nil {
		return nil, f.dataError(name, "histogram not found", err)
	}
	return g, nil
}

// readDataset reads a float64 dataset of any rank as a flat row-major slice.
// Datasets of any other element type are rejected: Read copies the stored
// bytes as they are.
func (f *File) readDataset(g *hdf5.Group, histName, dsetName string) ([]float64, []uint, error) {
	dset, err := g.OpenDataset(dsetName)
	if err != nil {
		return nil, nil, f.dataError(histName, "missing dataset "+dsetName, err)
	}
	defer dset.Close()

	dtype, err := dset.Datatype()
	if err != nil {
		return nil, nil, f.dataError(histName, "could not read type of "+dsetName, err)
	}
	defer dtype.Close()
	if !dtype.Equal(hdf5.T_NATIVE_DOUBLE) {
		return nil, nil, f.dataError(histName, dsetName+" is not float64", nil)
	}

	space := dset.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, nil, f.dataError(histName, "could not read shape of "+dsetName, err)
	}

	n := 1
	for _, d := range dims {
		n *= int(d)
	}
	data := make([]float64, n)
	if err := dset.Read(&data); err != nil {
		return nil, nil, f.dataError(histName, "could not read "+dsetName, err)
	}
	return data, dims, nil
}

func (f *File) dataError(name, reason string, err error) error {
	return &pmt.DataError{Source: f.Filename, Histogram: name, Reason: reason, Err: err}
}
