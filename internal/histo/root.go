package histo

import (
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/root"
	"go-hep.org/x/hep/hbook/rootcnv"

	"github.com/HamletTheHamster/mpmt-mapping/internal/pmt"
)

// ROOTFile is a Source backed by a ROOT file holding TH1x/TH2x objects.
type ROOTFile struct {
	Filename string
	file     *groot.File
}

// OpenROOT opens a ROOT file for reading.
func OpenROOT(path string) (Source, error) {
	f, err := groot.Open(path)
	if err != nil {
		return nil, &pmt.DataError{Source: path, Reason: "could not open ROOT file", Err: err}
	}
	return &ROOTFile{Filename: path, file: f}, nil
}

func (r *ROOTFile) get(name string) (root.Object, error) {
	obj, err := r.file.Get(name)
	if err != nil {
		return nil, &pmt.DataError{Source: r.Filename, Histogram: name, Reason: "histogram not found", Err: err}
	}
	return obj, nil
}

// H1D reads the 1D histogram stored under name.
func (r *ROOTFile) H1D(name string) (pmt.Hist1D, error) {
	obj, err := r.get(name)
	if err != nil {
		return pmt.Hist1D{}, err
	}
	if _, ok := obj.(rhist.H2); ok {
		return pmt.Hist1D{}, r.wrongType(name, obj, "1D")
	}
	h, ok := obj.(rhist.H1)
	if !ok {
		return pmt.Hist1D{}, r.wrongType(name, obj, "1D")
	}

	out := FromH1D(rootcnv.H1D(h))
	if err := out.Validate(); err != nil {
		return pmt.Hist1D{}, r.annotate(name, err)
	}
	return out, nil
}

// H2D reads the 2D histogram stored under name.
func (r *ROOTFile) H2D(name string) (pmt.Hist2D, error) {
	obj, err := r.get(name)
	if err != nil {
		return pmt.Hist2D{}, err
	}
	h, ok := obj.(rhist.H2)
	if !ok {
		return pmt.Hist2D{}, r.wrongType(name, obj, "2D")
	}

	out := FromH2D(rootcnv.H2D(h))
	if err := out.Validate(); err != nil {
		return pmt.Hist2D{}, r.annotate(name, err)
	}
	return out, nil
}

// Close closes the underlying file.
func (r *ROOTFile) Close() error {
	return r.file.Close()
}

func (r *ROOTFile) wrongType(name string, obj root.Object, want string) error {
	return &pmt.DataError{
		Source:    r.Filename,
		Histogram: name,
		Reason:    fmt.Sprintf("object of class %s is not a %s histogram", obj.Class(), want),
	}
}

func (r *ROOTFile) annotate(name string, err error) error {
	if de, ok := err.(*pmt.DataError); ok {
		de.Source = r.Filename
		de.Histogram = name
		return de
	}
	return err
}
