// Package histo reads binned calibration histograms from scan output files.
package histo

import (
	"path/filepath"
	"strings"

	"github.com/HamletTheHamster/mpmt-mapping/internal/pmt"
)

// Source is an opened data file exposing named histograms.
type Source interface {
	H1D(name string) (pmt.Hist1D, error)
	H2D(name string) (pmt.Hist2D, error)
	Close() error
}

// Opener opens a Source for a file path.
type Opener func(path string) (Source, error)

// Registry maps lower-case file extensions (".root") to openers.
type Registry map[string]Opener

// Open opens path with the opener registered for its extension.
func (r Registry) Open(path string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	open, ok := r[ext]
	if !ok {
		return nil, &pmt.DataError{Source: path, Reason: "unsupported file extension " + quoteExt(ext)}
	}
	return open(path)
}

func quoteExt(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return `"` + ext + `"`
}
