// Command mpmtmap maps the readout channels of a 19-PMT mPMT to their physical
// positions from a scan's efficiency maps and summarises pulse-height runs.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/HamletTheHamster/mpmt-mapping/internal/h5hist"
	"github.com/HamletTheHamster/mpmt-mapping/internal/histo"
	"github.com/HamletTheHamster/mpmt-mapping/internal/pmt"
	"github.com/HamletTheHamster/mpmt-mapping/internal/render"
	"github.com/HamletTheHamster/mpmt-mapping/internal/scan"
)

var logger Logger

// sources opens histogram files by extension.
var sources = histo.Registry{
	".root": histo.OpenROOT,
	".h5":   h5hist.Open,
	".hdf5": h5hist.Open,
}

// backends holds the plot backends besides gonum/plot. Each writes png only
// and is registered by a build-tagged file.
var backends = map[string]func(dir string) render.Renderer{}

const gifDelay = 50

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handlerStdOut := NewHandler(os.Stdout, opts)
	handlerStdErr := slog.NewJSONHandler(os.Stderr, opts)
	logger = Logger{
		InfoLog:  slog.New(handlerStdOut),
		ErrorLog: slog.New(handlerStdErr),
	}
}

func main() {
	config, paths, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logger.Error(fmt.Errorf("error reading command line: %w", err).Error())
		os.Exit(1)
	}

	if config.Verbosity > 0 {
		printConfiguration(config, logger)
	}
	scan.SetLogger(logger)

	if err := run(config, paths); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(config Configuration, paths []string) error {
	var r render.Renderer = render.NewPlotter(config.OutDir, config.Formats)
	if newRenderer, ok := backends[config.Backend]; ok {
		r = newRenderer(config.OutDir)
	}

	g := pmt.MPMT19()
	m, err := mapScan(config, r, g, paths[0])
	if err != nil {
		return err
	}

	for i, path := range paths[1:] {
		if err := analyseRun(config, r, m, scan.RunNames[i], path); err != nil {
			return err
		}
	}
	return nil
}

// mapScan runs the channel mapping over the scan file and draws the
// efficiency maps and the layout.
func mapScan(config Configuration, r render.Renderer, g pmt.Geometry, path string) (*pmt.ChannelMap, error) {
	if config.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Reading scan %s", path), "main")
	}
	src, err := sources.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening scan: %w", err)
	}
	defer src.Close()

	summed, err := src.H2D(scan.SummedEfficiencyName)
	if err != nil {
		return nil, err
	}
	if err := r.EfficiencyMap(filepath.Base(path)+" Summed Efficiency", render.TotalEffName, summed); err != nil {
		return nil, err
	}

	m, err := scan.MapChannels(src, g)
	if err != nil {
		return nil, err
	}

	var frames []string
	for ch := 0; ch < m.Len(); ch++ {
		h, err := src.H2D(scan.EfficiencyName(ch))
		if err != nil {
			return nil, err
		}
		if err := r.ChannelMap(ch, h, m.Estimate(ch)); err != nil {
			return nil, err
		}
		frames = append(frames, filepath.Join(config.OutDir, render.ChannelMapName(ch)+".png"))
	}

	if err := r.Mapping(g, m); err != nil {
		return nil, err
	}

	if config.GIF {
		if !slices.Contains(config.Formats, "png") {
			logger.Error("gif needs png channel maps, skipping")
		} else if err := render.Animate(frames, filepath.Join(config.OutDir, "Map_Channels.gif"), gifDelay); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// analyseRun summarises one pulse-height run and draws its plots.
func analyseRun(config Configuration, r render.Renderer, m *pmt.ChannelMap, name, path string) error {
	if config.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Reading %s run %s", name, path), "main")
	}
	src, err := sources.Open(path)
	if err != nil {
		return fmt.Errorf("error opening %s run: %w", name, err)
	}
	defer src.Close()

	run, err := scan.AnalyseRun(src, name, m.Len(), config.Fit)
	if err != nil {
		return err
	}

	for _, cp := range run.Channels {
		if err := r.PulseHeight(name, cp); err != nil {
			return err
		}
	}
	return r.MeanScatter(name, m, run.Stats())
}
