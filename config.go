package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// Configuration holds the command-line options. None of them affect the
// geometry or the analysis thresholds.
type Configuration struct {
	OutDir    string
	Backend   string
	Formats   []string
	Fit       bool
	GIF       bool
	Verbosity int
}

const (
	backendGonum = "gonum"

	maxRuns = 4
)

const usage = "usage: mpmtmap [flags] scan [darkrate [led1 [led2 [led3]]]]"

// parseFlags reads the options from args and returns them with the input
// paths: the scan followed by up to four pulse-height runs.
func parseFlags(args []string, output io.Writer) (Configuration, []string, error) {
	var config Configuration
	var formats string

	fs := flag.NewFlagSet("mpmtmap", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintln(output, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&config.OutDir, "o", ".", "output directory")
	fs.StringVar(&config.Backend, "backend", backendGonum, "plot backend: gonum, or gnuplot when built with -tags gnuplot")
	fs.StringVar(&formats, "formats", "png", "comma-separated image formats (gonum backend): png, svg, pdf")
	fs.BoolVar(&config.Fit, "fit", true, "refine the displayed Gaussian by least squares")
	fs.BoolVar(&config.GIF, "gif", false, "also write an animated gif of the channel maps")
	fs.IntVar(&config.Verbosity, "v", 0, "verbosity level")
	if err := fs.Parse(args); err != nil {
		return Configuration{}, nil, err
	}

	for _, f := range strings.Split(formats, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		switch f {
		case "":
		case "png", "svg", "pdf":
			config.Formats = append(config.Formats, f)
		default:
			return Configuration{}, nil, fmt.Errorf("unsupported image format %q", f)
		}
	}
	if len(config.Formats) == 0 {
		return Configuration{}, nil, errors.New("no image format given")
	}

	if config.Backend != backendGonum {
		if _, ok := backends[config.Backend]; !ok {
			return Configuration{}, nil, fmt.Errorf("unknown backend %q", config.Backend)
		}
		config.Formats = []string{"png"}
	}

	paths := fs.Args()
	if len(paths) < 1 || len(paths) > 1+maxRuns {
		return Configuration{}, nil, fmt.Errorf("%d input files given\n%s", len(paths), usage)
	}
	return config, paths, nil
}

func printConfiguration(config Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("Output directory: %s", config.OutDir), "config")
	logger.Info(fmt.Sprintf("Backend: %s", config.Backend), "config")
	logger.Info(fmt.Sprintf("Formats: %s", strings.Join(config.Formats, ",")), "config")
	logger.Info(fmt.Sprintf("Fit: %t", config.Fit), "config")
	logger.Info(fmt.Sprintf("GIF: %t", config.GIF), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
}
