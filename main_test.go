package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/hbook"

	"github.com/HamletTheHamster/mpmt-mapping/internal/pmt"
	"github.com/HamletTheHamster/mpmt-mapping/internal/render"
	"github.com/HamletTheHamster/mpmt-mapping/internal/scan"
)

func TestParseFlagsDefaults(t *testing.T) {
	config, paths, err := parseFlags([]string{"scan.root"}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if config.OutDir != "." || config.Backend != backendGonum || !config.Fit || config.GIF || config.Verbosity != 0 {
		t.Fatalf("defaults = %+v", config)
	}
	if len(config.Formats) != 1 || config.Formats[0] != "png" {
		t.Fatalf("Formats = %v, want [png]", config.Formats)
	}
	if len(paths) != 1 || paths[0] != "scan.root" {
		t.Fatalf("paths = %v", paths)
	}
}

func TestParseFlags(t *testing.T) {
	config, paths, err := parseFlags([]string{
		"-o", "out", "-formats", "PNG, svg", "-fit=false", "-gif", "-v", "2",
		"scan.root", "dark.root", "led1.h5",
	}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if config.OutDir != "out" || config.Fit || !config.GIF || config.Verbosity != 2 {
		t.Fatalf("config = %+v", config)
	}
	if len(config.Formats) != 2 || config.Formats[1] != "svg" {
		t.Fatalf("Formats = %v, want [png svg]", config.Formats)
	}
	if len(paths) != 3 {
		t.Fatalf("paths = %v", paths)
	}

}

func TestParseFlagsBackend(t *testing.T) {
	backends["test"] = func(dir string) render.Renderer { return render.NewPlotter(dir, nil) }
	t.Cleanup(func() { delete(backends, "test") })

	config, _, err := parseFlags([]string{"-backend", "test", "-formats", "pdf", "scan.root"}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if len(config.Formats) != 1 || config.Formats[0] != "png" {
		t.Fatalf("Formats = %v, want [png]", config.Formats)
	}
}

func TestParseFlagsRejects(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
	}{
		{"no input", nil},
		{"too many runs", []string{"a", "b", "c", "d", "e", "f"}},
		{"backend", []string{"-backend", "matplotlib", "a"}},
		{"format", []string{"-formats", "bmp", "a"}},
		{"empty formats", []string{"-formats", ",", "a"}},
		{"flag", []string{"-unknown", "a"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := parseFlags(tc.args, io.Discard); err == nil {
				t.Fatalf("parseFlags(%q) accepted", tc.args)
			}
		})
	}
}

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{
		InfoLog:  slog.New(NewHandler(&buf, nil)),
		ErrorLog: slog.New(NewHandler(&buf, nil)),
	}
	l.Info("Position 3 is Channel 7", "scan")
	l.Error("channel 4 is 0.2 from closest PMT location (position 16)")

	re := regexp.MustCompile(`^\[\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}\] \[scan\] Position 3 is Channel 7\n` +
		`\[\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}\] channel 4 is 0.2 from closest PMT location \(position 16\)\n$`)
	if !re.Match(buf.Bytes()) {
		t.Fatalf("log output = %q", buf.String())
	}
}

func TestHandlerLevelAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	l.Info("dropped")
	l.With("module", "render").Warn("gif needs png channel maps")

	re := regexp.MustCompile(`^\[[^\]]+\] \[render\] gif needs png channel maps\n$`)
	if !re.Match(buf.Bytes()) {
		t.Fatalf("log output = %q", buf.String())
	}
}

// writeScan writes a scan whose channel ch lights up the slot (ch*5+2)%19,
// and returns its path together with that slot assignment.
func writeScan(t *testing.T, dir string) (string, func(int) int) {
	t.Helper()
	where := func(ch int) int { return (ch*5 + 2) % pmt.NumChannels }

	fname := filepath.Join(dir, "scan.root")
	f, err := groot.Create(fname)
	if err != nil {
		t.Fatalf("could not create ROOT file: %v", err)
	}
	defer f.Close()

	g := pmt.MPMT19()
	summed := hbook.NewH2D(100, 0.2, 0.7, 90, 0, 0.45)
	for ch := 0; ch < pmt.NumChannels; ch++ {
		p := g[where(ch)]
		h := hbook.NewH2D(100, 0.2, 0.7, 90, 0, 0.45)
		h.Fill(p.X, p.Y, 100)
		h.Fill(p.X+0.3, p.Y, 2)
		summed.Fill(p.X, p.Y, 100)
		if err := f.Put(scan.EfficiencyName(ch), rhist.NewH2DFrom(h)); err != nil {
			t.Fatalf("could not write efficiency map: %v", err)
		}
	}
	if err := f.Put(scan.SummedEfficiencyName, rhist.NewH2DFrom(summed)); err != nil {
		t.Fatalf("could not write summed efficiency: %v", err)
	}
	return fname, where
}

func writeRun(t *testing.T, dir string, name string) string {
	t.Helper()
	fname := filepath.Join(dir, name+".root")
	f, err := groot.Create(fname)
	if err != nil {
		t.Fatalf("could not create ROOT file: %v", err)
	}
	defer f.Close()

	for ch := 0; ch < pmt.NumChannels; ch++ {
		h := hbook.NewH1D(100, 0, 100)
		mean := 25.5 + float64(ch)
		h.Fill(2.5, 500)
		h.Fill(mean-1, 10)
		h.Fill(mean, 20)
		h.Fill(mean+1, 10)
		if err := f.Put(scan.PulseHeightName(ch), rhist.NewH1DFrom(h)); err != nil {
			t.Fatalf("could not write pulse height: %v", err)
		}
	}
	return fname
}

func TestRun(t *testing.T) {
	in := t.TempDir()
	scanFile, _ := writeScan(t, in)
	runFile := writeRun(t, in, "dark")

	out := filepath.Join(t.TempDir(), "plots")
	config := Configuration{OutDir: out, Backend: backendGonum, Formats: []string{"png"}, Fit: true, GIF: true}
	if err := run(config, []string{scanFile, runFile}); err != nil {
		t.Fatalf("run: %v", err)
	}

	names := []string{render.TotalEffName + ".png", render.MappingName + ".png", "Map_Channels.gif", render.ScatterName("DarkRate") + ".png"}
	for ch := 0; ch < pmt.NumChannels; ch++ {
		names = append(names, render.ChannelMapName(ch)+".png", render.PulseHeightName("DarkRate", ch)+".png")
	}
	for _, name := range names {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
}

func TestMapScan(t *testing.T) {
	scanFile, where := writeScan(t, t.TempDir())
	config := Configuration{OutDir: t.TempDir(), Backend: backendGonum, Formats: []string{"png"}}

	m, err := mapScan(config, render.NewPlotter(config.OutDir, config.Formats), pmt.MPMT19(), scanFile)
	if err != nil {
		t.Fatalf("mapScan: %v", err)
	}
	for ch := 0; ch < pmt.NumChannels; ch++ {
		if got := m.PositionOf(ch); got != where(ch) {
			t.Errorf("PositionOf(%d) = %d, want %d", ch, got, where(ch))
		}
	}
}

func TestRunUnknownSource(t *testing.T) {
	config := Configuration{OutDir: t.TempDir(), Backend: backendGonum, Formats: []string{"png"}}
	err := run(config, []string{filepath.Join(t.TempDir(), "scan.csv")})
	var de *pmt.DataError
	if !errors.As(err, &de) {
		t.Fatalf("run error = %v, want *pmt.DataError", err)
	}
}
