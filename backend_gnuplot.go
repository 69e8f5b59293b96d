//go:build gnuplot

package main

import (
	"github.com/HamletTheHamster/mpmt-mapping/internal/render"
	"github.com/HamletTheHamster/mpmt-mapping/internal/render/gnuplot"
)

const backendGnuplot = "gnuplot"

func init() {
	backends[backendGnuplot] = func(dir string) render.Renderer {
		return gnuplot.New(dir)
	}
}
