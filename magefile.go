//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

// Build compiles the mpmtmap executable into ./bin.
func Build() error {
	mg.Deps(BuildMpmtmap)
	fmt.Println("Compilation finished")
	return nil
}

func BuildMpmtmap() error {
	fmt.Println("Building mpmtmap executable...")
	return goCmd("build", "-o", "./bin/mpmtmap", ".")
}

// BuildGnuplot builds mpmtmap with the gnuplot backend. Running it needs
// gnuplot on PATH.
func BuildGnuplot() error {
	fmt.Println("Building mpmtmap executable with gnuplot...")
	return goCmd("build", "-tags", "gnuplot", "-o", "./bin/mpmtmap", ".")
}

// Test runs the unit tests of every package.
func Test() error {
	fmt.Println("Running tests...")
	return goCmd("test", "./...")
}

// TestGnuplot also runs the gnuplot backend tests.
func TestGnuplot() error {
	fmt.Println("Running tests with gnuplot...")
	return goCmd("test", "-tags", "gnuplot", "./...")
}

// goCmd runs the go tool with cgo enabled and the HDF5 flags from the environment.
func goCmd(args ...string) error {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
