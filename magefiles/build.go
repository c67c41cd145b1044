//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const (
	binaryPath   = "bin/geomstudio"
	headlessPath = "bin/geomstudio-headless"
)

// Builds the geomstudio binary into bin/, stamping the git version.
func (Build) Binary() error {
	ldflags := fmt.Sprintf("-X main.version=%s", gitVersion())
	_, err := executeCmd("go", withArgs("build", "-ldflags", ldflags, "-o", binaryPath, "."), withStream())
	return err
}

// Builds a binary without cgo. It has no window but can snapshot, export
// and talk to the backend.
func (Build) Headless() error {
	ldflags := fmt.Sprintf("-X main.version=%s", gitVersion())
	_, err := executeCmd("go",
		withArgs("build", "-ldflags", ldflags, "-o", headlessPath, "."),
		withEnv("CGO_ENABLED=0"),
		withStream(),
	)
	return err
}

// Runs go mod tidy and go vet.
func (Build) Tidy() error {
	return goTidy()
}

// Runs the unit tests with the race detector.
func Test() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}
