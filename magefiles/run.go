//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Opens the studio window with the presets in ./presets.
func (Run) Studio() error {
	fmt.Println("Run studio...")
	if _, err := executeCmd("go", withArgs("run", ".", "view", "--preset-dir", "presets"), withStream()); err != nil {
		return err
	}
	return nil
}

// Renders one PNG per object type into ./snapshots.
func (Run) Gallery() error {
	mg.Deps(Build.Headless)
	types, err := executeCmd(headlessPath, withArgs("info"))
	if err != nil {
		return err
	}
	if err := os.MkdirAll("snapshots", 0o755); err != nil {
		return err
	}
	for _, t := range objectTypes(types) {
		out := fmt.Sprintf("snapshots/%s.png", t)
		if _, err := executeCmd(headlessPath, withArgs("snapshot", "--object", t, "--frames", "60", "-o", out), withStream()); err != nil {
			return err
		}
	}
	return nil
}
