//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

var examples = []string{"island", "condor", "puppy", "nerd", "chacana", "banner", "frameplayer"}

// Downloads modules and builds every example into bin/.
func (Build) Examples() error {
	if _, err := executeCmd("go", withArgs("mod", "download")); err != nil {
		return err
	}
	for _, name := range examples {
		out := filepath.Join("bin", name)
		if _, err := executeCmd("go", withArgs("build", "-o", out, "./examples/"+name), withStream()); err != nil {
			return err
		}
	}
	return nil
}

// Runs go mod tidy.
func (Build) Tidy() error {
	_, err := executeCmd("go", withArgs("mod", "tidy"), withDir("."))
	return err
}
