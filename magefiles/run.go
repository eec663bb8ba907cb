//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Opens the island diorama with the sample preset, reloaded on change.
func (Run) Island() error {
	fmt.Println("Run island...")
	return runExample("island", "-preset", "preset/testdata/island.toml", "-fps")
}

// Opens the condor pixel loader.
func (Run) Condor() error {
	return runExample("condor")
}

// Opens the puppy pixel loader.
func (Run) Puppy() error {
	return runExample("puppy", "-label", "Loading...")
}

// Opens the nerd pixel loader.
func (Run) Nerd() error {
	return runExample("nerd")
}

// Opens the chacana loader and dismisses it after three seconds.
func (Run) Chacana() error {
	return runExample("chacana", "-dismiss", "3")
}

// Opens the header banner.
func (Run) Banner() error {
	return runExample("banner")
}

// Opens the point-cloud background field.
func (Run) Field() error {
	return runExample("banner", "-field")
}
