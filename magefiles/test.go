//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs the unit tests of every package.
func (Test) Unit() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs the unit tests with the race detector; the preloader and preset
// watcher run goroutines.
func (Test) Race() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}

// Runs go vet.
func (Test) Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}

// Runs vet, then the tests with the race detector.
func (Test) All() {
	mg.SerialDeps(Test.Vet, Test.Race)
}

// Runs the scripted island smoke test: the window opens, the toggle is
// clicked, screenshots land in screenshots/ and the window closes.
func (Test) Smoke() error {
	return runExample("island", "-script", "magefiles/testdata/island.yaml")
}
