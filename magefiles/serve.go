//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Serve builds the CLI and starts the validation service on :8080.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "serve")
}

// Export builds the CLI and exports the local archive to YAML.
func Export() error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath, "archive", "export")
}
