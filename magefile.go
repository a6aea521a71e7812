//go:build mage

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target - build the binary
var Default = Build

const binPath = "bin/seqqc"

// Build builds the seqqc binary with version metadata baked in.
func Build() error {
	version, err := gitDescribe()
	if err != nil {
		version = "dev"
	}
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	date := time.Now().UTC().Format("2006-01-02")

	ldflags := fmt.Sprintf(
		"-X github.com/seqqc/seqqc/internal/version.Version=%s "+
			"-X github.com/seqqc/seqqc/internal/version.CommitHash=%s "+
			"-X github.com/seqqc/seqqc/internal/version.BuildDate=%s",
		version, commit, date)
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, "./cmd/seqqc")
}

// Test runs the full test suite with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs vet plus golangci-lint when available.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	if _, err := sh.Output("golangci-lint", "--version"); err != nil {
		fmt.Fprintln(os.Stderr, "golangci-lint not found, skipping")
		return nil
	}
	return sh.RunV("golangci-lint", "run", "--timeout=5m", "./...")
}

// Check runs lint and tests.
func Check() {
	mg.SerialDeps(Lint, Test)
}

// Clean removes build artifacts and data dumps.
func Clean() error {
	for _, p := range []string{binPath, "seqqc_data"} {
		if err := sh.Rm(p); err != nil {
			return err
		}
	}
	return nil
}

func gitDescribe() (string, error) {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
