// Package vcs drives the git binary in the tile repository checkout. The
// checkout, its remote and its branch are whatever the operator has
// configured; this package only stages, commits and pushes.
package vcs

import (
	"fmt"
	"os/exec"
	"strings"
)

// Git runs git subcommands in a fixed checkout directory.
type Git struct {
	Bin string
	Dir string
}

// New returns a Git bound to the given checkout. An empty bin falls back to
// "git" on PATH.
func New(bin, dir string) *Git {
	if bin == "" {
		bin = "git"
	}
	return &Git{Bin: bin, Dir: dir}
}

// Add stages a path, relative to the checkout root.
func (g *Git) Add(path string) error {
	return g.run("add", path)
}

// Commit records the staged tiles with the given message.
func (g *Git) Commit(message string) error {
	return g.run("commit", "-m", message)
}

// Push publishes the commit to the configured remote.
func (g *Git) Push() error {
	return g.run("push")
}

// run executes one git subcommand, reporting git's own output verbatim on
// failure so the operator sees exactly what git said.
func (g *Git) run(args ...string) error {
	cmd := exec.Command(g.Bin, args...)
	cmd.Dir = g.Dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %s: %v\n%s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}

	return nil
}
