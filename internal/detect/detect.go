// Package detect probes for locally installed tools and normalizes the
// result into a DetectionInfo record.
package detect

import (
	"context"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/devhub-labs/devhub/internal/mirror"
	"github.com/devhub-labs/devhub/internal/shell"
)

// Detector probes one executable. Detection is side-effect free and never
// fails: any probe problem collapses to Installed=false.
type Detector struct {
	// Command is the executable name to look for (e.g. "pip3", "docker").
	Command string

	Runner shell.Runner
}

// New returns a Detector for the given executable backed by the provided
// runner.
func New(command string, runner shell.Runner) *Detector {
	return &Detector{Command: command, Runner: runner}
}

// Detect resolves the executable's location and, when present, its version.
// A tool that is absent, hung, or broken reports Installed=false; detection
// absence is routine state, not an error.
func (d *Detector) Detect(ctx context.Context) mirror.DetectionInfo {
	path := d.Runner.LookPath(d.Command)
	if path == "" {
		return mirror.DetectionInfo{}
	}

	raw := shell.Version(ctx, d.Runner, d.Command)
	return mirror.DetectionInfo{
		Installed: true,
		Version:   raw,
		SemVer:    normalizeVersion(raw),
		Path:      path,
	}
}

// versionToken matches the first dotted numeric run in a version banner,
// e.g. "24.0" in "pip 24.0 from /usr/lib" or "1.25.7" in "go1.25.7".
var versionToken = regexp.MustCompile(`\d+(\.\d+)+(-[0-9A-Za-z.-]+)?`)

// normalizeVersion extracts a semver-parseable token from a raw version
// line. Returns "" when nothing in the line parses.
func normalizeVersion(raw string) string {
	token := versionToken.FindString(raw)
	if token == "" {
		return ""
	}
	v, err := semver.NewVersion(strings.TrimPrefix(token, "v"))
	if err != nil {
		return ""
	}
	return v.String()
}
