package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/devhub-labs/devhub/internal/mirror"
	"github.com/devhub-labs/devhub/internal/shell"
)

// goProxyDefault is the documented factory default for GOPROXY.
const goProxyDefault = "https://proxy.golang.org,direct"

// GoEnv persists the mirror through the toolchain's own env store
// (`go env -w GOPROXY=...`). There is no file to snapshot; the toolchain
// owns the artifact, and restore rewrites the documented default.
type GoEnv struct {
	runner shell.Runner
}

// NewGoEnv returns an adapter backed by the given runner.
func NewGoEnv(runner shell.Runner) *GoEnv {
	return &GoEnv{runner: runner}
}

// Path returns a placeholder; the artifact lives in the go toolchain's env
// store, not at a path DevHub owns.
func (a *GoEnv) Path() string { return "(go env GOPROXY)" }

// ReadCurrent queries the live GOPROXY value. "off" and the factory default
// both read as "no mirror configured".
func (a *GoEnv) ReadCurrent() (string, error) {
	out, err := a.runner.Run(context.Background(), "go", "env", "GOPROXY")
	if err != nil || !out.Success {
		// No usable toolchain means no mirror configured; not an error.
		return "", nil
	}
	value := strings.TrimSpace(out.Stdout)
	if value == "" || value == "off" || value == goProxyDefault {
		return "", nil
	}
	// Report the first proxy in the fallback list; ",direct" is plumbing,
	// not part of the mirror identity.
	first, _, _ := strings.Cut(value, ",")
	return first, nil
}

// Render returns the GOPROXY value to persist; the fallthrough to direct
// keeps unmirrored modules fetchable.
func (a *GoEnv) Render(m mirror.Mirror) ([]byte, error) {
	url := strings.TrimRight(m.URL, "/")
	if !strings.Contains(url, ",") {
		url += ",direct"
	}
	return []byte(url), nil
}

// Write persists the rendered value via `go env -w`.
func (a *GoEnv) Write(body []byte) error {
	return a.writeValue(string(body))
}

// RestoreDefault rewrites GOPROXY to the documented default.
func (a *GoEnv) RestoreDefault() error {
	return a.writeValue(goProxyDefault)
}

func (a *GoEnv) writeValue(value string) error {
	out, err := a.runner.Run(context.Background(), "go", "env", "-w", "GOPROXY="+value)
	if err != nil {
		return fmt.Errorf("setting GOPROXY: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("setting GOPROXY: go env -w failed: %s", shell.FirstLine(out.Stderr))
	}
	return nil
}
