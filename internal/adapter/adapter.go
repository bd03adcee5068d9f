// Package adapter translates between a tool's on-disk (or OS/session)
// mirror representation and the engine's Mirror abstraction.
//
// Each artifact kind gets its own narrowly-scoped adapter; there is no
// universal config parser. The set is closed: new tools are supported by
// adding an adapter, not by subclassing.
package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/devhub-labs/devhub/internal/mirror"
)

// Adapter is implemented once per artifact kind.
type Adapter interface {
	// Path is the artifact location this adapter owns. Command-backed
	// adapters return a descriptive placeholder.
	Path() string

	// ReadCurrent extracts the currently configured source URL, or ""
	// when the artifact is absent or carries no recognizable mirror
	// directive. Absence is valid state ("using the official default"),
	// never an error.
	ReadCurrent() (string, error)

	// Render produces the complete new artifact body selecting m. For
	// formats where unrelated keys matter, Render edits the existing
	// content rather than replacing it wholesale.
	Render(m mirror.Mirror) ([]byte, error)

	// Write persists body atomically, creating parent directories as
	// needed.
	Write(body []byte) error
}

// readArtifact loads an artifact, mapping absence to ("", false, nil).
func readArtifact(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), true, nil
}

// atomicWrite persists body via a temp file and rename so a crashed write
// never leaves a half-written artifact behind.
func atomicWrite(path string, body []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting mode on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
