// Package catalog loads the static mirror catalog: the bundled mirrors.json
// baked into the binary, optionally replaced by a user-maintained file at
// ~/.devhub/mirrors.json (or wherever the mirrors_file setting points).
// User files are validated against the catalog schema before use.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/devhub-labs/devhub/internal/config"
	"github.com/devhub-labs/devhub/internal/mirror"
)

//go:embed mirrors.json
var bundledMirrors []byte

// Catalog maps a tool id to its candidate mirrors. Immutable once loaded.
type Catalog map[string][]mirror.Mirror

// Load returns the effective catalog. Resolution order: the mirrors_file
// setting, then ~/.devhub/mirrors.json, then the bundled catalog. A broken
// user file is an error rather than a silent fallback; the user asked for
// it to be used.
func Load() (Catalog, error) {
	if path := config.MirrorsFile(); path != "" {
		return loadUserFile(path)
	}

	defaultPath := filepath.Join(config.Dir(), "mirrors.json")
	if _, err := os.Stat(defaultPath); err == nil {
		return loadUserFile(defaultPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("checking %s: %w", defaultPath, err)
	}

	return Bundled()
}

// Bundled parses the catalog baked into the binary.
func Bundled() (Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(bundledMirrors, &c); err != nil {
		return nil, fmt.Errorf("parsing bundled mirrors.json: %w", err)
	}
	return c, nil
}

// loadUserFile reads, schema-validates, and parses a user catalog.
func loadUserFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mirror catalog %s: %w", path, err)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("mirror catalog %s is invalid:\n%s", path, result.Summary())
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing mirror catalog %s: %w", path, err)
	}
	return c, nil
}

// For returns the candidate mirrors for one tool; nil when the tool has no
// catalog entry.
func (c Catalog) For(tool string) []mirror.Mirror {
	return c[tool]
}

// Tools returns the tool ids present in the catalog, sorted.
func (c Catalog) Tools() []string {
	tools := make([]string, 0, len(c))
	for id := range c {
		tools = append(tools, id)
	}
	sort.Strings(tools)
	return tools
}

// Official returns the catalog entry conventionally named "Official", used
// when a speed test wants the upstream included as a baseline.
func (c Catalog) Official(tool string) (mirror.Mirror, bool) {
	for _, m := range c[tool] {
		if m.Name == "Official" {
			return m, true
		}
	}
	return mirror.Mirror{}, false
}
