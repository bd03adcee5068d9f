package adapter

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/devhub-labs/devhub/internal/mirror"
)

// CargoConfig manages cargo's ~/.cargo/config.toml source-replacement
// tables. Cargo's mirror directive owns the whole file in practice, so
// Render rewrites it wholesale the way cargo's own documentation shows it.
type CargoConfig struct {
	path string
}

// NewCargoConfig returns an adapter for the given cargo config path.
func NewCargoConfig(path string) *CargoConfig {
	return &CargoConfig{path: path}
}

func (a *CargoConfig) Path() string { return a.path }

// cargoFile mirrors the subset of config.toml the adapter cares about.
type cargoFile struct {
	Source map[string]cargoSource `toml:"source"`
}

type cargoSource struct {
	ReplaceWith string `toml:"replace-with,omitempty"`
	Registry    string `toml:"registry,omitempty"`
}

// ReadCurrent returns the registry URL of the active replacement source.
func (a *CargoConfig) ReadCurrent() (string, error) {
	content, ok, err := readArtifact(a.path)
	if err != nil || !ok {
		return "", err
	}

	var cfg cargoFile
	if err := toml.Unmarshal([]byte(content), &cfg); err != nil {
		return "", fmt.Errorf("parsing %s: %w", a.path, err)
	}

	cratesIO, ok := cfg.Source["crates-io"]
	if !ok || cratesIO.ReplaceWith == "" {
		return "", nil
	}
	if repl, ok := cfg.Source[cratesIO.ReplaceWith]; ok {
		return repl.Registry, nil
	}
	return "", nil
}

// Render produces the full replacement config pointing crates-io at m.
func (a *CargoConfig) Render(m mirror.Mirror) ([]byte, error) {
	cfg := cargoFile{
		Source: map[string]cargoSource{
			"crates-io": {ReplaceWith: "mirror"},
			"mirror":    {Registry: m.URL},
		},
	}
	body, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("rendering cargo config: %w", err)
	}
	return body, nil
}

func (a *CargoConfig) Write(body []byte) error {
	return atomicWrite(a.path, body)
}

// UVConfig manages uv's uv.toml [[index]] tables.
type UVConfig struct {
	path string
}

// NewUVConfig returns an adapter for the given uv.toml path.
func NewUVConfig(path string) *UVConfig {
	return &UVConfig{path: path}
}

func (a *UVConfig) Path() string { return a.path }

type uvFile struct {
	Index []uvIndex `toml:"index"`
}

type uvIndex struct {
	URL     string `toml:"url"`
	Default bool   `toml:"default"`
}

// ReadCurrent returns the URL of the default index, if one is declared.
func (a *UVConfig) ReadCurrent() (string, error) {
	content, ok, err := readArtifact(a.path)
	if err != nil || !ok {
		return "", err
	}

	var cfg uvFile
	if err := toml.Unmarshal([]byte(content), &cfg); err != nil {
		return "", fmt.Errorf("parsing %s: %w", a.path, err)
	}
	for _, idx := range cfg.Index {
		if idx.Default {
			return idx.URL, nil
		}
	}
	return "", nil
}

// Render produces a uv.toml declaring m as the default index.
func (a *UVConfig) Render(m mirror.Mirror) ([]byte, error) {
	body, err := toml.Marshal(uvFile{Index: []uvIndex{{URL: m.URL, Default: true}}})
	if err != nil {
		return nil, fmt.Errorf("rendering uv config: %w", err)
	}
	return body, nil
}

func (a *UVConfig) Write(body []byte) error {
	return atomicWrite(a.path, body)
}
