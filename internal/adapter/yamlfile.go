package adapter

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/devhub-labs/devhub/internal/mirror"
)

// CondaRC manages conda's ~/.condarc channel layout. Conda's mirror setup
// rewrites the channel tree as a unit, so Render is wholesale.
type CondaRC struct {
	path string
}

// NewCondaRC returns an adapter for the given .condarc path.
func NewCondaRC(path string) *CondaRC {
	return &CondaRC{path: path}
}

func (a *CondaRC) Path() string { return a.path }

type condaFile struct {
	Channels        []string          `yaml:"channels"`
	ShowChannelURLs bool              `yaml:"show_channel_urls"`
	DefaultChannels []string          `yaml:"default_channels"`
	CustomChannels  map[string]string `yaml:"custom_channels,omitempty"`
}

// ReadCurrent returns the mirror base URL derived from the first default
// channel, if one is configured.
func (a *CondaRC) ReadCurrent() (string, error) {
	content, ok, err := readArtifact(a.path)
	if err != nil || !ok {
		return "", err
	}

	var cfg condaFile
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return "", fmt.Errorf("parsing %s: %w", a.path, err)
	}
	if len(cfg.DefaultChannels) == 0 {
		return "", nil
	}
	// Channels are written as <base>/pkgs/<name>; recover the base.
	first := cfg.DefaultChannels[0]
	if i := strings.Index(first, "/pkgs/"); i >= 0 {
		return first[:i], nil
	}
	return first, nil
}

// Render produces the standard mirrored channel tree rooted at m.
func (a *CondaRC) Render(m mirror.Mirror) ([]byte, error) {
	base := strings.TrimRight(m.URL, "/")
	cfg := condaFile{
		Channels:        []string{"defaults"},
		ShowChannelURLs: true,
		DefaultChannels: []string{
			base + "/pkgs/main",
			base + "/pkgs/r",
			base + "/pkgs/msys2",
		},
		CustomChannels: map[string]string{
			"conda-forge": base + "/cloud",
			"pytorch":     base + "/cloud",
		},
	}

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", a.path, err)
	}
	return body, nil
}

func (a *CondaRC) Write(body []byte) error {
	return atomicWrite(a.path, body)
}
