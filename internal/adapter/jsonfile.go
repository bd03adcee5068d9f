package adapter

import (
	"encoding/json"
	"fmt"

	"github.com/devhub-labs/devhub/internal/mirror"
)

// DockerDaemon manages the registry-mirrors key of docker's daemon.json.
// Every other daemon setting is preserved: Render merges into the existing
// top-level object instead of replacing the file.
type DockerDaemon struct {
	path string
}

// NewDockerDaemon returns an adapter for the given daemon.json path.
func NewDockerDaemon(path string) *DockerDaemon {
	return &DockerDaemon{path: path}
}

func (a *DockerDaemon) Path() string { return a.path }

const registryMirrorsKey = "registry-mirrors"

// ReadCurrent returns the first configured registry mirror, if any.
func (a *DockerDaemon) ReadCurrent() (string, error) {
	content, ok, err := readArtifact(a.path)
	if err != nil || !ok {
		return "", err
	}

	var cfg map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &cfg); err != nil {
		return "", fmt.Errorf("parsing %s: %w", a.path, err)
	}

	raw, ok := cfg[registryMirrorsKey]
	if !ok {
		return "", nil
	}
	var mirrors []string
	if err := json.Unmarshal(raw, &mirrors); err != nil {
		return "", fmt.Errorf("parsing %s %s: %w", a.path, registryMirrorsKey, err)
	}
	if len(mirrors) == 0 {
		return "", nil
	}
	return mirrors[0], nil
}

// Render sets registry-mirrors to m while keeping unrelated daemon keys.
func (a *DockerDaemon) Render(m mirror.Mirror) ([]byte, error) {
	content, exists, err := readArtifact(a.path)
	if err != nil {
		return nil, err
	}

	cfg := map[string]json.RawMessage{}
	if exists {
		if err := json.Unmarshal([]byte(content), &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", a.path, err)
		}
	}

	mirrors, err := json.Marshal([]string{m.URL})
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", registryMirrorsKey, err)
	}
	cfg[registryMirrorsKey] = mirrors

	body, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", a.path, err)
	}
	return append(body, '\n'), nil
}

func (a *DockerDaemon) Write(body []byte) error {
	return atomicWrite(a.path, body)
}
