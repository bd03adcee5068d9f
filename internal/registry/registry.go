// Package registry assembles the supported tool set: for each tool id, the
// executable to probe, the config artifacts to manage, and the configurator
// driving them. The set is fixed at startup from the mirror catalog.
package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/devhub-labs/devhub/internal/adapter"
	"github.com/devhub-labs/devhub/internal/backup"
	"github.com/devhub-labs/devhub/internal/catalog"
	"github.com/devhub-labs/devhub/internal/configurator"
	"github.com/devhub-labs/devhub/internal/detect"
	"github.com/devhub-labs/devhub/internal/mirror"
	"github.com/devhub-labs/devhub/internal/shell"
	"github.com/devhub-labs/devhub/internal/speedtest"
)

// Tool is one managed package manager or build tool.
type Tool struct {
	// ID is the stable identifier used on the command line ("pip", "npm").
	ID string
	// Executables are the candidate binary names, in probe order. Some
	// tools ship under several names (pip3 vs pip).
	Executables []string
	// SudoHint is true when the tool's artifact usually needs elevated
	// privileges to write (docker's /etc/docker/daemon.json on Linux).
	SudoHint bool
	// Config drives mirror reads and writes for this tool.
	Config *configurator.Configurator

	runner shell.Runner
}

// Detect probes the tool's executables in order and reports the first one
// found on PATH. Absence is a normal result, not an error.
func (t *Tool) Detect(ctx context.Context) mirror.DetectionInfo {
	for _, exe := range t.Executables {
		if t.runner.LookPath(exe) == "" {
			continue
		}
		return detect.New(exe, t.runner).Detect(ctx)
	}
	return mirror.DetectionInfo{}
}

// Registry holds the full tool set.
type Registry struct {
	tools map[string]*Tool
}

// New wires every supported tool against the given catalog and shared
// services.
func New(cat catalog.Catalog, runner shell.Runner, backups *backup.Manager, speed *speedtest.Service) *Registry {
	home := homeDir()

	build := func(id string, executables []string, sudo bool, artifacts []configurator.Artifact) *Tool {
		return &Tool{
			ID:          id,
			Executables: executables,
			SudoHint:    sudo,
			Config:      configurator.New(id, artifacts, cat.For(id), backups, speed),
			runner:      runner,
		}
	}

	snap := func(a adapter.Adapter) configurator.Artifact {
		return configurator.Artifact{Adapter: a, Snapshot: true}
	}

	npmrc := filepath.Join(home, ".npmrc")

	tools := []*Tool{
		build("pip", []string{"pip3", "pip"}, false,
			[]configurator.Artifact{snap(adapter.NewPipConf(pipConfPath(home)))}),
		build("uv", []string{"uv"}, false,
			[]configurator.Artifact{snap(adapter.NewUVConfig(uvConfigPath(home)))}),
		build("conda", []string{"conda"}, false,
			[]configurator.Artifact{snap(adapter.NewCondaRC(filepath.Join(home, ".condarc")))}),
		build("npm", []string{"npm"}, false,
			[]configurator.Artifact{snap(adapter.NewNpmRC(npmrc))}),
		// yarn v1 reads .yarnrc but falls through to .npmrc for scoped
		// packages; both must move together.
		build("yarn", []string{"yarn"}, false,
			[]configurator.Artifact{
				snap(adapter.NewYarnRC(filepath.Join(home, ".yarnrc"))),
				snap(adapter.NewNpmRC(npmrc)),
			}),
		build("cargo", []string{"cargo"}, false,
			[]configurator.Artifact{snap(adapter.NewCargoConfig(filepath.Join(home, ".cargo", "config.toml")))}),
		build("go", []string{"go"}, false,
			[]configurator.Artifact{{Adapter: adapter.NewGoEnv(runner), Snapshot: false}}),
		build("maven", []string{"mvn"}, false,
			[]configurator.Artifact{snap(adapter.NewMavenSettings(filepath.Join(home, ".m2", "settings.xml")))}),
		build("docker", []string{"docker"}, runtime.GOOS == "linux",
			[]configurator.Artifact{snap(adapter.NewDockerDaemon(dockerDaemonPath(home)))}),
		build("brew", []string{"brew"}, false,
			[]configurator.Artifact{snap(adapter.NewBrewProfile(shellProfilePath(home)))}),
	}

	r := &Registry{tools: make(map[string]*Tool, len(tools))}
	for _, t := range tools {
		r.tools[t.ID] = t
	}
	return r
}

// Resolve returns the tool for id, or mirror.ErrUnknownTool.
func (r *Registry) Resolve(id string) (*Tool, error) {
	t, ok := r.tools[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, mirror.ErrUnknownTool)
	}
	return t, nil
}

// List returns every tool sorted by id.
func (r *Registry) List() []*Tool {
	tools := make([]*Tool, 0, len(r.tools))
	for _, t := range r.tools {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].ID < tools[j].ID })
	return tools
}

// IDs returns the tool ids sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.tools))
	for id := range r.tools {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func pipConfPath(home string) string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "pip", "pip.ini")
		}
		return filepath.Join(home, "pip", "pip.ini")
	}
	return filepath.Join(home, ".config", "pip", "pip.conf")
}

func uvConfigPath(home string) string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "uv", "uv.toml")
		}
	}
	return filepath.Join(home, ".config", "uv", "uv.toml")
}

func dockerDaemonPath(home string) string {
	if runtime.GOOS == "linux" {
		return "/etc/docker/daemon.json"
	}
	// Docker Desktop reads the per-user file on macOS and Windows.
	return filepath.Join(home, ".docker", "daemon.json")
}

// shellProfilePath picks the profile the brew exports land in: ~/.zshrc
// when it exists, otherwise ~/.bashrc.
func shellProfilePath(home string) string {
	zshrc := filepath.Join(home, ".zshrc")
	if _, err := os.Stat(zshrc); err == nil {
		return zshrc
	}
	return filepath.Join(home, ".bashrc")
}
