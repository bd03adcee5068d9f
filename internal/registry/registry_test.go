package registry

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/devhub-labs/devhub/internal/backup"
	"github.com/devhub-labs/devhub/internal/catalog"
	"github.com/devhub-labs/devhub/internal/mirror"
	"github.com/devhub-labs/devhub/internal/shell"
	"github.com/devhub-labs/devhub/internal/speedtest"
)

// fakeRunner resolves only the executables listed in paths and serves
// canned version output.
type fakeRunner struct {
	paths    map[string]string
	versions map[string]string
}

func (f *fakeRunner) Run(ctx context.Context, cmd string, args ...string) (shell.Output, error) {
	if v, ok := f.versions[cmd]; ok {
		return shell.Output{Success: true, Stdout: v + "\n"}, nil
	}
	return shell.Output{}, nil
}

func (f *fakeRunner) LookPath(cmd string) string { return f.paths[cmd] }

func newTestRegistry(t *testing.T, runner shell.Runner) *Registry {
	t.Helper()
	cat, err := catalog.Bundled()
	if err != nil {
		t.Fatal(err)
	}
	return New(cat, runner, &backup.Manager{}, speedtest.New(0))
}

func TestNew_CoversEveryCatalogTool(t *testing.T) {
	cat, err := catalog.Bundled()
	if err != nil {
		t.Fatal(err)
	}
	r := New(cat, &fakeRunner{}, &backup.Manager{}, speedtest.New(0))

	for _, id := range cat.Tools() {
		tool, err := r.Resolve(id)
		if err != nil {
			t.Errorf("Resolve(%q): %v", id, err)
			continue
		}
		if len(tool.Config.Mirrors()) == 0 {
			t.Errorf("%s: no mirrors wired from catalog", id)
		}
	}
}

func TestResolve_UnknownTool(t *testing.T) {
	r := newTestRegistry(t, &fakeRunner{})
	if _, err := r.Resolve("gradle"); !errors.Is(err, mirror.ErrUnknownTool) {
		t.Errorf("err = %v, want ErrUnknownTool", err)
	}
}

func TestList_Sorted(t *testing.T) {
	r := newTestRegistry(t, &fakeRunner{})
	tools := r.List()
	if len(tools) == 0 {
		t.Fatal("empty registry")
	}
	ids := make([]string, len(tools))
	for i, tool := range tools {
		ids[i] = tool.ID
	}
	if !sort.StringsAreSorted(ids) {
		t.Errorf("ids not sorted: %v", ids)
	}
}

func TestDetect_PrefersFirstExecutable(t *testing.T) {
	runner := &fakeRunner{
		paths:    map[string]string{"pip3": "/usr/bin/pip3", "pip": "/usr/bin/pip"},
		versions: map[string]string{"pip3": "pip 24.0 from /usr/lib/python3/dist-packages/pip (python 3.12)"},
	}
	r := newTestRegistry(t, runner)

	pip, err := r.Resolve("pip")
	if err != nil {
		t.Fatal(err)
	}
	info := pip.Detect(context.Background())
	if !info.Installed {
		t.Fatal("pip not detected")
	}
	if info.Path != "/usr/bin/pip3" {
		t.Errorf("Path = %q, want the pip3 binary", info.Path)
	}
	if info.SemVer != "24.0.0" {
		t.Errorf("SemVer = %q, want 24.0.0", info.SemVer)
	}
}

func TestDetect_AbsentTool(t *testing.T) {
	r := newTestRegistry(t, &fakeRunner{})
	cargo, err := r.Resolve("cargo")
	if err != nil {
		t.Fatal(err)
	}
	info := cargo.Detect(context.Background())
	if info.Installed || info.Version != "" || info.Path != "" {
		t.Errorf("absent tool reported %+v", info)
	}
}

func TestWiring_CoupledAndCommandBacked(t *testing.T) {
	r := newTestRegistry(t, &fakeRunner{})

	yarn, err := r.Resolve("yarn")
	if err != nil {
		t.Fatal(err)
	}
	if paths := yarn.Config.Paths(); len(paths) != 2 {
		t.Errorf("yarn paths = %v, want the .yarnrc/.npmrc pair", paths)
	}

	goTool, err := r.Resolve("go")
	if err != nil {
		t.Fatal(err)
	}
	if paths := goTool.Config.Paths(); len(paths) != 1 || paths[0] != "(go env GOPROXY)" {
		t.Errorf("go paths = %v", paths)
	}
}
