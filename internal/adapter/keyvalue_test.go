package adapter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devhub-labs/devhub/internal/mirror"
)

func applyTo(t *testing.T, a Adapter, m mirror.Mirror) {
	t.Helper()
	body, err := a.Render(m)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := a.Write(body); err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func TestPipConf_FreshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pip.conf")
	a := NewPipConf(path)

	current, err := a.ReadCurrent()
	if err != nil {
		t.Fatalf("ReadCurrent on absent file: %v", err)
	}
	if current != "" {
		t.Errorf("absent artifact should read as no mirror, got %q", current)
	}

	tuna := mirror.Mirror{Name: "Tuna", URL: "https://pypi.tuna.tsinghua.edu.cn/simple"}
	applyTo(t, a, tuna)

	content, _ := os.ReadFile(path)
	if n := strings.Count(string(content), "index-url = https://pypi.tuna.tsinghua.edu.cn/simple"); n != 1 {
		t.Errorf("want exactly one index-url line, got %d in:\n%s", n, content)
	}
	if n := strings.Count(string(content), "trusted-host = pypi.tuna.tsinghua.edu.cn"); n != 1 {
		t.Errorf("want exactly one trusted-host line, got %d in:\n%s", n, content)
	}

	current, err = a.ReadCurrent()
	if err != nil {
		t.Fatal(err)
	}
	if current != tuna.URL {
		t.Errorf("ReadCurrent = %q, want %q", current, tuna.URL)
	}
}

func TestPipConf_PreservesUnrelatedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pip.conf")
	seed := "[global]\ntimeout = 60\nindex-url = https://old.example/simple\ntrusted-host = old.example\n\n[install]\nno-compile = yes\n"
	os.WriteFile(path, []byte(seed), 0o644)

	a := NewPipConf(path)
	applyTo(t, a, mirror.Mirror{Name: "Aliyun", URL: "https://mirrors.aliyun.com/pypi/simple"})

	content, _ := os.ReadFile(path)
	text := string(content)
	for _, keep := range []string{"timeout = 60", "[install]", "no-compile = yes"} {
		if !strings.Contains(text, keep) {
			t.Errorf("unrelated setting %q was lost:\n%s", keep, text)
		}
	}
	if strings.Contains(text, "old.example") {
		t.Errorf("old mirror lines survived:\n%s", text)
	}
	if n := strings.Count(text, "index-url"); n != 1 {
		t.Errorf("want one index-url line, got %d", n)
	}
}

func TestPipConf_HeaderlessFileGetsTrustedHost(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pip.conf")
	os.WriteFile(path, []byte("index-url = https://old.example/simple\n"), 0o644)

	a := NewPipConf(path)
	applyTo(t, a, mirror.Mirror{Name: "Tuna", URL: "https://pypi.tuna.tsinghua.edu.cn/simple"})

	content, _ := os.ReadFile(path)
	text := string(content)
	if n := strings.Count(text, "index-url = https://pypi.tuna.tsinghua.edu.cn/simple"); n != 1 {
		t.Errorf("want exactly one index-url line, got %d in:\n%s", n, text)
	}
	if n := strings.Count(text, "trusted-host = pypi.tuna.tsinghua.edu.cn"); n != 1 {
		t.Errorf("want exactly one trusted-host line, got %d in:\n%s", n, text)
	}
}

func TestPipConf_DoubleApplyIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pip.conf")
	a := NewPipConf(path)
	m := mirror.Mirror{Name: "Tuna", URL: "https://pypi.tuna.tsinghua.edu.cn/simple"}

	applyTo(t, a, m)
	first, _ := os.ReadFile(path)
	applyTo(t, a, m)
	second, _ := os.ReadFile(path)

	if string(first) != string(second) {
		t.Errorf("double apply changed content:\n%s\nvs\n%s", first, second)
	}
}

func TestNpmRC(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".npmrc")
	seed := "save-exact=true\nregistry=https://registry.npmjs.org/\n"
	os.WriteFile(path, []byte(seed), 0o644)

	a := NewNpmRC(path)
	current, err := a.ReadCurrent()
	if err != nil {
		t.Fatal(err)
	}
	if current != "https://registry.npmjs.org/" {
		t.Errorf("ReadCurrent = %q", current)
	}

	applyTo(t, a, mirror.Mirror{Name: "Npmmirror", URL: "https://registry.npmmirror.com"})

	content, _ := os.ReadFile(path)
	text := string(content)
	if !strings.Contains(text, "save-exact=true") {
		t.Errorf("unrelated key lost:\n%s", text)
	}
	if !strings.Contains(text, "registry=https://registry.npmmirror.com") {
		t.Errorf("registry line missing:\n%s", text)
	}
	if strings.Contains(text, "npmjs.org") {
		t.Errorf("old registry survived:\n%s", text)
	}
}

func TestYarnRC_QuotedValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".yarnrc")
	a := NewYarnRC(path)

	applyTo(t, a, mirror.Mirror{Name: "Npmmirror", URL: "https://registry.npmmirror.com"})

	content, _ := os.ReadFile(path)
	if !strings.Contains(string(content), `registry "https://registry.npmmirror.com"`) {
		t.Errorf("yarnrc line missing or unquoted:\n%s", content)
	}

	current, err := a.ReadCurrent()
	if err != nil {
		t.Fatal(err)
	}
	if current != "https://registry.npmmirror.com" {
		t.Errorf("ReadCurrent = %q", current)
	}
}

func TestRCFile_AppendsWithoutTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".npmrc")
	os.WriteFile(path, []byte("save-exact=true"), 0o644)

	a := NewNpmRC(path)
	applyTo(t, a, mirror.Mirror{Name: "M", URL: "https://m.example"})

	content, _ := os.ReadFile(path)
	if !strings.Contains(string(content), "save-exact=true\nregistry=https://m.example\n") {
		t.Errorf("append broke existing line:\n%q", content)
	}
}
