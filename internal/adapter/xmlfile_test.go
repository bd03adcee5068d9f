package adapter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devhub-labs/devhub/internal/mirror"
)

func TestMavenSettings_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.xml")
	a := NewMavenSettings(path)

	m := mirror.Mirror{Name: "Aliyun", URL: "https://maven.aliyun.com/repository/public"}
	applyTo(t, a, m)

	content, _ := os.ReadFile(path)
	text := string(content)
	if !strings.Contains(text, "<id>aliyun</id>") {
		t.Errorf("mirror id missing:\n%s", text)
	}
	if !strings.Contains(text, "<mirrorOf>central</mirrorOf>") {
		t.Errorf("mirrorOf missing:\n%s", text)
	}

	got, err := a.ReadCurrent()
	if err != nil {
		t.Fatal(err)
	}
	if got != m.URL {
		t.Errorf("ReadCurrent = %q, want %q", got, m.URL)
	}
}

func TestMavenSettings_ForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.xml")
	seed := `<?xml version="1.0"?>
<settings>
  <localRepository>/data/m2</localRepository>
  <mirrors>
    <mirror>
      <id>corp</id>
      <name>Corp Nexus</name>
      <url>https://nexus.corp.example/repository/maven-public/</url>
      <mirrorOf>*</mirrorOf>
    </mirror>
  </mirrors>
</settings>`
	os.WriteFile(path, []byte(seed), 0o644)

	got, err := NewMavenSettings(path).ReadCurrent()
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://nexus.corp.example/repository/maven-public/" {
		t.Errorf("ReadCurrent = %q", got)
	}
}

func TestMavenSettings_NoMirrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.xml")
	os.WriteFile(path, []byte(`<?xml version="1.0"?><settings></settings>`), 0o644)

	got, err := NewMavenSettings(path).ReadCurrent()
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("ReadCurrent = %q, want empty", got)
	}
}
