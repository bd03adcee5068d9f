package adapter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"

	"github.com/devhub-labs/devhub/internal/mirror"
)

// MavenSettings manages the <mirrors> block of maven's settings.xml. A
// DevHub-authored settings.xml holds exactly one mirror of central, so
// Render is wholesale; reading tolerates arbitrary user files.
type MavenSettings struct {
	path string
}

// NewMavenSettings returns an adapter for the given settings.xml path.
func NewMavenSettings(path string) *MavenSettings {
	return &MavenSettings{path: path}
}

func (a *MavenSettings) Path() string { return a.path }

type mavenSettingsDoc struct {
	Mirrors []mavenMirror `xml:"mirrors>mirror"`
}

type mavenMirror struct {
	ID       string `xml:"id"`
	Name     string `xml:"name"`
	URL      string `xml:"url"`
	MirrorOf string `xml:"mirrorOf"`
}

// ReadCurrent returns the URL of the first declared mirror, if any.
func (a *MavenSettings) ReadCurrent() (string, error) {
	content, ok, err := readArtifact(a.path)
	if err != nil || !ok {
		return "", err
	}

	var doc mavenSettingsDoc
	if err := xml.Unmarshal([]byte(content), &doc); err != nil {
		return "", fmt.Errorf("parsing %s: %w", a.path, err)
	}
	if len(doc.Mirrors) == 0 {
		return "", nil
	}
	return strings.TrimSpace(doc.Mirrors[0].URL), nil
}

var mavenTemplate = template.Must(template.New("settings").Parse(
	`<?xml version="1.0" encoding="UTF-8"?>
<settings xmlns="http://maven.apache.org/SETTINGS/1.0.0"
          xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
          xsi:schemaLocation="http://maven.apache.org/SETTINGS/1.0.0
                              http://maven.apache.org/xsd/settings-1.0.0.xsd">
  <mirrors>
    <mirror>
      <id>{{.ID}}</id>
      <name>{{.Name}} Mirror</name>
      <url>{{.URL}}</url>
      <mirrorOf>central</mirrorOf>
    </mirror>
  </mirrors>
</settings>
`))

// Render produces a settings.xml declaring m as the mirror of central.
func (a *MavenSettings) Render(m mirror.Mirror) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		ID   string
		Name string
		URL  string
	}{
		ID:   strings.ToLower(m.Name),
		Name: m.Name,
		URL:  m.URL,
	}
	if err := mavenTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", a.path, err)
	}
	return buf.Bytes(), nil
}

func (a *MavenSettings) Write(body []byte) error {
	return atomicWrite(a.path, body)
}
