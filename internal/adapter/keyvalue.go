package adapter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/devhub-labs/devhub/internal/mirror"
)

// PipConf edits pip's INI-style config (pip.conf / pip.ini). Only the
// index-url and trusted-host keys inside [global] are touched; every other
// line survives an apply.
type PipConf struct {
	path string
}

// NewPipConf returns an adapter for the given pip config path.
func NewPipConf(path string) *PipConf {
	return &PipConf{path: path}
}

func (a *PipConf) Path() string { return a.path }

var (
	pipIndexRe   = regexp.MustCompile(`(?m)^index-url\s*=\s*(.+)$`)
	pipTrustedRe = regexp.MustCompile(`(?m)^trusted-host\s*=\s*.*$`)
)

// ReadCurrent extracts the index-url value, if any.
func (a *PipConf) ReadCurrent() (string, error) {
	content, ok, err := readArtifact(a.path)
	if err != nil || !ok {
		return "", err
	}
	if m := pipIndexRe.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1]), nil
	}
	return "", nil
}

// Render replaces (or inserts) the index-url line and a trusted-host line
// derived from the mirror's host, preserving unrelated keys.
func (a *PipConf) Render(m mirror.Mirror) ([]byte, error) {
	content, _, err := readArtifact(a.path)
	if err != nil {
		return nil, err
	}

	indexLine := "index-url = " + m.URL
	trustedLine := "trusted-host = " + mirror.Host(m.URL)

	switch {
	case pipIndexRe.MatchString(content):
		content = pipIndexRe.ReplaceAllString(content, indexLine)
		switch {
		case pipTrustedRe.MatchString(content):
			content = pipTrustedRe.ReplaceAllString(content, trustedLine)
		case strings.Contains(content, "[global]"):
			content = strings.Replace(content, "[global]", "[global]\n"+trustedLine, 1)
		default:
			// Headerless files still get the companion directive.
			if !strings.HasSuffix(content, "\n") {
				content += "\n"
			}
			content += trustedLine + "\n"
		}
	case strings.Contains(content, "[global]"):
		content = strings.Replace(content, "[global]", "[global]\n"+indexLine+"\n"+trustedLine, 1)
	case content == "":
		content = "[global]\n" + indexLine + "\n" + trustedLine + "\n"
	default:
		content = content + "\n[global]\n" + indexLine + "\n" + trustedLine + "\n"
	}
	return []byte(content), nil
}

func (a *PipConf) Write(body []byte) error {
	return atomicWrite(a.path, body)
}

// RCFile edits flat key-value rc files. It covers npm's ~/.npmrc
// ("registry=URL") and yarn v1's ~/.yarnrc ("registry \"URL\"") via the
// separator and quoting parameters.
type RCFile struct {
	path string
	key  string
	// sep is what joins key and value, "=" for npmrc, " " for yarnrc.
	sep string
	// quote wraps the value in double quotes (yarnrc convention).
	quote bool
}

// NewNpmRC returns an adapter for an npm-style rc file.
func NewNpmRC(path string) *RCFile {
	return &RCFile{path: path, key: "registry", sep: "="}
}

// NewYarnRC returns an adapter for a yarn v1 rc file.
func NewYarnRC(path string) *RCFile {
	return &RCFile{path: path, key: "registry", sep: " ", quote: true}
}

func (a *RCFile) Path() string { return a.path }

func (a *RCFile) keyRe() *regexp.Regexp {
	return regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(a.key) + `[ \t=]+"?([^"\r\n]+)"?\s*$`)
}

// ReadCurrent extracts the registry value, if any.
func (a *RCFile) ReadCurrent() (string, error) {
	content, ok, err := readArtifact(a.path)
	if err != nil || !ok {
		return "", err
	}
	if m := a.keyRe().FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1]), nil
	}
	return "", nil
}

// Render replaces or appends the registry line, preserving everything else.
func (a *RCFile) Render(m mirror.Mirror) ([]byte, error) {
	content, _, err := readArtifact(a.path)
	if err != nil {
		return nil, err
	}

	value := m.URL
	if a.quote {
		value = fmt.Sprintf("%q", value)
	}
	line := a.key + a.sep + value

	if re := a.keyRe(); re.MatchString(content) {
		content = re.ReplaceAllString(content, line)
	} else {
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += line + "\n"
	}
	return []byte(content), nil
}

func (a *RCFile) Write(body []byte) error {
	return atomicWrite(a.path, body)
}
