package adapter

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/devhub-labs/devhub/internal/mirror"
)

// DefaultRestorer is implemented by adapters whose artifact has a known
// factory-default state that can be re-established without a backup:
// removing a DevHub-owned block from a shared file, or rewriting an env
// setting to the tool's documented default.
type DefaultRestorer interface {
	RestoreDefault() error
}

// Markers fencing the DevHub-owned block inside a shared shell profile.
// Only lines between them are ever touched.
const (
	blockBegin = "# >>> devhub %s >>>"
	blockEnd   = "# <<< devhub %s <<<"
)

// ShellProfile persists mirror settings as an export block in the user's
// shell profile (~/.zshrc or ~/.bashrc). Used for tools like Homebrew whose
// mirror is selected purely through environment variables.
type ShellProfile struct {
	path string
	// tool names the fenced block, e.g. "brew".
	tool string
	// readVar is the variable consulted by ReadCurrent.
	readVar string
	// exports maps variable names to URL templates; "%s" is replaced by
	// the mirror URL.
	exports [][2]string
}

// NewBrewProfile returns an adapter writing the HOMEBREW_* exports into the
// given profile path.
func NewBrewProfile(path string) *ShellProfile {
	return &ShellProfile{
		path:    path,
		tool:    "brew",
		readVar: "HOMEBREW_BOTTLE_DOMAIN",
		exports: [][2]string{
			{"HOMEBREW_API_DOMAIN", "%s/api"},
			{"HOMEBREW_BOTTLE_DOMAIN", "%s"},
			{"HOMEBREW_BREW_GIT_REMOTE", "%s/git/homebrew/brew.git"},
			{"HOMEBREW_CORE_GIT_REMOTE", "%s/git/homebrew/homebrew-core.git"},
		},
	}
}

func (a *ShellProfile) Path() string { return a.path }

func (a *ShellProfile) markers() (string, string) {
	return fmt.Sprintf(blockBegin, a.tool), fmt.Sprintf(blockEnd, a.tool)
}

// ReadCurrent extracts the mirror URL from the profile's export line,
// falling back to the live process environment when the profile carries
// none (the user may have exported it elsewhere).
func (a *ShellProfile) ReadCurrent() (string, error) {
	content, ok, err := readArtifact(a.path)
	if err != nil {
		return "", err
	}
	if ok {
		re := regexp.MustCompile(`(?m)^export ` + regexp.QuoteMeta(a.readVar) + `="([^"]+)"`)
		if m := re.FindStringSubmatch(content); m != nil {
			return m[1], nil
		}
	}
	return os.Getenv(a.readVar), nil
}

// Render replaces the DevHub-owned block (or appends one), leaving the rest
// of the profile untouched.
func (a *ShellProfile) Render(m mirror.Mirror) ([]byte, error) {
	content, _, err := readArtifact(a.path)
	if err != nil {
		return nil, err
	}

	begin, end := a.markers()
	base := strings.TrimRight(m.URL, "/")

	var b strings.Builder
	b.WriteString(begin + "\n")
	for _, ex := range a.exports {
		fmt.Fprintf(&b, "export %s=%q\n", ex[0], fmt.Sprintf(ex[1], base))
	}
	b.WriteString(end + "\n")
	block := b.String()

	stripped := stripBlock(content, begin, end)
	if stripped != "" && !strings.HasSuffix(stripped, "\n") {
		stripped += "\n"
	}
	return []byte(stripped + block), nil
}

func (a *ShellProfile) Write(body []byte) error {
	return atomicWrite(a.path, body)
}

// RestoreDefault removes the DevHub-owned block; the factory default for an
// env-driven tool is simply the absence of the overrides.
func (a *ShellProfile) RestoreDefault() error {
	content, ok, err := readArtifact(a.path)
	if err != nil || !ok {
		return err
	}
	begin, end := a.markers()
	stripped := stripBlock(content, begin, end)
	if stripped == content {
		return nil
	}
	return atomicWrite(a.path, []byte(stripped))
}

// stripBlock removes the fenced block, markers included.
func stripBlock(content, begin, end string) string {
	start := strings.Index(content, begin)
	if start < 0 {
		return content
	}
	stop := strings.Index(content[start:], end)
	if stop < 0 {
		return content
	}
	rest := content[start+stop+len(end):]
	rest = strings.TrimPrefix(rest, "\n")
	return content[:start] + rest
}
