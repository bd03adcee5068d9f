// Package mirror defines the core data model shared by the engine: mirrors,
// detection records, per-tool status, and latency measurements.
package mirror

// Mirror is a named candidate source URL for one tool.
type Mirror struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DetectionInfo is the result of probing one tool on the local machine.
// Version and Path are empty when Installed is false.
type DetectionInfo struct {
	Installed bool   `json:"installed"`
	Version   string `json:"version,omitempty"`
	// SemVer is the normalized semantic version extracted from Version,
	// empty when no parseable version token was found.
	SemVer string `json:"semver,omitempty"`
	Path   string `json:"path,omitempty"`
}

// ToolStatus describes which mirror a tool currently uses. CurrentURL is
// empty when the tool is on its official default (no artifact, or no mirror
// directive in it). CurrentName is empty when CurrentURL matches no catalog
// entry (a custom mirror).
type ToolStatus struct {
	CurrentURL  string `json:"current_url,omitempty"`
	CurrentName string `json:"current_name,omitempty"`
}

// SpeedResult is the latency measurement for one candidate mirror.
// When IsTimeout is true, LatencyMS holds TimeoutSentinel and must not be
// read as a real duration.
type SpeedResult struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	LatencyMS uint64 `json:"latency_ms"`
	IsTimeout bool   `json:"is_timeout"`
}

// TimeoutSentinel is the LatencyMS value recorded for unreachable mirrors.
// Ranking treats it as +infinity.
const TimeoutSentinel = ^uint64(0)
