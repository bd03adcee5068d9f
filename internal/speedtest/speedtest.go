// Package speedtest measures mirror latency with concurrent HTTP probes
// and ranks the candidates.
package speedtest

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/devhub-labs/devhub/internal/mirror"
)

// DefaultTimeout is the fixed per-request probe timeout.
const DefaultTimeout = 5 * time.Second

// Service issues latency probes. Construct with New.
type Service struct {
	client  *http.Client
	timeout time.Duration
}

// New returns a Service with the given per-request timeout;
// DefaultTimeout when zero.
func New(timeout time.Duration) *Service {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Measure probes every candidate concurrently and returns one result per
// input, in input order. Unreachable candidates are flagged IsTimeout with
// the sentinel latency; the call itself never fails. Overall wall time is
// bounded by the slowest probe, i.e. at most the fixed timeout.
func (s *Service) Measure(ctx context.Context, candidates []mirror.Mirror) []mirror.SpeedResult {
	results := make([]mirror.SpeedResult, len(candidates))

	var wg sync.WaitGroup
	for i, m := range candidates {
		wg.Add(1)
		// Each probe writes only its own slot; no shared mutable state.
		go func(i int, m mirror.Mirror) {
			defer wg.Done()
			results[i] = s.probe(ctx, m)
		}(i, m)
	}
	wg.Wait()

	return results
}

// probe times a single reachability check.
func (s *Service) probe(ctx context.Context, m mirror.Mirror) mirror.SpeedResult {
	result := mirror.SpeedResult{Name: m.Name, URL: m.URL}

	url := mirror.ProbeURL(m.URL)
	start := time.Now()

	status, answered := s.request(ctx, http.MethodHead, url)
	if answered && methodRejected(status) {
		// Some registries reject HEAD outright; retry with a one-byte
		// ranged GET. A timeout or connection failure is never retried:
		// the host already burned its probe window.
		status, answered = s.request(ctx, http.MethodGet, url)
	}

	if !answered || status >= 400 {
		result.LatencyMS = mirror.TimeoutSentinel
		result.IsTimeout = true
		return result
	}

	result.LatencyMS = uint64(time.Since(start).Milliseconds())
	return result
}

// methodRejected reports a status that means "this method, not this host,
// is unsupported".
func methodRejected(status int) bool {
	return status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented
}

// request issues one probe, returning the response status and whether the
// host answered at all.
func (s *Service) request(ctx context.Context, method, url string) (int, bool) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, false
	}
	if method == http.MethodGet {
		req.Header.Set("Range", "bytes=0-0")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, false
	}
	resp.Body.Close()

	return resp.StatusCode, true
}

// Rank returns a copy of results sorted ascending by latency, with timed-out
// entries after every real measurement. Ties keep input order.
func Rank(results []mirror.SpeedResult) []mirror.SpeedResult {
	ranked := make([]mirror.SpeedResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].IsTimeout != ranked[j].IsTimeout {
			return !ranked[i].IsTimeout
		}
		return ranked[i].LatencyMS < ranked[j].LatencyMS
	})
	return ranked
}

// Fastest returns the quickest reachable candidate, or
// mirror.ErrAllMirrorsTimedOut when nothing answered.
func Fastest(results []mirror.SpeedResult) (mirror.SpeedResult, error) {
	ranked := Rank(results)
	if len(ranked) == 0 || ranked[0].IsTimeout {
		return mirror.SpeedResult{}, fmt.Errorf("%d candidates probed: %w",
			len(results), mirror.ErrAllMirrorsTimedOut)
	}
	return ranked[0], nil
}
