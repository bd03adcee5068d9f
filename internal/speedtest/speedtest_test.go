package speedtest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devhub-labs/devhub/internal/mirror"
)

// unroutable is a TEST-NET-ish address that blackholes connections, making
// the probe run into its timeout.
const unroutable = "http://10.255.255.1"

func TestMeasure_ResultPerCandidateInInputOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	candidates := []mirror.Mirror{
		{Name: "A", URL: unroutable},
		{Name: "B", URL: srv.URL},
	}

	s := New(500 * time.Millisecond)
	start := time.Now()
	results := s.Measure(context.Background(), candidates)
	elapsed := time.Since(start)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Name != "A" || results[1].Name != "B" {
		t.Errorf("results not in input order: %v", results)
	}

	if !results[0].IsTimeout {
		t.Error("unroutable candidate should be IsTimeout")
	}
	if results[0].LatencyMS != mirror.TimeoutSentinel {
		t.Errorf("timeout latency = %d, want sentinel", results[0].LatencyMS)
	}
	if results[1].IsTimeout {
		t.Error("local server should be reachable")
	}

	// Probes run concurrently: wall time is one timeout, not the sum.
	if elapsed > 3*time.Second {
		t.Errorf("Measure took %v; probes appear sequential", elapsed)
	}
}

func TestProbe_HeadRejectedFallsBackToGet(t *testing.T) {
	var sawGet bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		sawGet = true
		if r.Header.Get("Range") == "" {
			t.Error("GET fallback should be a ranged request")
		}
		w.WriteHeader(http.StatusPartialContent)
	}))
	defer srv.Close()

	s := New(time.Second)
	results := s.Measure(context.Background(), []mirror.Mirror{{Name: "M", URL: srv.URL}})
	if results[0].IsTimeout {
		t.Error("HEAD-rejecting mirror should still be reachable via GET")
	}
	if !sawGet {
		t.Error("expected GET fallback request")
	}
}

func TestProbe_SlowHeadIsTimeoutWithoutGetRetry(t *testing.T) {
	var sawGet bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			time.Sleep(2 * time.Second)
			return
		}
		sawGet = true
	}))
	defer srv.Close()

	s := New(300 * time.Millisecond)
	start := time.Now()
	results := s.Measure(context.Background(), []mirror.Mirror{{Name: "Slow", URL: srv.URL}})
	elapsed := time.Since(start)

	if !results[0].IsTimeout {
		t.Errorf("HEAD past the timeout must classify as unreachable, got %+v", results[0])
	}
	if results[0].LatencyMS != mirror.TimeoutSentinel {
		t.Errorf("timeout latency = %d, want sentinel", results[0].LatencyMS)
	}
	if sawGet {
		t.Error("timed-out HEAD must not be retried with GET")
	}
	// One probe window, not two.
	if elapsed > time.Second {
		t.Errorf("probe took %v; a timed-out candidate gets one window only", elapsed)
	}
}

func TestProbe_ServerErrorIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := New(time.Second)
	results := s.Measure(context.Background(), []mirror.Mirror{{Name: "M", URL: srv.URL}})
	if !results[0].IsTimeout {
		t.Error("5xx mirror must rank as unreachable")
	}
}

func TestProbe_StripsInstallerPrefixes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	s := New(time.Second)
	results := s.Measure(context.Background(), []mirror.Mirror{
		{Name: "Cargo", URL: "sparse+" + srv.URL + "/index/"},
		{Name: "Go", URL: srv.URL + ",direct"},
	})
	for _, r := range results {
		if r.IsTimeout {
			t.Errorf("%s: prefixed URL not probeable: %+v", r.Name, r)
		}
	}
}

func TestRank_TimeoutsSortLast(t *testing.T) {
	results := []mirror.SpeedResult{
		{Name: "slowest", LatencyMS: 900},
		{Name: "dead", LatencyMS: mirror.TimeoutSentinel, IsTimeout: true},
		{Name: "fast", LatencyMS: 20},
		{Name: "dead2", LatencyMS: mirror.TimeoutSentinel, IsTimeout: true},
		{Name: "mid", LatencyMS: 200},
	}

	ranked := Rank(results)
	wantOrder := []string{"fast", "mid", "slowest", "dead", "dead2"}
	for i, want := range wantOrder {
		if ranked[i].Name != want {
			t.Fatalf("rank[%d] = %s, want %s (full: %v)", i, ranked[i].Name, want, ranked)
		}
	}

	// Input slice untouched.
	if results[0].Name != "slowest" {
		t.Error("Rank mutated its input")
	}
}

func TestFastest(t *testing.T) {
	_, err := Fastest([]mirror.SpeedResult{
		{Name: "dead", LatencyMS: mirror.TimeoutSentinel, IsTimeout: true},
	})
	if !errors.Is(err, mirror.ErrAllMirrorsTimedOut) {
		t.Errorf("err = %v, want ErrAllMirrorsTimedOut", err)
	}

	best, err := Fastest([]mirror.SpeedResult{
		{Name: "dead", LatencyMS: mirror.TimeoutSentinel, IsTimeout: true},
		{Name: "ok", LatencyMS: 42},
	})
	if err != nil {
		t.Fatal(err)
	}
	if best.Name != "ok" {
		t.Errorf("Fastest = %s, want ok", best.Name)
	}

	_, err = Fastest(nil)
	if !errors.Is(err, mirror.ErrAllMirrorsTimedOut) {
		t.Errorf("empty input err = %v, want ErrAllMirrorsTimedOut", err)
	}
}
