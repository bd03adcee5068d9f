package cli

import (
	"testing"

	"github.com/devhub-labs/devhub/internal/mirror"
)

func TestMirrorLabel(t *testing.T) {
	tests := []struct {
		name   string
		status mirror.ToolStatus
		want   string
	}{
		{"catalog mirror", mirror.ToolStatus{CurrentURL: "https://goproxy.cn", CurrentName: "Goproxy.cn"}, "Goproxy.cn"},
		{"custom mirror", mirror.ToolStatus{CurrentURL: "https://corp.example.com/go"}, "https://corp.example.com/go"},
		{"official default", mirror.ToolStatus{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mirrorLabel(tt.status); got != tt.want {
				t.Errorf("mirrorLabel(%+v) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestLatencyLabel(t *testing.T) {
	fast := mirror.SpeedResult{Name: "Fast", LatencyMS: 42}
	if got := latencyLabel(fast); got != "42ms" {
		t.Errorf("got %q, want 42ms", got)
	}
	dead := mirror.SpeedResult{Name: "Dead", LatencyMS: mirror.TimeoutSentinel, IsTimeout: true}
	if got := latencyLabel(dead); got != "timeout" {
		t.Errorf("got %q, want timeout", got)
	}
}
