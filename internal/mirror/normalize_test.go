package mirror

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "https://pypi.org/simple", "https://pypi.org/simple"},
		{"trailing slash", "https://pypi.org/simple/", "https://pypi.org/simple"},
		{"double trailing slash", "https://pypi.org/simple//", "https://pypi.org/simple"},
		{"upper-case host", "https://PyPI.org/simple", "https://pypi.org/simple"},
		{"upper-case scheme", "HTTPS://pypi.org/simple", "https://pypi.org/simple"},
		{"query dropped", "https://pypi.org/simple?x=1", "https://pypi.org/simple"},
		{"fragment dropped", "https://pypi.org/simple#top", "https://pypi.org/simple"},
		{"path case kept", "https://pypi.org/Simple", "https://pypi.org/Simple"},
		{"whitespace", "  https://pypi.org/simple \n", "https://pypi.org/simple"},
		{"empty", "", ""},
		{"not a url", "not a url/", "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.in); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSameURL(t *testing.T) {
	if !SameURL("https://mirrors.x.com/simple", "https://mirrors.x.com/simple/") {
		t.Error("trailing slash should not break equality")
	}
	if SameURL("https://mirrors.x.com/simple", "https://mirrors.y.com/simple") {
		t.Error("different hosts compared equal")
	}
}

func TestMatchCatalog(t *testing.T) {
	catalog := []Mirror{
		{Name: "Official", URL: "https://pypi.org/simple"},
		{Name: "Tuna", URL: "https://pypi.tuna.tsinghua.edu.cn/simple"},
	}

	if got := MatchCatalog("https://pypi.tuna.tsinghua.edu.cn/simple/", catalog); got != "Tuna" {
		t.Errorf("got %q, want Tuna", got)
	}
	if got := MatchCatalog("https://corp.example.com/pypi", catalog); got != "" {
		t.Errorf("custom URL resolved to %q, want empty", got)
	}
}

func TestHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://pypi.tuna.tsinghua.edu.cn/simple", "pypi.tuna.tsinghua.edu.cn"},
		{"http://mirrors.aliyun.com", "mirrors.aliyun.com"},
		{"https://host.example.com:8080/repo", "host.example.com"},
		{"mirrors.ustc.edu.cn/pypi/simple", "mirrors.ustc.edu.cn"},
	}
	for _, tt := range tests {
		if got := Host(tt.in); got != tt.want {
			t.Errorf("Host(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProbeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sparse+https://rsproxy.cn/index/", "https://rsproxy.cn/index/"},
		{"git+https://github.com/rust-lang/crates.io-index", "https://github.com/rust-lang/crates.io-index"},
		{"https://goproxy.cn,direct", "https://goproxy.cn"},
		{"https://pypi.org/simple", "https://pypi.org/simple"},
	}
	for _, tt := range tests {
		if got := ProbeURL(tt.in); got != tt.want {
			t.Errorf("ProbeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
