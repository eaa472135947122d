package tool

import (
	"strings"
	"testing"
	"time"
)

func TestHumanBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{512, "512 B"},
		{1024, "1.00 KB"},
		{51200000, "48.83 MB"},
		{int64(2) << 30, "2.00 GB"},
	}
	for _, c := range cases {
		if got := HumanBytes(c.in); got != c.want {
			t.Errorf("HumanBytes(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	cases := []struct {
		percent float64
		want    string
	}{
		{0, "□□□□□□□□□□"},
		{50, "■■■■■□□□□□"},
		{100, "■■■■■■■■■■"},
		{150, "■■■■■■■■■■"},
		{-10, "□□□□□□□□□□"},
	}
	for _, c := range cases {
		if got := ProgressBar(c.percent); got != c.want {
			t.Errorf("ProgressBar(%v) = %q, want %q", c.percent, got, c.want)
		}
	}
}

func TestFormatETA(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{300 * time.Millisecond, "1s"},
		{45 * time.Second, "45s"},
		{90 * time.Second, "1m 30s"},
		{3723 * time.Second, "1h 2m 3s"},
		{2 * time.Hour, "2h"},
	}
	for _, c := range cases {
		if got := FormatETA(c.in); got != c.want {
			t.Errorf("FormatETA(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRenderProgress(t *testing.T) {
	out := RenderProgress("📥 Downloading", 50, 100, time.Second)
	for _, want := range []string{"📥 Downloading", "50.00%", "50 B / 100 B", "■■■■■□□□□□"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderProgress missing %q in %q", want, out)
		}
	}
	if !strings.Contains(RenderProgress("x", 100, 100, time.Second), "⏰ 0s") {
		t.Error("completed transfer should render a zero ETA")
	}
	if got := RenderProgress("x", 10, 0, time.Second); !strings.Contains(got, "10 B") {
		t.Errorf("unknown total should fall back to plain byte count, got %q", got)
	}
}
