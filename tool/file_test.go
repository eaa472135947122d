package tool

import (
	"testing"

	"github.com/suzume/renamebot/types"
)

func TestSanitizeBaseName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"holiday", "holiday"},
		{"  spaced  ", "spaced"},
		{`a<b>c:d"e/f\g|h?i*j`, "abcdefghij"},
		{"../../etc/passwd", "etcpasswd"},
		{"...", ""},
		{"   ", ""},
		{"report.final", "report.final"},
		{"trailing dots...", "trailing dots"},
		{"tab\there", "tabhere"},
	}
	for _, c := range cases {
		if got := SanitizeBaseName(c.in); got != c.want {
			t.Errorf("SanitizeBaseName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolveFilename(t *testing.T) {
	cases := []struct {
		base string
		src  types.IncomingFile
		want string
	}{
		{"holiday", types.IncomingFile{FileName: "IMG_0001.mov", Kind: types.ContainerVideo}, "holiday.mov"},
		{"report", types.IncomingFile{FileName: "scan.pdf", Kind: types.ContainerDocument}, "report.pdf"},
		{"clip", types.IncomingFile{FileName: "noext", Kind: types.ContainerVideo}, "clip.mp4"},
		{"track", types.IncomingFile{Kind: types.ContainerAudio}, "track.mp3"},
		{"blob", types.IncomingFile{Kind: types.ContainerDocument}, "blob.bin"},
	}
	for _, c := range cases {
		if got := ResolveFilename(c.base, c.src); got != c.want {
			t.Errorf("ResolveFilename(%q, %q) = %q, want %q", c.base, c.src.FileName, got, c.want)
		}
	}
}

func TestScratchPath(t *testing.T) {
	got := ScratchPath("downloads", 42, "movie.mp4")
	want := "downloads/42_movie.mp4"
	if got != want {
		t.Errorf("ScratchPath = %q, want %q", got, want)
	}
}
