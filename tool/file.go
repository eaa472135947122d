package tool

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/suzume/renamebot/types"
)

// SanitizeBaseName strips path separators and the characters <>:"/\|?* from
// a user-supplied base name. Returns "" when nothing usable remains.
func SanitizeBaseName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			continue
		}
		if r < 0x20 {
			continue
		}
		b.WriteRune(r)
	}
	// a name of only dots or spaces is not a usable filename
	return strings.Trim(b.String(), ". ")
}

// ResolveFilename builds the final upload name from the sanitized base and
// the source file: the original extension wins, otherwise the container
// kind's default is appended.
func ResolveFilename(base string, src types.IncomingFile) string {
	ext := src.Extension()
	if ext == "" {
		ext = src.Kind.DefaultExtension()
	}
	return base + ext
}

// ScratchPath returns the per-user destination path for a download, namespaced
// by user id so concurrent users never collide.
func ScratchPath(dir string, userID int64, finalName string) string {
	return filepath.Join(dir, fmt.Sprintf("%d_%s", userID, finalName))
}

// EnsureScratchDir creates the scratch directory if needed.
func EnsureScratchDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// RemoveIfExists deletes a file, logging anything other than "already gone".
// Used on every session exit path; a leaked temp file has no other collector.
func RemoveIfExists(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		DefaultLogger.Warnf("Failed to remove temp file %s: %v", path, err)
	}
}
