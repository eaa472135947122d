package types

import (
	"path/filepath"
	"strings"
)

// ContainerKind is the message type a renamed file is re-sent as.
type ContainerKind int

const (
	ContainerDocument ContainerKind = iota
	ContainerVideo
	ContainerAudio
)

func (k ContainerKind) String() string {
	switch k {
	case ContainerVideo:
		return "video"
	case ContainerAudio:
		return "audio"
	default:
		return "document"
	}
}

// Title returns the user-facing capitalized name.
func (k ContainerKind) Title() string {
	s := k.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseContainerKind maps a callback payload suffix ("document", "video",
// "audio") back to a kind.
func ParseContainerKind(s string) (ContainerKind, bool) {
	switch s {
	case "document":
		return ContainerDocument, true
	case "video":
		return ContainerVideo, true
	case "audio":
		return ContainerAudio, true
	}
	return ContainerDocument, false
}

// DefaultExtension returns the fallback extension used when the declared
// filename carries none.
func (k ContainerKind) DefaultExtension() string {
	switch k {
	case ContainerVideo:
		return ".mp4"
	case ContainerAudio:
		return ".mp3"
	default:
		return ".bin"
	}
}

// IncomingFile holds the declared metadata of a file message as received
// from Telegram. Size and Duration are whatever the sender's client declared.
type IncomingFile struct {
	FileID   string
	FileName string
	Size     int64
	Duration int
	Kind     ContainerKind
}

// Extension returns the extension of the declared filename, empty when the
// name carries none.
func (f IncomingFile) Extension() string {
	return filepath.Ext(f.FileName)
}

// forcedDocumentExts are always uploaded as documents regardless of the
// user's container choice; Telegram clients reject e.g. a PDF sent as video.
var forcedDocumentExts = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".doc":  true,
	".docx": true,
	".html": true,
	".htm":  true,
}

// IsForcedDocumentExt reports whether files with this extension bypass the
// upload-type prompt and always go out as documents.
func IsForcedDocumentExt(ext string) bool {
	return forcedDocumentExts[strings.ToLower(ext)]
}
