// Package session holds the per-user rename workflow state. The whole
// workflow lives in memory; the terminal state is the absence of a record.
package session

import (
	"context"
	"time"

	"github.com/suzume/renamebot/tool"
	"github.com/suzume/renamebot/types"
)

// State is the position of a user's session in the rename workflow.
type State int

const (
	// StateAwaitingRename: file received, waiting for the Rename button.
	StateAwaitingRename State = iota + 1
	// StateAwaitingFilename: waiting for the new base name as text.
	StateAwaitingFilename
	// StateAwaitingUploadType: waiting for the container choice.
	StateAwaitingUploadType
	// StateProcessing: transfer orchestration is running.
	StateProcessing
)

func (s State) String() string {
	switch s {
	case StateAwaitingRename:
		return "awaiting_rename"
	case StateAwaitingFilename:
		return "awaiting_filename"
	case StateAwaitingUploadType:
		return "awaiting_upload_type"
	case StateProcessing:
		return "processing"
	}
	return "unknown"
}

// Session tracks one user's in-progress rename. LocalFilePath and
// LocalThumbPath are owned exclusively by the session and must be removed
// on every exit path before the record is dropped.
type Session struct {
	UserID    int64
	ChatID    int64
	State     State
	Source    types.IncomingFile
	BaseName  string
	Container types.ContainerKind
	// StatusMsgID is the message the transfer edits with progress.
	StatusMsgID    int
	LocalFilePath  string
	LocalThumbPath string
	CreatedAt      time.Time

	// cancel aborts an in-flight transfer; nil until Processing.
	cancel context.CancelFunc
}

// FinalName resolves the upload filename from the chosen base name.
func (s *Session) FinalName() string {
	return tool.ResolveFilename(s.BaseName, s.Source)
}

// CleanupFiles removes any temp files the session still owns.
func (s *Session) CleanupFiles() {
	tool.RemoveIfExists(s.LocalFilePath)
	tool.RemoveIfExists(s.LocalThumbPath)
	s.LocalFilePath = ""
	s.LocalThumbPath = ""
}

// BindCancel attaches the transfer's cancel function.
func (s *Session) BindCancel(cancel context.CancelFunc) {
	s.cancel = cancel
}
