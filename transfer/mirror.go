package transfer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"

	"github.com/suzume/renamebot/tool"
	"github.com/suzume/renamebot/types"
)

const (
	mirrorAttempts = 3
	mirrorBackoff  = 2 * time.Second
)

// MirrorToDump best-effort re-sends an uploaded file to the dump channel.
// Failures are logged with a distinguishing reason and never propagated; the
// user-facing operation has already succeeded.
func MirrorToDump(ctx context.Context, b *bot.Bot, channelID int64, kind types.ContainerKind, fileID string, finalName string, ownerID int64) {
	caption := fmt.Sprintf(
		"`%s`\n\n├ 👤 User: `%d`\n├ 📦 Type: `%s`\n└ 🕒 %s",
		finalName, ownerID, kind.Title(), time.Now().UTC().Format(time.RFC3339),
	)

	var lastErr error
	for attempt := 1; attempt <= mirrorAttempts; attempt++ {
		_, err := SendByFileID(ctx, b, channelID, kind, fileID, caption)
		if err == nil {
			tool.DefaultLogger.Infof("[Mirror] Copied %s to dump channel %d", finalName, channelID)
			return
		}
		lastErr = err
		if ctx.Err() != nil || !retryableMirrorErr(err) {
			break
		}
		tool.DefaultLogger.Warnf("[Mirror] Attempt %d/%d failed: %v", attempt, mirrorAttempts, err)
		select {
		case <-time.After(mirrorBackoff):
		case <-ctx.Done():
			return
		}
	}
	tool.DefaultLogger.Errorf("[Mirror] Giving up on dump channel %d: %s (%v)",
		channelID, classifyMirrorErr(lastErr), lastErr)
}

// classifyMirrorErr maps Bot API failures onto the small set of reasons an
// operator can actually act on.
func classifyMirrorErr(err error) string {
	if err == nil {
		return "ok"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "chat not found"):
		return "channel invalid"
	case strings.Contains(msg, "chat_write_forbidden"), strings.Contains(msg, "bot is not a member"):
		return "channel private"
	case strings.Contains(msg, "not enough rights"), strings.Contains(msg, "administrator"):
		return "bot lacks admin rights"
	}
	return "generic failure"
}

// retryableMirrorErr: configuration problems won't fix themselves between
// attempts; only generic (likely transient) failures are retried.
func retryableMirrorErr(err error) bool {
	return classifyMirrorErr(err) == "generic failure"
}
