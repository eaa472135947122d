package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/suzume/renamebot/session"
	"github.com/suzume/renamebot/store"
	"github.com/suzume/renamebot/tool"
	"github.com/suzume/renamebot/types"
)

// Orchestrator sequences one session's download → upload → mirror → link
// pipeline and guarantees temp-file and session cleanup on every exit path.
type Orchestrator struct {
	Bot        *bot.Bot
	DB         *store.Store
	Sessions   *session.Store
	ScratchDir string
	// OnLinkCreated sends the deep-link message (keyboard + QR live in the
	// bot layer); nil disables link issuance.
	OnLinkCreated func(ctx context.Context, chatID int64, link types.FileLink)
}

// Run executes the transfer for the user's session. The session must already
// be resolved (base name and container chosen); Run moves it to Processing,
// binds the cancellation context and unconditionally tears everything down
// when it returns.
func (o *Orchestrator) Run(parent context.Context, userID int64) {
	snap, ok := o.Sessions.Get(userID)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	if err := o.Sessions.Mutate(userID, func(s *session.Session) {
		s.State = session.StateProcessing
		s.BindCancel(cancel)
	}); err != nil {
		return
	}

	// Cleanup runs no matter how the transfer ends: success, failure,
	// cancellation or panic unwind. Violating this leaks disk space forever.
	defer func() {
		if s, ok := o.Sessions.Remove(userID); ok {
			s.CleanupFiles()
		}
	}()

	finalName := snap.FinalName()
	chatID := snap.ChatID
	statusID := snap.StatusMsgID

	editStatus := func(ctx context.Context, text string) {
		_, err := o.Bot.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   statusID,
			Text:        text,
			ParseMode:   models.ParseModeMarkdown,
			ReplyMarkup: cancelKeyboard(userID),
		})
		if err != nil {
			tool.DefaultLogger.Debugf("[Transfer] Status edit failed: %v", err)
		}
	}

	if err := tool.EnsureScratchDir(o.ScratchDir); err != nil {
		o.reportError(parent, chatID, statusID, fmt.Errorf("failed to prepare scratch directory: %w", err))
		return
	}
	destPath := tool.ScratchPath(o.ScratchDir, userID, finalName)
	_ = o.Sessions.Mutate(userID, func(s *session.Session) { s.LocalFilePath = destPath })

	editStatus(ctx, "**📥 Downloading...**")
	rep := NewReporter("📥 Downloading", snap.Source.Size, editStatus)
	if _, err := DownloadToFile(ctx, o.Bot, snap.Source.FileID, destPath, rep); err != nil {
		if errors.Is(err, context.Canceled) {
			o.reportCancelled(parent, chatID, statusID)
		} else {
			o.reportError(parent, chatID, statusID, err)
		}
		return
	}

	thumbPath := o.fetchThumbnail(ctx, userID)
	if thumbPath != "" {
		_ = o.Sessions.Mutate(userID, func(s *session.Session) { s.LocalThumbPath = thumbPath })
	}

	editStatus(ctx, "**📤 Uploading...**")
	upRep := NewReporter("📤 Uploading", snap.Source.Size, editStatus)
	msg, err := SendFile(ctx, o.Bot, UploadRequest{
		ChatID:    chatID,
		Kind:      snap.Container,
		FileName:  finalName,
		Path:      destPath,
		Duration:  snap.Source.Duration,
		ThumbPath: thumbPath,
		Caption:   fmt.Sprintf("`%s`", finalName),
	}, upRep)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			o.reportCancelled(parent, chatID, statusID)
		} else {
			o.reportError(parent, chatID, statusID, err)
		}
		return
	}

	fileID := UploadedFileID(msg)
	if dump, err := o.dumpChannel(ctx); err == nil && dump != 0 && fileID != "" {
		MirrorToDump(ctx, o.Bot, dump, snap.Container, fileID, finalName, userID)
	}

	if o.OnLinkCreated != nil && fileID != "" {
		o.issueLink(ctx, userID, chatID, snap, fileID, finalName)
	}

	// status message has served its purpose
	if _, err := o.Bot.DeleteMessage(parent, &bot.DeleteMessageParams{ChatID: chatID, MessageID: statusID}); err != nil {
		tool.DefaultLogger.Debugf("[Transfer] Status delete failed: %v", err)
	}
	_, err = o.Bot.SendMessage(parent, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf("**✅ File Renamed Successfully!**\n\n**New Name:** `%s`\n**Type:** `%s`",
			finalName, snap.Container.Title()),
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		tool.DefaultLogger.Warnf("[Transfer] Success message failed: %v", err)
	}
	tool.DefaultLogger.Infof("[Transfer] Completed %s for user %d (%s)", finalName, userID, snap.Container)
}

// fetchThumbnail downloads the user's stored thumbnail to the scratch dir.
// Best-effort: any failure means the upload proceeds without a thumbnail.
func (o *Orchestrator) fetchThumbnail(ctx context.Context, userID int64) string {
	thumbID, err := o.DB.GetThumbnail(ctx, userID)
	if err != nil {
		tool.DefaultLogger.Warnf("[Transfer] Thumbnail lookup failed for %d: %v", userID, err)
		return ""
	}
	if thumbID == "" {
		return ""
	}
	path := tool.ScratchPath(o.ScratchDir, userID, "thumb.jpg")
	if _, err := DownloadToFile(ctx, o.Bot, thumbID, path, nil); err != nil {
		tool.DefaultLogger.Warnf("[Transfer] Thumbnail fetch failed for %d: %v", userID, err)
		tool.RemoveIfExists(path)
		return ""
	}
	return path
}

func (o *Orchestrator) dumpChannel(ctx context.Context) (int64, error) {
	id, err := o.DB.GetDumpChannel(ctx)
	if err != nil {
		tool.DefaultLogger.Warnf("[Transfer] Dump channel lookup failed: %v", err)
		return 0, err
	}
	if id == 0 {
		id = tool.GetCurrentConfig().DumpChannel
	}
	return id, nil
}

func (o *Orchestrator) issueLink(ctx context.Context, userID, chatID int64, snap session.Session, fileID, finalName string) {
	thumbID, _ := o.DB.GetThumbnail(ctx, userID)
	link := types.FileLink{
		Token:       tool.NewLinkToken(),
		FileID:      fileID,
		Kind:        snap.Container,
		FileName:    finalName,
		ThumbFileID: thumbID,
		Duration:    snap.Source.Duration,
		OwnerID:     userID,
	}
	if err := o.DB.CreateFileLink(ctx, link); err != nil {
		tool.DefaultLogger.Warnf("[Transfer] Failed to store file link: %v", err)
		return
	}
	o.OnLinkCreated(ctx, chatID, link)
}

// NotifyExpired tells the user their idle session was cancelled by the TTL
// sweep. The session is already gone; this is purely informational.
func (o *Orchestrator) NotifyExpired(ctx context.Context, s session.Session) {
	_, err := o.Bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    s.ChatID,
		Text:      "**⌛ Your rename process timed out and was cancelled.**\nSend the file again to start over.",
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		tool.DefaultLogger.Debugf("[Transfer] Expiry notice failed for %d: %v", s.UserID, err)
	}
}

// reportError converts a transfer failure into the user-facing ❌ message.
// Uses the parent context: the transfer context may already be dead.
func (o *Orchestrator) reportError(ctx context.Context, chatID int64, statusID int, err error) {
	tool.DefaultLogger.Errorf("[Transfer] %v", err)
	_, editErr := o.Bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: statusID,
		Text:      fmt.Sprintf("**❌ Error:** `%v`", err),
		ParseMode: models.ParseModeMarkdown,
	})
	if editErr != nil {
		tool.DefaultLogger.Debugf("[Transfer] Error edit failed: %v", editErr)
	}
}

func (o *Orchestrator) reportCancelled(ctx context.Context, chatID int64, statusID int) {
	_, err := o.Bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: statusID,
		Text:      "**✅ Process cancelled successfully!**",
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		tool.DefaultLogger.Debugf("[Transfer] Cancel edit failed: %v", err)
	}
}

func cancelKeyboard(userID int64) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "❌ Cancel", CallbackData: types.CancelConfirmPayload(userID)}},
		},
	}
}
