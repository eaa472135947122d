package tgbot

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/suzume/renamebot/session"
	"github.com/suzume/renamebot/tool"
	"github.com/suzume/renamebot/types"
)

// handleFile starts the rename workflow for an inbound document/video/audio.
func (h *Handlers) handleFile(ctx context.Context, b *bot.Bot, msg *models.Message) {
	userID := msg.From.ID
	src := incomingFileFromMessage(msg)
	if src == nil {
		return
	}

	if h.maxFileSize > 0 && src.Size > h.maxFileSize {
		h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf(
			"**❌ File too large!**\nDeclared size `%s` exceeds the limit of `%s`.",
			tool.HumanBytes(src.Size), tool.HumanBytes(h.maxFileSize)), nil)
		return
	}

	_, err := h.sessions.Create(userID, msg.Chat.ID, *src)
	if errors.Is(err, session.ErrSessionExists) {
		h.reply(ctx, b, msg.Chat.ID,
			"**❌ Please complete your current process first!**\nUse /cancel to cancel.", nil)
		return
	}
	if err != nil {
		tool.DefaultLogger.Errorf("[Bot] Session create failed for %d: %v", userID, err)
		return
	}

	name := src.FileName
	if name == "" {
		name = "Unknown"
	}
	info := fmt.Sprintf(
		"**📁 File Information:**\n\n**Name:** `%s`\n**Size:** `%s`\n**Type:** `%s`\n\n**Click RENAME to continue.**",
		name, tool.HumanBytes(src.Size), src.Kind.Title())

	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "🔄 Rename", CallbackData: types.CallbackStartRename}},
			{{Text: "❌ Cancel", CallbackData: types.CancelConfirmPayload(userID)}},
		},
	}
	sent := h.reply(ctx, b, msg.Chat.ID, info, keyboard)
	if sent == nil {
		// no status message to drive the workflow through; drop the session
		if s, ok := h.sessions.Remove(userID); ok {
			s.CleanupFiles()
		}
		return
	}
	// the summary message doubles as the progress/status message later on
	_ = h.sessions.Mutate(userID, func(s *session.Session) { s.StatusMsgID = sent.ID })
}

// handlePhoto persists the photo as the user's upload thumbnail.
func (h *Handlers) handlePhoto(ctx context.Context, b *bot.Bot, msg *models.Message) {
	// the last PhotoSize is the largest rendition
	photo := msg.Photo[len(msg.Photo)-1]
	if err := h.db.SetThumbnail(ctx, msg.From.ID, photo.FileID); err != nil {
		tool.DefaultLogger.Errorf("[Bot] Thumbnail save failed for %d: %v", msg.From.ID, err)
		h.reply(ctx, b, msg.Chat.ID, "**❌ Failed to save thumbnail. Try again.**", nil)
		return
	}
	h.reply(ctx, b, msg.Chat.ID, "**✅ Thumbnail saved successfully!**", nil)
}
