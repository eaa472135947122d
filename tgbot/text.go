package tgbot

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/suzume/renamebot/session"
	"github.com/suzume/renamebot/tool"
	"github.com/suzume/renamebot/types"
)

// handleText consumes the new filename while a session is awaiting one.
// Text outside that state is ignored, matching the workflow's prompts.
func (h *Handlers) handleText(ctx context.Context, b *bot.Bot, msg *models.Message) {
	userID := msg.From.ID
	snap, ok := h.sessions.Get(userID)
	if !ok || snap.State != session.StateAwaitingFilename {
		return
	}

	clean := tool.SanitizeBaseName(msg.Text)
	if clean == "" {
		h.reply(ctx, b, msg.Chat.ID,
			"**❌ Invalid filename!**\nIt must not be empty and may not consist of `<>:\"/\\|?*` only.", nil)
		return
	}

	forced := types.IsForcedDocumentExt(snap.Source.Extension())
	var err error
	if forced {
		err = h.sessions.Transition(userID, session.StateAwaitingFilename, session.StateProcessing, func(s *session.Session) {
			s.BaseName = clean
			s.Container = types.ContainerDocument
		})
	} else {
		err = h.sessions.Transition(userID, session.StateAwaitingFilename, session.StateAwaitingUploadType, func(s *session.Session) {
			s.BaseName = clean
		})
	}
	if err != nil {
		// a racing handler already moved the session on; nothing to redo
		return
	}

	finalName := tool.ResolveFilename(clean, snap.Source)

	if forced {
		// office/text formats skip the prompt and always go out as documents
		h.editStatus(ctx, b, snap.ChatID, snap.StatusMsgID,
			"**🔄 Starting process...**", nil)
		go h.orch.Run(ctx, userID)
		return
	}

	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "📄 Document", CallbackData: types.UploadPayload(types.ContainerDocument)}},
			{{Text: "🎥 Video", CallbackData: types.UploadPayload(types.ContainerVideo)}},
			{{Text: "🎵 Audio", CallbackData: types.UploadPayload(types.ContainerAudio)}},
			{{Text: "❌ Cancel", CallbackData: types.CancelConfirmPayload(userID)}},
		},
	}
	h.editStatus(ctx, b, snap.ChatID, snap.StatusMsgID,
		"**Select Upload Type:**\n\n**File:** `"+finalName+"`", keyboard)
}

func (h *Handlers) editStatus(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, markup models.ReplyMarkup) {
	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdown,
		ReplyMarkup: markup,
	})
	if err != nil {
		tool.DefaultLogger.Debugf("[Bot] Status edit failed: %v", err)
	}
}
