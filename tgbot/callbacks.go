package tgbot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/suzume/renamebot/session"
	"github.com/suzume/renamebot/store"
	"github.com/suzume/renamebot/tool"
	"github.com/suzume/renamebot/types"
)

func (h *Handlers) handleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	data := cq.Data
	userID := cq.From.ID
	chatID := chatIDFromUpdate(update)
	msgID := callbackMessageID(cq)

	switch {
	case data == types.CallbackStartRename:
		h.cbStartRename(ctx, b, cq, userID, chatID, msgID)
	case strings.HasPrefix(data, types.CallbackUploadPrefix):
		h.cbUploadType(ctx, b, cq, userID, strings.TrimPrefix(data, types.CallbackUploadPrefix))
	case strings.HasPrefix(data, types.CallbackCancelConfirm):
		h.cbCancelConfirm(ctx, b, cq, userID, chatID, msgID, strings.TrimPrefix(data, types.CallbackCancelConfirm))
	case strings.HasPrefix(data, types.CallbackCancelYes):
		h.cbCancelYes(ctx, b, cq, userID, chatID, msgID, strings.TrimPrefix(data, types.CallbackCancelYes))
	case strings.HasPrefix(data, types.CallbackCancelNo):
		h.cbCancelNo(ctx, b, cq, userID, chatID, msgID, strings.TrimPrefix(data, types.CallbackCancelNo))
	case strings.HasPrefix(data, types.CallbackCopyLinkPrefix):
		h.cbCopyLink(ctx, b, cq, strings.TrimPrefix(data, types.CallbackCopyLinkPrefix))
	default:
		h.answerCallback(ctx, b, cq.ID, "", false)
	}
}

// cbStartRename moves the session to the filename prompt.
func (h *Handlers) cbStartRename(ctx context.Context, b *bot.Bot, cq *models.CallbackQuery, userID, chatID int64, msgID int) {
	err := h.sessions.Transition(userID, session.StateAwaitingRename, session.StateAwaitingFilename, nil)
	if errors.Is(err, session.ErrNoSession) {
		h.answerCallback(ctx, b, cq.ID, "Session expired! Send the file again.", true)
		return
	}
	if err != nil {
		// double press; the first one already advanced the session
		h.answerCallback(ctx, b, cq.ID, "", false)
		return
	}
	h.answerCallback(ctx, b, cq.ID, "", false)
	h.editStatus(ctx, b, chatID, msgID,
		"**📝 Enter the new filename:**\n\nSend it as a plain message. The original extension is kept when you omit one.",
		&models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{
				{{Text: "❌ Cancel", CallbackData: types.CancelConfirmPayload(userID)}},
			},
		})
}

// cbUploadType records the chosen container and launches the transfer.
func (h *Handlers) cbUploadType(ctx context.Context, b *bot.Bot, cq *models.CallbackQuery, userID int64, suffix string) {
	kind, ok := types.ParseContainerKind(suffix)
	if !ok {
		h.answerCallback(ctx, b, cq.ID, "", false)
		return
	}
	snap, found := h.sessions.Get(userID)
	if !found {
		h.answerCallback(ctx, b, cq.ID, "Session expired! Send the file again.", true)
		return
	}
	if types.IsForcedDocumentExt(snap.Source.Extension()) {
		kind = types.ContainerDocument
	}
	err := h.sessions.Transition(userID, session.StateAwaitingUploadType, session.StateProcessing, func(s *session.Session) {
		s.Container = kind
	})
	if errors.Is(err, session.ErrNoSession) {
		h.answerCallback(ctx, b, cq.ID, "Session expired! Send the file again.", true)
		return
	}
	if err != nil {
		// double press; exactly one transition wins and launches the transfer
		h.answerCallback(ctx, b, cq.ID, "", false)
		return
	}
	h.answerCallback(ctx, b, cq.ID, "", false)
	h.editStatus(ctx, b, snap.ChatID, snap.StatusMsgID, "**🔄 Starting process...**", nil)
	go h.orch.Run(ctx, userID)
}

// cbCancelConfirm swaps the keyboard for a yes/no confirmation. The payload
// carries the session owner's id so foreign presses bounce.
func (h *Handlers) cbCancelConfirm(ctx context.Context, b *bot.Bot, cq *models.CallbackQuery, userID, chatID int64, msgID int, suffix string) {
	owner, ok := parseIDSuffix(suffix)
	if !ok || owner != userID {
		h.answerCallback(ctx, b, cq.ID, "This button is not yours.", true)
		return
	}
	if _, found := h.sessions.Get(userID); !found {
		h.answerCallback(ctx, b, cq.ID, "Nothing to cancel.", true)
		return
	}
	h.answerCallback(ctx, b, cq.ID, "", false)
	h.editStatus(ctx, b, chatID, msgID,
		"**⚠️ Are you sure you want to cancel this process?**",
		&models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{
				{
					{Text: "✅ Yes", CallbackData: types.CancelYesPayload(userID)},
					{Text: "❌ No", CallbackData: types.CancelNoPayload(userID)},
				},
			},
		})
}

func (h *Handlers) cbCancelYes(ctx context.Context, b *bot.Bot, cq *models.CallbackQuery, userID, chatID int64, msgID int, suffix string) {
	owner, ok := parseIDSuffix(suffix)
	if !ok || owner != userID {
		h.answerCallback(ctx, b, cq.ID, "This button is not yours.", true)
		return
	}
	cancelled, wasProcessing := h.sessions.Cancel(userID)
	h.answerCallback(ctx, b, cq.ID, "", false)
	switch {
	case !cancelled:
		h.editStatus(ctx, b, chatID, msgID, "**❌ No active process to cancel.**", nil)
	case wasProcessing:
		// the transfer notices the dead context and rewrites the status itself
		tool.DefaultLogger.Infof("[Bot] Cancel confirmed mid-transfer by user %d", userID)
	default:
		h.editStatus(ctx, b, chatID, msgID, "**✅ Process cancelled successfully!**", nil)
	}
}

// cbCancelNo resumes the workflow where it left off.
func (h *Handlers) cbCancelNo(ctx context.Context, b *bot.Bot, cq *models.CallbackQuery, userID, chatID int64, msgID int, suffix string) {
	owner, ok := parseIDSuffix(suffix)
	if !ok || owner != userID {
		h.answerCallback(ctx, b, cq.ID, "This button is not yours.", true)
		return
	}
	h.answerCallback(ctx, b, cq.ID, "Resumed.", false)
	snap, found := h.sessions.Get(userID)
	if !found {
		return
	}
	switch snap.State {
	case session.StateAwaitingFilename:
		h.editStatus(ctx, b, chatID, msgID, "**📝 Enter the new filename:**",
			&models.InlineKeyboardMarkup{
				InlineKeyboard: [][]models.InlineKeyboardButton{
					{{Text: "❌ Cancel", CallbackData: types.CancelConfirmPayload(userID)}},
				},
			})
	case session.StateAwaitingRename:
		h.editStatus(ctx, b, chatID, msgID, "**Click RENAME to continue.**",
			&models.InlineKeyboardMarkup{
				InlineKeyboard: [][]models.InlineKeyboardButton{
					{{Text: "🔄 Rename", CallbackData: types.CallbackStartRename}},
					{{Text: "❌ Cancel", CallbackData: types.CancelConfirmPayload(userID)}},
				},
			})
	}
}

// cbCopyLink answers with the plain deep-link URL so it can be copied.
func (h *Handlers) cbCopyLink(ctx context.Context, b *bot.Bot, cq *models.CallbackQuery, token string) {
	link, err := h.db.GetFileLink(ctx, token)
	if errors.Is(err, store.ErrLinkNotFound) {
		h.answerCallback(ctx, b, cq.ID, "This link has expired.", true)
		return
	}
	if err != nil {
		tool.DefaultLogger.Errorf("[Bot] Link lookup failed: %v", err)
		h.answerCallback(ctx, b, cq.ID, "Failed to fetch the link.", true)
		return
	}
	h.answerCallback(ctx, b, cq.ID, tool.BuildDeepLink(h.botUsername, link.Token), true)
}

func (h *Handlers) answerCallback(ctx context.Context, b *bot.Bot, id, text string, alert bool) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: id,
		Text:            text,
		ShowAlert:       alert,
	})
	if err != nil {
		tool.DefaultLogger.Debugf("[Bot] Callback answer failed: %v", err)
	}
}

func callbackMessageID(cq *models.CallbackQuery) int {
	if cq.Message.Message != nil {
		return cq.Message.Message.ID
	}
	if cq.Message.InaccessibleMessage != nil {
		return cq.Message.InaccessibleMessage.MessageID
	}
	return 0
}

func parseIDSuffix(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
