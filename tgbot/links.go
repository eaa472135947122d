package tgbot

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/suzume/renamebot/tool"
	"github.com/suzume/renamebot/types"
)

const qrSize = 256

// sendDeepLink delivers the share link for a freshly renamed file: a QR code
// photo with the URL in the caption and a copy button. Falls back to a plain
// text message when QR generation fails.
func (h *Handlers) sendDeepLink(ctx context.Context, b *bot.Bot, chatID int64, link types.FileLink) {
	url := tool.BuildDeepLink(h.botUsername, link.Token)
	caption := fmt.Sprintf(
		"**🔗 Share Link**\n\n`%s`\n\nAnyone with this link gets `%s` from me.\n**Valid until:** `%s`",
		url, link.FileName, link.ExpiresAt.UTC().Format(time.RFC1123))
	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "📋 Copy Link", CallbackData: types.CopyLinkPayload(link.Token)}},
		},
	}

	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		tool.DefaultLogger.Warnf("[Bot] QR encode failed for %s: %v", link.Token, err)
		h.reply(ctx, b, chatID, caption, keyboard)
		return
	}
	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      chatID,
		Photo:       &models.InputFileUpload{Filename: "link.png", Data: bytes.NewReader(png)},
		Caption:     caption,
		ParseMode:   models.ParseModeMarkdown,
		ReplyMarkup: keyboard,
	})
	if err != nil {
		tool.DefaultLogger.Errorf("[Bot] Share link send failed for chat %d: %v", chatID, err)
		h.reply(ctx, b, chatID, caption, keyboard)
	}
}
