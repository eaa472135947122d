// Package tgbot wires the Telegram client: routing, the gate pipeline and
// the rename workflow handlers.
package tgbot

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/suzume/renamebot/session"
	"github.com/suzume/renamebot/store"
	"github.com/suzume/renamebot/tool"
	"github.com/suzume/renamebot/transfer"
	"github.com/suzume/renamebot/types"
)

var defaultAllowedUpdates = bot.AllowedUpdates{
	"message",
	"callback_query",
}

// Handlers carries the shared dependencies of every update handler.
type Handlers struct {
	db          *store.Store
	sessions    *session.Store
	orch        *transfer.Orchestrator
	gate        *Gate
	maxFileSize int64
	botUsername string
}

func NewHandlers(db *store.Store, sessions *session.Store, orch *transfer.Orchestrator, gate *Gate, maxFileSize int64) *Handlers {
	h := &Handlers{
		db:          db,
		sessions:    sessions,
		orch:        orch,
		gate:        gate,
		maxFileSize: maxFileSize,
	}
	orch.OnLinkCreated = func(ctx context.Context, chatID int64, link types.FileLink) {
		h.sendDeepLink(ctx, orch.Bot, chatID, link)
	}
	return h
}

// New builds the bot client with the gate in front of the router.
func New(token string, h *Handlers) (*bot.Bot, error) {
	return bot.New(token,
		bot.WithDefaultHandler(h.Route),
		bot.WithMiddlewares(h.gate.Middleware),
		bot.WithAllowedUpdates(defaultAllowedUpdates),
	)
}

// SetBotUsername records the bot's own username for deep-link building.
func (h *Handlers) SetBotUsername(name string) {
	h.botUsername = name
}

// Route dispatches an update to the matching handler. Only private chats are
// served; everything else is ignored.
func (h *Handlers) Route(ctx context.Context, b *bot.Bot, update *models.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, b, update)
	case update.Message == nil:
		return
	case update.Message.Chat.Type != models.ChatTypePrivate:
		return
	case update.Message.Document != nil, update.Message.Video != nil, update.Message.Audio != nil:
		h.handleFile(ctx, b, update.Message)
	case len(update.Message.Photo) > 0:
		h.handlePhoto(ctx, b, update.Message)
	case strings.HasPrefix(strings.TrimSpace(update.Message.Text), "/"):
		h.handleCommand(ctx, b, update.Message)
	case update.Message.Text != "":
		h.handleText(ctx, b, update.Message)
	}
}

func (h *Handlers) reply(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) *models.Message {
	msg, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdown,
		ReplyMarkup: markup,
	})
	if err != nil {
		tool.DefaultLogger.Errorf("[Bot] Send failed for chat %d: %v", chatID, err)
		return nil
	}
	return msg
}

func userIDFromUpdate(update *models.Update) int64 {
	if update == nil {
		return 0
	}
	if update.Message != nil && update.Message.From != nil {
		return update.Message.From.ID
	}
	if update.CallbackQuery != nil {
		return update.CallbackQuery.From.ID
	}
	return 0
}

func chatIDFromUpdate(update *models.Update) int64 {
	if update == nil {
		return 0
	}
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil {
		if update.CallbackQuery.Message.Message != nil {
			return update.CallbackQuery.Message.Message.Chat.ID
		}
		if update.CallbackQuery.Message.InaccessibleMessage != nil {
			return update.CallbackQuery.Message.InaccessibleMessage.Chat.ID
		}
	}
	return 0
}

// incomingFileFromMessage extracts declared media metadata from a file
// message, nil when the message carries none.
func incomingFileFromMessage(msg *models.Message) *types.IncomingFile {
	switch {
	case msg.Document != nil:
		return &types.IncomingFile{
			FileID:   msg.Document.FileID,
			FileName: msg.Document.FileName,
			Size:     msg.Document.FileSize,
			Kind:     types.ContainerDocument,
		}
	case msg.Video != nil:
		return &types.IncomingFile{
			FileID:   msg.Video.FileID,
			FileName: msg.Video.FileName,
			Size:     msg.Video.FileSize,
			Duration: msg.Video.Duration,
			Kind:     types.ContainerVideo,
		}
	case msg.Audio != nil:
		return &types.IncomingFile{
			FileID:   msg.Audio.FileID,
			FileName: msg.Audio.FileName,
			Size:     msg.Audio.FileSize,
			Duration: msg.Audio.Duration,
			Kind:     types.ContainerAudio,
		}
	}
	return nil
}
