package tgbot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/suzume/renamebot/store"
	"github.com/suzume/renamebot/tool"
	"github.com/suzume/renamebot/transfer"
)

const welcomeText = "**👋 Hello! I am a File Rename Bot.**\n\n" +
	"Send me any document, video or audio and I will rename it for you, " +
	"with your own thumbnail and a 24h share link.\n\n" +
	"**Commands:**\n" +
	"/view\\_thumb - show your saved thumbnail\n" +
	"/del\\_thumb - delete your saved thumbnail\n" +
	"/cover - reply to a video to re-send it with your thumbnail\n" +
	"/cancel - cancel the current process\n\n" +
	"Send a photo at any time to set it as your thumbnail."

func (h *Handlers) handleCommand(ctx context.Context, b *bot.Bot, msg *models.Message) {
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return
	}
	cmd := strings.ToLower(strings.TrimSuffix(fields[0], "@"+h.botUsername))
	args := fields[1:]

	switch cmd {
	case "/start":
		h.cmdStart(ctx, b, msg, args)
	case "/cancel":
		h.cmdCancel(ctx, b, msg)
	case "/view_thumb":
		h.cmdViewThumb(ctx, b, msg)
	case "/del_thumb":
		h.cmdDelThumb(ctx, b, msg)
	case "/cover":
		h.cmdCover(ctx, b, msg)
	case "/mode":
		h.cmdMode(ctx, b, msg, args)
	case "/addalloweduser":
		h.cmdAddAllowed(ctx, b, msg, args)
	case "/removealloweduser":
		h.cmdRemoveAllowed(ctx, b, msg, args)
	case "/allowedusers":
		h.cmdListAllowed(ctx, b, msg)
	case "/users":
		h.cmdUsers(ctx, b, msg)
	case "/dumpchannel":
		h.cmdDumpChannel(ctx, b, msg, args)
	default:
		h.reply(ctx, b, msg.Chat.ID, "**❓ Unknown command.** Send /start for help.", nil)
	}
}

// cmdStart greets the user, or redeems a deep-link token when one rode in on
// the /start payload.
func (h *Handlers) cmdStart(ctx context.Context, b *bot.Bot, msg *models.Message, args []string) {
	if len(args) > 0 && args[0] != "" {
		h.redeemStart(ctx, b, msg.Chat.ID, args[0])
		return
	}
	h.reply(ctx, b, msg.Chat.ID, welcomeText, nil)
}

func (h *Handlers) cmdCancel(ctx context.Context, b *bot.Bot, msg *models.Message) {
	cancelled, wasProcessing := h.sessions.Cancel(msg.From.ID)
	switch {
	case !cancelled:
		h.reply(ctx, b, msg.Chat.ID, "**❌ No active process to cancel.**", nil)
	case wasProcessing:
		// the transfer observes the dead context and reports the cancellation
		tool.DefaultLogger.Infof("[Bot] Cancel requested mid-transfer by user %d", msg.From.ID)
	default:
		h.reply(ctx, b, msg.Chat.ID, "**✅ Process cancelled successfully!**", nil)
	}
}

func (h *Handlers) cmdViewThumb(ctx context.Context, b *bot.Bot, msg *models.Message) {
	fileID, err := h.db.GetThumbnail(ctx, msg.From.ID)
	if err != nil {
		tool.DefaultLogger.Errorf("[Bot] Thumbnail lookup failed for %d: %v", msg.From.ID, err)
		h.reply(ctx, b, msg.Chat.ID, "**❌ Failed to look up your thumbnail.**", nil)
		return
	}
	if fileID == "" {
		h.reply(ctx, b, msg.Chat.ID, "**You don't have any thumbnail set.**", nil)
		return
	}
	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:    msg.Chat.ID,
		Photo:     &models.InputFileString{Data: fileID},
		Caption:   "**Your current thumbnail.**",
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		tool.DefaultLogger.Errorf("[Bot] Thumbnail send failed for %d: %v", msg.From.ID, err)
	}
}

func (h *Handlers) cmdDelThumb(ctx context.Context, b *bot.Bot, msg *models.Message) {
	fileID, err := h.db.GetThumbnail(ctx, msg.From.ID)
	if err == nil && fileID == "" {
		h.reply(ctx, b, msg.Chat.ID, "**You don't have any thumbnail set.**", nil)
		return
	}
	if err := h.db.SetThumbnail(ctx, msg.From.ID, ""); err != nil {
		tool.DefaultLogger.Errorf("[Bot] Thumbnail delete failed for %d: %v", msg.From.ID, err)
		h.reply(ctx, b, msg.Chat.ID, "**❌ Failed to delete thumbnail.**", nil)
		return
	}
	h.reply(ctx, b, msg.Chat.ID, "**✅ Thumbnail deleted successfully!**", nil)
}

// cmdCover re-sends the replied-to video with the user's stored thumbnail
// attached, without touching the video bytes.
func (h *Handlers) cmdCover(ctx context.Context, b *bot.Bot, msg *models.Message) {
	if msg.ReplyToMessage == nil || msg.ReplyToMessage.Video == nil {
		h.reply(ctx, b, msg.Chat.ID, "**Reply to a video with /cover to attach your thumbnail.**", nil)
		return
	}
	thumbID, err := h.db.GetThumbnail(ctx, msg.From.ID)
	if err != nil || thumbID == "" {
		h.reply(ctx, b, msg.Chat.ID, "**You don't have any thumbnail set.**\nSend a photo first.", nil)
		return
	}

	// thumbnails cannot be referenced by file id on send, so fetch and
	// re-upload the stored photo
	thumbPath := tool.ScratchPath(h.orch.ScratchDir, msg.From.ID, "cover_thumb.jpg")
	if err := tool.EnsureScratchDir(h.orch.ScratchDir); err != nil {
		h.reply(ctx, b, msg.Chat.ID, "**❌ Failed to prepare working directory.**", nil)
		return
	}
	defer tool.RemoveIfExists(thumbPath)
	if _, err := transfer.DownloadToFile(ctx, b, thumbID, thumbPath, nil); err != nil {
		tool.DefaultLogger.Errorf("[Bot] Cover thumbnail fetch failed for %d: %v", msg.From.ID, err)
		h.reply(ctx, b, msg.Chat.ID, "**❌ Failed to fetch your thumbnail.**", nil)
		return
	}
	tf, err := os.Open(thumbPath)
	if err != nil {
		h.reply(ctx, b, msg.Chat.ID, "**❌ Failed to read your thumbnail.**", nil)
		return
	}
	defer tf.Close()

	video := msg.ReplyToMessage.Video
	_, err = b.SendVideo(ctx, &bot.SendVideoParams{
		ChatID:            msg.Chat.ID,
		Video:             &models.InputFileString{Data: video.FileID},
		Duration:          video.Duration,
		SupportsStreaming: true,
		Thumbnail:         &models.InputFileUpload{Filename: "thumb.jpg", Data: tf},
	})
	if err != nil {
		tool.DefaultLogger.Errorf("[Bot] Cover send failed for %d: %v", msg.From.ID, err)
		h.reply(ctx, b, msg.Chat.ID, "**❌ Failed to apply the cover.**", nil)
	}
}

// cmdMode toggles private mode. Owner only.
func (h *Handlers) cmdMode(ctx context.Context, b *bot.Bot, msg *models.Message, args []string) {
	if !h.requireOwner(ctx, b, msg) {
		return
	}
	if len(args) != 1 {
		h.reply(ctx, b, msg.Chat.ID, "**Usage:** `/mode private` or `/mode public`", nil)
		return
	}
	var private bool
	switch strings.ToLower(args[0]) {
	case "private":
		private = true
	case "public":
		private = false
	default:
		h.reply(ctx, b, msg.Chat.ID, "**Usage:** `/mode private` or `/mode public`", nil)
		return
	}
	if err := h.db.SetPrivateMode(ctx, private); err != nil {
		tool.DefaultLogger.Errorf("[Bot] Mode update failed: %v", err)
		h.reply(ctx, b, msg.Chat.ID, "**❌ Failed to update mode.**", nil)
		return
	}
	if private {
		h.reply(ctx, b, msg.Chat.ID, "**🔒 Bot is now private.** Only owners and allowed users may use it.", nil)
	} else {
		h.reply(ctx, b, msg.Chat.ID, "**🌐 Bot is now public.**", nil)
	}
}

func (h *Handlers) cmdAddAllowed(ctx context.Context, b *bot.Bot, msg *models.Message, args []string) {
	if !h.requireOwner(ctx, b, msg) {
		return
	}
	id, ok := parseUserIDArg(args)
	if !ok {
		h.reply(ctx, b, msg.Chat.ID, "**Usage:** `/addalloweduser <user id>`", nil)
		return
	}
	if err := h.db.AddAllowed(ctx, id); err != nil {
		tool.DefaultLogger.Errorf("[Bot] Allow-list add failed: %v", err)
		h.reply(ctx, b, msg.Chat.ID, "**❌ Failed to update the allow list.**", nil)
		return
	}
	h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("**✅ User `%d` added to the allow list.**", id), nil)
}

func (h *Handlers) cmdRemoveAllowed(ctx context.Context, b *bot.Bot, msg *models.Message, args []string) {
	if !h.requireOwner(ctx, b, msg) {
		return
	}
	id, ok := parseUserIDArg(args)
	if !ok {
		h.reply(ctx, b, msg.Chat.ID, "**Usage:** `/removealloweduser <user id>`", nil)
		return
	}
	if err := h.db.RemoveAllowed(ctx, id); err != nil {
		tool.DefaultLogger.Errorf("[Bot] Allow-list remove failed: %v", err)
		h.reply(ctx, b, msg.Chat.ID, "**❌ Failed to update the allow list.**", nil)
		return
	}
	h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("**✅ User `%d` removed from the allow list.**", id), nil)
}

func (h *Handlers) cmdListAllowed(ctx context.Context, b *bot.Bot, msg *models.Message) {
	if !h.requireOwner(ctx, b, msg) {
		return
	}
	users, err := h.db.ListAllowed(ctx)
	if err != nil {
		tool.DefaultLogger.Errorf("[Bot] Allow-list read failed: %v", err)
		h.reply(ctx, b, msg.Chat.ID, "**❌ Failed to read the allow list.**", nil)
		return
	}
	if len(users) == 0 {
		h.reply(ctx, b, msg.Chat.ID, "**The allow list is empty.**", nil)
		return
	}
	var sb strings.Builder
	sb.WriteString("**Allowed users:**\n")
	for _, u := range users {
		fmt.Fprintf(&sb, "`%d` (since %s)\n", u.UserID, u.AddedAt.Format("2006-01-02"))
	}
	h.reply(ctx, b, msg.Chat.ID, sb.String(), nil)
}

func (h *Handlers) cmdUsers(ctx context.Context, b *bot.Bot, msg *models.Message) {
	if !h.requireOwner(ctx, b, msg) {
		return
	}
	ids, err := h.db.ListAllUsers(ctx)
	if err != nil {
		tool.DefaultLogger.Errorf("[Bot] User listing failed: %v", err)
		h.reply(ctx, b, msg.Chat.ID, "**❌ Failed to list users.**", nil)
		return
	}
	h.reply(ctx, b, msg.Chat.ID, renderUserList(ids), nil)
}

func renderUserList(ids []int64) string {
	if len(ids) == 0 {
		return "**No users known yet.**"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "**👥 Known users (%d):**\n", len(ids))
	for _, id := range ids {
		fmt.Fprintf(&sb, "`%d`\n", id)
	}
	return sb.String()
}

// cmdDumpChannel sets or clears the mirror channel override. Owner only.
func (h *Handlers) cmdDumpChannel(ctx context.Context, b *bot.Bot, msg *models.Message, args []string) {
	if !h.requireOwner(ctx, b, msg) {
		return
	}
	if len(args) != 1 {
		h.reply(ctx, b, msg.Chat.ID, "**Usage:** `/dumpchannel <channel id>` or `/dumpchannel off`", nil)
		return
	}
	if strings.EqualFold(args[0], "off") {
		if err := h.db.SetDumpChannel(ctx, 0); err != nil {
			tool.DefaultLogger.Errorf("[Bot] Dump channel clear failed: %v", err)
			h.reply(ctx, b, msg.Chat.ID, "**❌ Failed to update the dump channel.**", nil)
			return
		}
		h.reply(ctx, b, msg.Chat.ID, "**✅ Dump channel mirroring disabled.**", nil)
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.reply(ctx, b, msg.Chat.ID, "**❌ Invalid channel id.** Use a numeric id like `-1001234567890`.", nil)
		return
	}
	if err := h.db.SetDumpChannel(ctx, id); err != nil {
		tool.DefaultLogger.Errorf("[Bot] Dump channel update failed: %v", err)
		h.reply(ctx, b, msg.Chat.ID, "**❌ Failed to update the dump channel.**", nil)
		return
	}
	h.reply(ctx, b, msg.Chat.ID, fmt.Sprintf("**✅ Dump channel set to `%d`.**", id), nil)
}

func (h *Handlers) requireOwner(ctx context.Context, b *bot.Bot, msg *models.Message) bool {
	if h.gate.IsOwner(msg.From.ID) {
		return true
	}
	h.reply(ctx, b, msg.Chat.ID, "**🚫 This command is owner-only.**", nil)
	return false
}

func parseUserIDArg(args []string) (int64, bool) {
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// redeemStart resolves a deep-link token and re-sends the linked file.
func (h *Handlers) redeemStart(ctx context.Context, b *bot.Bot, chatID int64, token string) {
	link, err := h.db.RedeemFileLink(ctx, token)
	if errors.Is(err, store.ErrLinkNotFound) {
		h.reply(ctx, b, chatID, "**❌ This link is invalid or has expired.**", nil)
		return
	}
	if err != nil {
		tool.DefaultLogger.Errorf("[Bot] Link redemption failed: %v", err)
		h.reply(ctx, b, chatID, "**❌ Failed to fetch the file. Try again later.**", nil)
		return
	}
	if _, err := transfer.SendByFileID(ctx, b, chatID, link.Kind, link.FileID,
		fmt.Sprintf("`%s`", link.FileName)); err != nil {
		tool.DefaultLogger.Errorf("[Bot] Linked file send failed: %v", err)
		h.reply(ctx, b, chatID, "**❌ Failed to send the file.**", nil)
		return
	}
	tool.DefaultLogger.Infof("[Bot] Link %s redeemed (%d downloads)", token, link.Downloads)
}
