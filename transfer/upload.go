package transfer

import (
	"context"
	"fmt"
	"os"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/suzume/renamebot/tool"
	"github.com/suzume/renamebot/types"
)

// UploadRequest describes one outbound media send from a local file.
type UploadRequest struct {
	ChatID    int64
	Kind      types.ContainerKind
	FileName  string
	Path      string
	Duration  int
	ThumbPath string
	Caption   string
}

// SendFile streams the local file to the chat under the requested container
// kind, reporting progress through rep. The thumbnail is best-effort: an
// unreadable thumb file is skipped, not fatal.
func SendFile(ctx context.Context, b *bot.Bot, req UploadRequest, rep *Reporter) (*models.Message, error) {
	fd, err := os.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", req.Path, err)
	}
	defer fd.Close()

	data := newProgressReader(ctx, fd, rep)
	media := &models.InputFileUpload{Filename: req.FileName, Data: data}

	var thumb models.InputFile
	if req.ThumbPath != "" {
		tf, err := os.Open(req.ThumbPath)
		if err != nil {
			tool.DefaultLogger.Warnf("Skipping unreadable thumbnail %s: %v", req.ThumbPath, err)
		} else {
			defer tf.Close()
			thumb = &models.InputFileUpload{Filename: "thumb.jpg", Data: tf}
		}
	}

	var (
		msg     *models.Message
		sendErr error
	)
	switch req.Kind {
	case types.ContainerVideo:
		msg, sendErr = b.SendVideo(ctx, &bot.SendVideoParams{
			ChatID:            req.ChatID,
			Video:             media,
			Duration:          req.Duration,
			SupportsStreaming: true,
			Thumbnail:         thumb,
			Caption:           req.Caption,
			ParseMode:         models.ParseModeMarkdown,
		})
	case types.ContainerAudio:
		msg, sendErr = b.SendAudio(ctx, &bot.SendAudioParams{
			ChatID:    req.ChatID,
			Audio:     media,
			Duration:  req.Duration,
			Thumbnail: thumb,
			Caption:   req.Caption,
			ParseMode: models.ParseModeMarkdown,
		})
	default:
		msg, sendErr = b.SendDocument(ctx, &bot.SendDocumentParams{
			ChatID:    req.ChatID,
			Document:  media,
			Thumbnail: thumb,
			Caption:   req.Caption,
			ParseMode: models.ParseModeMarkdown,
		})
	}
	if sendErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("upload failed: %w", sendErr)
	}
	return msg, nil
}

// UploadedFileID extracts the server-side file id of the media just sent,
// used for mirroring and deep links without re-uploading bytes.
func UploadedFileID(msg *models.Message) string {
	switch {
	case msg == nil:
		return ""
	case msg.Document != nil:
		return msg.Document.FileID
	case msg.Video != nil:
		return msg.Video.FileID
	case msg.Audio != nil:
		return msg.Audio.FileID
	}
	return ""
}

// SendByFileID re-sends an already-uploaded file by its server-side id.
// Used by the dump-channel mirror and deep-link redemption.
func SendByFileID(ctx context.Context, b *bot.Bot, chatID int64, kind types.ContainerKind, fileID, caption string) (*models.Message, error) {
	media := &models.InputFileString{Data: fileID}
	switch kind {
	case types.ContainerVideo:
		return b.SendVideo(ctx, &bot.SendVideoParams{
			ChatID: chatID, Video: media, Caption: caption, ParseMode: models.ParseModeMarkdown,
		})
	case types.ContainerAudio:
		return b.SendAudio(ctx, &bot.SendAudioParams{
			ChatID: chatID, Audio: media, Caption: caption, ParseMode: models.ParseModeMarkdown,
		})
	default:
		return b.SendDocument(ctx, &bot.SendDocumentParams{
			ChatID: chatID, Document: media, Caption: caption, ParseMode: models.ParseModeMarkdown,
		})
	}
}
