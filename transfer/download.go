package transfer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-telegram/bot"

	"github.com/suzume/renamebot/tool"
)

// DownloadToFile streams a Telegram file to dest, reporting progress through
// rep (which may be nil, e.g. for thumbnails). On any error the partial file
// is left in place for the caller's cleanup path.
func DownloadToFile(ctx context.Context, b *bot.Bot, fileID, dest string, rep *Reporter) (int64, error) {
	f, err := b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return 0, fmt.Errorf("failed to resolve file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.FileDownloadLink(f), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build download request: %w", err)
	}
	resp, err := tool.GetHttpClient().Do(req)
	if err != nil {
		return 0, fmt.Errorf("download request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close download body: %v", err)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download request failed: %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dest, err)
	}
	written, err := io.Copy(newProgressWriter(ctx, out, rep), resp.Body)
	if cerr := out.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		if ctx.Err() != nil {
			return written, ctx.Err()
		}
		return written, fmt.Errorf("download failed: %w", err)
	}
	if rep != nil {
		rep.Update(ctx, written)
	}
	return written, nil
}
