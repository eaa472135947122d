package transfer

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/suzume/renamebot/tool"
)

// editFunc re-renders the status message; errors are the implementation's
// problem (a failed edit must never fail the transfer).
type editFunc func(ctx context.Context, text string)

// reportInterval is the minimum gap between status message edits. Telegram
// rate-limits message edits, so progress is throttled rather than per-chunk.
const reportInterval = 2 * time.Second

// Reporter renders transfer progress into a status message at a bounded
// rate. Updates are monotonic: a stale lower byte count never overwrites a
// higher one.
type Reporter struct {
	title string
	total int64
	edit  editFunc

	mu      sync.Mutex
	start   time.Time
	last    time.Time
	current int64
}

func NewReporter(title string, total int64, edit editFunc) *Reporter {
	return &Reporter{
		title: title,
		total: total,
		edit:  edit,
		start: time.Now(),
	}
}

// Update records progress and re-renders the status message when the
// throttle interval has elapsed or the transfer just completed.
func (r *Reporter) Update(ctx context.Context, current int64) {
	r.mu.Lock()
	if current < r.current {
		r.mu.Unlock()
		return
	}
	r.current = current
	now := time.Now()
	done := r.total > 0 && current >= r.total
	if !done && now.Sub(r.last) < reportInterval {
		r.mu.Unlock()
		return
	}
	r.last = now
	text := tool.RenderProgress(r.title, current, r.total, now.Sub(r.start))
	r.mu.Unlock()

	r.edit(ctx, text)
}

// Current returns the last recorded byte count.
func (r *Reporter) Current() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// progressReader counts bytes flowing through an upload and checks for
// cancellation before every read, so a cancel request is observed at chunk
// granularity rather than at the next status edit.
type progressReader struct {
	ctx context.Context
	r   io.Reader
	rep *Reporter
	n   int64
}

func newProgressReader(ctx context.Context, r io.Reader, rep *Reporter) *progressReader {
	return &progressReader{ctx: ctx, r: r, rep: rep}
}

func (p *progressReader) Read(b []byte) (int, error) {
	if err := p.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := p.r.Read(b)
	if n > 0 {
		p.n += int64(n)
		if p.rep != nil {
			p.rep.Update(p.ctx, p.n)
		}
	}
	return n, err
}

// progressWriter is the download-side counterpart of progressReader.
type progressWriter struct {
	ctx context.Context
	w   io.Writer
	rep *Reporter
	n   int64
}

func newProgressWriter(ctx context.Context, w io.Writer, rep *Reporter) *progressWriter {
	return &progressWriter{ctx: ctx, w: w, rep: rep}
}

func (p *progressWriter) Write(b []byte) (int, error) {
	if err := p.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := p.w.Write(b)
	if n > 0 {
		p.n += int64(n)
		if p.rep != nil {
			p.rep.Update(p.ctx, p.n)
		}
	}
	return n, err
}
