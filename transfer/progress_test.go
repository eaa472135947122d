package transfer

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestReporterThrottlesAndForcesCompletion(t *testing.T) {
	var edits []string
	rep := NewReporter("📥 Downloading", 100, func(ctx context.Context, text string) {
		edits = append(edits, text)
	})
	ctx := context.Background()

	rep.Update(ctx, 10)
	rep.Update(ctx, 20)
	rep.Update(ctx, 30)
	if len(edits) != 1 {
		t.Fatalf("edits within throttle window = %d, want 1", len(edits))
	}

	// completion always renders, throttle or not
	rep.Update(ctx, 100)
	if len(edits) != 2 {
		t.Fatalf("edits after completion = %d, want 2", len(edits))
	}
	if !strings.Contains(edits[1], "100.00%") {
		t.Errorf("final edit missing completion percent: %q", edits[1])
	}
}

func TestReporterIgnoresStaleCounts(t *testing.T) {
	rep := NewReporter("x", 100, func(ctx context.Context, text string) {})
	ctx := context.Background()
	rep.Update(ctx, 50)
	rep.Update(ctx, 40)
	if got := rep.Current(); got != 50 {
		t.Errorf("Current = %d after stale update, want 50", got)
	}
}

func TestProgressReaderCountsBytes(t *testing.T) {
	rep := NewReporter("x", 11, func(ctx context.Context, text string) {})
	pr := newProgressReader(context.Background(), strings.NewReader("hello world"), rep)

	out, err := io.ReadAll(pr)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(out) != "hello world" {
		t.Errorf("read %q", out)
	}
	if rep.Current() != 11 {
		t.Errorf("reported bytes = %d, want 11", rep.Current())
	}
}

func TestProgressReaderObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pr := newProgressReader(ctx, strings.NewReader(strings.Repeat("a", 1024)), nil)

	buf := make([]byte, 64)
	if _, err := pr.Read(buf); err != nil {
		t.Fatalf("read before cancel: %v", err)
	}
	cancel()
	if _, err := pr.Read(buf); err != context.Canceled {
		t.Errorf("read after cancel err = %v, want context.Canceled", err)
	}
}

func TestProgressWriterObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var sink bytes.Buffer
	pw := newProgressWriter(ctx, &sink, nil)

	if _, err := pw.Write([]byte("chunk")); err != nil {
		t.Fatalf("write before cancel: %v", err)
	}
	cancel()
	if _, err := pw.Write([]byte("chunk")); err != context.Canceled {
		t.Errorf("write after cancel err = %v, want context.Canceled", err)
	}
	if sink.String() != "chunk" {
		t.Errorf("sink = %q, want one chunk", sink.String())
	}
}

func TestReporterCompletionUnknownTotal(t *testing.T) {
	var edits int
	rep := NewReporter("x", 0, func(ctx context.Context, text string) { edits++ })
	ctx := context.Background()
	rep.Update(ctx, 10)
	if edits != 1 {
		t.Fatalf("first update should render, got %d edits", edits)
	}
	// with an unknown total nothing forces a render inside the window
	rep.Update(ctx, 20)
	if edits != 1 {
		t.Errorf("throttle ignored for unknown total, edits = %d", edits)
	}
}
