package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/suzume/renamebot/types"
)

func testFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scratch.bin")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCreateRejectsSecondSession(t *testing.T) {
	st := NewStore(time.Hour, nil)
	src := types.IncomingFile{FileID: "f1", FileName: "a.mp4", Kind: types.ContainerVideo}

	s, err := st.Create(1, 10, src)
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if s.State != StateAwaitingRename {
		t.Errorf("new session state = %v, want %v", s.State, StateAwaitingRename)
	}
	if _, err := st.Create(1, 10, src); err != ErrSessionExists {
		t.Errorf("second Create err = %v, want ErrSessionExists", err)
	}
	if _, err := st.Create(2, 20, src); err != nil {
		t.Errorf("Create for another user: %v", err)
	}
	if st.Len() != 2 {
		t.Errorf("Len = %d, want 2", st.Len())
	}
}

func TestMutateAndGetCopySemantics(t *testing.T) {
	st := NewStore(time.Hour, nil)
	st.Create(1, 10, types.IncomingFile{FileName: "a.bin"})

	if err := st.Mutate(1, func(s *Session) { s.BaseName = "renamed" }); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	snap, ok := st.Get(1)
	if !ok || snap.BaseName != "renamed" {
		t.Fatalf("Get after Mutate = %+v, ok=%v", snap, ok)
	}

	// mutating the copy must not leak into the store
	snap.BaseName = "tampered"
	again, _ := st.Get(1)
	if again.BaseName != "renamed" {
		t.Errorf("store session mutated through a copy: %q", again.BaseName)
	}

	if err := st.Mutate(99, func(s *Session) {}); err != ErrNoSession {
		t.Errorf("Mutate on absent session err = %v, want ErrNoSession", err)
	}
}

func TestTransition(t *testing.T) {
	st := NewStore(time.Hour, nil)
	st.Create(1, 10, types.IncomingFile{})

	err := st.Transition(1, StateAwaitingRename, StateAwaitingFilename, func(s *Session) { s.BaseName = "x" })
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	snap, _ := st.Get(1)
	if snap.State != StateAwaitingFilename || snap.BaseName != "x" {
		t.Errorf("after transition: %+v", snap)
	}

	if err := st.Transition(1, StateAwaitingRename, StateAwaitingFilename, nil); err != ErrWrongState {
		t.Errorf("repeat transition err = %v, want ErrWrongState", err)
	}
	if err := st.Transition(99, StateAwaitingRename, StateAwaitingFilename, nil); err != ErrNoSession {
		t.Errorf("absent session err = %v, want ErrNoSession", err)
	}
}

func TestTransitionRaceHasOneWinner(t *testing.T) {
	// two handlers racing the same button press must launch exactly one
	// transfer, no matter how the goroutines interleave
	for i := 0; i < 100; i++ {
		st := NewStore(time.Hour, nil)
		st.Create(1, 10, types.IncomingFile{})
		st.Mutate(1, func(s *Session) { s.State = StateAwaitingUploadType })

		var wins int32
		var wg sync.WaitGroup
		for g := 0; g < 2; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := st.Transition(1, StateAwaitingUploadType, StateProcessing, nil)
				if err == nil {
					atomic.AddInt32(&wins, 1)
				} else if err != ErrWrongState {
					t.Errorf("loser err = %v, want ErrWrongState", err)
				}
			}()
		}
		wg.Wait()
		if wins != 1 {
			t.Fatalf("transition winners = %d, want exactly 1", wins)
		}
	}
}

func TestCancelIdleSessionRemovesFiles(t *testing.T) {
	st := NewStore(time.Hour, nil)
	st.Create(1, 10, types.IncomingFile{})
	path := testFile(t)
	st.Mutate(1, func(s *Session) { s.LocalFilePath = path })

	cancelled, wasProcessing := st.Cancel(1)
	if !cancelled || wasProcessing {
		t.Fatalf("Cancel = (%v, %v), want (true, false)", cancelled, wasProcessing)
	}
	if _, ok := st.Get(1); ok {
		t.Error("session still present after cancel")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file not removed: %v", err)
	}

	if cancelled, _ := st.Cancel(1); cancelled {
		t.Error("second cancel reported work")
	}
}

func TestCancelProcessingSessionCancelsContext(t *testing.T) {
	st := NewStore(time.Hour, nil)
	st.Create(1, 10, types.IncomingFile{})

	ctx, cancel := context.WithCancel(context.Background())
	st.Mutate(1, func(s *Session) {
		s.State = StateProcessing
		s.BindCancel(cancel)
	})

	cancelled, wasProcessing := st.Cancel(1)
	if !cancelled || !wasProcessing {
		t.Fatalf("Cancel = (%v, %v), want (true, true)", cancelled, wasProcessing)
	}
	if ctx.Err() == nil {
		t.Error("transfer context not cancelled")
	}
	// a processing session stays registered until the transfer unwinds
	if _, ok := st.Get(1); !ok {
		t.Error("processing session removed before the transfer cleaned up")
	}
}

func TestSweepEvictsStaleSessions(t *testing.T) {
	var expired []Session
	st := NewStore(10*time.Minute, func(s Session) { expired = append(expired, s) })
	st.Create(1, 10, types.IncomingFile{})
	path := testFile(t)
	st.Mutate(1, func(s *Session) { s.LocalFilePath = path })
	st.Create(2, 20, types.IncomingFile{})

	// only user 1 is old enough to be swept
	st.Mutate(1, func(s *Session) { s.CreatedAt = time.Now().Add(-time.Hour) })
	st.sweepOnce(time.Now())

	if _, ok := st.Get(1); ok {
		t.Error("stale session survived the sweep")
	}
	if _, ok := st.Get(2); !ok {
		t.Error("fresh session was swept")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("stale session temp file not removed")
	}
	if len(expired) != 1 || expired[0].UserID != 1 {
		t.Errorf("onExpire calls = %+v, want one for user 1", expired)
	}
}

func TestSweepCancelsStaleProcessingSession(t *testing.T) {
	st := NewStore(10*time.Minute, nil)
	st.Create(1, 10, types.IncomingFile{})
	ctx, cancel := context.WithCancel(context.Background())
	st.Mutate(1, func(s *Session) {
		s.State = StateProcessing
		s.BindCancel(cancel)
		s.CreatedAt = time.Now().Add(-time.Hour)
	})

	st.sweepOnce(time.Now())

	if ctx.Err() == nil {
		t.Error("stale processing session context not cancelled")
	}
	if _, ok := st.Get(1); !ok {
		t.Error("processing session evicted instead of cancelled")
	}
}

func TestFinalName(t *testing.T) {
	s := Session{
		BaseName: "holiday",
		Source:   types.IncomingFile{FileName: "IMG.mov", Kind: types.ContainerVideo},
	}
	if got := s.FinalName(); got != "holiday.mov" {
		t.Errorf("FinalName = %q, want %q", got, "holiday.mov")
	}
}
