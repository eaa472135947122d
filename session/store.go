package session

import (
	"errors"
	"sync"
	"time"

	"github.com/suzume/renamebot/tool"
	"github.com/suzume/renamebot/types"
)

var (
	// ErrSessionExists is returned when a user sends a file mid-workflow.
	ErrSessionExists = errors.New("session already exists")
	// ErrNoSession is returned for operations against an absent session.
	ErrNoSession = errors.New("no active session")
	// ErrWrongState is returned when a transition finds the session in a
	// different state than expected, e.g. after a double button press.
	ErrWrongState = errors.New("session in a different state")
)

const (
	// DefaultTTL is how long an untouched session survives before the sweep
	// treats it as cancelled.
	DefaultTTL = 30 * time.Minute

	sweepInterval = time.Minute
)

// Store owns all live sessions. Every operation takes the store lock, so
// session mutation is atomic with respect to a user id even when handlers
// for the same user interleave.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
	onExpire func(Session)
	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a session store. onExpire runs outside the lock for every
// session evicted by the TTL sweep, after its temp files are removed; it may
// be nil.
func NewStore(ttl time.Duration, onExpire func(Session)) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		onExpire: onExpire,
		stop:     make(chan struct{}),
	}
}

// Create registers a new session for the user. Fails with ErrSessionExists
// when one is already open; the existing session is not mutated.
func (st *Store) Create(userID, chatID int64, src types.IncomingFile) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[userID]; ok {
		return Session{}, ErrSessionExists
	}
	s := &Session{
		UserID:    userID,
		ChatID:    chatID,
		State:     StateAwaitingRename,
		Source:    src,
		CreatedAt: time.Now(),
	}
	st.sessions[userID] = s
	return *s, nil
}

// Get returns a copy of the user's session.
func (st *Store) Get(userID int64) (Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Mutate applies fn to the live session under the store lock. fn must not
// block on I/O.
func (st *Store) Mutate(userID int64, fn func(*Session)) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok {
		return ErrNoSession
	}
	fn(s)
	return nil
}

// Transition atomically moves the session from one workflow state to another,
// applying fn under the same lock. The check and the state change share one
// lock acquisition, so when two handlers race the same transition exactly one
// wins; the loser gets ErrWrongState.
func (st *Store) Transition(userID int64, from, to State, fn func(*Session)) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok {
		return ErrNoSession
	}
	if s.State != from {
		return ErrWrongState
	}
	s.State = to
	if fn != nil {
		fn(s)
	}
	return nil
}

// Remove drops the session record and returns a copy of what was removed.
// Temp-file cleanup is the caller's job (it owns the copy).
func (st *Store) Remove(userID int64) (Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[userID]
	if !ok {
		return Session{}, false
	}
	delete(st.sessions, userID)
	return *s, true
}

// Cancel requests cancellation of the user's session. A Processing session
// has its transfer context cancelled and stays registered until the transfer
// unwinds through its own cleanup; any other state is removed immediately and
// its temp files deleted. Returns false when there is nothing to cancel.
func (st *Store) Cancel(userID int64) (cancelled bool, wasProcessing bool) {
	st.mu.Lock()
	s, ok := st.sessions[userID]
	if !ok {
		st.mu.Unlock()
		return false, false
	}
	if s.State == StateProcessing && s.cancel != nil {
		cancel := s.cancel
		st.mu.Unlock()
		cancel()
		return true, true
	}
	delete(st.sessions, userID)
	copy := *s
	st.mu.Unlock()
	copy.CleanupFiles()
	return true, false
}

// Len reports the number of live sessions (health endpoint).
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// StartSweep launches the stale-session sweeper. Sessions older than the TTL
// are treated as cancelled: an in-flight transfer gets its context cancelled,
// anything else is evicted with its temp files removed.
func (st *Store) StartSweep() {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				st.sweepOnce(time.Now())
			case <-st.stop:
				return
			}
		}
	}()
}

// StopSweep halts the sweeper. Safe to call more than once.
func (st *Store) StopSweep() {
	st.stopOnce.Do(func() { close(st.stop) })
}

func (st *Store) sweepOnce(now time.Time) {
	var expired []Session
	st.mu.Lock()
	for id, s := range st.sessions {
		if now.Sub(s.CreatedAt) < st.ttl {
			continue
		}
		if s.State == StateProcessing && s.cancel != nil {
			// let the transfer unwind through its own cleanup
			s.cancel()
			continue
		}
		delete(st.sessions, id)
		expired = append(expired, *s)
	}
	st.mu.Unlock()

	for i := range expired {
		expired[i].CleanupFiles()
		tool.DefaultLogger.Infof("[Session] Swept stale session for user %d (age > %s)", expired[i].UserID, st.ttl)
		if st.onExpire != nil {
			st.onExpire(expired[i])
		}
	}
}
