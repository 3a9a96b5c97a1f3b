package dialogue

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionStore holds one Session per user identifier. Get-or-create and
// remove are safe across distinct users; the store lock guards only the map,
// never a turn, so unrelated users are never serialized.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idleTTL  time.Duration
	logger   *zap.Logger
}

// NewSessionStore creates a store. idleTTL of zero disables eviction.
func NewSessionStore(idleTTL time.Duration, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		logger:   logger,
	}
}

// GetOrCreate returns the session for userID, lazily creating it on first
// turn. A session that outlived the idle TTL is reset in place before reuse.
func (st *SessionStore) GetOrCreate(userID string) *Session {
	st.mu.RLock()
	sess, ok := st.sessions[userID]
	st.mu.RUnlock()
	if !ok {
		st.mu.Lock()
		sess, ok = st.sessions[userID]
		if !ok {
			sess = &Session{UserID: userID}
			st.sessions[userID] = sess
		}
		st.mu.Unlock()
	}

	now := time.Now()
	sess.Lock()
	if sess.idleSince(now, st.idleTTL) {
		st.logger.Debug("session idle-expired, resetting", zap.String("userID", userID))
		sess.Reset()
	}
	sess.touch(now)
	sess.Unlock()
	return sess
}

// Reset clears the session for userID, if one exists.
func (st *SessionStore) Reset(userID string) {
	st.mu.RLock()
	sess, ok := st.sessions[userID]
	st.mu.RUnlock()
	if !ok {
		return
	}
	sess.Lock()
	sess.Reset()
	sess.Unlock()
}

// Remove drops the session for userID entirely.
func (st *SessionStore) Remove(userID string) {
	st.mu.Lock()
	delete(st.sessions, userID)
	st.mu.Unlock()
}

// StartEvictionLoop sweeps idle sessions in the background until ctx is
// cancelled. Eviction also happens lazily on access; the sweep only bounds
// memory for users who never come back.
func (st *SessionStore) StartEvictionLoop(ctx context.Context) {
	if st.idleTTL <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(st.idleTTL)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				st.evictIdle(now)
			}
		}
	}()
}

func (st *SessionStore) evictIdle(now time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, sess := range st.sessions {
		// TryLock: a session mid-turn is by definition not idle.
		if !sess.mu.TryLock() {
			continue
		}
		expired := sess.idleSince(now, st.idleTTL)
		sess.mu.Unlock()
		if expired {
			delete(st.sessions, id)
			st.logger.Debug("evicted idle session", zap.String("userID", id))
		}
	}
}
