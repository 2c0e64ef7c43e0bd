package chat

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultSessionID is used for requests that do not name a session. All such
// requests share one conversation.
const DefaultSessionID = "default"

type sessionEntry struct {
	session      *ChatSession
	lastAccessed time.Time
}

type SessionCache struct {
	lock     sync.Mutex
	sessions map[string]*sessionEntry
	maxSize  int
	provider Provider
	opts     SessionOptions
	now      func() time.Time
}

func NewSessionCache(maxSize int, provider Provider, opts SessionOptions) *SessionCache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &SessionCache{
		sessions: make(map[string]*sessionEntry, maxSize),
		maxSize:  maxSize,
		provider: provider,
		opts:     opts,
		now:      time.Now,
	}
}

// GetSession returns the session for sessionID, creating it if needed. When
// the cache is full the least recently accessed session is dropped. The
// default session is pinned: it is never evicted and does not count towards
// maxSize.
func (pool *SessionCache) GetSession(sessionID string) *ChatSession {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	pool.lock.Lock()
	defer pool.lock.Unlock()

	if entry, exists := pool.sessions[sessionID]; exists {
		entry.lastAccessed = pool.now()
		return entry.session
	}

	if sessionID != DefaultSessionID && pool.evictableCount() >= pool.maxSize {
		pool.evictOldest()
	}

	session := NewChatSession(sessionID, pool.provider, pool.opts)
	pool.sessions[sessionID] = &sessionEntry{
		session:      session,
		lastAccessed: pool.now(),
	}
	return session
}

// LookupSession returns the session without creating or touching it.
func (pool *SessionCache) LookupSession(sessionID string) (*ChatSession, bool) {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	pool.lock.Lock()
	defer pool.lock.Unlock()

	entry, exists := pool.sessions[sessionID]
	if !exists {
		return nil, false
	}
	return entry.session, true
}

// DeleteSession drops a session and its history. The pinned default session
// is kept and only has its history cleared.
func (pool *SessionCache) DeleteSession(sessionID string) {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	pool.lock.Lock()
	defer pool.lock.Unlock()

	entry, exists := pool.sessions[sessionID]
	if !exists {
		return
	}

	if sessionID == DefaultSessionID {
		entry.session.Reset()
		return
	}
	delete(pool.sessions, sessionID)
}

func (pool *SessionCache) Len() int {
	pool.lock.Lock()
	defer pool.lock.Unlock()
	return len(pool.sessions)
}

// evictableCount must be called with pool.lock held.
func (pool *SessionCache) evictableCount() int {
	n := len(pool.sessions)
	if _, ok := pool.sessions[DefaultSessionID]; ok {
		n--
	}
	return n
}

// evictOldest must be called with pool.lock held.
func (pool *SessionCache) evictOldest() {
	oldestSessionID := ""
	var oldestTime time.Time
	for id, entry := range pool.sessions {
		if id == DefaultSessionID {
			continue
		}
		if oldestSessionID == "" || entry.lastAccessed.Before(oldestTime) {
			oldestSessionID = id
			oldestTime = entry.lastAccessed
		}
	}

	if oldestSessionID == "" {
		return
	}

	delete(pool.sessions, oldestSessionID)
	slog.Info("evicted chat session from cache", "session_id", oldestSessionID)
}
