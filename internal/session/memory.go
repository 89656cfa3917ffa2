package session

import (
	"context"
	"sync"
	"time"

	"autopartes/internal/model"
)

// sweepInterval is how often expired sessions and tokens are dropped.
const sweepInterval = time.Minute

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

type tokenEntry struct {
	uid       string
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Everything is lost on restart.
// A background sweep drops expired entries until Close is called.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memoryEntry
	tokens   map[string]tokenEntry
	now      func() time.Time

	stop      chan struct{}
	closeOnce sync.Once
}

// NewMemoryStore creates an in-process store whose sessions expire after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	m := &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]memoryEntry),
		tokens:   make(map[string]tokenEntry),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go m.janitor(sweepInterval)
	return m
}

func (m *MemoryStore) janitor(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stop:
			return
		}
	}
}

// sweep removes expired sessions and reset tokens and returns how many went.
func (m *MemoryStore) sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, entry := range m.sessions {
		if now.After(entry.expiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	for token, entry := range m.tokens {
		if now.After(entry.expiresAt) {
			delete(m.tokens, token)
			removed++
		}
	}
	return removed
}

// New creates and stores an empty anonymous session.
func (m *MemoryStore) New(ctx context.Context) (*Session, error) {
	s := newSession()
	if err := m.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns a copy of the session, or ErrNotFound when it is missing or expired.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.now().After(entry.expiresAt) {
		delete(m.sessions, id)
		return nil, ErrNotFound
	}

	s := entry.session
	s.Cart = append([]model.CartItem(nil), entry.session.Cart...)
	return &s, nil
}

// Save stores a copy of s and restarts its expiry.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *s
	stored.Cart = append([]model.CartItem{}, s.Cart...)
	m.sessions[s.ID] = memoryEntry{session: stored, expiresAt: m.now().Add(m.ttl)}
	return nil
}

// Delete removes the session.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// PutResetToken stores a one-time reset token for uid that expires after ttl.
func (m *MemoryStore) PutResetToken(_ context.Context, token, uid string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens[token] = tokenEntry{uid: uid, expiresAt: m.now().Add(ttl)}
	return nil
}

// ConsumeResetToken returns the uid bound to token and deletes the token.
func (m *MemoryStore) ConsumeResetToken(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.tokens[token]
	if !ok {
		return "", ErrNotFound
	}
	delete(m.tokens, token)
	if m.now().After(entry.expiresAt) {
		return "", ErrNotFound
	}
	return entry.uid, nil
}

// Close stops the background sweep. It is safe to call more than once.
func (m *MemoryStore) Close() error {
	m.closeOnce.Do(func() { close(m.stop) })
	return nil
}
