package booking

import (
	"sync"
	"time"

	"jetset/models"
)

// How often the janitor sweeps idle sessions.
const sweepInterval = time.Minute

// draftSession owns one user's active draft. All reads and writes of the
// draft happen while holding mu, so operations for the same user serialize
// while different users proceed in parallel.
type draftSession struct {
	mu       sync.Mutex
	draft    *models.BookingDraft
	lastSeen time.Time
	gone     bool // set under mu when the session leaves the map
}

// DraftStore holds the active drafts keyed by user identity. Sessions idle
// longer than ttl expire; a confirmed draft stays readable until then so late
// operations surface already_confirmed rather than vanishing.
type DraftStore struct {
	mu       sync.Mutex
	sessions map[string]*draftSession
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewDraftStore returns a store whose janitor evicts sessions idle longer
// than ttl.
func NewDraftStore(ttl time.Duration) *DraftStore {
	s := &DraftStore{
		sessions: make(map[string]*draftSession),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go s.janitor()
	return s
}

// session returns the user's session, creating one when create is set.
// Lock ordering is store.mu then session.mu; callers lock the returned
// session themselves after store.mu is released.
func (s *DraftStore) session(userID string, create bool) *draftSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		if !create {
			return nil
		}
		sess = &draftSession{lastSeen: time.Now()}
		s.sessions[userID] = sess
	}
	return sess
}

// acquire returns the user's session with its lock already held, creating
// one when create is set. Membership is re-checked after locking, so a
// janitor sweep between lookup and lock never hands out an evicted session.
func (s *DraftStore) acquire(userID string, create bool) *draftSession {
	for {
		sess := s.session(userID, create)
		if sess == nil {
			return nil
		}
		sess.mu.Lock()
		if !sess.gone {
			return sess
		}
		sess.mu.Unlock()
	}
}

// remove drops the user's session. Callers must not hold the session lock.
func (s *DraftStore) remove(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		sess.mu.Lock()
		sess.gone = true
		sess.mu.Unlock()
		delete(s.sessions, userID)
	}
}

// Len reports the number of live sessions.
func (s *DraftStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the janitor.
func (s *DraftStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *DraftStore) janitor() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

// sweep evicts sessions idle past the TTL.
func (s *DraftStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen) > s.ttl
		if idle {
			sess.gone = true
		}
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, userID)
		}
	}
}
