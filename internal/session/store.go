// Package session holds per-identifier conversation state in an expiring
// in-process map. Every key carries its own TTL; writes reset it. Operations
// are best-effort idempotent and unlocked across turns: concurrent messages
// from the same identifier may lose updates.
package session

import (
	"sync"
	"time"
)

const (
	// DefaultTTL bounds conversation state and cached artifacts.
	DefaultTTL = 24 * time.Hour
	// ResultsTTL bounds search result caches.
	ResultsTTL = time.Hour

	janitorInterval = time.Minute
)

// Conversation states.
const (
	StateNone                = ""
	StateAwaitingCoverLetter = "awaiting_cover_letter"
)

// Per-identifier fields.
const (
	fieldState       = "state"
	fieldCVText      = "cv_text"
	fieldEmail       = "email"
	fieldCoverLetter = "cover_letter"
	fieldLastResults = "last_results"
	fieldPendingJobs = "pending_jobs"
	fieldPaymentURL  = "payment_url"
)

type item struct {
	value     any
	expiresAt time.Time
}

type expiringMap struct {
	mu    sync.RWMutex
	items map[string]item
	stop  chan struct{}
	once  sync.Once
}

func newExpiringMap() *expiringMap {
	m := &expiringMap{
		items: make(map[string]item),
		stop:  make(chan struct{}),
	}
	go m.janitor()
	return m
}

func (m *expiringMap) get(key string) (any, bool) {
	m.mu.RLock()
	it, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(it.expiresAt) {
		m.delete(key)
		return nil, false
	}
	return it.value, true
}

func (m *expiringMap) set(key string, value any, ttl time.Duration) {
	m.mu.Lock()
	m.items[key] = item{value: value, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
}

func (m *expiringMap) delete(key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}

func (m *expiringMap) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for k, it := range m.items {
				if now.After(it.expiresAt) {
					delete(m.items, k)
				}
			}
			m.mu.Unlock()
		case <-m.stop:
			return
		}
	}
}

func (m *expiringMap) close() {
	m.once.Do(func() { close(m.stop) })
}

// Store is the per-identifier session store.
type Store struct {
	m *expiringMap
}

func NewStore() *Store {
	return &Store{m: newExpiringMap()}
}

func (s *Store) Close() {
	s.m.close()
}

func key(identifier, field string) string {
	return identifier + ":" + field
}

func (s *Store) getString(identifier, field string) (string, bool) {
	v, ok := s.m.get(key(identifier, field))
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

func (s *Store) getIDs(identifier, field string) ([]uint, bool) {
	v, ok := s.m.get(key(identifier, field))
	if !ok {
		return nil, false
	}
	ids, ok := v.([]uint)
	return ids, ok
}

// State returns the conversation state, StateNone when absent or expired.
func (s *Store) State(identifier string) string {
	state, _ := s.getString(identifier, fieldState)
	return state
}

func (s *Store) SetState(identifier, state string) {
	s.m.set(key(identifier, fieldState), state, DefaultTTL)
}

func (s *Store) ClearState(identifier string) {
	s.m.delete(key(identifier, fieldState))
}

func (s *Store) CVText(identifier string) (string, bool) {
	return s.getString(identifier, fieldCVText)
}

func (s *Store) SetCVText(identifier, text string) {
	s.m.set(key(identifier, fieldCVText), text, DefaultTTL)
}

func (s *Store) Email(identifier string) (string, bool) {
	return s.getString(identifier, fieldEmail)
}

func (s *Store) SetEmail(identifier, email string) {
	s.m.set(key(identifier, fieldEmail), email, DefaultTTL)
}

func (s *Store) CoverLetter(identifier string) (string, bool) {
	return s.getString(identifier, fieldCoverLetter)
}

func (s *Store) SetCoverLetter(identifier, letter string) {
	s.m.set(key(identifier, fieldCoverLetter), letter, DefaultTTL)
}

// LastResults is the identifier's most recent search result set, in the order
// it was rendered.
func (s *Store) LastResults(identifier string) ([]uint, bool) {
	return s.getIDs(identifier, fieldLastResults)
}

func (s *Store) SetLastResults(identifier string, ids []uint) {
	s.m.set(key(identifier, fieldLastResults), ids, ResultsTTL)
}

// PendingJobs is the job-id set deferred pending payment or a cover letter.
func (s *Store) PendingJobs(identifier string) ([]uint, bool) {
	return s.getIDs(identifier, fieldPendingJobs)
}

func (s *Store) SetPendingJobs(identifier string, ids []uint) {
	s.m.set(key(identifier, fieldPendingJobs), ids, DefaultTTL)
}

func (s *Store) ClearPendingJobs(identifier string) {
	s.m.delete(key(identifier, fieldPendingJobs))
}

func (s *Store) PaymentURL(identifier string) (string, bool) {
	return s.getString(identifier, fieldPaymentURL)
}

func (s *Store) SetPaymentURL(identifier, url string) {
	s.m.set(key(identifier, fieldPaymentURL), url, DefaultTTL)
}
