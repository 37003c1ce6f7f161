package repository

import (
	"sync"

	"github.com/safeyatra/safety-backend-go/internal/models"
)

// sessionRecord holds one identity's session under a record-level lock, so
// activity touches for unrelated identities never contend with each other.
type sessionRecord struct {
	mu      sync.Mutex
	session models.Session
}

// SessionRepository holds the authoritative server-side sessions, at most one
// per authenticated identity, keyed by login identifier.
type SessionRepository struct {
	mu      sync.RWMutex
	records map[string]*sessionRecord
}

// NewSessionRepository creates an empty session store
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{records: make(map[string]*sessionRecord)}
}

// Put stores the session for an identity. A fresh record replaces any
// previous one, so a re-login wins over in-flight touches of the old session.
func (r *SessionRepository) Put(s models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[s.Identifier] = &sessionRecord{session: s}
}

// Get returns a snapshot of the session for an identity
func (r *SessionRepository) Get(identifier string) (models.Session, bool) {
	r.mu.RLock()
	rec, ok := r.records[identifier]
	r.mu.RUnlock()
	if !ok {
		return models.Session{}, false
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.session, true
}

// Delete removes the session for an identity. It reports whether a session
// existed, so repeated invalidation signals stay idempotent.
func (r *SessionRepository) Delete(identifier string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[identifier]
	delete(r.records, identifier)
	return ok
}

// Mutate runs fn under the session's record lock; changes commit only when fn
// returns nil. This is the serialization point that keeps check-then-update
// sequences like the inactivity touch atomic per identity.
func (r *SessionRepository) Mutate(identifier string, fn func(*models.Session) error) (models.Session, error) {
	r.mu.RLock()
	rec, ok := r.records[identifier]
	r.mu.RUnlock()
	if !ok {
		return models.Session{}, ErrRecordNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	session := rec.session
	if err := fn(&session); err != nil {
		return models.Session{}, err
	}
	rec.session = session
	return session, nil
}

// Snapshot returns a copy of all sessions, for expiry sweeps
func (r *SessionRepository) Snapshot() []models.Session {
	r.mu.RLock()
	recs := make([]*sessionRecord, 0, len(r.records))
	for _, rec := range r.records {
		recs = append(recs, rec)
	}
	r.mu.RUnlock()

	out := make([]models.Session, 0, len(recs))
	for _, rec := range recs {
		rec.mu.Lock()
		out = append(out, rec.session)
		rec.mu.Unlock()
	}
	return out
}
