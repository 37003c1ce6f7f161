package repository

import (
	"sync"
	"time"

	"github.com/safeyatra/safety-backend-go/internal/models"
)

// OTPRepository holds pending one-time codes keyed by identifier. Storing a
// new code overwrites any prior unconsumed code for the same identifier.
type OTPRepository struct {
	mu    sync.Mutex
	codes map[string]*models.OneTimeCode
}

// NewOTPRepository creates an empty code store
func NewOTPRepository() *OTPRepository {
	return &OTPRepository{codes: make(map[string]*models.OneTimeCode)}
}

// Put stores the code for an identifier, replacing any previous one
func (r *OTPRepository) Put(code models.OneTimeCode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[code.Identifier] = &code
}

// Consume atomically validates and consumes the code for an identifier.
// It returns false if no code exists, the code does not match, it has
// already been consumed, or it has expired.
func (r *OTPRepository) Consume(identifier, code string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.codes[identifier]
	if !ok || stored.Consumed || stored.Code != code || now.After(stored.ExpiresAt) {
		return false
	}
	stored.Consumed = true
	return true
}

// Clear removes the pending code for an identifier
func (r *OTPRepository) Clear(identifier string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, identifier)
}
