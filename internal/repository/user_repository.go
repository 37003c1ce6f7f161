package repository

import (
	"sync"

	"github.com/safeyatra/safety-backend-go/internal/models"
)

// UserRepository is an in-memory keyed store for users. State is not durable
// across process restart; a durable reimplementation must keep the same
// contract.
type UserRepository struct {
	mu           sync.RWMutex
	users        map[string]models.User // keyed by user ID
	byIdentifier map[string]string      // login identifier -> user ID
}

// NewUserRepository creates an empty user store
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:        make(map[string]models.User),
		byIdentifier: make(map[string]string),
	}
}

// Create stores a new user and indexes it by its login identifier
func (r *UserRepository) Create(user models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	if id := user.Identifier(); id != "" {
		r.byIdentifier[id] = user.ID
	}
}

// Get returns the user with the given ID
func (r *UserRepository) Get(id string) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok
}

// GetByIdentifier returns the user registered under an email or phone
func (r *UserRepository) GetByIdentifier(identifier string) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byIdentifier[identifier]
	if !ok {
		return models.User{}, false
	}
	u, ok := r.users[id]
	return u, ok
}

// Count returns the number of known users
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
