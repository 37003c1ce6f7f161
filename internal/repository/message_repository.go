package repository

import (
	"sync"

	"github.com/safeyatra/safety-backend-go/internal/models"
)

// MessageRepository is the append-only communication log. Storage order is
// insertion order; messages are never mutated or deleted.
type MessageRepository struct {
	mu       sync.RWMutex
	messages []models.CommunicationMessage
}

// NewMessageRepository creates an empty log
func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

// Append adds a message to the end of the log
func (r *MessageRepository) Append(m models.CommunicationMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
}

// ListDesc returns up to limit messages newest-first for display.
// limit <= 0 returns the whole log.
func (r *MessageRepository) ListDesc(limit int) []models.CommunicationMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.messages)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]models.CommunicationMessage, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, r.messages[i])
	}
	return out
}

// Recent returns the most recent n messages in insertion order, for backlog
// replay to late joiners (oldest-backlog-first).
func (r *MessageRepository) Recent(n int) []models.CommunicationMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n > len(r.messages) {
		n = len(r.messages)
	}
	out := make([]models.CommunicationMessage, n)
	copy(out, r.messages[len(r.messages)-n:])
	return out
}

// Len returns the number of messages posted so far
func (r *MessageRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messages)
}
