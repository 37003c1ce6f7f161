package models

import "time"

// MessagePriority flags operational messages
type MessagePriority string

const (
	MessagePriorityNormal MessagePriority = "normal"
	MessagePriorityUrgent MessagePriority = "urgent"
)

// CommunicationMessage is one entry in the append-only operational broadcast
// log. Messages are never mutated or deleted after posting; storage order is
// insertion order, display order is createdAt descending.
type CommunicationMessage struct {
	ID         string          `json:"id"`
	Body       string          `json:"message"`
	Unit       Role            `json:"unit"`
	AuthorID   string          `json:"userId"`
	AuthorName string          `json:"userName"`
	Priority   MessagePriority `json:"priority"`
	CreatedAt  time.Time       `json:"timestamp"`
}

// PostMessageRequest carries a new broadcast message
type PostMessageRequest struct {
	Body       string          `json:"message" binding:"required"`
	Unit       Role            `json:"unit" binding:"required"`
	AuthorID   string          `json:"userId"`
	AuthorName string          `json:"userName"`
	Priority   MessagePriority `json:"priority"`
}
