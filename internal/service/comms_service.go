package service

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/safeyatra/safety-backend-go/internal/events"
	"github.com/safeyatra/safety-backend-go/internal/models"
	"github.com/safeyatra/safety-backend-go/internal/repository"
)

// CommsService is the ordered, append-only broadcast log for short
// operational messages. Every subscriber observes messages in global post
// order; late joiners first replay a bounded backlog oldest-first.
type CommsService struct {
	repo    *repository.MessageRepository
	audit   *repository.AuditRepository // optional
	bus     *events.Bus
	backlog int

	mu     sync.Mutex // serializes post fan-out against subscribe replay
	nextID int
	subs   map[int]func(models.CommunicationMessage)
}

// NewCommsService creates the channel with the given backlog size
func NewCommsService(repo *repository.MessageRepository, audit *repository.AuditRepository, bus *events.Bus, backlog int) *CommsService {
	return &CommsService{
		repo:    repo,
		audit:   audit,
		bus:     bus,
		backlog: backlog,
		subs:    make(map[int]func(models.CommunicationMessage)),
	}
}

// Post appends a message and fans it out to all current subscribers. The
// append and the fan-out happen under one lock, so delivery preserves global
// post order for every subscriber.
func (s *CommsService) Post(req models.PostMessageRequest) (models.CommunicationMessage, error) {
	if req.Body == "" {
		return models.CommunicationMessage{}, &ValidationError{Field: "message"}
	}
	if req.Unit == "" {
		return models.CommunicationMessage{}, &ValidationError{Field: "unit"}
	}

	priority := req.Priority
	if priority == "" {
		priority = models.MessagePriorityNormal
	}

	msg := models.CommunicationMessage{
		ID:         uuid.NewString(),
		Body:       req.Body,
		Unit:       req.Unit,
		AuthorID:   req.AuthorID,
		AuthorName: req.AuthorName,
		Priority:   priority,
		CreatedAt:  time.Now(),
	}

	s.mu.Lock()
	s.repo.Append(msg)
	for _, fn := range s.subs {
		fn(msg)
	}
	s.mu.Unlock()

	if s.audit != nil {
		if err := s.audit.RecordMessage(msg); err != nil {
			log.Printf("[CommsService] Message audit write failed: %v", err)
		}
	}
	s.bus.Publish(events.TypeMessagePosted, msg)
	return msg, nil
}

// Subscribe registers fn for every subsequent message, after replaying the
// most recent backlog oldest-first. The returned cancel is synchronous: once
// it returns, fn is never called again.
func (s *CommsService) Subscribe(fn func(models.CommunicationMessage)) func() {
	s.mu.Lock()
	for _, msg := range s.repo.Recent(s.backlog) {
		fn(msg)
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// List returns up to limit messages newest-first for display
func (s *CommsService) List(limit int) []models.CommunicationMessage {
	return s.repo.ListDesc(limit)
}

// Count reports how many messages have been posted
func (s *CommsService) Count() int {
	return s.repo.Len()
}
