package database

import (
	"context"
	"sync"
	"time"

	"gearbay/internal/models"

	"github.com/google/uuid"
)

type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[string]*models.Session)}
}

func (s *InMemorySessionStore) Create(ctx context.Context, name string, duration time.Duration) (*models.Session, error) {
	session := &models.Session{
		Token:     uuid.New().String(),
		Name:      name,
		ExpiresAt: time.Now().Add(duration),
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	copied := *session
	return &copied, nil
}

func (s *InMemorySessionStore) Validate(ctx context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[token]
	if !exists || time.Now().After(session.ExpiresAt) {
		return "", ErrNotFound
	}
	return session.Name, nil
}

func (s *InMemorySessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}
