package database

import (
	"context"
	"sort"
	"sync"

	"gearbay/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InMemoryCategoryStore struct {
	mu         sync.RWMutex
	categories map[string]models.Category // keyed by name
}

func NewInMemoryCategoryStore() *InMemoryCategoryStore {
	return &InMemoryCategoryStore{categories: make(map[string]models.Category)}
}

func (s *InMemoryCategoryStore) All(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []models.Category{}
	for _, category := range s.categories {
		result = append(result, category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result, nil
}

func (s *InMemoryCategoryStore) Seed(ctx context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		if _, exists := s.categories[name]; !exists {
			s.categories[name] = models.Category{ID: primitive.NewObjectID(), Name: name}
		}
	}
	return nil
}
