package database

import (
	"context"
	"sync"

	"gearbay/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// InMemoryAccountStore backs tests and local development without a MongoDB
// instance. Behavior mirrors MongoAccountStore.
type InMemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account // keyed by hex id
}

func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{accounts: make(map[string]*models.Account)}
}

func (s *InMemoryAccountStore) Create(ctx context.Context, name, password string) (*models.Account, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if account.Name == name {
			return nil, ErrDuplicateName
		}
	}

	account := &models.Account{
		ID:             primitive.NewObjectID(),
		Name:           name,
		PasswordHash:   string(hashedPassword),
		DateRegistered: models.Today(),
		IsAdmin:        false,
	}
	s.accounts[account.ID.Hex()] = account

	copied := *account
	return &copied, nil
}

func (s *InMemoryAccountStore) Authenticate(ctx context.Context, name, password string) (*models.Account, error) {
	account, err := s.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadPassword
	}

	return account, nil
}

func (s *InMemoryAccountStore) FindByName(ctx context.Context, name string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, account := range s.accounts {
		if account.Name == name {
			copied := *account
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryAccountStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[id]; !exists {
		return ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}
