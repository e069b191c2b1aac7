package database

import (
	"context"
	"fmt"
	"time"

	"gearbay/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SessionStore maps opaque tokens to account names. A session starts on
// successful login or signup and ends on logout; ending a session that does
// not exist is not an error.
type SessionStore interface {
	Create(ctx context.Context, name string, duration time.Duration) (*models.Session, error)
	Validate(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

type MongoSessionStore struct {
	collection *mongo.Collection
}

func NewMongoSessionStore(db *mongo.Database) *MongoSessionStore {
	return &MongoSessionStore{collection: db.Collection(sessionsCollection)}
}

func (s *MongoSessionStore) Create(ctx context.Context, name string, duration time.Duration) (*models.Session, error) {
	session := &models.Session{
		Token:     uuid.New().String(),
		Name:      name,
		ExpiresAt: time.Now().Add(duration),
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := s.collection.InsertOne(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Validate returns the account name bound to the token, or ErrNotFound for
// an absent, expired or garbage token.
func (s *MongoSessionStore) Validate(ctx context.Context, token string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var session models.Session
	filter := bson.M{"_id": token, "expires_at": bson.M{"$gt": time.Now()}}
	if err := s.collection.FindOne(ctx, filter).Decode(&session); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to validate session: %w", err)
	}

	return session.Name, nil
}

func (s *MongoSessionStore) Delete(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": token}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
