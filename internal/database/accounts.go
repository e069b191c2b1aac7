package database

import (
	"context"
	"fmt"

	"gearbay/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// AccountStore persists account records and verifies password hashes.
// Accounts are created at signup, read at login, and deleted by their own
// owner. They are never updated in place.
type AccountStore interface {
	Create(ctx context.Context, name, password string) (*models.Account, error)
	Authenticate(ctx context.Context, name, password string) (*models.Account, error)
	FindByName(ctx context.Context, name string) (*models.Account, error)
	Delete(ctx context.Context, id string) error
}

type MongoAccountStore struct {
	collection *mongo.Collection
}

func NewMongoAccountStore(db *mongo.Database) *MongoAccountStore {
	return &MongoAccountStore{collection: db.Collection(accountsCollection)}
}

func (s *MongoAccountStore) Create(ctx context.Context, name, password string) (*models.Account, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Name:           name,
		PasswordHash:   string(hashedPassword),
		DateRegistered: models.Today(),
		IsAdmin:        false,
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	// The unique index on name is the duplicate check. Exact, case-sensitive.
	result, err := s.collection.InsertOne(ctx, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		account.ID = oid
	}

	return account, nil
}

func (s *MongoAccountStore) Authenticate(ctx context.Context, name, password string) (*models.Account, error) {
	account, err := s.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadPassword
	}

	return account, nil
}

func (s *MongoAccountStore) FindByName(ctx context.Context, name string) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var account models.Account
	err := s.collection.FindOne(ctx, bson.M{"name": name}).Decode(&account)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	return &account, nil
}

// Delete removes exactly one account. Listings authored by the account are
// left untouched and keep their stale author value.
func (s *MongoAccountStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
