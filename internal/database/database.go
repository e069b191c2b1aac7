package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Domain errors recovered at the handler boundary. Anything else coming out
// of a store is an infrastructure failure and surfaces as a server error.
var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("name already taken")
	ErrBadPassword   = errors.New("invalid password")
)

const (
	accountsCollection   = "accounts"
	listingsCollection   = "listings"
	categoriesCollection = "categories"
	sessionsCollection   = "sessions"
)

const queryTimeout = 5 * time.Second

func Connect(uri, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(dbName), nil
}

// EnsureIndexes creates the unique account-name index and the text index
// backing keyword search. Safe to call on every startup.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := db.Collection(accountsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create account name index: %w", err)
	}

	_, err = db.Collection(listingsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "model", Value: "text"},
			{Key: "brand", Value: "text"},
			{Key: "description", Value: "text"},
			{Key: "category_name", Value: "text"},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create listing text index: %w", err)
	}

	return nil
}
