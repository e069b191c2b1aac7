package database

import (
	"context"
	"fmt"

	"gearbay/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCategories is the pre-seeded reference list. The application never
// creates, renames or removes categories at runtime.
var DefaultCategories = []string{
	"Backpacks",
	"Tents",
	"Sleeping Bags",
	"Cooking",
	"Climbing",
	"Footwear",
	"Electronics",
}

// CategoryStore reads the flat category reference list.
type CategoryStore interface {
	All(ctx context.Context) ([]models.Category, error)
	Seed(ctx context.Context, names []string) error
}

type MongoCategoryStore struct {
	collection *mongo.Collection
}

func NewMongoCategoryStore(db *mongo.Database) *MongoCategoryStore {
	return &MongoCategoryStore{collection: db.Collection(categoriesCollection)}
}

func (s *MongoCategoryStore) All(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	return categories, nil
}

// Seed upserts the reference list by name so repeated startups are harmless.
func (s *MongoCategoryStore) Seed(ctx context.Context, names []string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	for _, name := range names {
		filter := bson.M{"name": name}
		update := bson.M{"$setOnInsert": bson.M{"name": name}}
		_, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", name, err)
		}
	}

	return nil
}
