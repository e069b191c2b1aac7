package database

import (
	"context"
	"fmt"

	"gearbay/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const featuredSampleSize = 3

// ListingStore persists gear listings. Each method is a single store call;
// Update is the one read-then-write sequence and tolerates the record
// vanishing in between by reporting ErrNotFound.
type ListingStore interface {
	Create(ctx context.Context, listing models.Listing) (*models.Listing, error)
	FindByID(ctx context.Context, id string) (*models.Listing, error)
	FindRecent(ctx context.Context, limit int64) ([]models.Listing, error)
	FindByCategory(ctx context.Context, category string) ([]models.Listing, error)
	FindByAuthor(ctx context.Context, author string) ([]models.Listing, error)
	Search(ctx context.Context, query string) ([]models.Listing, error)
	SampleFeatured(ctx context.Context) ([]models.Listing, error)
	Update(ctx context.Context, id string, listing models.Listing) error
	Delete(ctx context.Context, id string) error
}

type MongoListingStore struct {
	collection *mongo.Collection
}

func NewMongoListingStore(db *mongo.Database) *MongoListingStore {
	return &MongoListingStore{collection: db.Collection(listingsCollection)}
}

// Create inserts a new listing. The caller supplies the form fields verbatim;
// date_created, is_featured and author are stamped here and never change again.
func (s *MongoListingStore) Create(ctx context.Context, listing models.Listing) (*models.Listing, error) {
	listing.ID = primitive.NilObjectID
	listing.DateCreated = models.Today()
	listing.IsFeatured = false

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.collection.InsertOne(ctx, listing)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		listing.ID = oid
	}

	return &listing, nil
}

// FindByID treats a malformed id the same as a missing one.
func (s *MongoListingStore) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var listing models.Listing
	if err := s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&listing); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query listing: %w", err)
	}

	return &listing, nil
}

// FindRecent returns listings newest first. A limit <= 0 means no cap.
func (s *MongoListingStore) FindRecent(ctx context.Context, limit int64) ([]models.Listing, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "date_created", Value: -1},
		{Key: "_id", Value: -1},
	})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	return s.find(ctx, bson.M{}, opts)
}

func (s *MongoListingStore) FindByCategory(ctx context.Context, category string) ([]models.Listing, error) {
	return s.find(ctx, bson.M{"category_name": category}, nil)
}

func (s *MongoListingStore) FindByAuthor(ctx context.Context, author string) ([]models.Listing, error) {
	return s.find(ctx, bson.M{"author": author}, nil)
}

// Search runs the caller-supplied string through the text index covering
// model, brand, description and category_name. Tokenization and ranking
// belong to the store; no matches is an empty slice, not an error.
func (s *MongoListingStore) Search(ctx context.Context, query string) ([]models.Listing, error) {
	return s.find(ctx, bson.M{"$text": bson.M{"$search": query}}, nil)
}

// SampleFeatured returns a uniform random sample of at most 3 featured
// listings, re-drawn on every call.
func (s *MongoListingStore) SampleFeatured(ctx context.Context) ([]models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "is_featured", Value: true}}}},
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: featuredSampleSize}}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to sample featured listings: %w", err)
	}
	defer cursor.Close(ctx)

	listings := []models.Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode featured listings: %w", err)
	}

	return listings, nil
}

// Update replaces every caller-editable field. date_created, is_featured and
// author are read from the existing document and written back unchanged; the
// edit form does not resubmit them. If the record vanishes between the read
// and the write the update reports ErrNotFound.
func (s *MongoListingStore) Update(ctx context.Context, id string, listing models.Listing) error {
	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	listing.ID = existing.ID
	listing.DateCreated = existing.DateCreated
	listing.IsFeatured = existing.IsFeatured
	listing.Author = existing.Author

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": existing.ID}, listing)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *MongoListingStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *MongoListingStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = s.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = s.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer cursor.Close(ctx)

	listings := []models.Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}

	return listings, nil
}
