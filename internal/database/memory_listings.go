package database

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"gearbay/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InMemoryListingStore approximates the MongoDB query contract for tests:
// keyword search is a case-insensitive per-term match over the four indexed
// fields, and the featured sample is drawn without replacement.
type InMemoryListingStore struct {
	mu       sync.RWMutex
	listings map[string]*models.Listing
}

func NewInMemoryListingStore() *InMemoryListingStore {
	return &InMemoryListingStore{listings: make(map[string]*models.Listing)}
}

func (s *InMemoryListingStore) Create(ctx context.Context, listing models.Listing) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing.ID = primitive.NewObjectID()
	listing.DateCreated = models.Today()
	listing.IsFeatured = false

	copied := listing
	s.listings[listing.ID.Hex()] = &copied

	return &listing, nil
}

func (s *InMemoryListingStore) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, exists := s.listings[id]
	if !exists {
		return nil, ErrNotFound
	}

	copied := *listing
	return &copied, nil
}

func (s *InMemoryListingStore) FindRecent(ctx context.Context, limit int64) ([]models.Listing, error) {
	s.mu.RLock()
	result := s.collect(func(l *models.Listing) bool { return true })
	s.mu.RUnlock()

	// ObjectIDs embed creation time, so the hex breaks same-day ties.
	sort.Slice(result, func(i, j int) bool {
		if result[i].DateCreated != result[j].DateCreated {
			return result[i].DateCreated > result[j].DateCreated
		}
		return result[i].ID.Hex() > result[j].ID.Hex()
	})

	if limit > 0 && int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *InMemoryListingStore) FindByCategory(ctx context.Context, category string) ([]models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(l *models.Listing) bool { return l.CategoryName == category }), nil
}

func (s *InMemoryListingStore) FindByAuthor(ctx context.Context, author string) ([]models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(l *models.Listing) bool { return l.Author == author }), nil
}

func (s *InMemoryListingStore) Search(ctx context.Context, query string) ([]models.Listing, error) {
	terms := strings.Fields(strings.ToLower(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(l *models.Listing) bool {
		if len(terms) == 0 {
			return false
		}
		haystack := strings.ToLower(l.Model + " " + l.Brand + " " + l.Description + " " + l.CategoryName)
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				return true
			}
		}
		return false
	}), nil
}

func (s *InMemoryListingStore) SampleFeatured(ctx context.Context) ([]models.Listing, error) {
	s.mu.RLock()
	featured := s.collect(func(l *models.Listing) bool { return l.IsFeatured })
	s.mu.RUnlock()

	rand.Shuffle(len(featured), func(i, j int) {
		featured[i], featured[j] = featured[j], featured[i]
	})

	if len(featured) > featuredSampleSize {
		featured = featured[:featuredSampleSize]
	}
	return featured, nil
}

func (s *InMemoryListingStore) Update(ctx context.Context, id string, listing models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.listings[id]
	if !exists {
		return ErrNotFound
	}

	listing.ID = existing.ID
	listing.DateCreated = existing.DateCreated
	listing.IsFeatured = existing.IsFeatured
	listing.Author = existing.Author

	copied := listing
	s.listings[id] = &copied
	return nil
}

func (s *InMemoryListingStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.listings[id]; !exists {
		return ErrNotFound
	}
	delete(s.listings, id)
	return nil
}

// collect copies matching listings; callers hold at least a read lock.
func (s *InMemoryListingStore) collect(match func(*models.Listing) bool) []models.Listing {
	result := []models.Listing{}
	for _, listing := range s.listings {
		if match(listing) {
			result = append(result, *listing)
		}
	}
	return result
}

// SetFeatured flips the featured flag directly. The application never does
// this; it exists so tests can stage featured listings the way an operator
// would through the database shell.
func (s *InMemoryListingStore) SetFeatured(id string, featured bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if listing, exists := s.listings[id]; exists {
		listing.IsFeatured = featured
	}
}
