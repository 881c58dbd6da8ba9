package repositories

import (
	"sort"
	"strings"
	"sync"

	"github.com/EvgeniyKrainov/foodgram/internal/apperrors"
	"github.com/EvgeniyKrainov/foodgram/internal/models"
)

// MockCatalogRepository is an in-memory implementation of CatalogRepository.
type MockCatalogRepository struct {
	ingredients map[uint]models.Ingredient
	tags        map[uint]models.Tag
	nextID      uint
	mu          sync.RWMutex
}

// NewMockCatalogRepository creates a new instance of MockCatalogRepository.
func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		ingredients: make(map[uint]models.Ingredient),
		tags:        make(map[uint]models.Tag),
		nextID:      1,
	}
}

// Ingredients returns ingredients matching the optional name prefix, by name.
func (r *MockCatalogRepository) Ingredients(namePrefix string) ([]models.Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Ingredient, 0, len(r.ingredients))
	prefix := strings.ToLower(namePrefix)
	for _, ing := range r.ingredients {
		if prefix == "" || strings.HasPrefix(strings.ToLower(ing.Name), prefix) {
			result = append(result, ing)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// IngredientByID returns a single ingredient.
func (r *MockCatalogRepository) IngredientByID(id uint) (*models.Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ing, ok := r.ingredients[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &ing, nil
}

// IngredientsByIDs returns the rows present for the given ids.
func (r *MockCatalogRepository) IngredientsByIDs(ids []uint) ([]models.Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Ingredient
	for _, id := range ids {
		if ing, ok := r.ingredients[id]; ok {
			result = append(result, ing)
		}
	}
	return result, nil
}

// Tags returns all tags ordered by name.
func (r *MockCatalogRepository) Tags() ([]models.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Tag, 0, len(r.tags))
	for _, t := range r.tags {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// TagByID returns a single tag.
func (r *MockCatalogRepository) TagByID(id uint) (*models.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tags[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

// TagsByIDs returns the rows present for the given ids.
func (r *MockCatalogRepository) TagsByIDs(ids []uint) ([]models.Tag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Tag
	for _, id := range ids {
		if t, ok := r.tags[id]; ok {
			result = append(result, t)
		}
	}
	return result, nil
}

// SeedIngredients loads ingredients into the in-memory catalog.
func (r *MockCatalogRepository) SeedIngredients(ingredients []models.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range ingredients {
		if ingredients[i].ID == 0 {
			ingredients[i].ID = r.nextID
			r.nextID++
		} else if ingredients[i].ID >= r.nextID {
			r.nextID = ingredients[i].ID + 1
		}
		r.ingredients[ingredients[i].ID] = ingredients[i]
	}
	return nil
}

// SeedTags loads tags into the in-memory catalog.
func (r *MockCatalogRepository) SeedTags(tags []models.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range tags {
		if tags[i].ID == 0 {
			tags[i].ID = r.nextID
			r.nextID++
		} else if tags[i].ID >= r.nextID {
			r.nextID = tags[i].ID + 1
		}
		r.tags[tags[i].ID] = tags[i]
	}
	return nil
}
