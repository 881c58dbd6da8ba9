package repositories

import (
	"sort"
	"sync"

	"github.com/EvgeniyKrainov/foodgram/internal/apperrors"
	"github.com/EvgeniyKrainov/foodgram/internal/models"
)

// MockRecipeRepository is an in-memory implementation of RecipeRepository.
// The relations repository must be shared with the same mock instances used
// elsewhere for filter queries to see favorites and carts; pass nil if the
// filters are not exercised.
type MockRecipeRepository struct {
	recipes   map[uint]models.Recipe
	relations *MockRelationRepository
	nextID    uint
	mu        sync.RWMutex
}

// NewMockRecipeRepository creates a new instance of MockRecipeRepository.
func NewMockRecipeRepository(relations *MockRelationRepository) *MockRecipeRepository {
	return &MockRecipeRepository{
		recipes:   make(map[uint]models.Recipe),
		relations: relations,
		nextID:    1,
	}
}

// Create stores the recipe with its lines and tags.
func (r *MockRecipeRepository) Create(recipe *models.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if recipe.ID == 0 {
		recipe.ID = r.nextID
		r.nextID++
	} else if recipe.ID >= r.nextID {
		r.nextID = recipe.ID + 1
	}
	for i := range recipe.Ingredients {
		recipe.Ingredients[i].RecipeID = recipe.ID
	}
	r.recipes[recipe.ID] = *recipe
	return nil
}

// Update replaces the stored recipe wholesale.
func (r *MockRecipeRepository) Update(recipe *models.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.recipes[recipe.ID]; !ok {
		return apperrors.ErrNotFound
	}
	for i := range recipe.Ingredients {
		recipe.Ingredients[i].RecipeID = recipe.ID
	}
	r.recipes[recipe.ID] = *recipe
	return nil
}

// GetByID returns a stored recipe.
func (r *MockRecipeRepository) GetByID(id uint) (*models.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipe, ok := r.recipes[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &recipe, nil
}

// List filters and paginates stored recipes, newest first.
func (r *MockRecipeRepository) List(filter RecipeFilter) ([]models.Recipe, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Recipe
	for _, recipe := range r.recipes {
		if filter.AuthorID != 0 && recipe.AuthorID != filter.AuthorID {
			continue
		}
		if len(filter.TagSlugs) > 0 && !hasAnySlug(recipe.Tags, filter.TagSlugs) {
			continue
		}
		if filter.FavoritedBy != 0 && !r.inRelation(RelationFavorite, filter.FavoritedBy, recipe.ID) {
			continue
		}
		if filter.InCartOf != 0 && !r.inRelation(RelationShoppingCart, filter.InCartOf, recipe.ID) {
			continue
		}
		matched = append(matched, recipe)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].PubDate.Equal(matched[j].PubDate) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].PubDate.After(matched[j].PubDate)
	})

	total := int64(len(matched))
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filter.Limit
		if start > len(matched) {
			start = len(matched)
		}
		end := start + filter.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (r *MockRecipeRepository) inRelation(kind RelationKind, userID, recipeID uint) bool {
	if r.relations == nil {
		return false
	}
	ok, _ := r.relations.Exists(kind, userID, recipeID)
	return ok
}

func hasAnySlug(tags []models.Tag, slugs []string) bool {
	for _, t := range tags {
		for _, s := range slugs {
			if t.Slug == s {
				return true
			}
		}
	}
	return false
}

// Delete removes a stored recipe.
func (r *MockRecipeRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.recipes[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.recipes, id)
	return nil
}

// ByAuthor returns the author's newest recipes, capped by limit when > 0.
func (r *MockRecipeRepository) ByAuthor(authorID uint, limit int) ([]models.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var recipes []models.Recipe
	for _, recipe := range r.recipes {
		if recipe.AuthorID == authorID {
			recipes = append(recipes, recipe)
		}
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].PubDate.After(recipes[j].PubDate) })
	if limit > 0 && len(recipes) > limit {
		recipes = recipes[:limit]
	}
	return recipes, nil
}

// CountByAuthor returns the author's total recipe count.
func (r *MockRecipeRepository) CountByAuthor(authorID uint) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, recipe := range r.recipes {
		if recipe.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}
