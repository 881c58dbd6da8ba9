package repositories

import (
	"sort"
	"sync"

	"github.com/EvgeniyKrainov/foodgram/internal/apperrors"
	"github.com/EvgeniyKrainov/foodgram/internal/models"
)

type relationPair struct {
	kind     RelationKind
	userID   uint
	recipeID uint
}

// MockRelationRepository is an in-memory implementation of RelationRepository.
// Recipes must be attached after construction for AggregateCart to resolve
// ingredient lines.
type MockRelationRepository struct {
	pairs   map[relationPair]struct{}
	recipes *MockRecipeRepository
	mu      sync.RWMutex
}

// NewMockRelationRepository creates a new instance of MockRelationRepository.
func NewMockRelationRepository() *MockRelationRepository {
	return &MockRelationRepository{pairs: make(map[relationPair]struct{})}
}

// AttachRecipes wires the recipe source used by AggregateCart.
func (r *MockRelationRepository) AttachRecipes(recipes *MockRecipeRepository) {
	r.recipes = recipes
}

// Add inserts a membership pair.
func (r *MockRelationRepository) Add(kind RelationKind, userID, recipeID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := relationPair{kind, userID, recipeID}
	if _, ok := r.pairs[p]; ok {
		return apperrors.ErrDuplicateRelation
	}
	r.pairs[p] = struct{}{}
	return nil
}

// Remove deletes a membership pair.
func (r *MockRelationRepository) Remove(kind RelationKind, userID, recipeID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := relationPair{kind, userID, recipeID}
	if _, ok := r.pairs[p]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.pairs, p)
	return nil
}

// Exists reports membership.
func (r *MockRelationRepository) Exists(kind RelationKind, userID, recipeID uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.pairs[relationPair{kind, userID, recipeID}]
	return ok, nil
}

// RecipeIDs lists the user's recipe ids in the named set, ascending.
func (r *MockRelationRepository) RecipeIDs(kind RelationKind, userID uint) ([]uint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []uint
	for p := range r.pairs {
		if p.kind == kind && p.userID == userID {
			ids = append(ids, p.recipeID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// AggregateCart groups and sums cart ingredient amounts by ingredient id.
func (r *MockRelationRepository) AggregateCart(userID uint) ([]models.ShoppingItem, error) {
	ids, err := r.RecipeIDs(RelationShoppingCart, userID)
	if err != nil {
		return nil, err
	}

	type key struct{ ingredientID uint }
	totals := make(map[key]*models.ShoppingItem)
	for _, id := range ids {
		recipe, err := r.recipes.GetByID(id)
		if err != nil {
			continue
		}
		for _, line := range recipe.Ingredients {
			k := key{line.IngredientID}
			if item, ok := totals[k]; ok {
				item.Amount += line.Amount
			} else {
				totals[k] = &models.ShoppingItem{
					Name:            line.Ingredient.Name,
					MeasurementUnit: line.Ingredient.MeasurementUnit,
					Amount:          line.Amount,
				}
			}
		}
	}

	items := make([]models.ShoppingItem, 0, len(totals))
	for _, item := range totals {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name == items[j].Name {
			return items[i].MeasurementUnit < items[j].MeasurementUnit
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

type subscriptionPair struct {
	userID   uint
	authorID uint
}

// MockSubscriptionRepository is an in-memory implementation of
// SubscriptionRepository backed by a user repository for author lookups.
type MockSubscriptionRepository struct {
	pairs map[subscriptionPair]struct{}
	users *MockUserRepository
	mu    sync.RWMutex
}

// NewMockSubscriptionRepository creates a new instance of MockSubscriptionRepository.
func NewMockSubscriptionRepository(users *MockUserRepository) *MockSubscriptionRepository {
	return &MockSubscriptionRepository{
		pairs: make(map[subscriptionPair]struct{}),
		users: users,
	}
}

// Add inserts a (subscriber, author) pair.
func (r *MockSubscriptionRepository) Add(userID, authorID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := subscriptionPair{userID, authorID}
	if _, ok := r.pairs[p]; ok {
		return apperrors.ErrDuplicateRelation
	}
	r.pairs[p] = struct{}{}
	return nil
}

// Remove deletes a (subscriber, author) pair.
func (r *MockSubscriptionRepository) Remove(userID, authorID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := subscriptionPair{userID, authorID}
	if _, ok := r.pairs[p]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.pairs, p)
	return nil
}

// Exists reports whether the subscription is present.
func (r *MockSubscriptionRepository) Exists(userID, authorID uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.pairs[subscriptionPair{userID, authorID}]
	return ok, nil
}

// Authors returns the followed users ordered by username.
func (r *MockSubscriptionRepository) Authors(userID uint) ([]models.User, error) {
	r.mu.RLock()
	ids := make([]uint, 0)
	for p := range r.pairs {
		if p.userID == userID {
			ids = append(ids, p.authorID)
		}
	}
	r.mu.RUnlock()

	var authors []models.User
	for _, id := range ids {
		if author, err := r.users.GetByID(id); err == nil {
			authors = append(authors, *author)
		}
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i].Username < authors[j].Username })
	return authors, nil
}
