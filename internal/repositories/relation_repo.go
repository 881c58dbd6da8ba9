package repositories

import "github.com/EvgeniyKrainov/foodgram/internal/models"

// RelationKind names a (user, recipe) membership set. Favorites and
// shopping carts behave identically at the storage level, so one
// repository serves both, parameterized by kind.
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationShoppingCart RelationKind = "shopping_cart"
)

// RelationRepository manages (user, recipe) membership rows. Add returns
// apperrors.ErrDuplicateRelation when the pair already exists; Remove
// returns apperrors.ErrNotFound when it does not.
type RelationRepository interface {
	Add(kind RelationKind, userID, recipeID uint) error
	Remove(kind RelationKind, userID, recipeID uint) error
	Exists(kind RelationKind, userID, recipeID uint) (bool, error)
	RecipeIDs(kind RelationKind, userID uint) ([]uint, error)
	// AggregateCart sums ingredient amounts across every recipe in the
	// user's shopping cart, grouped by ingredient id, ordered by name.
	AggregateCart(userID uint) ([]models.ShoppingItem, error)
}

// SubscriptionRepository manages (subscriber, author) rows with the same
// duplicate/absent error contract as RelationRepository.
type SubscriptionRepository interface {
	Add(userID, authorID uint) error
	Remove(userID, authorID uint) error
	Exists(userID, authorID uint) (bool, error)
	Authors(userID uint) ([]models.User, error)
}
