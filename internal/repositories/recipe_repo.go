package repositories

import "github.com/EvgeniyKrainov/foodgram/internal/models"

// RecipeFilter narrows and paginates recipe listings. Zero values mean
// "no constraint".
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    uint
	FavoritedBy uint // user id whose favorites to match
	InCartOf    uint // user id whose shopping cart to match
	Page        int
	Limit       int
}

// RecipeRepository defines operations for recipe persistence. Create and
// Update persist the recipe together with its full ingredient line set and
// tag association; Update replaces both sets wholesale within one
// transaction.
type RecipeRepository interface {
	Create(recipe *models.Recipe) error
	Update(recipe *models.Recipe) error
	GetByID(id uint) (*models.Recipe, error)
	List(filter RecipeFilter) ([]models.Recipe, int64, error)
	Delete(id uint) error
	ByAuthor(authorID uint, limit int) ([]models.Recipe, error)
	CountByAuthor(authorID uint) (int64, error)
}
