package repositories

import "github.com/EvgeniyKrainov/foodgram/internal/models"

// CatalogRepository exposes the read-only ingredient and tag catalogs.
// Seed methods exist only for out-of-band loading at deployment time.
type CatalogRepository interface {
	Ingredients(namePrefix string) ([]models.Ingredient, error)
	IngredientByID(id uint) (*models.Ingredient, error)
	IngredientsByIDs(ids []uint) ([]models.Ingredient, error)
	Tags() ([]models.Tag, error)
	TagByID(id uint) (*models.Tag, error)
	TagsByIDs(ids []uint) ([]models.Tag, error)
	SeedIngredients(ingredients []models.Ingredient) error
	SeedTags(tags []models.Tag) error
}
