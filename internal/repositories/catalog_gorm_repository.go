package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/EvgeniyKrainov/foodgram/internal/apperrors"
	"github.com/EvgeniyKrainov/foodgram/internal/models"
)

// GORMCatalogRepository is a GORM implementation of CatalogRepository.
type GORMCatalogRepository struct {
	db *gorm.DB
}

// NewGORMCatalogRepository creates a new instance of GORMCatalogRepository.
func NewGORMCatalogRepository(db *gorm.DB) *GORMCatalogRepository {
	return &GORMCatalogRepository{db: db}
}

// Ingredients returns all ingredients, optionally filtered by a
// case-insensitive name prefix, ordered by name.
func (r *GORMCatalogRepository) Ingredients(namePrefix string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	q := r.db.Order("name")
	if namePrefix != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", namePrefix+"%")
	}
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// IngredientByID returns a single catalog ingredient.
func (r *GORMCatalogRepository) IngredientByID(id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient %d: %w", id, err)
	}
	return &ingredient, nil
}

// IngredientsByIDs returns the catalog rows for the given ids. Missing ids
// are simply absent from the result; the caller decides what that means.
func (r *GORMCatalogRepository) IngredientsByIDs(ids []uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingredients by ids: %w", err)
	}
	return ingredients, nil
}

// Tags returns the whole tag catalog ordered by name.
func (r *GORMCatalogRepository) Tags() ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// TagByID returns a single tag.
func (r *GORMCatalogRepository) TagByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tag %d: %w", id, err)
	}
	return &tag, nil
}

// TagsByIDs returns the tag rows for the given ids.
func (r *GORMCatalogRepository) TagsByIDs(ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get tags by ids: %w", err)
	}
	return tags, nil
}

// SeedIngredients bulk-inserts catalog ingredients.
func (r *GORMCatalogRepository) SeedIngredients(ingredients []models.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	if err := r.db.Create(&ingredients).Error; err != nil {
		return fmt.Errorf("failed to seed ingredients: %w", err)
	}
	return nil
}

// SeedTags bulk-inserts catalog tags.
func (r *GORMCatalogRepository) SeedTags(tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	if err := r.db.Create(&tags).Error; err != nil {
		return fmt.Errorf("failed to seed tags: %w", err)
	}
	return nil
}
